package request

import (
	"time"

	"carhive/internal/usecase/commands"

	"github.com/google/uuid"
)

type GuestDetails struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
}

type CreateBookingRequest struct {
	CarID        uuid.UUID     `json:"car_id" binding:"required"`
	DriverID     *uuid.UUID    `json:"driver_id"`
	InsuranceID  *uuid.UUID    `json:"insurance_id"`
	DiscountCode *string       `json:"discount_code"`
	PickupDate   time.Time     `json:"pickup_date" binding:"required"`
	ReturnDate   time.Time     `json:"return_date" binding:"required"`
	Guest        *GuestDetails `json:"guest"`
}

// ToCommand maps the request onto the usecase command. The authenticated
// user, when present, always wins over any guest block in the body.
func (r CreateBookingRequest) ToCommand(userID *uuid.UUID) commands.CreateBookingCommand {
	cmd := commands.CreateBookingCommand{
		UserID:       userID,
		CarID:        r.CarID,
		DriverID:     r.DriverID,
		InsuranceID:  r.InsuranceID,
		DiscountCode: r.DiscountCode,
		PickupDate:   r.PickupDate,
		ReturnDate:   r.ReturnDate,
	}
	if userID == nil && r.Guest != nil {
		cmd.Guest = &commands.GuestDetails{
			FullName: r.Guest.FullName,
			Email:    r.Guest.Email,
			Phone:    r.Guest.Phone,
		}
	}
	return cmd
}

type ExtendBookingRequest struct {
	NewReturn time.Time `json:"new_return_date" binding:"required"`
}
