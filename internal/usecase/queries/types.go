package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type CarView struct {
	ID                 uuid.UUID `json:"id"`
	RegistrationNumber string    `json:"registration_number"`
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	Year               int       `json:"year"`
	FuelType           string    `json:"fuel_type"`
	Transmission       string    `json:"transmission"`
	Status             string    `json:"status"`
	RateCentsPerDay    int64     `json:"rate_cents_per_day"`
	NumberOfSeats      int       `json:"number_of_seats"`
	AirConditioned     bool      `json:"air_conditioned"`
	MileageKmpl        int       `json:"mileage_kmpl"`
	Rating             *int      `json:"rating,omitempty"`
	ImageURL           *string   `json:"image_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type BookingView struct {
	ID             uuid.UUID  `json:"id"`
	Reference      string     `json:"reference"`
	UserID         *uuid.UUID `json:"user_id,omitempty"`
	GuestID        *uuid.UUID `json:"guest_id,omitempty"`
	CarID          uuid.UUID  `json:"car_id"`
	CarBrand       string     `json:"car_brand"`
	CarModel       string     `json:"car_model"`
	DriverID       *uuid.UUID `json:"driver_id,omitempty"`
	InsuranceID    *uuid.UUID `json:"insurance_id,omitempty"`
	DiscountCodeID *uuid.UUID `json:"discount_code_id,omitempty"`
	PickupDate     time.Time  `json:"pickup_date"`
	ReturnDate     time.Time  `json:"return_date"`
	RentalDays     int        `json:"rental_days"`
	CarCents       int64      `json:"car_cents"`
	InsuranceCents int64      `json:"insurance_cents"`
	DriverCents    int64      `json:"driver_cents"`
	DiscountCents  int64      `json:"discount_cents"`
	TotalCents     int64      `json:"total_cents"`
	Status         string     `json:"status"`
	IsPaid         bool       `json:"is_paid"`
	BookedAt       time.Time  `json:"booked_at"`
}

type BookingListItem struct {
	ID         uuid.UUID `json:"id"`
	Reference  string    `json:"reference"`
	CarID      uuid.UUID `json:"car_id"`
	CarBrand   string    `json:"car_brand"`
	CarModel   string    `json:"car_model"`
	PickupDate time.Time `json:"pickup_date"`
	ReturnDate time.Time `json:"return_date"`
	TotalCents int64     `json:"total_cents"`
	Status     string    `json:"status"`
	BookedAt   time.Time `json:"booked_at"`
}

type ReviewView struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"user_name"`
	CarID     uuid.UUID `json:"car_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthorizedUserView carries the fields middleware needs for access decisions.
type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

// CredentialView is only used by the login flow; the password hash never
// leaves the usecase layer.
type CredentialView struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}
