package request

import (
	"time"

	"carhive/internal/domain/car"
	"carhive/internal/domain/discount"
	"carhive/internal/domain/driver"
	"carhive/internal/usecase/commands"
)

type CarRequest struct {
	RegistrationNumber string `json:"registration_number" binding:"required"`
	Brand              string `json:"brand" binding:"required"`
	Model              string `json:"model" binding:"required"`
	Year               int    `json:"year" binding:"required"`
	FuelType           string `json:"fuel_type" binding:"required,oneof=petrol diesel hybrid electric"`
	Transmission       string `json:"transmission" binding:"required,oneof=manual automatic"`
	RateCentsPerDay    int64  `json:"rate_cents_per_day" binding:"required,min=0"`
	NumberOfSeats      int    `json:"number_of_seats" binding:"required,min=1,max=100"`
	AirConditioned     bool   `json:"air_conditioned"`
	MileageKmpl        int    `json:"mileage_kmpl"`
}

func (r CarRequest) ToSpec() car.Spec {
	return car.Spec{
		RegistrationNumber: r.RegistrationNumber,
		Brand:              r.Brand,
		Model:              r.Model,
		Year:               r.Year,
		FuelType:           car.FuelType(r.FuelType),
		Transmission:       car.Transmission(r.Transmission),
		RateCentsPerDay:    r.RateCentsPerDay,
		NumberOfSeats:      r.NumberOfSeats,
		AirConditioned:     r.AirConditioned,
		MileageKmpl:        r.MileageKmpl,
	}
}

type UpdateCarRequest struct {
	CarRequest
	Status string `json:"status" binding:"required,oneof=available booked under_maintenance not_available"`
}

func (r UpdateCarRequest) ToCommand() commands.UpdateCarCommand {
	return commands.UpdateCarCommand{
		Spec:   r.ToSpec(),
		Status: r.Status,
	}
}

type DriverRequest struct {
	FullName       string    `json:"full_name" binding:"required"`
	PhoneNumber    string    `json:"phone_number" binding:"required"`
	NationalID     string    `json:"national_id" binding:"required"`
	LicenseNumber  string    `json:"license_number" binding:"required"`
	LicenseExpiry  time.Time `json:"license_expiry" binding:"required"`
	FeeCentsPerDay *int64    `json:"fee_cents_per_day"`
	PhotoURL       *string   `json:"photo_url"`
}

func (r DriverRequest) ToSpec() driver.Spec {
	return driver.Spec{
		FullName:       r.FullName,
		PhoneNumber:    r.PhoneNumber,
		NationalID:     r.NationalID,
		LicenseNumber:  r.LicenseNumber,
		LicenseExpiry:  r.LicenseExpiry,
		FeeCentsPerDay: r.FeeCentsPerDay,
		PhotoURL:       r.PhotoURL,
	}
}

type DriverStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=available unavailable"`
}

type InsuranceRequest struct {
	Name            string  `json:"name" binding:"required"`
	CoveragePercent int32   `json:"coverage_percent" binding:"required,min=1,max=100"`
	Description     *string `json:"description"`
}

func (r InsuranceRequest) ToCommand() commands.InsuranceCommand {
	return commands.InsuranceCommand{
		Name:            r.Name,
		CoveragePercent: r.CoveragePercent,
		Description:     r.Description,
	}
}

type DiscountCodeRequest struct {
	Code        string    `json:"code" binding:"required"`
	PercentOff  *int32    `json:"percent_off"`
	AmountCents *int64    `json:"amount_cents"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	UsageLimit  int       `json:"usage_limit" binding:"required,min=1"`
}

func (r DiscountCodeRequest) ToSpec() discount.Spec {
	return discount.Spec{
		Code:        r.Code,
		PercentOff:  r.PercentOff,
		AmountCents: r.AmountCents,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		UsageLimit:  r.UsageLimit,
	}
}
