package car

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus       = errors.New("invalid car status")
	ErrInvalidRegistration = errors.New("registration number must be 2-20 characters")
	ErrInvalidBrand        = errors.New("brand is required")
	ErrInvalidModel        = errors.New("model is required")
	ErrInvalidYear         = errors.New("year out of range")
	ErrInvalidFuelType     = errors.New("invalid fuel type")
	ErrInvalidTransmission = errors.New("invalid transmission type")
	ErrInvalidSeats        = errors.New("seats must be between 1 and 100")
	ErrNegativeRate        = errors.New("rental price per day cannot be negative")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

const (
	minYear = 1950
	maxYear = 2100
)

type Car struct {
	id                 uuid.UUID
	registrationNumber string
	brand              string
	model              string
	year               int
	fuelType           FuelType
	transmission       Transmission
	status             Status
	rateCentsPerDay    int64
	numberOfSeats      int
	airConditioned     bool
	mileageKmpl        int
	rating             *int
	imageURL           *string
	createdAt          time.Time
	updatedAt          time.Time
}

type Spec struct {
	RegistrationNumber string
	Brand              string
	Model              string
	Year               int
	FuelType           FuelType
	Transmission       Transmission
	RateCentsPerDay    int64
	NumberOfSeats      int
	AirConditioned     bool
	MileageKmpl        int
	ImageURL           *string
}

func NewCar(spec Spec) (*Car, error) {
	reg := strings.ToUpper(strings.TrimSpace(spec.RegistrationNumber))
	if len(reg) < 2 || len(reg) > 20 {
		return nil, ErrInvalidRegistration
	}
	if strings.TrimSpace(spec.Brand) == "" {
		return nil, ErrInvalidBrand
	}
	if strings.TrimSpace(spec.Model) == "" {
		return nil, ErrInvalidModel
	}
	if spec.Year < minYear || spec.Year > maxYear {
		return nil, ErrInvalidYear
	}
	if !spec.FuelType.IsValid() {
		return nil, ErrInvalidFuelType
	}
	if !spec.Transmission.IsValid() {
		return nil, ErrInvalidTransmission
	}
	if spec.NumberOfSeats < 1 || spec.NumberOfSeats > 100 {
		return nil, ErrInvalidSeats
	}
	if spec.RateCentsPerDay < 0 {
		return nil, ErrNegativeRate
	}

	return &Car{
		id:                 uuid.New(),
		registrationNumber: reg,
		brand:              strings.TrimSpace(spec.Brand),
		model:              strings.TrimSpace(spec.Model),
		year:               spec.Year,
		fuelType:           spec.FuelType,
		transmission:       spec.Transmission,
		status:             StatusAvailable,
		rateCentsPerDay:    spec.RateCentsPerDay,
		numberOfSeats:      spec.NumberOfSeats,
		airConditioned:     spec.AirConditioned,
		mileageKmpl:        spec.MileageKmpl,
		imageURL:           spec.ImageURL,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	registrationNumber, brand, model string,
	year int,
	fuelType FuelType,
	transmission Transmission,
	status Status,
	rateCentsPerDay int64,
	numberOfSeats int,
	airConditioned bool,
	mileageKmpl int,
	rating *int,
	imageURL *string,
	createdAt, updatedAt time.Time,
) *Car {
	return &Car{
		id:                 id,
		registrationNumber: registrationNumber,
		brand:              brand,
		model:              model,
		year:               year,
		fuelType:           fuelType,
		transmission:       transmission,
		status:             status,
		rateCentsPerDay:    rateCentsPerDay,
		numberOfSeats:      numberOfSeats,
		airConditioned:     airConditioned,
		mileageKmpl:        mileageKmpl,
		rating:             rating,
		imageURL:           imageURL,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// SetStatus applies an operational override such as taking the car into
// maintenance.
func (c *Car) SetStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	c.status = status
	return nil
}

func (c *Car) ID() uuid.UUID              { return c.id }
func (c *Car) RegistrationNumber() string { return c.registrationNumber }
func (c *Car) Brand() string              { return c.brand }
func (c *Car) Model() string              { return c.model }
func (c *Car) Year() int                  { return c.year }
func (c *Car) FuelType() FuelType         { return c.fuelType }
func (c *Car) Transmission() Transmission { return c.transmission }
func (c *Car) Status() Status             { return c.status }
func (c *Car) RateCentsPerDay() int64     { return c.rateCentsPerDay }
func (c *Car) NumberOfSeats() int         { return c.numberOfSeats }
func (c *Car) AirConditioned() bool       { return c.airConditioned }
func (c *Car) MileageKmpl() int           { return c.mileageKmpl }
func (c *Car) Rating() *int               { return c.rating }
func (c *Car) ImageURL() *string          { return c.imageURL }
func (c *Car) CreatedAt() time.Time       { return c.createdAt }
func (c *Car) UpdatedAt() time.Time       { return c.updatedAt }
