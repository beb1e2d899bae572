package driver

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus     = errors.New("invalid driver status")
	ErrInvalidName       = errors.New("full name must be at least 3 characters")
	ErrInvalidLicense    = errors.New("license number is required")
	ErrLicenseExpired    = errors.New("driver license has expired")
	ErrNegativeFee       = errors.New("fee per day cannot be negative")
	ErrInvalidNationalID = errors.New("national id must be 10-12 characters")
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return s == StatusAvailable || s == StatusUnavailable
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

type Driver struct {
	id             uuid.UUID
	fullName       string
	phoneNumber    string
	nationalID     string
	licenseNumber  string
	licenseExpiry  time.Time
	status         Status
	feeCentsPerDay *int64
	photoURL       *string
	createdAt      time.Time
	updatedAt      time.Time
}

type Spec struct {
	FullName       string
	PhoneNumber    string
	NationalID     string
	LicenseNumber  string
	LicenseExpiry  time.Time
	FeeCentsPerDay *int64
	PhotoURL       *string
}

func NewDriver(spec Spec, now time.Time) (*Driver, error) {
	name := strings.TrimSpace(spec.FullName)
	if len(name) < 3 {
		return nil, ErrInvalidName
	}
	if strings.TrimSpace(spec.LicenseNumber) == "" {
		return nil, ErrInvalidLicense
	}
	if nid := strings.TrimSpace(spec.NationalID); len(nid) < 10 || len(nid) > 12 {
		return nil, ErrInvalidNationalID
	}
	if spec.LicenseExpiry.Before(now) {
		return nil, ErrLicenseExpired
	}
	if spec.FeeCentsPerDay != nil && *spec.FeeCentsPerDay < 0 {
		return nil, ErrNegativeFee
	}

	return &Driver{
		id:             uuid.New(),
		fullName:       name,
		phoneNumber:    strings.TrimSpace(spec.PhoneNumber),
		nationalID:     strings.TrimSpace(spec.NationalID),
		licenseNumber:  strings.TrimSpace(spec.LicenseNumber),
		licenseExpiry:  spec.LicenseExpiry,
		status:         StatusAvailable,
		feeCentsPerDay: spec.FeeCentsPerDay,
		photoURL:       spec.PhotoURL,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	fullName, phoneNumber, nationalID, licenseNumber string,
	licenseExpiry time.Time,
	status Status,
	feeCentsPerDay *int64,
	photoURL *string,
	createdAt, updatedAt time.Time,
) *Driver {
	return &Driver{
		id:             id,
		fullName:       fullName,
		phoneNumber:    phoneNumber,
		nationalID:     nationalID,
		licenseNumber:  licenseNumber,
		licenseExpiry:  licenseExpiry,
		status:         status,
		feeCentsPerDay: feeCentsPerDay,
		photoURL:       photoURL,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (d *Driver) ID() uuid.UUID            { return d.id }
func (d *Driver) FullName() string         { return d.fullName }
func (d *Driver) PhoneNumber() string      { return d.phoneNumber }
func (d *Driver) NationalID() string       { return d.nationalID }
func (d *Driver) LicenseNumber() string    { return d.licenseNumber }
func (d *Driver) LicenseExpiry() time.Time { return d.licenseExpiry }
func (d *Driver) Status() Status           { return d.status }
func (d *Driver) FeeCentsPerDay() *int64   { return d.feeCentsPerDay }
func (d *Driver) PhotoURL() *string        { return d.photoURL }
func (d *Driver) CreatedAt() time.Time     { return d.createdAt }
func (d *Driver) UpdatedAt() time.Time     { return d.updatedAt }
