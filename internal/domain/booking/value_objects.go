package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPeriod     = errors.New("return date must be after pickup date")
	ErrPickupInPast      = errors.New("pickup date cannot be in the past")
	ErrReturnNotExtended = errors.New("new return date must be after the current return date")
	ErrNegativePrice     = errors.New("price cannot be negative")
	ErrAmbiguousRenter   = errors.New("booking must have exactly one renter")
)

// DatePeriod is the half-open rental interval [pickup, return).
type DatePeriod struct {
	pickup time.Time
	ret    time.Time
}

func NewDatePeriod(pickup, ret time.Time) (DatePeriod, error) {
	if !ret.After(pickup) {
		return DatePeriod{}, ErrInvalidPeriod
	}
	return DatePeriod{pickup: pickup, ret: ret}, nil
}

func (p DatePeriod) Pickup() time.Time { return p.pickup }
func (p DatePeriod) Return() time.Time { return p.ret }

// Days counts whole rental days, with a one-day minimum so that
// sub-day rentals are still billed.
func (p DatePeriod) Days() int {
	days := int(p.ret.Sub(p.pickup) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}
	return days
}

// Overlaps uses the half-open interval test: two periods conflict when
// one starts before the other ends and ends after the other starts.
func (p DatePeriod) Overlaps(other DatePeriod) bool {
	return p.pickup.Before(other.ret) && p.ret.After(other.pickup)
}

func (p DatePeriod) ValidateNotPast(now time.Time) error {
	if p.pickup.Before(now) {
		return ErrPickupInPast
	}
	return nil
}

// ExtendTo returns the period with a later return date.
func (p DatePeriod) ExtendTo(newReturn time.Time) (DatePeriod, error) {
	if !newReturn.After(p.ret) {
		return DatePeriod{}, ErrReturnNotExtended
	}
	return DatePeriod{pickup: p.pickup, ret: newReturn}, nil
}

// Extension is the tail [current return, new return) added by ExtendTo,
// priced as its own period.
func (p DatePeriod) Extension(newReturn time.Time) (DatePeriod, error) {
	if !newReturn.After(p.ret) {
		return DatePeriod{}, ErrReturnNotExtended
	}
	return DatePeriod{pickup: p.ret, ret: newReturn}, nil
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 { return m.cents }

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Renter identifies who placed a booking: a registered user or an inline
// guest, never both and never neither.
type Renter struct {
	userID  *uuid.UUID
	guestID *uuid.UUID
}

func UserRenter(id uuid.UUID) Renter {
	return Renter{userID: &id}
}

func GuestRenter(id uuid.UUID) Renter {
	return Renter{guestID: &id}
}

func NewRenter(userID, guestID *uuid.UUID) (Renter, error) {
	if (userID == nil) == (guestID == nil) {
		return Renter{}, ErrAmbiguousRenter
	}
	if userID != nil {
		return UserRenter(*userID), nil
	}
	return GuestRenter(*guestID), nil
}

func (r Renter) UserID() *uuid.UUID  { return r.userID }
func (r Renter) GuestID() *uuid.UUID { return r.guestID }

func (r Renter) IsGuest() bool { return r.guestID != nil }

func (r Renter) IsUser(id uuid.UUID) bool {
	return r.userID != nil && *r.userID == id
}
