package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyReference        = errors.New("booking reference is required")
	ErrBookingCancelled      = errors.New("booking is already cancelled")
	ErrCancellationCutoff    = errors.New("cancellation window has passed")
	ErrNotActiveForExtension = errors.New("only pending or confirmed bookings can be extended")
)

// Booking is the aggregate root of a rental transaction. Invoice and payment
// records hang off it; car and driver status are mutated only through its
// lifecycle transitions.
type Booking struct {
	id             uuid.UUID
	reference      string
	renter         Renter
	carID          uuid.UUID
	driverID       *uuid.UUID
	insuranceID    *uuid.UUID
	discountCodeID *uuid.UUID
	period         DatePeriod
	quote          Quote
	status         Status
	bookedAt       time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

func NewBooking(
	renter Renter,
	carID uuid.UUID,
	driverID, insuranceID, discountCodeID *uuid.UUID,
	period DatePeriod,
	quote Quote,
	reference string,
	now time.Time,
) (*Booking, error) {
	if reference == "" {
		return nil, ErrEmptyReference
	}
	if quote.TotalCents < 0 {
		return nil, ErrNegativePrice
	}

	return &Booking{
		id:             uuid.New(),
		reference:      reference,
		renter:         renter,
		carID:          carID,
		driverID:       driverID,
		insuranceID:    insuranceID,
		discountCodeID: discountCodeID,
		period:         period,
		quote:          quote,
		status:         StatusPending,
		bookedAt:       now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	reference string,
	renter Renter,
	carID uuid.UUID,
	driverID, insuranceID, discountCodeID *uuid.UUID,
	period DatePeriod,
	quote Quote,
	status Status,
	bookedAt, createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:             id,
		reference:      reference,
		renter:         renter,
		carID:          carID,
		driverID:       driverID,
		insuranceID:    insuranceID,
		discountCodeID: discountCodeID,
		period:         period,
		quote:          quote,
		status:         status,
		bookedAt:       bookedAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Confirm moves the booking to confirmed after payment.
func (b *Booking) Confirm() error {
	return b.transition(StatusConfirmed)
}

// Complete closes out a confirmed booking after the car is returned.
func (b *Booking) Complete() error {
	return b.transition(StatusCompleted)
}

// Cancel releases the booking. The cutoff is the minimum lead before pickup
// that still allows cancellation; admins pass zero to bypass it.
func (b *Booking) Cancel(now time.Time, cutoff time.Duration) error {
	if b.status == StatusCancelled {
		return ErrBookingCancelled
	}
	if !b.status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	if cutoff > 0 && !now.Add(cutoff).Before(b.period.Pickup()) {
		return ErrCancellationCutoff
	}
	b.status = StatusCancelled
	return nil
}

// Extend moves the return date later and adds the extension quote to the
// running totals. Availability of the extension window is the caller's
// responsibility.
func (b *Booking) Extend(newReturn time.Time, additional Quote) error {
	if b.status != StatusPending && b.status != StatusConfirmed {
		return ErrNotActiveForExtension
	}
	extended, err := b.period.ExtendTo(newReturn)
	if err != nil {
		return err
	}
	b.period = extended
	b.quote = Quote{
		Days:           b.quote.Days + additional.Days,
		CarCents:       b.quote.CarCents + additional.CarCents,
		InsuranceCents: b.quote.InsuranceCents + additional.InsuranceCents,
		DriverCents:    b.quote.DriverCents + additional.DriverCents,
		DiscountCents:  b.quote.DiscountCents,
		TotalCents:     b.quote.TotalCents + additional.TotalCents,
	}
	return nil
}

func (b *Booking) transition(next Status) error {
	if !b.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	b.status = next
	return nil
}

// AuthorizedFor reports whether the actor may modify this booking: the
// owning registered user, or anyone presenting the reference for a guest
// booking.
func (b *Booking) AuthorizedFor(userID *uuid.UUID, reference string) bool {
	if userID != nil && b.renter.IsUser(*userID) {
		return true
	}
	if b.renter.IsGuest() {
		return NormalizeReference(reference) == b.reference
	}
	return false
}

func (b *Booking) ID() uuid.UUID              { return b.id }
func (b *Booking) Reference() string          { return b.reference }
func (b *Booking) Renter() Renter             { return b.renter }
func (b *Booking) CarID() uuid.UUID           { return b.carID }
func (b *Booking) DriverID() *uuid.UUID       { return b.driverID }
func (b *Booking) InsuranceID() *uuid.UUID    { return b.insuranceID }
func (b *Booking) DiscountCodeID() *uuid.UUID { return b.discountCodeID }
func (b *Booking) Period() DatePeriod         { return b.period }
func (b *Booking) Quote() Quote               { return b.quote }
func (b *Booking) TotalPrice() Money          { return b.quote.Total() }
func (b *Booking) Status() Status             { return b.status }
func (b *Booking) BookedAt() time.Time        { return b.bookedAt }
func (b *Booking) CreatedAt() time.Time       { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time       { return b.updatedAt }
