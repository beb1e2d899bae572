//go:build unit || e2e

package builder

import (
	"time"

	"carhive/internal/domain/booking"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	Renter     booking.Renter
	CarID      uuid.UUID
	DriverID   *uuid.UUID
	Insurance  *uuid.UUID
	Discount   *uuid.UUID
	Pickup     time.Time
	Return     time.Time
	RatePerDay int64
	Reference  string
	Now        time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		Renter:     booking.UserRenter(uuid.New()),
		CarID:      uuid.New(),
		Pickup:     now.Add(48 * time.Hour),
		Return:     now.Add(5 * 24 * time.Hour),
		RatePerDay: 5000,
		Reference:  booking.NewReference(now),
		Now:        now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) Period() booking.DatePeriod {
	period, err := booking.NewDatePeriod(b.Pickup, b.Return)
	if err != nil {
		panic(err)
	}
	return period
}

func (b *BookingBuilder) BuildQuote() booking.Quote {
	return booking.NewQuote(b.Period(), b.RatePerDay, nil, nil)
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.NewBooking(
		b.Renter, b.CarID, b.DriverID, b.Insurance, b.Discount,
		b.Period(), b.BuildQuote(), b.Reference, b.Now,
	)
}
