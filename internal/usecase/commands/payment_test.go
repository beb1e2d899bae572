//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"carhive/internal/domain/booking"
	"carhive/internal/domain/car"
	"carhive/internal/domain/driver"
	"carhive/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayInvoice(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*bookingFixture, commands.PaymentCommands, *commands.CreateBookingResult) {
		t.Helper()
		f := newBookingFixture(t)
		res, err := f.uc.CreateBooking(ctx, f.createCommand())
		require.NoError(t, err)
		return f, commands.NewPaymentUseCase(f.uow, f.clock), res
	}

	t.Run("settles the invoice and confirms the booking", func(t *testing.T) {
		f, payUC, res := setup(t)

		result, err := payUC.PayInvoice(ctx, res.Reference, "credit_card")
		require.NoError(t, err)

		assert.NotEmpty(t, result.TransactionID)
		assert.Equal(t, int64(15000), result.AmountCents)
		assert.Equal(t, "confirmed", result.BookingStatus)

		assert.Equal(t, booking.StatusConfirmed, f.uow.state.bookings[res.BookingID].Status())
		assert.True(t, f.uow.state.invoices[res.BookingID].IsPaid())
		assert.Equal(t, car.StatusBooked, f.uow.state.cars[f.car.ID()].Status())

		require.Len(t, f.uow.state.payments, 1)
		assert.Equal(t, int64(15000), f.uow.state.payments[0].AmountCents())

		assert.Equal(t, "payment_received", f.uow.state.jobs[len(f.uow.state.jobs)-1].topic)
	})

	t.Run("marks the assigned driver unavailable", func(t *testing.T) {
		f := newBookingFixture(t)

		d, err := driver.NewDriver(driver.Spec{
			FullName:      "Mark Stone",
			PhoneNumber:   "+1 555 0100",
			NationalID:    "1234567890",
			LicenseNumber: "DL-447",
			LicenseExpiry: f.now.Add(365 * 24 * time.Hour),
		}, f.now)
		require.NoError(t, err)
		f.uow.state.drivers[d.ID()] = d

		cmd := f.createCommand()
		cmd.DriverID = ptrOf(d.ID())
		res, err := f.uc.CreateBooking(ctx, cmd)
		require.NoError(t, err)

		payUC := commands.NewPaymentUseCase(f.uow, f.clock)
		_, err = payUC.PayInvoice(ctx, res.Reference, "cash")
		require.NoError(t, err)

		assert.Equal(t, driver.StatusUnavailable, f.uow.state.drivers[d.ID()].Status())
	})

	t.Run("accepts a normalized reference", func(t *testing.T) {
		_, payUC, res := setup(t)

		_, err := payUC.PayInvoice(ctx, "  rg"+res.Reference[2:]+" ", "debit_card")
		assert.NoError(t, err)
	})

	t.Run("paying twice", func(t *testing.T) {
		f, payUC, res := setup(t)

		_, err := payUC.PayInvoice(ctx, res.Reference, "credit_card")
		require.NoError(t, err)

		_, err = payUC.PayInvoice(ctx, res.Reference, "credit_card")
		assert.ErrorIs(t, err, commands.ErrInvoiceAlreadyPaid)
		assert.Len(t, f.uow.state.payments, 1, "no second payment row")
	})

	t.Run("unknown payment method", func(t *testing.T) {
		_, payUC, res := setup(t)

		_, err := payUC.PayInvoice(ctx, res.Reference, "barter")
		assert.ErrorIs(t, err, commands.ErrInvalidPaymentMethod)
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, payUC, _ := setup(t)

		_, err := payUC.PayInvoice(ctx, "RG202601010000000000", "cash")
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})

	t.Run("cancelled booking cannot be paid", func(t *testing.T) {
		f, payUC, res := setup(t)

		b := f.uow.state.bookings[res.BookingID]
		require.NoError(t, b.Cancel(f.now, 0))

		_, err := payUC.PayInvoice(ctx, res.Reference, "cash")
		assert.ErrorIs(t, err, commands.ErrInvalidBookingState)
		assert.False(t, f.uow.state.invoices[res.BookingID].IsPaid(), "aborted payment leaves the invoice open")
	})
}
