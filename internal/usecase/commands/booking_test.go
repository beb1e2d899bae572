//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"carhive/internal/domain/booking"
	"carhive/internal/domain/car"
	"carhive/internal/domain/discount"
	"carhive/internal/domain/driver"
	"carhive/internal/domain/insurance"
	"carhive/internal/domain/user"
	"carhive/internal/infra"
	"carhive/internal/pkg/clock"
	"carhive/internal/pkg/config"
	"carhive/internal/usecase/commands"
	"carhive/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	uow   *fakeUoW
	clock *clock.MockClock
	uc    commands.BookingCommands
	car   *car.Car
	now   time.Time
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uow := newFakeUoW()
	clk := clock.NewMockClock(now)

	c, err := builder.NewCarBuilder().BuildDomain()
	require.NoError(t, err)
	uow.state.cars[c.ID()] = c

	cfg := config.BookingConfig{CancellationCutoff: 24 * time.Hour}
	return &bookingFixture{
		uow:   uow,
		clock: clk,
		uc:    commands.NewBookingUseCase(uow, clk, cfg),
		car:   c,
		now:   now,
	}
}

func (f *bookingFixture) createCommand() commands.CreateBookingCommand {
	userID := uuid.New()
	return commands.CreateBookingCommand{
		UserID:     &userID,
		CarID:      f.car.ID(),
		PickupDate: f.now.Add(48 * time.Hour),
		ReturnDate: f.now.Add(48 * time.Hour).Add(3 * 24 * time.Hour),
	}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("creates booking, invoice and notification job", func(t *testing.T) {
		f := newBookingFixture(t)

		res, err := f.uc.CreateBooking(ctx, f.createCommand())
		require.NoError(t, err)

		assert.True(t, booking.IsValidReference(res.Reference))
		assert.Equal(t, 3, res.Quote.Days)
		assert.Equal(t, int64(15000), res.Quote.TotalCents)

		stored, ok := f.uow.state.bookings[res.BookingID]
		require.True(t, ok)
		assert.Equal(t, booking.StatusPending, stored.Status())

		inv, ok := f.uow.state.invoices[res.BookingID]
		require.True(t, ok)
		assert.Equal(t, int64(15000), inv.TotalCents())
		assert.False(t, inv.IsPaid())

		require.Len(t, f.uow.state.jobs, 1)
		assert.Equal(t, "booking_created", f.uow.state.jobs[0].topic)
	})

	t.Run("overlapping dates rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.uc.CreateBooking(ctx, f.createCommand())
		require.NoError(t, err)

		_, err = f.uc.CreateBooking(ctx, f.createCommand())
		assert.ErrorIs(t, err, commands.ErrCarUnavailable)
		assert.Len(t, f.uow.state.bookings, 1)
	})

	t.Run("back to back bookings allowed", func(t *testing.T) {
		f := newBookingFixture(t)

		first := f.createCommand()
		_, err := f.uc.CreateBooking(ctx, first)
		require.NoError(t, err)

		second := f.createCommand()
		second.PickupDate = first.ReturnDate
		second.ReturnDate = first.ReturnDate.Add(2 * 24 * time.Hour)
		_, err = f.uc.CreateBooking(ctx, second)
		assert.NoError(t, err)
	})

	t.Run("unknown car", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.createCommand()
		cmd.CarID = uuid.New()

		_, err := f.uc.CreateBooking(ctx, cmd)
		assert.ErrorIs(t, err, commands.ErrCarNotFound)
	})

	t.Run("car under maintenance", func(t *testing.T) {
		f := newBookingFixture(t)
		require.NoError(t, f.car.SetStatus(car.StatusUnderMaintenance))

		_, err := f.uc.CreateBooking(ctx, f.createCommand())
		assert.ErrorIs(t, err, commands.ErrCarOutOfService)
	})

	t.Run("pickup in the past", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.createCommand()
		cmd.PickupDate = f.now.Add(-time.Hour)

		_, err := f.uc.CreateBooking(ctx, cmd)
		assert.ErrorIs(t, err, commands.ErrInvalidDateRange)
	})

	t.Run("guest booking stores guest details", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.createCommand()
		cmd.UserID = nil
		cmd.Guest = &commands.GuestDetails{
			FullName: "Jane Walker",
			Email:    "jane@example.com",
			Phone:    "+1 555 0101",
		}

		res, err := f.uc.CreateBooking(ctx, cmd)
		require.NoError(t, err)

		assert.Len(t, f.uow.state.guests, 1)
		b := f.uow.state.bookings[res.BookingID]
		assert.True(t, b.Renter().IsGuest())
	})

	t.Run("neither user nor guest", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.createCommand()
		cmd.UserID = nil
		cmd.Guest = nil

		_, err := f.uc.CreateBooking(ctx, cmd)
		assert.ErrorIs(t, err, commands.ErrInvalidGuest)
	})

	t.Run("invalid guest email rolls back the guest row", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.createCommand()
		cmd.UserID = nil
		cmd.Guest = &commands.GuestDetails{FullName: "Jane Walker", Email: "not-an-email", Phone: "+1 555 0101"}

		_, err := f.uc.CreateBooking(ctx, cmd)
		assert.ErrorIs(t, err, commands.ErrInvalidGuest)
		assert.Empty(t, f.uow.state.guests)
	})

	t.Run("driver fee and insurance premium priced in", func(t *testing.T) {
		f := newBookingFixture(t)

		fee := int64(2000)
		d, err := driver.NewDriver(driver.Spec{
			FullName:       "Mark Stone",
			PhoneNumber:    "+1 555 0100",
			NationalID:     "1234567890",
			LicenseNumber:  "DL-445",
			LicenseExpiry:  f.now.Add(365 * 24 * time.Hour),
			FeeCentsPerDay: &fee,
		}, f.now)
		require.NoError(t, err)
		f.uow.state.drivers[d.ID()] = d

		ins, err := insurance.NewInsurance("Full Cover", 20, nil)
		require.NoError(t, err)
		f.uow.state.insurances[ins.ID()] = ins

		cmd := f.createCommand()
		cmd.DriverID = ptrOf(d.ID())
		cmd.InsuranceID = ptrOf(ins.ID())

		res, err := f.uc.CreateBooking(ctx, cmd)
		require.NoError(t, err)

		// 15000 car + 3000 insurance + 6000 driver
		assert.Equal(t, int64(24000), res.Quote.TotalCents)
	})

	t.Run("unavailable driver rejected", func(t *testing.T) {
		f := newBookingFixture(t)

		d, err := driver.NewDriver(driver.Spec{
			FullName:      "Mark Stone",
			PhoneNumber:   "+1 555 0100",
			NationalID:    "1234567890",
			LicenseNumber: "DL-446",
			LicenseExpiry: f.now.Add(365 * 24 * time.Hour),
		}, f.now)
		require.NoError(t, err)
		f.uow.state.drivers[d.ID()] = d
		require.NoError(t, fakeDriverRepo{f.uow}.UpdateStatus(ctx, d.ID(), driver.StatusUnavailable))

		cmd := f.createCommand()
		cmd.DriverID = ptrOf(d.ID())

		_, err = f.uc.CreateBooking(ctx, cmd)
		assert.ErrorIs(t, err, commands.ErrDriverUnavailable)
	})

	t.Run("retries on reference collision", func(t *testing.T) {
		f := newBookingFixture(t)
		f.uow.bookingCreateErrs = []error{
			repoErr(infra.KindDuplicateKey, "duplicate reference"),
			repoErr(infra.KindDuplicateKey, "duplicate reference"),
		}

		res, err := f.uc.CreateBooking(ctx, f.createCommand())
		require.NoError(t, err)
		assert.Len(t, f.uow.state.bookings, 1)
		assert.True(t, booking.IsValidReference(res.Reference))
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		f := newBookingFixture(t)
		f.uow.bookingCreateErrs = []error{
			repoErr(infra.KindDuplicateKey, "duplicate reference"),
			repoErr(infra.KindDuplicateKey, "duplicate reference"),
			repoErr(infra.KindDuplicateKey, "duplicate reference"),
		}

		_, err := f.uc.CreateBooking(ctx, f.createCommand())
		assert.ErrorIs(t, err, commands.ErrDatabaseOperationFailed)
		assert.Empty(t, f.uow.state.bookings)
	})
}

func TestCreateBookingDiscounts(t *testing.T) {
	ctx := context.Background()

	seedCode := func(f *bookingFixture, mutate func(*discount.Spec)) *discount.DiscountCode {
		pct := int32(10)
		spec := discount.Spec{
			Code:       "SPRING10",
			PercentOff: &pct,
			StartDate:  f.now.Add(-24 * time.Hour),
			EndDate:    f.now.Add(30 * 24 * time.Hour),
			UsageLimit: 5,
		}
		if mutate != nil {
			mutate(&spec)
		}
		d, err := discount.NewDiscountCode(spec)
		if err != nil {
			panic(err)
		}
		f.uow.state.discounts[d.ID()] = d
		return d
	}

	t.Run("percentage code reduces the total and counts a use", func(t *testing.T) {
		f := newBookingFixture(t)
		d := seedCode(f, nil)

		cmd := f.createCommand()
		cmd.DiscountCode = ptrOf("SPRING10")

		res, err := f.uc.CreateBooking(ctx, cmd)
		require.NoError(t, err)

		assert.Equal(t, int64(1500), res.Quote.DiscountCents)
		assert.Equal(t, int64(13500), res.Quote.TotalCents)
		assert.Equal(t, 1, f.uow.state.discounts[d.ID()].UsedCount())

		inv := f.uow.state.invoices[res.BookingID]
		assert.Equal(t, int64(1500), inv.DiscountCents())
		assert.Equal(t, int64(13500), inv.TotalCents())
	})

	t.Run("unknown code", func(t *testing.T) {
		f := newBookingFixture(t)

		cmd := f.createCommand()
		cmd.DiscountCode = ptrOf("NOSUCH")

		_, err := f.uc.CreateBooking(ctx, cmd)
		assert.ErrorIs(t, err, commands.ErrDiscountNotFound)
	})

	t.Run("expired code", func(t *testing.T) {
		f := newBookingFixture(t)
		seedCode(f, func(s *discount.Spec) {
			s.StartDate = f.now.Add(-48 * time.Hour)
			s.EndDate = f.now.Add(-24 * time.Hour)
		})

		cmd := f.createCommand()
		cmd.DiscountCode = ptrOf("SPRING10")

		_, err := f.uc.CreateBooking(ctx, cmd)
		assert.ErrorIs(t, err, commands.ErrInvalidDiscount)
	})

	t.Run("exhausted code", func(t *testing.T) {
		f := newBookingFixture(t)
		pct := int32(10)
		d := discount.Reconstruct(
			uuid.New(), "SPRING10", &pct, nil,
			f.now.Add(-24*time.Hour), f.now.Add(30*24*time.Hour),
			1, 1, true,
		)
		f.uow.state.discounts[d.ID()] = d

		cmd := f.createCommand()
		cmd.DiscountCode = ptrOf("SPRING10")

		_, err := f.uc.CreateBooking(ctx, cmd)
		assert.ErrorIs(t, err, commands.ErrInvalidDiscount)
		assert.Empty(t, f.uow.state.bookings, "failed discount aborts the booking")
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*bookingFixture, *commands.CreateBookingResult, uuid.UUID) {
		t.Helper()
		f := newBookingFixture(t)
		cmd := f.createCommand()
		res, err := f.uc.CreateBooking(ctx, cmd)
		require.NoError(t, err)
		return f, res, *cmd.UserID
	}

	t.Run("owner cancels outside the cutoff", func(t *testing.T) {
		f, res, ownerID := setup(t)

		err := f.uc.CancelBooking(ctx, res.Reference, commands.Actor{UserID: &ownerID, Role: user.RoleCustomer})
		require.NoError(t, err)

		assert.Equal(t, booking.StatusCancelled, f.uow.state.bookings[res.BookingID].Status())
		assert.Equal(t, car.StatusAvailable, f.uow.state.cars[f.car.ID()].Status())
		assert.Equal(t, "booking_cancelled", f.uow.state.jobs[len(f.uow.state.jobs)-1].topic)
	})

	t.Run("inside the cutoff", func(t *testing.T) {
		f, res, ownerID := setup(t)
		f.clock.Set(f.now.Add(25 * time.Hour)) // 23h before pickup

		err := f.uc.CancelBooking(ctx, res.Reference, commands.Actor{UserID: &ownerID, Role: user.RoleCustomer})
		assert.ErrorIs(t, err, commands.ErrCancellationWindowPassed)
		assert.Equal(t, booking.StatusPending, f.uow.state.bookings[res.BookingID].Status())
	})

	t.Run("admin bypasses the cutoff", func(t *testing.T) {
		f, res, _ := setup(t)
		f.clock.Set(f.now.Add(47 * time.Hour))

		adminID := uuid.New()
		err := f.uc.CancelBooking(ctx, res.Reference, commands.Actor{UserID: &adminID, Role: user.RoleAdmin})
		assert.NoError(t, err)
	})

	t.Run("someone else's booking", func(t *testing.T) {
		f, res, _ := setup(t)

		otherID := uuid.New()
		err := f.uc.CancelBooking(ctx, res.Reference, commands.Actor{UserID: &otherID, Role: user.RoleCustomer})
		assert.ErrorIs(t, err, commands.ErrNotBookingOwner)
	})

	t.Run("guest cancels with the reference", func(t *testing.T) {
		f := newBookingFixture(t)
		cmd := f.createCommand()
		cmd.UserID = nil
		cmd.Guest = &commands.GuestDetails{FullName: "Jane Walker", Email: "jane@example.com", Phone: "+1 555 0101"}
		res, err := f.uc.CreateBooking(ctx, cmd)
		require.NoError(t, err)

		err = f.uc.CancelBooking(ctx, "  "+res.Reference+" ", commands.Actor{Role: user.RoleCustomer})
		assert.NoError(t, err)
	})

	t.Run("cancelling twice", func(t *testing.T) {
		f, res, ownerID := setup(t)
		actor := commands.Actor{UserID: &ownerID, Role: user.RoleCustomer}

		require.NoError(t, f.uc.CancelBooking(ctx, res.Reference, actor))
		err := f.uc.CancelBooking(ctx, res.Reference, actor)
		assert.ErrorIs(t, err, commands.ErrBookingAlreadyCancelled)
	})

	t.Run("unknown reference", func(t *testing.T) {
		f, _, ownerID := setup(t)

		err := f.uc.CancelBooking(ctx, "RG202601010000000000", commands.Actor{UserID: &ownerID, Role: user.RoleCustomer})
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

func TestExtendBooking(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*bookingFixture, *commands.CreateBookingResult, commands.Actor) {
		t.Helper()
		f := newBookingFixture(t)
		cmd := f.createCommand()
		res, err := f.uc.CreateBooking(ctx, cmd)
		require.NoError(t, err)
		return f, res, commands.Actor{UserID: cmd.UserID, Role: user.RoleCustomer}
	}

	t.Run("extends the period and raises the invoice", func(t *testing.T) {
		f, res, actor := setup(t)
		b := f.uow.state.bookings[res.BookingID]
		newReturn := b.Period().Return().Add(2 * 24 * time.Hour)

		quote, err := f.uc.ExtendBooking(ctx, commands.ExtendBookingCommand{
			Reference: res.Reference,
			NewReturn: newReturn,
		}, actor)
		require.NoError(t, err)

		assert.Equal(t, 5, quote.Days)
		assert.Equal(t, int64(25000), quote.TotalCents)
		assert.Equal(t, newReturn, f.uow.state.bookings[res.BookingID].Period().Return())
		assert.Equal(t, int64(25000), f.uow.state.invoices[res.BookingID].TotalCents())
	})

	t.Run("extension window already taken", func(t *testing.T) {
		f, res, actor := setup(t)
		b := f.uow.state.bookings[res.BookingID]

		blocker := f.createCommand()
		blocker.PickupDate = b.Period().Return()
		blocker.ReturnDate = b.Period().Return().Add(2 * 24 * time.Hour)
		_, err := f.uc.CreateBooking(ctx, blocker)
		require.NoError(t, err)

		_, err = f.uc.ExtendBooking(ctx, commands.ExtendBookingCommand{
			Reference: res.Reference,
			NewReturn: b.Period().Return().Add(24 * time.Hour),
		}, actor)
		assert.ErrorIs(t, err, commands.ErrCarUnavailable)
	})

	t.Run("rejected after settlement", func(t *testing.T) {
		f, res, actor := setup(t)
		payUC := commands.NewPaymentUseCase(f.uow, f.clock)
		_, err := payUC.PayInvoice(ctx, res.Reference, "credit_card")
		require.NoError(t, err)

		b := f.uow.state.bookings[res.BookingID]
		before := b.Period().Return()
		_, err = f.uc.ExtendBooking(ctx, commands.ExtendBookingCommand{
			Reference: res.Reference,
			NewReturn: before.Add(24 * time.Hour),
		}, actor)
		assert.ErrorIs(t, err, commands.ErrInvoiceAlreadyPaid)
		assert.Equal(t, before, f.uow.state.bookings[res.BookingID].Period().Return(), "aborted extension leaves the period unchanged")
	})

	t.Run("earlier return rejected", func(t *testing.T) {
		f, res, actor := setup(t)
		b := f.uow.state.bookings[res.BookingID]

		_, err := f.uc.ExtendBooking(ctx, commands.ExtendBookingCommand{
			Reference: res.Reference,
			NewReturn: b.Period().Return().Add(-24 * time.Hour),
		}, actor)
		assert.ErrorIs(t, err, commands.ErrInvalidDateRange)
	})

	t.Run("cancelled booking rejected", func(t *testing.T) {
		f, res, actor := setup(t)
		require.NoError(t, f.uc.CancelBooking(ctx, res.Reference, actor))

		_, err := f.uc.ExtendBooking(ctx, commands.ExtendBookingCommand{
			Reference: res.Reference,
			NewReturn: f.now.Add(30 * 24 * time.Hour),
		}, actor)
		assert.ErrorIs(t, err, commands.ErrInvalidBookingState)
	})
}

func TestCompleteBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed booking completes and releases the car", func(t *testing.T) {
		f := newBookingFixture(t)
		res, err := f.uc.CreateBooking(ctx, f.createCommand())
		require.NoError(t, err)

		payUC := commands.NewPaymentUseCase(f.uow, f.clock)
		_, err = payUC.PayInvoice(ctx, res.Reference, "credit_card")
		require.NoError(t, err)
		require.Equal(t, car.StatusBooked, f.uow.state.cars[f.car.ID()].Status())

		require.NoError(t, f.uc.CompleteBooking(ctx, res.BookingID))
		assert.Equal(t, booking.StatusCompleted, f.uow.state.bookings[res.BookingID].Status())
		assert.Equal(t, car.StatusAvailable, f.uow.state.cars[f.car.ID()].Status())
	})

	t.Run("pending booking cannot complete", func(t *testing.T) {
		f := newBookingFixture(t)
		res, err := f.uc.CreateBooking(ctx, f.createCommand())
		require.NoError(t, err)

		err = f.uc.CompleteBooking(ctx, res.BookingID)
		assert.ErrorIs(t, err, commands.ErrInvalidBookingState)
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newBookingFixture(t)
		err := f.uc.CompleteBooking(ctx, uuid.New())
		assert.ErrorIs(t, err, commands.ErrBookingNotFound)
	})
}

// Two requests for the same car and dates race; the unit of work serializes
// them and the second one must see the first one's booking.
func TestCreateBookingConcurrent(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	const attempts = 8
	errCh := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateBooking(ctx, f.createCommand())
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var wins, losses int
	for err := range errCh {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, commands.ErrCarUnavailable):
			losses++
		}
	}

	assert.Equal(t, 1, wins, "exactly one request wins the car")
	assert.Equal(t, attempts-1, losses)
	assert.Len(t, f.uow.state.bookings, 1)
	assert.Len(t, f.uow.state.invoices, 1)
}

func ptrOf[T any](v T) *T {
	return &v
}
