package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"carhive/internal/domain/booking"
	"carhive/internal/domain/car"
	"carhive/internal/domain/driver"
	"carhive/internal/domain/guest"
	"carhive/internal/domain/invoice"
	"carhive/internal/infra"
	"carhive/internal/pkg/clock"
	"carhive/internal/pkg/config"
	"carhive/internal/pkg/errs"
	"carhive/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCarNotFound              = errs.New("car not found")
	ErrCarOutOfService          = errs.New("car is out of service")
	ErrCarUnavailable           = errs.New("car is not available for the requested dates")
	ErrDriverNotFound           = errs.New("driver not found")
	ErrDriverUnavailable        = errs.New("driver is not available")
	ErrInsuranceNotFound        = errs.New("insurance not found")
	ErrDiscountNotFound         = errs.New("discount code not found")
	ErrInvalidDiscount          = errs.New("discount code cannot be used")
	ErrBookingNotFound          = errs.New("booking not found")
	ErrInvalidDateRange         = errs.New("invalid date range")
	ErrInvalidGuest             = errs.New("invalid guest details")
	ErrNotBookingOwner          = errs.New("booking does not belong to the actor")
	ErrBookingAlreadyCancelled  = errs.New("booking is already cancelled")
	ErrInvalidBookingState      = errs.New("booking state does not allow this operation")
	ErrCancellationWindowPassed = errs.New("cancellation window has passed")
	ErrDatabaseOperationFailed  = errs.New("database operation failed")

	errReferenceCollision = errs.New("booking reference collision")
)

type GuestDetails struct {
	FullName string
	Email    string
	Phone    string
}

type CreateBookingCommand struct {
	UserID       *uuid.UUID
	Guest        *GuestDetails
	CarID        uuid.UUID
	DriverID     *uuid.UUID
	InsuranceID  *uuid.UUID
	DiscountCode *string
	PickupDate   time.Time
	ReturnDate   time.Time
}

type CreateBookingResult struct {
	BookingID uuid.UUID
	Reference string
	Quote     booking.Quote
}

type ExtendBookingCommand struct {
	Reference string
	NewReturn time.Time
}

// Cancel and extend address bookings by reference: it doubles as the guest's
// credential, so guests never need to know their booking's internal ID.
type BookingCommands interface {
	CreateBooking(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error)
	CancelBooking(ctx context.Context, reference string, actor Actor) error
	ExtendBooking(ctx context.Context, cmd ExtendBookingCommand, actor Actor) (*booking.Quote, error)
	CompleteBooking(ctx context.Context, bookingID uuid.UUID) error
}

type bookingUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	cfg   config.BookingConfig
}

func NewBookingUseCase(uow shared.UnitOfWork, clk clock.Clock, cfg config.BookingConfig) BookingCommands {
	return &bookingUseCaseImpl{uow: uow, clock: clk, cfg: cfg}
}

// CreateBooking runs the availability check and insert in one transaction.
// The car row is locked first, so two concurrent requests for the same car
// serialize and exactly one of an overlapping pair wins.
func (uc *bookingUseCaseImpl) CreateBooking(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	now := uc.clock.Now()

	period, err := booking.NewDatePeriod(cmd.PickupDate, cmd.ReturnDate)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}
	if err := period.ValidateNotPast(now); err != nil {
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}

	// Reference collisions abort the whole transaction; retry with a fresh
	// code a few times before giving up.
	const maxReferenceRetries = 3
	var result *CreateBookingResult
	for attempt := 0; attempt < maxReferenceRetries; attempt++ {
		reference := booking.NewReference(now)

		err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			res, txErr := uc.createBookingTx(ctx, tx, cmd, period, reference, now)
			if txErr != nil {
				return txErr
			}
			result = res
			return nil
		})
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, errReferenceCollision) {
			return nil, err
		}
	}
	return nil, errs.Mark(err, ErrDatabaseOperationFailed)
}

func (uc *bookingUseCaseImpl) createBookingTx(
	ctx context.Context,
	tx shared.Tx,
	cmd CreateBookingCommand,
	period booking.DatePeriod,
	reference string,
	now time.Time,
) (*CreateBookingResult, error) {
	carEntity, err := tx.Cars().LockByID(ctx, cmd.CarID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if carEntity.Status().OutOfService() {
		return nil, ErrCarOutOfService
	}

	overlaps, err := tx.Bookings().HasOverlap(ctx, cmd.CarID, period.Pickup(), period.Return(), nil)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if overlaps {
		return nil, ErrCarUnavailable
	}

	driverEntity, err := uc.resolveDriver(ctx, tx, cmd.DriverID)
	if err != nil {
		return nil, err
	}
	insurancePercent, err := uc.resolveInsurancePercent(ctx, tx, cmd.InsuranceID)
	if err != nil {
		return nil, err
	}

	var driverFee *int64
	if driverEntity != nil {
		driverFee = driverEntity.FeeCentsPerDay()
	}
	quote := booking.NewQuote(period, carEntity.RateCentsPerDay(), insurancePercent, driverFee)

	var discountCodeID *uuid.UUID
	if cmd.DiscountCode != nil {
		discounted, id, derr := uc.applyDiscount(ctx, tx, *cmd.DiscountCode, quote, now)
		if derr != nil {
			return nil, derr
		}
		quote = discounted
		discountCodeID = id
	}

	renter, err := uc.resolveRenter(ctx, tx, cmd)
	if err != nil {
		return nil, err
	}

	bookingEntity, err := booking.NewBooking(
		renter, cmd.CarID, cmd.DriverID, cmd.InsuranceID, discountCodeID,
		period, quote, reference, now,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidDateRange)
	}

	if err := tx.Bookings().Create(ctx, bookingEntity); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, errReferenceCollision)
		}
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return nil, ErrCarNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	invoiceEntity, err := invoice.NewInvoice(
		bookingEntity.ID(), quote.SubtotalCents(), quote.DiscountCents, 0, now,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Invoices().Create(ctx, invoiceEntity); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := uc.notify(ctx, tx, "booking_created", bookingEntity.ID(), reference, now); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &CreateBookingResult{
		BookingID: bookingEntity.ID(),
		Reference: reference,
		Quote:     quote,
	}, nil
}

func (uc *bookingUseCaseImpl) CancelBooking(ctx context.Context, reference string, actor Actor) error {
	now := uc.clock.Now()
	normalized := booking.NormalizeReference(reference)

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByReferenceForUpdate(ctx, normalized)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !actor.IsAdmin() && !b.AuthorizedFor(actor.UserID, normalized) {
			return ErrNotBookingOwner
		}

		cutoff := uc.cfg.CancellationCutoff
		if actor.IsAdmin() {
			cutoff = 0
		}
		if err := b.Cancel(now, cutoff); err != nil {
			switch {
			case errors.Is(err, booking.ErrBookingCancelled):
				return ErrBookingAlreadyCancelled
			case errors.Is(err, booking.ErrCancellationCutoff):
				return ErrCancellationWindowPassed
			default:
				return errs.Mark(err, ErrInvalidBookingState)
			}
		}

		if err := tx.Bookings().UpdateStatus(ctx, b.ID(), b.Status()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := uc.releaseResources(ctx, tx, b); err != nil {
			return err
		}
		return uc.notify(ctx, tx, "booking_cancelled", b.ID(), b.Reference(), now)
	})
}

func (uc *bookingUseCaseImpl) ExtendBooking(ctx context.Context, cmd ExtendBookingCommand, actor Actor) (*booking.Quote, error) {
	var quote booking.Quote
	normalized := booking.NormalizeReference(cmd.Reference)

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByReferenceForUpdate(ctx, normalized)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if !actor.IsAdmin() && !b.AuthorizedFor(actor.UserID, normalized) {
			return ErrNotBookingOwner
		}

		tail, err := b.Period().Extension(cmd.NewReturn)
		if err != nil {
			return errs.Mark(err, ErrInvalidDateRange)
		}

		carEntity, err := tx.Cars().LockByID(ctx, b.CarID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		overlaps, err := tx.Bookings().HasOverlap(ctx, b.CarID(), tail.Pickup(), tail.Return(), ptrOf(b.ID()))
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlaps {
			return ErrCarUnavailable
		}

		driverEntity, err := uc.resolveDriver(ctx, tx, b.DriverID())
		if err != nil && !errors.Is(err, ErrDriverUnavailable) {
			return err
		}
		insurancePercent, err := uc.resolveInsurancePercent(ctx, tx, b.InsuranceID())
		if err != nil {
			return err
		}

		var driverFee *int64
		if driverEntity != nil {
			driverFee = driverEntity.FeeCentsPerDay()
		}
		additional := booking.NewQuote(tail, carEntity.RateCentsPerDay(), insurancePercent, driverFee)

		if err := b.Extend(cmd.NewReturn, additional); err != nil {
			if errors.Is(err, booking.ErrNotActiveForExtension) {
				return ErrInvalidBookingState
			}
			return errs.Mark(err, ErrInvalidDateRange)
		}

		if err := tx.Bookings().UpdatePeriodAndQuote(ctx, b); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		inv, err := tx.Invoices().FindByBookingIDForUpdate(ctx, b.ID())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := inv.AddCharge(additional.TotalCents); err != nil {
			return errs.Mark(err, ErrInvoiceAlreadyPaid)
		}
		if err := tx.Invoices().UpdateTotals(ctx, inv); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrInvoiceAlreadyPaid
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		quote = b.Quote()
		return uc.notify(ctx, tx, "booking_extended", b.ID(), b.Reference(), uc.clock.Now())
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (uc *bookingUseCaseImpl) CompleteBooking(ctx context.Context, bookingID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := b.Complete(); err != nil {
			return errs.Mark(err, ErrInvalidBookingState)
		}

		if err := tx.Bookings().UpdateStatus(ctx, b.ID(), b.Status()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := uc.releaseResources(ctx, tx, b); err != nil {
			return err
		}
		return uc.notify(ctx, tx, "booking_completed", b.ID(), b.Reference(), uc.clock.Now())
	})
}

// releaseResources returns the car and the assigned driver to the fleet.
func (uc *bookingUseCaseImpl) releaseResources(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	if err := tx.Cars().UpdateStatus(ctx, b.CarID(), car.StatusAvailable); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if b.DriverID() != nil {
		if err := tx.Drivers().UpdateStatus(ctx, *b.DriverID(), driver.StatusAvailable); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}
	return nil
}

func (uc *bookingUseCaseImpl) resolveDriver(ctx context.Context, tx shared.Tx, driverID *uuid.UUID) (*driver.Driver, error) {
	if driverID == nil {
		return nil, nil
	}
	d, err := tx.Drivers().FindByID(ctx, *driverID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if d.Status() != driver.StatusAvailable {
		return d, ErrDriverUnavailable
	}
	return d, nil
}

func (uc *bookingUseCaseImpl) resolveInsurancePercent(ctx context.Context, tx shared.Tx, insuranceID *uuid.UUID) (*int32, error) {
	if insuranceID == nil {
		return nil, nil
	}
	ins, err := tx.Insurances().FindByID(ctx, *insuranceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInsuranceNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	pct := ins.CoveragePercent()
	return &pct, nil
}

func (uc *bookingUseCaseImpl) applyDiscount(
	ctx context.Context,
	tx shared.Tx,
	code string,
	quote booking.Quote,
	now time.Time,
) (booking.Quote, *uuid.UUID, error) {
	d, err := tx.Discounts().FindByCodeForUpdate(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return quote, nil, ErrDiscountNotFound
		}
		return quote, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := d.ValidateUsage(now); err != nil {
		return quote, nil, errs.Mark(err, ErrInvalidDiscount)
	}

	discountCents := quote.SubtotalCents() - d.Apply(quote.SubtotalCents())
	discounted := quote.Discounted(discountCents)

	if err := tx.Discounts().IncrementUsage(ctx, d.ID()); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return quote, nil, ErrInvalidDiscount
		}
		return quote, nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	id := d.ID()
	return discounted, &id, nil
}

func (uc *bookingUseCaseImpl) resolveRenter(ctx context.Context, tx shared.Tx, cmd CreateBookingCommand) (booking.Renter, error) {
	if cmd.UserID != nil {
		return booking.UserRenter(*cmd.UserID), nil
	}
	if cmd.Guest == nil {
		return booking.Renter{}, errs.Mark(booking.ErrAmbiguousRenter, ErrInvalidGuest)
	}

	g, err := guest.NewGuest(cmd.Guest.FullName, cmd.Guest.Email, cmd.Guest.Phone)
	if err != nil {
		return booking.Renter{}, errs.Mark(err, ErrInvalidGuest)
	}
	if err := tx.Guests().Create(ctx, g); err != nil {
		return booking.Renter{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return booking.GuestRenter(g.ID()), nil
}

func (uc *bookingUseCaseImpl) notify(ctx context.Context, tx shared.Tx, topic string, bookingID uuid.UUID, reference string, now time.Time) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id": bookingID,
		"reference":  reference,
		"type":       topic,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, "email", topic, payload, now)
}

func ptrOf[T any](v T) *T {
	return &v
}
