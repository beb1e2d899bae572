package commands

import (
	"context"
	"encoding/json"

	"carhive/internal/domain/booking"
	"carhive/internal/domain/car"
	"carhive/internal/domain/driver"
	"carhive/internal/domain/invoice"
	"carhive/internal/infra"
	"carhive/internal/pkg/clock"
	"carhive/internal/pkg/errs"
	"carhive/internal/usecase/shared"
)

var (
	ErrInvoiceNotFound      = errs.New("invoice not found")
	ErrInvoiceAlreadyPaid   = errs.New("invoice is already paid")
	ErrInvalidPaymentMethod = errs.New("invalid payment method")
)

type PayInvoiceResult struct {
	TransactionID string
	AmountCents   int64
	BookingStatus string
}

type PaymentCommands interface {
	// PayInvoice settles the invoice identified by its booking reference:
	// payment row, paid flag, booking confirmation, and car/driver status all
	// commit together or not at all.
	PayInvoice(ctx context.Context, reference, method string) (*PayInvoiceResult, error)
}

type paymentUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPaymentUseCase(uow shared.UnitOfWork, clk clock.Clock) PaymentCommands {
	return &paymentUseCaseImpl{uow: uow, clock: clk}
}

func (uc *paymentUseCaseImpl) PayInvoice(ctx context.Context, reference, method string) (*PayInvoiceResult, error) {
	paymentMethod, err := invoice.NewPaymentMethod(method)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidPaymentMethod)
	}

	normalized := booking.NormalizeReference(reference)
	now := uc.clock.Now()

	var result *PayInvoiceResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindByReferenceForUpdate(ctx, normalized)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		inv, err := tx.Invoices().FindByBookingIDForUpdate(ctx, b.ID())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrInvoiceNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := inv.MarkPaid(paymentMethod, now); err != nil {
			return ErrInvoiceAlreadyPaid
		}
		if err := b.Confirm(); err != nil {
			return ErrInvalidBookingState
		}

		payment, err := invoice.NewPayment(b.ID(), inv.TotalCents(), paymentMethod, now)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := tx.Payments().Create(ctx, payment); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Invoices().MarkPaid(ctx, inv); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrInvoiceAlreadyPaid
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Bookings().UpdateStatus(ctx, b.ID(), b.Status()); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := tx.Cars().UpdateStatus(ctx, b.CarID(), car.StatusBooked); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if b.DriverID() != nil {
			if err := tx.Drivers().UpdateStatus(ctx, *b.DriverID(), driver.StatusUnavailable); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		payload, err := json.Marshal(map[string]any{
			"booking_id":     b.ID(),
			"reference":      b.Reference(),
			"transaction_id": payment.TransactionID(),
			"amount_cents":   payment.AmountCents(),
			"type":           "payment_received",
		})
		if err != nil {
			return err
		}
		if err := tx.Notifications().CreateJob(ctx, "email", "payment_received", payload, now); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &PayInvoiceResult{
			TransactionID: payment.TransactionID(),
			AmountCents:   payment.AmountCents(),
			BookingStatus: b.Status().String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
