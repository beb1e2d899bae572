package repository

import (
	"context"
	"time"

	"carhive/internal/domain/invoice"
	"carhive/internal/infra"
	"carhive/internal/infra/db"

	"github.com/google/uuid"
)

type InvoiceRepository struct {
	db db.DBTX
}

func NewInvoiceRepository(dbtx db.DBTX) *InvoiceRepository {
	return &InvoiceRepository{db: dbtx}
}

const invoiceColumns = `id, booking_id, subtotal_cents, discount_cents, extra_fee_cents, total_cents,
	is_paid, payment_method, issued_at, paid_at`

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	const query = `
		INSERT INTO invoices (
			id, booking_id, subtotal_cents, discount_cents, extra_fee_cents, total_cents, is_paid, issued_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		inv.ID(), inv.BookingID(), inv.SubtotalCents(), inv.DiscountCents(),
		inv.ExtraFeeCents(), inv.TotalCents(), inv.IsPaid(), inv.IssuedAt(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("invoice already exists for booking", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create invoice", err)
	}
	return nil
}

func (r *InvoiceRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE booking_id = $1`
	return r.scanInvoice(ctx, query, bookingID)
}

func (r *InvoiceRepository) FindByBookingIDForUpdate(ctx context.Context, bookingID uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE booking_id = $1 FOR UPDATE`
	return r.scanInvoice(ctx, query, bookingID)
}

func (r *InvoiceRepository) MarkPaid(ctx context.Context, inv *invoice.Invoice) error {
	const query = `
		UPDATE invoices
		SET is_paid = true, payment_method = $2, paid_at = $3, updated_at = now()
		WHERE id = $1 AND is_paid = false`

	var method *string
	if m := inv.Method(); m != nil {
		s := m.String()
		method = &s
	}

	tag, err := r.db.Exec(ctx, query, inv.ID(), method, inv.PaidAt())
	if err != nil {
		return infra.WrapRepoErr("failed to mark invoice paid", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("invoice already paid", nil, infra.KindConflict)
	}
	return nil
}

func (r *InvoiceRepository) UpdateTotals(ctx context.Context, inv *invoice.Invoice) error {
	const query = `
		UPDATE invoices
		SET subtotal_cents = $2, discount_cents = $3, extra_fee_cents = $4, total_cents = $5, updated_at = now()
		WHERE id = $1 AND is_paid = false`

	tag, err := r.db.Exec(ctx, query,
		inv.ID(), inv.SubtotalCents(), inv.DiscountCents(), inv.ExtraFeeCents(), inv.TotalCents(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update invoice totals", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("invoice already paid", nil, infra.KindConflict)
	}
	return nil
}

func (r *InvoiceRepository) scanInvoice(ctx context.Context, query string, arg any) (*invoice.Invoice, error) {
	var (
		id, bookingID            uuid.UUID
		subtotal, discountCents  int64
		extraFee, total          int64
		isPaid                   bool
		method                   *string
		issuedAt                 time.Time
		paidAt                   *time.Time
	)

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&id, &bookingID, &subtotal, &discountCents, &extraFee, &total,
		&isPaid, &method, &issuedAt, &paidAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("invoice not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find invoice", err)
	}

	var paymentMethod *invoice.PaymentMethod
	if method != nil {
		m, err := invoice.NewPaymentMethod(*method)
		if err != nil {
			return nil, infra.WrapRepoErr("corrupt invoice payment method", err)
		}
		paymentMethod = &m
	}

	return invoice.Reconstruct(id, bookingID, subtotal, discountCents, extraFee, total, isPaid, paymentMethod, issuedAt, paidAt), nil
}
