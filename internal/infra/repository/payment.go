package repository

import (
	"context"

	"carhive/internal/domain/invoice"
	"carhive/internal/infra"
	"carhive/internal/infra/db"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *invoice.Payment) error {
	const query = `
		INSERT INTO payments (
			id, booking_id, amount_cents, payment_type, method, gateway, status, transaction_id, paid_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		p.ID(), p.BookingID(), p.AmountCents(), p.PaymentType(),
		p.Method().String(), p.Gateway(), p.Status(), p.TransactionID(), p.PaidAt(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("payment already recorded", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}
