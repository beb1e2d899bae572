package repository

import (
	"context"
	"time"

	"carhive/internal/domain/discount"
	"carhive/internal/infra"
	"carhive/internal/infra/db"

	"github.com/google/uuid"
)

type DiscountRepository struct {
	db db.DBTX
}

func NewDiscountRepository(dbtx db.DBTX) *DiscountRepository {
	return &DiscountRepository{db: dbtx}
}

func (r *DiscountRepository) Create(ctx context.Context, d *discount.DiscountCode) error {
	const query = `
		INSERT INTO discount_codes (
			id, code, percent_off, amount_cents, start_date, end_date, usage_limit, used_count, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		d.ID(), d.Code(), d.PercentOff(), d.AmountCents(),
		d.StartDate(), d.EndDate(), d.UsageLimit(), d.UsedCount(), d.IsActive(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("discount code already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create discount code", err)
	}
	return nil
}

func (r *DiscountRepository) Update(ctx context.Context, d *discount.DiscountCode) error {
	const query = `
		UPDATE discount_codes
		SET percent_off = $2, amount_cents = $3, start_date = $4, end_date = $5,
		    usage_limit = $6, is_active = $7, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		d.ID(), d.PercentOff(), d.AmountCents(), d.StartDate(), d.EndDate(),
		d.UsageLimit(), d.IsActive(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update discount code", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("discount code not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *DiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM discount_codes WHERE id = $1`, id)
	if err != nil {
		if infra.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("discount code is referenced by bookings", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to delete discount code", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("discount code not found", nil, infra.KindNotFound)
	}
	return nil
}

// FindByCodeForUpdate locks the row so that usage increments serialize with
// the usage-limit check.
func (r *DiscountRepository) FindByCodeForUpdate(ctx context.Context, code string) (*discount.DiscountCode, error) {
	const query = `
		SELECT id, code, percent_off, amount_cents, start_date, end_date, usage_limit, used_count, is_active
		FROM discount_codes WHERE code = $1 FOR UPDATE`

	var (
		id                  uuid.UUID
		storedCode          string
		percentOff          *int32
		amountCents         *int64
		startDate, endDate  time.Time
		usageLimit, usedCnt int
		isActive            bool
	)

	err := r.db.QueryRow(ctx, query, code).Scan(
		&id, &storedCode, &percentOff, &amountCents,
		&startDate, &endDate, &usageLimit, &usedCnt, &isActive,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("discount code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find discount code", err)
	}

	return discount.Reconstruct(id, storedCode, percentOff, amountCents, startDate, endDate, usageLimit, usedCnt, isActive), nil
}

func (r *DiscountRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE discount_codes
		SET used_count = used_count + 1, updated_at = now()
		WHERE id = $1 AND used_count < usage_limit`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return infra.WrapRepoErr("failed to increment discount usage", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("discount code usage exhausted", nil, infra.KindConflict)
	}
	return nil
}
