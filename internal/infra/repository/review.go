package repository

import (
	"context"

	"carhive/internal/domain/review"
	"carhive/internal/infra"
	"carhive/internal/infra/db"
)

type ReviewRepository struct {
	db db.DBTX
}

func NewReviewRepository(dbtx db.DBTX) *ReviewRepository {
	return &ReviewRepository{db: dbtx}
}

func (r *ReviewRepository) Create(ctx context.Context, rev *review.Review) error {
	const query = `
		INSERT INTO reviews (id, user_id, car_id, booking_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		rev.ID(), rev.UserID(), rev.CarID(), rev.BookingID(), rev.Rating(), rev.Comment(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("review already exists for booking", err, infra.KindDuplicateKey)
		}
		if infra.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("review references a missing row", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create review", err)
	}
	return nil
}
