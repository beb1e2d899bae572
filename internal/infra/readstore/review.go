package readstore

import (
	"context"

	"carhive/internal/infra"
	"carhive/internal/infra/db"
	"carhive/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReviewReadStore struct {
	db db.DBTX
}

func NewReviewReadStore(dbtx db.DBTX) *ReviewReadStore {
	return &ReviewReadStore{db: dbtx}
}

func (r *ReviewReadStore) FindByCarID(ctx context.Context, carID uuid.UUID) ([]*queries.ReviewView, error) {
	const query = `
		SELECT r.id, u.full_name, r.car_id, r.rating, r.comment, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.car_id = $1
		ORDER BY r.created_at DESC`

	rows, err := r.db.Query(ctx, query, carID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reviews by car", err)
	}
	defer rows.Close()

	var result []*queries.ReviewView
	for rows.Next() {
		var v queries.ReviewView
		if err := rows.Scan(&v.ID, &v.UserName, &v.CarID, &v.Rating, &v.Comment, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan review row", err)
		}
		result = append(result, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read review rows", err)
	}
	return result, nil
}
