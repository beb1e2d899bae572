package repository

import (
	"context"
	"time"

	"carhive/internal/domain/insurance"
	"carhive/internal/infra"
	"carhive/internal/infra/db"

	"github.com/google/uuid"
)

type InsuranceRepository struct {
	db db.DBTX
}

func NewInsuranceRepository(dbtx db.DBTX) *InsuranceRepository {
	return &InsuranceRepository{db: dbtx}
}

func (r *InsuranceRepository) Create(ctx context.Context, ins *insurance.Insurance) error {
	const query = `INSERT INTO insurances (id, name, coverage_percent, description) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, ins.ID(), ins.Name(), ins.CoveragePercent(), ins.Description())
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("insurance name already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create insurance", err)
	}
	return nil
}

func (r *InsuranceRepository) Update(ctx context.Context, id uuid.UUID, name string, coveragePercent int32, description *string) error {
	const query = `
		UPDATE insurances
		SET name = $2, coverage_percent = $3, description = $4, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, name, coveragePercent, description)
	if err != nil {
		return infra.WrapRepoErr("failed to update insurance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insurance not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *InsuranceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM insurances WHERE id = $1`, id)
	if err != nil {
		if infra.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("insurance has bookings", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to delete insurance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insurance not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *InsuranceRepository) FindByID(ctx context.Context, id uuid.UUID) (*insurance.Insurance, error) {
	const query = `
		SELECT id, name, coverage_percent, description, created_at, updated_at
		FROM insurances WHERE id = $1`

	var (
		insID                uuid.UUID
		name                 string
		coverage             int32
		description          *string
		createdAt, updatedAt time.Time
	)

	err := r.db.QueryRow(ctx, query, id).Scan(&insID, &name, &coverage, &description, &createdAt, &updatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("insurance not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find insurance", err)
	}

	return insurance.Reconstruct(insID, name, coverage, description, createdAt, updatedAt), nil
}
