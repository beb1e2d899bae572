package repository

import (
	"context"

	"carhive/internal/domain/guest"
	"carhive/internal/infra"
	"carhive/internal/infra/db"
)

type GuestRepository struct {
	db db.DBTX
}

func NewGuestRepository(dbtx db.DBTX) *GuestRepository {
	return &GuestRepository{db: dbtx}
}

func (r *GuestRepository) Create(ctx context.Context, g *guest.Guest) error {
	const query = `INSERT INTO guests (id, full_name, email, phone) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, g.ID(), g.FullName(), g.Email(), g.Phone())
	if err != nil {
		return infra.WrapRepoErr("failed to create guest", err)
	}
	return nil
}
