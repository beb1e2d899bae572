package queries

import (
	"context"
	"time"

	"carhive/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidAvailabilityWindow = errs.New("return date must be after pickup date")

type CarQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*CarView, error)
	// List returns the full catalog, or only cars free over the half-open
	// [pickup, return) window when both dates are given.
	List(ctx context.Context, pickup, ret *time.Time) ([]*CarView, error)
	ReviewsByCar(ctx context.Context, carID uuid.UUID) ([]*ReviewView, error)
}

type CarViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CarView, error)
	FindAll(ctx context.Context) ([]*CarView, error)
	FindAvailable(ctx context.Context, pickup, ret time.Time) ([]*CarView, error)
}

type ReviewViewRepo interface {
	FindByCarID(ctx context.Context, carID uuid.UUID) ([]*ReviewView, error)
}

type carQueriesImpl struct {
	cars    CarViewRepo
	reviews ReviewViewRepo
}

func NewCarQueries(cars CarViewRepo, reviews ReviewViewRepo) CarQueries {
	return &carQueriesImpl{cars: cars, reviews: reviews}
}

func (q *carQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*CarView, error) {
	return q.cars.FindByID(ctx, id)
}

func (q *carQueriesImpl) List(ctx context.Context, pickup, ret *time.Time) ([]*CarView, error) {
	if pickup == nil || ret == nil {
		return q.cars.FindAll(ctx)
	}
	if !ret.After(*pickup) {
		return nil, ErrInvalidAvailabilityWindow
	}
	return q.cars.FindAvailable(ctx, *pickup, *ret)
}

func (q *carQueriesImpl) ReviewsByCar(ctx context.Context, carID uuid.UUID) ([]*ReviewView, error) {
	return q.reviews.FindByCarID(ctx, carID)
}
