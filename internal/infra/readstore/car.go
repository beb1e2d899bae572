package readstore

import (
	"context"
	"time"

	"carhive/internal/infra"
	"carhive/internal/infra/db"
	"carhive/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CarReadStore struct {
	db db.DBTX
}

func NewCarReadStore(dbtx db.DBTX) *CarReadStore {
	return &CarReadStore{db: dbtx}
}

const carViewColumns = `id, registration_number, brand, model, year, fuel_type, transmission, status,
	rate_cents_per_day, number_of_seats, air_conditioned, mileage_kmpl, rating, image_url, created_at, updated_at`

func (r *CarReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CarView, error) {
	query := `SELECT ` + carViewColumns + ` FROM cars WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	view, err := scanCarView(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("car not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find car by ID", err)
	}
	return view, nil
}

func (r *CarReadStore) FindAll(ctx context.Context) ([]*queries.CarView, error) {
	query := `SELECT ` + carViewColumns + ` FROM cars ORDER BY brand, model, registration_number`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list cars", err)
	}
	defer rows.Close()

	return collectCarViews(rows)
}

// FindAvailable lists rentable cars with no active booking intersecting the
// half-open [pickup, return) window. Cars out of service are excluded even
// when their calendar is clear.
func (r *CarReadStore) FindAvailable(ctx context.Context, pickup, ret time.Time) ([]*queries.CarView, error) {
	query := `
		SELECT ` + carViewColumns + `
		FROM cars c
		WHERE c.status NOT IN ('under_maintenance', 'not_available')
		  AND NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.car_id = c.id
			  AND b.status <> 'cancelled'
			  AND b.pickup_date < $2
			  AND b.return_date > $1
		  )
		ORDER BY c.brand, c.model, c.registration_number`

	rows, err := r.db.Query(ctx, query, pickup, ret)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list available cars", err)
	}
	defer rows.Close()

	return collectCarViews(rows)
}

func collectCarViews(rows pgx.Rows) ([]*queries.CarView, error) {
	var result []*queries.CarView
	for rows.Next() {
		view, err := scanCarView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan car row", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read car rows", err)
	}
	return result, nil
}

func scanCarView(row pgx.Row) (*queries.CarView, error) {
	var v queries.CarView
	err := row.Scan(
		&v.ID, &v.RegistrationNumber, &v.Brand, &v.Model, &v.Year,
		&v.FuelType, &v.Transmission, &v.Status, &v.RateCentsPerDay,
		&v.NumberOfSeats, &v.AirConditioned, &v.MileageKmpl, &v.Rating,
		&v.ImageURL, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
