package repository

import (
	"context"
	"time"

	"carhive/internal/domain/car"
	"carhive/internal/infra"
	"carhive/internal/infra/db"

	"github.com/google/uuid"
)

type CarRepository struct {
	db db.DBTX
}

func NewCarRepository(dbtx db.DBTX) *CarRepository {
	return &CarRepository{db: dbtx}
}

const carColumns = `id, registration_number, brand, model, year, fuel_type, transmission, status,
	rate_cents_per_day, number_of_seats, air_conditioned, mileage_kmpl, rating, image_url, created_at, updated_at`

func (r *CarRepository) Create(ctx context.Context, c *car.Car) error {
	const query = `
		INSERT INTO cars (
			id, registration_number, brand, model, year, fuel_type, transmission, status,
			rate_cents_per_day, number_of_seats, air_conditioned, mileage_kmpl, image_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(ctx, query,
		c.ID(), c.RegistrationNumber(), c.Brand(), c.Model(), c.Year(),
		c.FuelType().String(), c.Transmission().String(), c.Status().String(),
		c.RateCentsPerDay(), c.NumberOfSeats(), c.AirConditioned(), c.MileageKmpl(), c.ImageURL(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("registration number already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create car", err)
	}
	return nil
}

func (r *CarRepository) Update(ctx context.Context, id uuid.UUID, spec car.Spec, status car.Status) error {
	const query = `
		UPDATE cars
		SET registration_number = $2, brand = $3, model = $4, year = $5, fuel_type = $6,
		    transmission = $7, status = $8, rate_cents_per_day = $9, number_of_seats = $10,
		    air_conditioned = $11, mileage_kmpl = $12, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		id, spec.RegistrationNumber, spec.Brand, spec.Model, spec.Year,
		spec.FuelType.String(), spec.Transmission.String(), status.String(),
		spec.RateCentsPerDay, spec.NumberOfSeats, spec.AirConditioned, spec.MileageKmpl,
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("registration number already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to update car", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("car not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		if infra.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("car has bookings", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to delete car", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("car not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CarRepository) FindByID(ctx context.Context, id uuid.UUID) (*car.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	return r.scanCar(ctx, query, id)
}

func (r *CarRepository) LockByID(ctx context.Context, id uuid.UUID) (*car.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 FOR UPDATE`
	return r.scanCar(ctx, query, id)
}

func (r *CarRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status car.Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE cars SET status = $2, updated_at = now() WHERE id = $1`, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update car status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("car not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CarRepository) UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL *string) error {
	tag, err := r.db.Exec(ctx, `UPDATE cars SET image_url = $2, updated_at = now() WHERE id = $1`, id, imageURL)
	if err != nil {
		return infra.WrapRepoErr("failed to update car image", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("car not found", nil, infra.KindNotFound)
	}
	return nil
}

// RecalcRating refreshes the denormalized rating column from review rows.
func (r *CarRepository) RecalcRating(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE cars
		SET rating = (SELECT ROUND(AVG(rating))::int FROM reviews WHERE car_id = $1), updated_at = now()
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return infra.WrapRepoErr("failed to recalculate car rating", err)
	}
	return nil
}

func (r *CarRepository) scanCar(ctx context.Context, query string, arg any) (*car.Car, error) {
	var (
		id                   uuid.UUID
		registration, brand  string
		model, fuelType      string
		transmission, status string
		year, seats, mileage int
		rate                 int64
		airConditioned       bool
		rating               *int
		imageURL             *string
		createdAt, updatedAt time.Time
	)

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&id, &registration, &brand, &model, &year, &fuelType, &transmission, &status,
		&rate, &seats, &airConditioned, &mileage, &rating, &imageURL, &createdAt, &updatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("car not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find car", err)
	}

	carStatus, err := car.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt car status", err)
	}

	return car.Reconstruct(
		id, registration, brand, model, year,
		car.FuelType(fuelType), car.Transmission(transmission), carStatus,
		rate, seats, airConditioned, mileage, rating, imageURL, createdAt, updatedAt,
	), nil
}
