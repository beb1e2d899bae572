package repository

import (
	"context"
	"time"

	"carhive/internal/domain/driver"
	"carhive/internal/infra"
	"carhive/internal/infra/db"

	"github.com/google/uuid"
)

type DriverRepository struct {
	db db.DBTX
}

func NewDriverRepository(dbtx db.DBTX) *DriverRepository {
	return &DriverRepository{db: dbtx}
}

const driverColumns = `id, full_name, phone_number, national_id, license_number, license_expiry,
	status, fee_cents_per_day, photo_url, created_at, updated_at`

func (r *DriverRepository) Create(ctx context.Context, d *driver.Driver) error {
	const query = `
		INSERT INTO drivers (
			id, full_name, phone_number, national_id, license_number, license_expiry,
			status, fee_cents_per_day, photo_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		d.ID(), d.FullName(), d.PhoneNumber(), d.NationalID(), d.LicenseNumber(),
		d.LicenseExpiry(), d.Status().String(), d.FeeCentsPerDay(), d.PhotoURL(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("driver license number already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create driver", err)
	}
	return nil
}

func (r *DriverRepository) Update(ctx context.Context, id uuid.UUID, spec driver.Spec) error {
	const query = `
		UPDATE drivers
		SET full_name = $2, phone_number = $3, national_id = $4, license_number = $5,
		    license_expiry = $6, fee_cents_per_day = $7, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		id, spec.FullName, spec.PhoneNumber, spec.NationalID, spec.LicenseNumber,
		spec.LicenseExpiry, spec.FeeCentsPerDay,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update driver", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("driver not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *DriverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		if infra.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("driver has bookings", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to delete driver", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("driver not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *DriverRepository) FindByID(ctx context.Context, id uuid.UUID) (*driver.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	var (
		driverID             uuid.UUID
		fullName, phone      string
		nationalID, license  string
		status               string
		licenseExpiry        time.Time
		feeCentsPerDay       *int64
		photoURL             *string
		createdAt, updatedAt time.Time
	)

	err := r.db.QueryRow(ctx, query, id).Scan(
		&driverID, &fullName, &phone, &nationalID, &license, &licenseExpiry,
		&status, &feeCentsPerDay, &photoURL, &createdAt, &updatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("driver not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find driver", err)
	}

	driverStatus, err := driver.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt driver status", err)
	}

	return driver.Reconstruct(
		driverID, fullName, phone, nationalID, license, licenseExpiry,
		driverStatus, feeCentsPerDay, photoURL, createdAt, updatedAt,
	), nil
}

func (r *DriverRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status driver.Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE drivers SET status = $2, updated_at = now() WHERE id = $1`, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update driver status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("driver not found", nil, infra.KindNotFound)
	}
	return nil
}
