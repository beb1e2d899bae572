package repository

import (
	"context"
	"time"

	"carhive/internal/domain/booking"
	"carhive/internal/infra"
	"carhive/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

const bookingColumns = `id, reference, user_id, guest_id, car_id, driver_id, insurance_id, discount_code_id,
	pickup_date, return_date, rental_days, car_cents, insurance_cents, driver_cents, discount_cents, total_cents,
	status, booked_at, created_at, updated_at`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	const query = `
		INSERT INTO bookings (
			id, reference, user_id, guest_id, car_id, driver_id, insurance_id, discount_code_id,
			pickup_date, return_date, rental_days, car_cents, insurance_cents, driver_cents,
			discount_cents, total_cents, status, booked_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	q := b.Quote()
	_, err := r.db.Exec(ctx, query,
		b.ID(), b.Reference(), b.Renter().UserID(), b.Renter().GuestID(),
		b.CarID(), b.DriverID(), b.InsuranceID(), b.DiscountCodeID(),
		b.Period().Pickup(), b.Period().Return(), q.Days,
		q.CarCents, q.InsuranceCents, q.DriverCents, q.DiscountCents, q.TotalCents,
		b.Status().String(), b.BookedAt(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("booking reference already exists", err, infra.KindDuplicateKey)
		}
		if infra.IsForeignKeyViolation(err) {
			return infra.WrapRepoErr("booking references a missing row", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(ctx, query, id)
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.scanBooking(ctx, query, id)
}

func (r *BookingRepository) FindByReference(ctx context.Context, reference string) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1`
	return r.scanBooking(ctx, query, reference)
}

func (r *BookingRepository) FindByReferenceForUpdate(ctx context.Context, reference string) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1 FOR UPDATE`
	return r.scanBooking(ctx, query, reference)
}

// HasOverlap uses the half-open interval test: an existing booking conflicts
// when it starts before the requested return and ends after the requested
// pickup. Cancelled bookings release their range.
func (r *BookingRepository) HasOverlap(ctx context.Context, carID uuid.UUID, pickup, ret time.Time, excludeID *uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE car_id = $1
			  AND status <> 'cancelled'
			  AND pickup_date < $3
			  AND return_date > $2
			  AND ($4::uuid IS NULL OR id <> $4)
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, carID, pickup, ret, excludeID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return exists, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error {
	const query = `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) UpdatePeriodAndQuote(ctx context.Context, b *booking.Booking) error {
	const query = `
		UPDATE bookings
		SET return_date = $2, rental_days = $3, car_cents = $4, insurance_cents = $5,
		    driver_cents = $6, discount_cents = $7, total_cents = $8, updated_at = now()
		WHERE id = $1`

	q := b.Quote()
	tag, err := r.db.Exec(ctx, query,
		b.ID(), b.Period().Return(), q.Days,
		q.CarCents, q.InsuranceCents, q.DriverCents, q.DiscountCents, q.TotalCents,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking period", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) scanBooking(ctx context.Context, query string, arg any) (*booking.Booking, error) {
	var (
		id, carID                             uuid.UUID
		reference, status                     string
		userID, guestID                       *uuid.UUID
		driverID, insuranceID, discountCodeID *uuid.UUID
		pickup, ret, bookedAt                 time.Time
		createdAt, updatedAt                  time.Time
		days                                  int
		carCents, insuranceCents              int64
		driverCents, discountCents            int64
		totalCents                            int64
	)

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&id, &reference, &userID, &guestID, &carID, &driverID, &insuranceID, &discountCodeID,
		&pickup, &ret, &days, &carCents, &insuranceCents, &driverCents, &discountCents, &totalCents,
		&status, &bookedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}

	renter, err := booking.NewRenter(userID, guestID)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt booking renter", err)
	}
	period, err := booking.NewDatePeriod(pickup, ret)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt booking period", err)
	}
	bookingStatus, err := booking.NewStatus(status)
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt booking status", err)
	}

	quote := booking.Quote{
		Days:           days,
		CarCents:       carCents,
		InsuranceCents: insuranceCents,
		DriverCents:    driverCents,
		DiscountCents:  discountCents,
		TotalCents:     totalCents,
	}

	return booking.Reconstruct(
		id, reference, renter, carID, driverID, insuranceID, discountCodeID,
		period, quote, bookingStatus, bookedAt, createdAt, updatedAt,
	), nil
}
