package readstore

import (
	"context"

	"carhive/internal/infra"
	"carhive/internal/infra/db"
	"carhive/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingViewQuery = `
	SELECT b.id, b.reference, b.user_id, b.guest_id, b.car_id, c.brand, c.model,
	       b.driver_id, b.insurance_id, b.discount_code_id,
	       b.pickup_date, b.return_date, b.rental_days,
	       b.car_cents, b.insurance_cents, b.driver_cents, b.discount_cents, b.total_cents,
	       b.status, COALESCE(i.is_paid, false), b.booked_at
	FROM bookings b
	JOIN cars c ON c.id = b.car_id
	LEFT JOIN invoices i ON i.booking_id = b.id`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	return r.findOne(ctx, bookingViewQuery+` WHERE b.id = $1`, id)
}

func (r *BookingReadStore) FindByReference(ctx context.Context, reference string) (*queries.BookingView, error) {
	return r.findOne(ctx, bookingViewQuery+` WHERE b.reference = $1`, reference)
}

func (r *BookingReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.BookingListItem, error) {
	const query = `
		SELECT b.id, b.reference, b.car_id, c.brand, c.model,
		       b.pickup_date, b.return_date, b.total_cents, b.status, b.booked_at
		FROM bookings b
		JOIN cars c ON c.id = b.car_id
		WHERE b.user_id = $1
		ORDER BY b.booked_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.Reference, &item.CarID, &item.CarBrand, &item.CarModel,
			&item.PickupDate, &item.ReturnDate, &item.TotalCents, &item.Status, &item.BookedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}
	return result, nil
}

func (r *BookingReadStore) findOne(ctx context.Context, query string, arg any) (*queries.BookingView, error) {
	view, err := scanBookingView(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return view, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var v queries.BookingView
	err := row.Scan(
		&v.ID, &v.Reference, &v.UserID, &v.GuestID, &v.CarID, &v.CarBrand, &v.CarModel,
		&v.DriverID, &v.InsuranceID, &v.DiscountCodeID,
		&v.PickupDate, &v.ReturnDate, &v.RentalDays,
		&v.CarCents, &v.InsuranceCents, &v.DriverCents, &v.DiscountCents, &v.TotalCents,
		&v.Status, &v.IsPaid, &v.BookedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
