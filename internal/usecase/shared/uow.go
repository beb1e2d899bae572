package shared

import (
	"context"
	"time"

	"carhive/internal/domain/booking"
	"carhive/internal/domain/car"
	"carhive/internal/domain/discount"
	"carhive/internal/domain/driver"
	"carhive/internal/domain/guest"
	"carhive/internal/domain/insurance"
	"carhive/internal/domain/invoice"
	"carhive/internal/domain/review"
	"carhive/internal/domain/user"
	"carhive/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Cars() CarRepository
	Drivers() DriverRepository
	Guests() GuestRepository
	Insurances() InsuranceRepository
	Discounts() DiscountRepository
	Invoices() InvoiceRepository
	Payments() PaymentRepository
	Users() UserRepository
	Reviews() ReviewRepository
	Notifications() NotificationRepository
	DB() db.DBTX
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	FindByReference(ctx context.Context, reference string) (*booking.Booking, error)
	FindByReferenceForUpdate(ctx context.Context, reference string) (*booking.Booking, error)
	// HasOverlap reports whether any non-cancelled booking for the car
	// intersects the half-open [pickup, return) range, optionally excluding
	// one booking id.
	HasOverlap(ctx context.Context, carID uuid.UUID, pickup, ret time.Time, excludeID *uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status) error
	UpdatePeriodAndQuote(ctx context.Context, b *booking.Booking) error
}

type CarRepository interface {
	Create(ctx context.Context, c *car.Car) error
	Update(ctx context.Context, id uuid.UUID, spec car.Spec, status car.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*car.Car, error)
	// LockByID loads the car row with SELECT ... FOR UPDATE so that
	// concurrent availability checks serialize on it.
	LockByID(ctx context.Context, id uuid.UUID) (*car.Car, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status car.Status) error
	UpdateImageURL(ctx context.Context, id uuid.UUID, imageURL *string) error
	// RecalcRating refreshes the denormalized car rating from its reviews.
	RecalcRating(ctx context.Context, id uuid.UUID) error
}

type DriverRepository interface {
	Create(ctx context.Context, d *driver.Driver) error
	Update(ctx context.Context, id uuid.UUID, spec driver.Spec) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*driver.Driver, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status driver.Status) error
}

type GuestRepository interface {
	Create(ctx context.Context, g *guest.Guest) error
}

type InsuranceRepository interface {
	Create(ctx context.Context, ins *insurance.Insurance) error
	Update(ctx context.Context, id uuid.UUID, name string, coveragePercent int32, description *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*insurance.Insurance, error)
}

type DiscountRepository interface {
	Create(ctx context.Context, d *discount.DiscountCode) error
	Update(ctx context.Context, d *discount.DiscountCode) error
	Delete(ctx context.Context, id uuid.UUID) error
	// FindByCodeForUpdate locks the code row so usage counting is race-free.
	FindByCodeForUpdate(ctx context.Context, code string) (*discount.DiscountCode, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *invoice.Invoice) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*invoice.Invoice, error)
	FindByBookingIDForUpdate(ctx context.Context, bookingID uuid.UUID) (*invoice.Invoice, error)
	MarkPaid(ctx context.Context, inv *invoice.Invoice) error
	UpdateTotals(ctx context.Context, inv *invoice.Invoice) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *invoice.Payment) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}

type ReviewRepository interface {
	Create(ctx context.Context, r *review.Review) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
