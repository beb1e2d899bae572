//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
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
	"carhive/internal/infra"
	"carhive/internal/infra/db"
	"carhive/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeUoW is an in-memory stand-in for the Postgres unit of work. Within
// serializes callers on a mutex the way row locks do in the real thing, and
// restores a snapshot when the callback fails so partial writes never leak
// out of an aborted transaction.
type fakeUoW struct {
	mu    sync.Mutex
	state *fakeState

	// popped by Bookings().Create; lets tests inject reference collisions
	bookingCreateErrs []error
}

type queuedJob struct {
	kind    string
	topic   string
	payload []byte
	runAt   time.Time
}

type fakeState struct {
	cars       map[uuid.UUID]*car.Car
	drivers    map[uuid.UUID]*driver.Driver
	insurances map[uuid.UUID]*insurance.Insurance
	discounts  map[uuid.UUID]*discount.DiscountCode
	bookings   map[uuid.UUID]*booking.Booking
	invoices   map[uuid.UUID]*invoice.Invoice // keyed by booking id
	guests     map[uuid.UUID]*guest.Guest
	users      map[uuid.UUID]*user.User
	reviews    map[string]*review.Review // keyed by user id + booking id
	payments   []*invoice.Payment
	jobs       []queuedJob
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{state: newFakeState()}
}

func newFakeState() *fakeState {
	return &fakeState{
		cars:       map[uuid.UUID]*car.Car{},
		drivers:    map[uuid.UUID]*driver.Driver{},
		insurances: map[uuid.UUID]*insurance.Insurance{},
		discounts:  map[uuid.UUID]*discount.DiscountCode{},
		bookings:   map[uuid.UUID]*booking.Booking{},
		invoices:   map[uuid.UUID]*invoice.Invoice{},
		guests:     map[uuid.UUID]*guest.Guest{},
		users:      map[uuid.UUID]*user.User{},
		reviews:    map[string]*review.Review{},
	}
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	for id, v := range s.cars {
		cp := *v
		c.cars[id] = &cp
	}
	for id, v := range s.drivers {
		cp := *v
		c.drivers[id] = &cp
	}
	for id, v := range s.insurances {
		cp := *v
		c.insurances[id] = &cp
	}
	for id, v := range s.discounts {
		cp := *v
		c.discounts[id] = &cp
	}
	for id, v := range s.bookings {
		cp := *v
		c.bookings[id] = &cp
	}
	for id, v := range s.invoices {
		cp := *v
		c.invoices[id] = &cp
	}
	for id, v := range s.guests {
		cp := *v
		c.guests[id] = &cp
	}
	for id, v := range s.users {
		cp := *v
		c.users[id] = &cp
	}
	for k, v := range s.reviews {
		cp := *v
		c.reviews[k] = &cp
	}
	c.payments = append([]*invoice.Payment(nil), s.payments...)
	c.jobs = append([]queuedJob(nil), s.jobs...)
	return c
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	snap := u.state.clone()
	if err := fn(ctx, &fakeTx{u: u}); err != nil {
		u.state = snap
		return err
	}
	return nil
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func repoErr(kind infra.RepositoryErrorKind, msg string) error {
	return infra.WrapRepoErr(msg, errors.New(msg), kind)
}

type fakeTx struct {
	u *fakeUoW
}

func (t *fakeTx) Bookings() shared.BookingRepository         { return fakeBookingRepo{t.u} }
func (t *fakeTx) Cars() shared.CarRepository                 { return fakeCarRepo{t.u} }
func (t *fakeTx) Drivers() shared.DriverRepository           { return fakeDriverRepo{t.u} }
func (t *fakeTx) Guests() shared.GuestRepository             { return fakeGuestRepo{t.u} }
func (t *fakeTx) Insurances() shared.InsuranceRepository     { return fakeInsuranceRepo{t.u} }
func (t *fakeTx) Discounts() shared.DiscountRepository       { return fakeDiscountRepo{t.u} }
func (t *fakeTx) Invoices() shared.InvoiceRepository         { return fakeInvoiceRepo{t.u} }
func (t *fakeTx) Payments() shared.PaymentRepository         { return fakePaymentRepo{t.u} }
func (t *fakeTx) Users() shared.UserRepository               { return fakeUserRepo{t.u} }
func (t *fakeTx) Reviews() shared.ReviewRepository           { return fakeReviewRepo{t.u} }
func (t *fakeTx) Notifications() shared.NotificationRepository { return fakeNotificationRepo{t.u} }
func (t *fakeTx) DB() db.DBTX                                { return nil }

type fakeBookingRepo struct{ u *fakeUoW }

func (r fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if len(r.u.bookingCreateErrs) > 0 {
		err := r.u.bookingCreateErrs[0]
		r.u.bookingCreateErrs = r.u.bookingCreateErrs[1:]
		return err
	}
	for _, existing := range r.u.state.bookings {
		if existing.Reference() == b.Reference() {
			return repoErr(infra.KindDuplicateKey, "duplicate reference")
		}
	}
	r.u.state.bookings[b.ID()] = b
	return nil
}

func (r fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.u.state.bookings[id]
	if !ok {
		return nil, repoErr(infra.KindNotFound, "booking not found")
	}
	return b, nil
}

func (r fakeBookingRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r fakeBookingRepo) FindByReference(_ context.Context, reference string) (*booking.Booking, error) {
	for _, b := range r.u.state.bookings {
		if b.Reference() == reference {
			return b, nil
		}
	}
	return nil, repoErr(infra.KindNotFound, "booking not found")
}

func (r fakeBookingRepo) FindByReferenceForUpdate(ctx context.Context, reference string) (*booking.Booking, error) {
	return r.FindByReference(ctx, reference)
}

func (r fakeBookingRepo) HasOverlap(_ context.Context, carID uuid.UUID, pickup, ret time.Time, excludeID *uuid.UUID) (bool, error) {
	for _, b := range r.u.state.bookings {
		if b.CarID() != carID || !b.Status().Active() {
			continue
		}
		if excludeID != nil && b.ID() == *excludeID {
			continue
		}
		if b.Period().Pickup().Before(ret) && pickup.Before(b.Period().Return()) {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, _ booking.Status) error {
	if _, ok := r.u.state.bookings[id]; !ok {
		return repoErr(infra.KindNotFound, "booking not found")
	}
	return nil
}

func (r fakeBookingRepo) UpdatePeriodAndQuote(_ context.Context, b *booking.Booking) error {
	if _, ok := r.u.state.bookings[b.ID()]; !ok {
		return repoErr(infra.KindNotFound, "booking not found")
	}
	return nil
}

type fakeCarRepo struct{ u *fakeUoW }

func (r fakeCarRepo) Create(_ context.Context, c *car.Car) error {
	for _, existing := range r.u.state.cars {
		if existing.RegistrationNumber() == c.RegistrationNumber() {
			return repoErr(infra.KindDuplicateKey, "duplicate registration")
		}
	}
	r.u.state.cars[c.ID()] = c
	return nil
}

func (r fakeCarRepo) Update(_ context.Context, id uuid.UUID, spec car.Spec, status car.Status) error {
	existing, ok := r.u.state.cars[id]
	if !ok {
		return repoErr(infra.KindNotFound, "car not found")
	}
	r.u.state.cars[id] = car.Reconstruct(
		id, spec.RegistrationNumber, spec.Brand, spec.Model, spec.Year,
		spec.FuelType, spec.Transmission, status,
		spec.RateCentsPerDay, spec.NumberOfSeats, spec.AirConditioned, spec.MileageKmpl,
		existing.Rating(), spec.ImageURL, existing.CreatedAt(), existing.UpdatedAt(),
	)
	return nil
}

func (r fakeCarRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.u.state.cars[id]; !ok {
		return repoErr(infra.KindNotFound, "car not found")
	}
	delete(r.u.state.cars, id)
	return nil
}

func (r fakeCarRepo) FindByID(_ context.Context, id uuid.UUID) (*car.Car, error) {
	c, ok := r.u.state.cars[id]
	if !ok {
		return nil, repoErr(infra.KindNotFound, "car not found")
	}
	return c, nil
}

func (r fakeCarRepo) LockByID(ctx context.Context, id uuid.UUID) (*car.Car, error) {
	return r.FindByID(ctx, id)
}

func (r fakeCarRepo) UpdateStatus(_ context.Context, id uuid.UUID, status car.Status) error {
	c, ok := r.u.state.cars[id]
	if !ok {
		return repoErr(infra.KindNotFound, "car not found")
	}
	return c.SetStatus(status)
}

func (r fakeCarRepo) UpdateImageURL(_ context.Context, id uuid.UUID, _ *string) error {
	if _, ok := r.u.state.cars[id]; !ok {
		return repoErr(infra.KindNotFound, "car not found")
	}
	return nil
}

func (r fakeCarRepo) RecalcRating(_ context.Context, id uuid.UUID) error {
	if _, ok := r.u.state.cars[id]; !ok {
		return repoErr(infra.KindNotFound, "car not found")
	}
	return nil
}

type fakeDriverRepo struct{ u *fakeUoW }

func (r fakeDriverRepo) Create(_ context.Context, d *driver.Driver) error {
	for _, existing := range r.u.state.drivers {
		if existing.LicenseNumber() == d.LicenseNumber() {
			return repoErr(infra.KindDuplicateKey, "duplicate license")
		}
	}
	r.u.state.drivers[d.ID()] = d
	return nil
}

func (r fakeDriverRepo) Update(_ context.Context, id uuid.UUID, spec driver.Spec) error {
	existing, ok := r.u.state.drivers[id]
	if !ok {
		return repoErr(infra.KindNotFound, "driver not found")
	}
	r.u.state.drivers[id] = driver.Reconstruct(
		id, spec.FullName, spec.PhoneNumber, spec.NationalID, spec.LicenseNumber,
		spec.LicenseExpiry, existing.Status(), spec.FeeCentsPerDay, spec.PhotoURL,
		existing.CreatedAt(), existing.UpdatedAt(),
	)
	return nil
}

func (r fakeDriverRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.u.state.drivers[id]; !ok {
		return repoErr(infra.KindNotFound, "driver not found")
	}
	delete(r.u.state.drivers, id)
	return nil
}

func (r fakeDriverRepo) FindByID(_ context.Context, id uuid.UUID) (*driver.Driver, error) {
	d, ok := r.u.state.drivers[id]
	if !ok {
		return nil, repoErr(infra.KindNotFound, "driver not found")
	}
	return d, nil
}

func (r fakeDriverRepo) UpdateStatus(_ context.Context, id uuid.UUID, status driver.Status) error {
	d, ok := r.u.state.drivers[id]
	if !ok {
		return repoErr(infra.KindNotFound, "driver not found")
	}
	r.u.state.drivers[id] = driver.Reconstruct(
		d.ID(), d.FullName(), d.PhoneNumber(), d.NationalID(), d.LicenseNumber(),
		d.LicenseExpiry(), status, d.FeeCentsPerDay(), d.PhotoURL(),
		d.CreatedAt(), d.UpdatedAt(),
	)
	return nil
}

type fakeGuestRepo struct{ u *fakeUoW }

func (r fakeGuestRepo) Create(_ context.Context, g *guest.Guest) error {
	r.u.state.guests[g.ID()] = g
	return nil
}

type fakeInsuranceRepo struct{ u *fakeUoW }

func (r fakeInsuranceRepo) Create(_ context.Context, ins *insurance.Insurance) error {
	for _, existing := range r.u.state.insurances {
		if existing.Name() == ins.Name() {
			return repoErr(infra.KindDuplicateKey, "duplicate insurance name")
		}
	}
	r.u.state.insurances[ins.ID()] = ins
	return nil
}

func (r fakeInsuranceRepo) Update(_ context.Context, id uuid.UUID, name string, coveragePercent int32, description *string) error {
	existing, ok := r.u.state.insurances[id]
	if !ok {
		return repoErr(infra.KindNotFound, "insurance not found")
	}
	r.u.state.insurances[id] = insurance.Reconstruct(
		id, name, coveragePercent, description, existing.CreatedAt(), existing.UpdatedAt(),
	)
	return nil
}

func (r fakeInsuranceRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.u.state.insurances[id]; !ok {
		return repoErr(infra.KindNotFound, "insurance not found")
	}
	delete(r.u.state.insurances, id)
	return nil
}

func (r fakeInsuranceRepo) FindByID(_ context.Context, id uuid.UUID) (*insurance.Insurance, error) {
	ins, ok := r.u.state.insurances[id]
	if !ok {
		return nil, repoErr(infra.KindNotFound, "insurance not found")
	}
	return ins, nil
}

type fakeDiscountRepo struct{ u *fakeUoW }

func (r fakeDiscountRepo) Create(_ context.Context, d *discount.DiscountCode) error {
	for _, existing := range r.u.state.discounts {
		if existing.Code() == d.Code() {
			return repoErr(infra.KindDuplicateKey, "duplicate code")
		}
	}
	r.u.state.discounts[d.ID()] = d
	return nil
}

func (r fakeDiscountRepo) Update(_ context.Context, d *discount.DiscountCode) error {
	if _, ok := r.u.state.discounts[d.ID()]; !ok {
		return repoErr(infra.KindNotFound, "discount code not found")
	}
	r.u.state.discounts[d.ID()] = d
	return nil
}

func (r fakeDiscountRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.u.state.discounts[id]; !ok {
		return repoErr(infra.KindNotFound, "discount code not found")
	}
	delete(r.u.state.discounts, id)
	return nil
}

func (r fakeDiscountRepo) FindByCodeForUpdate(_ context.Context, code string) (*discount.DiscountCode, error) {
	for _, d := range r.u.state.discounts {
		if d.Code() == code {
			return d, nil
		}
	}
	return nil, repoErr(infra.KindNotFound, "discount code not found")
}

func (r fakeDiscountRepo) IncrementUsage(_ context.Context, id uuid.UUID) error {
	d, ok := r.u.state.discounts[id]
	if !ok {
		return repoErr(infra.KindNotFound, "discount code not found")
	}
	if d.UsedCount() >= d.UsageLimit() {
		return repoErr(infra.KindConflict, "usage limit reached")
	}
	r.u.state.discounts[id] = discount.Reconstruct(
		d.ID(), d.Code(), d.PercentOff(), d.AmountCents(),
		d.StartDate(), d.EndDate(), d.UsageLimit(), d.UsedCount()+1, d.IsActive(),
	)
	return nil
}

type fakeInvoiceRepo struct{ u *fakeUoW }

func (r fakeInvoiceRepo) Create(_ context.Context, inv *invoice.Invoice) error {
	r.u.state.invoices[inv.BookingID()] = inv
	return nil
}

func (r fakeInvoiceRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*invoice.Invoice, error) {
	inv, ok := r.u.state.invoices[bookingID]
	if !ok {
		return nil, repoErr(infra.KindNotFound, "invoice not found")
	}
	return inv, nil
}

func (r fakeInvoiceRepo) FindByBookingIDForUpdate(ctx context.Context, bookingID uuid.UUID) (*invoice.Invoice, error) {
	return r.FindByBookingID(ctx, bookingID)
}

func (r fakeInvoiceRepo) MarkPaid(_ context.Context, inv *invoice.Invoice) error {
	if _, ok := r.u.state.invoices[inv.BookingID()]; !ok {
		return repoErr(infra.KindNotFound, "invoice not found")
	}
	return nil
}

func (r fakeInvoiceRepo) UpdateTotals(_ context.Context, inv *invoice.Invoice) error {
	if _, ok := r.u.state.invoices[inv.BookingID()]; !ok {
		return repoErr(infra.KindNotFound, "invoice not found")
	}
	return nil
}

type fakePaymentRepo struct{ u *fakeUoW }

func (r fakePaymentRepo) Create(_ context.Context, p *invoice.Payment) error {
	r.u.state.payments = append(r.u.state.payments, p)
	return nil
}

type fakeUserRepo struct{ u *fakeUoW }

func (r fakeUserRepo) Create(_ context.Context, usr *user.User) error {
	for _, existing := range r.u.state.users {
		if existing.Email().Value() == usr.Email().Value() {
			return repoErr(infra.KindDuplicateKey, "duplicate email")
		}
	}
	r.u.state.users[usr.ID()] = usr
	return nil
}

func (r fakeUserRepo) UpdateLastLogin(_ context.Context, userID uuid.UUID) error {
	if _, ok := r.u.state.users[userID]; !ok {
		return repoErr(infra.KindNotFound, "user not found")
	}
	return nil
}

type fakeReviewRepo struct{ u *fakeUoW }

func (r fakeReviewRepo) Create(_ context.Context, rev *review.Review) error {
	key := rev.UserID().String() + rev.BookingID().String()
	if _, ok := r.u.state.reviews[key]; ok {
		return repoErr(infra.KindDuplicateKey, "duplicate review")
	}
	r.u.state.reviews[key] = rev
	return nil
}

type fakeNotificationRepo struct{ u *fakeUoW }

func (r fakeNotificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.u.state.jobs = append(r.u.state.jobs, queuedJob{kind: kind, topic: topic, payload: payload, runAt: runAt})
	return nil
}
