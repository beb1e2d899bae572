package invoice

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyPaid    = errors.New("invoice is already paid")
	ErrInvalidMethod  = errors.New("invalid payment method")
	ErrNegativeAmount = errors.New("invoice amounts cannot be negative")
)

type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit_card"
	MethodDebitCard  PaymentMethod = "debit_card"
	MethodCash       PaymentMethod = "cash"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodCash:
		return true
	default:
		return false
	}
}

func NewPaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(s)
	if !method.IsValid() {
		return "", ErrInvalidMethod
	}
	return method, nil
}

// Invoice is the billing record issued with each booking. One per booking;
// marked paid exactly once.
type Invoice struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	subtotalCents int64
	discountCents int64
	extraFeeCents int64
	totalCents    int64
	isPaid        bool
	paymentMethod *PaymentMethod
	issuedAt      time.Time
	paidAt        *time.Time
}

func NewInvoice(bookingID uuid.UUID, subtotalCents, discountCents, extraFeeCents int64, issuedAt time.Time) (*Invoice, error) {
	if subtotalCents < 0 || discountCents < 0 || extraFeeCents < 0 {
		return nil, ErrNegativeAmount
	}
	total := subtotalCents - discountCents + extraFeeCents
	if total < 0 {
		total = 0
	}

	return &Invoice{
		id:            uuid.New(),
		bookingID:     bookingID,
		subtotalCents: subtotalCents,
		discountCents: discountCents,
		extraFeeCents: extraFeeCents,
		totalCents:    total,
		issuedAt:      issuedAt,
	}, nil
}

func Reconstruct(
	id, bookingID uuid.UUID,
	subtotalCents, discountCents, extraFeeCents, totalCents int64,
	isPaid bool,
	paymentMethod *PaymentMethod,
	issuedAt time.Time,
	paidAt *time.Time,
) *Invoice {
	return &Invoice{
		id:            id,
		bookingID:     bookingID,
		subtotalCents: subtotalCents,
		discountCents: discountCents,
		extraFeeCents: extraFeeCents,
		totalCents:    totalCents,
		isPaid:        isPaid,
		paymentMethod: paymentMethod,
		issuedAt:      issuedAt,
		paidAt:        paidAt,
	}
}

// MarkPaid records the settlement. Paying twice is rejected so payment rows
// stay one-to-one with settlements.
func (i *Invoice) MarkPaid(method PaymentMethod, now time.Time) error {
	if i.isPaid {
		return ErrAlreadyPaid
	}
	if !method.IsValid() {
		return ErrInvalidMethod
	}
	i.isPaid = true
	i.paymentMethod = &method
	i.paidAt = &now
	return nil
}

// AddCharge raises the invoice total, used when a booking is extended before
// settlement.
func (i *Invoice) AddCharge(subtotalCents int64) error {
	if subtotalCents < 0 {
		return ErrNegativeAmount
	}
	if i.isPaid {
		return ErrAlreadyPaid
	}
	i.subtotalCents += subtotalCents
	i.totalCents += subtotalCents
	return nil
}

func (i *Invoice) ID() uuid.UUID                 { return i.id }
func (i *Invoice) BookingID() uuid.UUID          { return i.bookingID }
func (i *Invoice) SubtotalCents() int64          { return i.subtotalCents }
func (i *Invoice) DiscountCents() int64          { return i.discountCents }
func (i *Invoice) ExtraFeeCents() int64          { return i.extraFeeCents }
func (i *Invoice) TotalCents() int64             { return i.totalCents }
func (i *Invoice) IsPaid() bool                  { return i.isPaid }
func (i *Invoice) Method() *PaymentMethod        { return i.paymentMethod }
func (i *Invoice) IssuedAt() time.Time           { return i.issuedAt }
func (i *Invoice) PaidAt() *time.Time            { return i.paidAt }
