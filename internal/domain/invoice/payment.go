package invoice

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentTypeRentalFee = "rental_fee"
	GatewaySimulated     = "simulated"
	PaymentStatusPaid    = "paid"
)

// Payment is the settlement record written when an invoice is paid. The
// gateway is simulated, so every payment succeeds and carries a SIM_
// transaction id.
type Payment struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	amountCents   int64
	paymentType   string
	method        PaymentMethod
	gateway       string
	status        string
	transactionID string
	paidAt        time.Time
}

func NewPayment(bookingID uuid.UUID, amountCents int64, method PaymentMethod, now time.Time) (*Payment, error) {
	if amountCents < 0 {
		return nil, ErrNegativeAmount
	}
	if !method.IsValid() {
		return nil, ErrInvalidMethod
	}

	return &Payment{
		id:            uuid.New(),
		bookingID:     bookingID,
		amountCents:   amountCents,
		paymentType:   PaymentTypeRentalFee,
		method:        method,
		gateway:       GatewaySimulated,
		status:        PaymentStatusPaid,
		transactionID: "SIM_" + uuid.NewString(),
		paidAt:        now,
	}, nil
}

func ReconstructPayment(
	id, bookingID uuid.UUID,
	amountCents int64,
	paymentType string,
	method PaymentMethod,
	gateway, status, transactionID string,
	paidAt time.Time,
) *Payment {
	return &Payment{
		id:            id,
		bookingID:     bookingID,
		amountCents:   amountCents,
		paymentType:   paymentType,
		method:        method,
		gateway:       gateway,
		status:        status,
		transactionID: transactionID,
		paidAt:        paidAt,
	}
}

func (p *Payment) ID() uuid.UUID         { return p.id }
func (p *Payment) BookingID() uuid.UUID  { return p.bookingID }
func (p *Payment) AmountCents() int64    { return p.amountCents }
func (p *Payment) PaymentType() string   { return p.paymentType }
func (p *Payment) Method() PaymentMethod { return p.method }
func (p *Payment) Gateway() string       { return p.gateway }
func (p *Payment) Status() string        { return p.status }
func (p *Payment) TransactionID() string { return p.transactionID }
func (p *Payment) PaidAt() time.Time     { return p.paidAt }
