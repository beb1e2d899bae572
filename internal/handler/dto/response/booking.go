package response

import (
	"carhive/internal/domain/booking"
	"carhive/internal/usecase/commands"

	"github.com/google/uuid"
)

type QuoteResponse struct {
	RentalDays     int   `json:"rental_days"`
	CarCents       int64 `json:"car_cents"`
	InsuranceCents int64 `json:"insurance_cents"`
	DriverCents    int64 `json:"driver_cents"`
	DiscountCents  int64 `json:"discount_cents"`
	TotalCents     int64 `json:"total_cents"`
}

func NewQuoteResponse(q booking.Quote) QuoteResponse {
	return QuoteResponse{
		RentalDays:     q.Days,
		CarCents:       q.CarCents,
		InsuranceCents: q.InsuranceCents,
		DriverCents:    q.DriverCents,
		DiscountCents:  q.DiscountCents,
		TotalCents:     q.TotalCents,
	}
}

type CreateBookingResponse struct {
	BookingID uuid.UUID     `json:"booking_id"`
	Reference string        `json:"reference"`
	Quote     QuoteResponse `json:"quote"`
}

func NewCreateBookingResponse(result *commands.CreateBookingResult) CreateBookingResponse {
	return CreateBookingResponse{
		BookingID: result.BookingID,
		Reference: result.Reference,
		Quote:     NewQuoteResponse(result.Quote),
	}
}

type PayInvoiceResponse struct {
	TransactionID string `json:"transaction_id"`
	AmountCents   int64  `json:"amount_cents"`
	BookingStatus string `json:"booking_status"`
}

func NewPayInvoiceResponse(result *commands.PayInvoiceResult) PayInvoiceResponse {
	return PayInvoiceResponse{
		TransactionID: result.TransactionID,
		AmountCents:   result.AmountCents,
		BookingStatus: result.BookingStatus,
	}
}
