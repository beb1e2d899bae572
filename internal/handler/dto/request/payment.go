package request

type PayInvoiceRequest struct {
	Method string `json:"method" binding:"required,oneof=credit_card debit_card cash"`
}
