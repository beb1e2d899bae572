package api

import (
	"errors"
	"net/http"

	"carhive/internal/handler/dto/request"
	"carhive/internal/handler/dto/response"
	"carhive/internal/handler/httperr"
	"carhive/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	commands commands.PaymentCommands
}

func NewPaymentHandler(cmd commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{commands: cmd}
}

// Pay godoc
// @Summary      Pay the invoice for a booking reference
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        reference path string true "Booking reference"
// @Param        request body request.PayInvoiceRequest true "Payment method"
// @Success      200 {object} response.PayInvoiceResponse
// @Failure      404 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Failure      422 {object} httperr.Response
// @Router       /api/invoices/{reference}/pay [post]
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req request.PayInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	result, err := h.commands.PayInvoice(c.Request.Context(), c.Param("reference"), req.Method)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound),
			errors.Is(err, commands.ErrInvoiceNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, err.Error(), nil)
		case errors.Is(err, commands.ErrInvoiceAlreadyPaid),
			errors.Is(err, commands.ErrInvalidBookingState):
			httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
		case errors.Is(err, commands.ErrInvalidPaymentMethod):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, response.NewPayInvoiceResponse(result))
}
