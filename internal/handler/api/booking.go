package api

import (
	"errors"
	"net/http"

	"carhive/internal/domain/user"
	"carhive/internal/handler/dto/request"
	"carhive/internal/handler/dto/response"
	"carhive/internal/handler/httperr"
	"carhive/internal/handler/middleware"
	"carhive/internal/infra"
	"carhive/internal/usecase/commands"
	"carhive/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	commands commands.BookingCommands
	queries  queries.BookingQueries
}

func NewBookingHandler(cmd commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{commands: cmd, queries: q}
}

// Create godoc
// @Summary      Create a booking for a registered user or a guest
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request body request.CreateBookingRequest true "Booking details"
// @Success      201 {object} response.CreateBookingResponse
// @Failure      404 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Failure      422 {object} httperr.Response
// @Router       /api/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req request.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	var userID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		userID = &id
	}

	result, err := h.commands.CreateBooking(c.Request.Context(), req.ToCommand(userID))
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.NewCreateBookingResponse(result))
}

// GetByReference godoc
// @Summary      Look up a booking by its reference
// @Tags         bookings
// @Produce      json
// @Param        reference path string true "Booking reference"
// @Success      200 {object} queries.BookingView
// @Failure      403 {object} httperr.Response
// @Failure      404 {object} httperr.Response
// @Router       /api/bookings/{reference} [get]
func (h *BookingHandler) GetByReference(c *gin.Context) {
	reference := c.Param("reference")

	var actorID *uuid.UUID
	if id, ok := middleware.GetUserID(c); ok {
		actorID = &id
	}
	role, _ := middleware.GetUserRole(c)

	view, err := h.queries.GetByReference(c.Request.Context(), reference, actorID, role == user.RoleAdmin)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingAccessDenied):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
		case infra.IsKind(err, infra.KindNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListMine godoc
// @Summary      List the authenticated user's bookings
// @Tags         bookings
// @Produce      json
// @Success      200 {array} queries.BookingListItem
// @Failure      401 {object} httperr.Response
// @Router       /api/bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized,
			errors.New("missing identity"), "Authentication required", nil)
		return
	}

	items, err := h.queries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Cancel godoc
// @Summary      Cancel a booking
// @Tags         bookings
// @Produce      json
// @Param        reference path string true "Booking reference"
// @Success      200 {object} response.MessageResponse
// @Failure      403 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Failure      422 {object} httperr.Response
// @Router       /api/bookings/{reference}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	if err := h.commands.CancelBooking(c.Request.Context(), c.Param("reference"), actorFrom(c)); err != nil {
		h.handleBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "booking cancelled"})
}

// Extend godoc
// @Summary      Extend a booking's return date
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        reference path string true "Booking reference"
// @Param        request body request.ExtendBookingRequest true "New return date"
// @Success      200 {object} response.QuoteResponse
// @Failure      403 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Failure      422 {object} httperr.Response
// @Router       /api/bookings/{reference}/extend [post]
func (h *BookingHandler) Extend(c *gin.Context) {
	var req request.ExtendBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	cmd := commands.ExtendBookingCommand{
		Reference: c.Param("reference"),
		NewReturn: req.NewReturn,
	}
	quote, err := h.commands.ExtendBooking(c.Request.Context(), cmd, actorFrom(c))
	if err != nil {
		h.handleBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewQuoteResponse(*quote))
}

// Complete godoc
// @Summary      Mark a booking completed after the car is returned
// @Tags         admin
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200 {object} response.MessageResponse
// @Failure      409 {object} httperr.Response
// @Router       /api/admin/bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid booking ID", nil)
		return
	}

	if err := h.commands.CompleteBooking(c.Request.Context(), id); err != nil {
		h.handleBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "booking completed"})
}

func (h *BookingHandler) handleBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBookingNotFound),
		errors.Is(err, commands.ErrCarNotFound),
		errors.Is(err, commands.ErrDriverNotFound),
		errors.Is(err, commands.ErrInsuranceNotFound),
		errors.Is(err, commands.ErrDiscountNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, err.Error(), nil)
	case errors.Is(err, commands.ErrCarUnavailable),
		errors.Is(err, commands.ErrCarOutOfService),
		errors.Is(err, commands.ErrDriverUnavailable),
		errors.Is(err, commands.ErrBookingAlreadyCancelled),
		errors.Is(err, commands.ErrInvalidBookingState),
		errors.Is(err, commands.ErrInvoiceAlreadyPaid):
		httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
	case errors.Is(err, commands.ErrNotBookingOwner):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
	case errors.Is(err, commands.ErrInvalidDateRange),
		errors.Is(err, commands.ErrInvalidGuest),
		errors.Is(err, commands.ErrInvalidDiscount),
		errors.Is(err, commands.ErrCancellationWindowPassed):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func actorFrom(c *gin.Context) commands.Actor {
	actor := commands.Actor{Role: user.RoleCustomer}
	if id, ok := middleware.GetUserID(c); ok {
		actor.UserID = &id
	}
	if role, ok := middleware.GetUserRole(c); ok {
		actor.Role = role
	}
	return actor
}
