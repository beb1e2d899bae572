package api

import (
	"errors"
	"net/http"

	"carhive/internal/handler/dto/request"
	"carhive/internal/handler/dto/response"
	"carhive/internal/handler/httperr"
	"carhive/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminDriverHandler struct {
	commands commands.DriverCommands
}

func NewAdminDriverHandler(cmd commands.DriverCommands) *AdminDriverHandler {
	return &AdminDriverHandler{commands: cmd}
}

// Create godoc
// @Summary      Register a chauffeur
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body request.DriverRequest true "Driver details"
// @Success      201 {object} response.IDResponse
// @Failure      409 {object} httperr.Response
// @Failure      422 {object} httperr.Response
// @Router       /api/admin/drivers [post]
func (h *AdminDriverHandler) Create(c *gin.Context) {
	var req request.DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	id, err := h.commands.CreateDriver(c.Request.Context(), req.ToSpec())
	if err != nil {
		h.handleDriverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.IDResponse{ID: id})
}

// Update godoc
// @Summary      Update a chauffeur's details
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Driver ID"
// @Param        request body request.DriverRequest true "Driver details"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} httperr.Response
// @Router       /api/admin/drivers/{id} [put]
func (h *AdminDriverHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid driver ID", nil)
		return
	}

	var req request.DriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	if err := h.commands.UpdateDriver(c.Request.Context(), id, req.ToSpec()); err != nil {
		h.handleDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "driver updated"})
}

// Delete godoc
// @Summary      Remove a chauffeur
// @Tags         admin
// @Produce      json
// @Param        id path string true "Driver ID"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Router       /api/admin/drivers/{id} [delete]
func (h *AdminDriverHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid driver ID", nil)
		return
	}

	if err := h.commands.DeleteDriver(c.Request.Context(), id); err != nil {
		h.handleDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "driver deleted"})
}

// SetStatus godoc
// @Summary      Set a chauffeur's availability
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Driver ID"
// @Param        request body request.DriverStatusRequest true "New status"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} httperr.Response
// @Router       /api/admin/drivers/{id}/status [patch]
func (h *AdminDriverHandler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid driver ID", nil)
		return
	}

	var req request.DriverStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	if err := h.commands.SetDriverStatus(c.Request.Context(), id, req.Status); err != nil {
		h.handleDriverError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "driver status updated"})
}

func (h *AdminDriverHandler) handleDriverError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrDriverNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Driver not found", nil)
	case errors.Is(err, commands.ErrDuplicateLicense):
		httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
	case errors.Is(err, commands.ErrInvalidBookingState):
		httperr.AbortWithError(c, http.StatusConflict, err, "Driver has bookings and cannot be deleted", nil)
	case errors.Is(err, commands.ErrDatabaseOperationFailed):
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	default:
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
	}
}
