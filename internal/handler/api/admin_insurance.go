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

type AdminInsuranceHandler struct {
	commands commands.InsuranceCommands
}

func NewAdminInsuranceHandler(cmd commands.InsuranceCommands) *AdminInsuranceHandler {
	return &AdminInsuranceHandler{commands: cmd}
}

// Create godoc
// @Summary      Add an insurance plan
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body request.InsuranceRequest true "Insurance details"
// @Success      201 {object} response.IDResponse
// @Failure      409 {object} httperr.Response
// @Router       /api/admin/insurances [post]
func (h *AdminInsuranceHandler) Create(c *gin.Context) {
	var req request.InsuranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	id, err := h.commands.CreateInsurance(c.Request.Context(), req.ToCommand())
	if err != nil {
		h.handleInsuranceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.IDResponse{ID: id})
}

// Update godoc
// @Summary      Update an insurance plan
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Insurance ID"
// @Param        request body request.InsuranceRequest true "Insurance details"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} httperr.Response
// @Router       /api/admin/insurances/{id} [put]
func (h *AdminInsuranceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid insurance ID", nil)
		return
	}

	var req request.InsuranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	if err := h.commands.UpdateInsurance(c.Request.Context(), id, req.ToCommand()); err != nil {
		h.handleInsuranceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "insurance updated"})
}

// Delete godoc
// @Summary      Remove an insurance plan
// @Tags         admin
// @Produce      json
// @Param        id path string true "Insurance ID"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Router       /api/admin/insurances/{id} [delete]
func (h *AdminInsuranceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid insurance ID", nil)
		return
	}

	if err := h.commands.DeleteInsurance(c.Request.Context(), id); err != nil {
		h.handleInsuranceError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "insurance deleted"})
}

func (h *AdminInsuranceHandler) handleInsuranceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInsuranceNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Insurance not found", nil)
	case errors.Is(err, commands.ErrDuplicateInsurance):
		httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
	case errors.Is(err, commands.ErrInvalidBookingState):
		httperr.AbortWithError(c, http.StatusConflict, err, "Insurance is referenced by bookings", nil)
	case errors.Is(err, commands.ErrDatabaseOperationFailed):
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	default:
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
	}
}
