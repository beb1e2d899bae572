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

type AdminDiscountHandler struct {
	commands commands.DiscountCommands
}

func NewAdminDiscountHandler(cmd commands.DiscountCommands) *AdminDiscountHandler {
	return &AdminDiscountHandler{commands: cmd}
}

// Create godoc
// @Summary      Create a discount code
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body request.DiscountCodeRequest true "Discount code details"
// @Success      201 {object} response.IDResponse
// @Failure      409 {object} httperr.Response
// @Failure      422 {object} httperr.Response
// @Router       /api/admin/discount-codes [post]
func (h *AdminDiscountHandler) Create(c *gin.Context) {
	var req request.DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	id, err := h.commands.CreateDiscountCode(c.Request.Context(), req.ToSpec())
	if err != nil {
		h.handleDiscountError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.IDResponse{ID: id})
}

// Deactivate godoc
// @Summary      Deactivate a discount code without deleting it
// @Tags         admin
// @Produce      json
// @Param        code path string true "Discount code"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} httperr.Response
// @Router       /api/admin/discount-codes/{code}/deactivate [post]
func (h *AdminDiscountHandler) Deactivate(c *gin.Context) {
	if err := h.commands.DeactivateDiscountCode(c.Request.Context(), c.Param("code")); err != nil {
		h.handleDiscountError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "discount code deactivated"})
}

// Delete godoc
// @Summary      Delete a discount code
// @Tags         admin
// @Produce      json
// @Param        id path string true "Discount code ID"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Router       /api/admin/discount-codes/{id} [delete]
func (h *AdminDiscountHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid discount code ID", nil)
		return
	}

	if err := h.commands.DeleteDiscountCode(c.Request.Context(), id); err != nil {
		h.handleDiscountError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "discount code deleted"})
}

func (h *AdminDiscountHandler) handleDiscountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrDiscountNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Discount code not found", nil)
	case errors.Is(err, commands.ErrDuplicateDiscountCode):
		httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
	case errors.Is(err, commands.ErrInvalidBookingState):
		httperr.AbortWithError(c, http.StatusConflict, err, "Discount code is referenced by bookings", nil)
	case errors.Is(err, commands.ErrDatabaseOperationFailed):
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	default:
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
	}
}
