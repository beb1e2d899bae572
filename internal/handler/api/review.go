package api

import (
	"errors"
	"net/http"

	"carhive/internal/handler/dto/request"
	"carhive/internal/handler/dto/response"
	"carhive/internal/handler/httperr"
	"carhive/internal/handler/middleware"
	"carhive/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	commands commands.ReviewCommands
}

func NewReviewHandler(cmd commands.ReviewCommands) *ReviewHandler {
	return &ReviewHandler{commands: cmd}
}

// Create godoc
// @Summary      Review the car of a completed booking
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request body request.CreateReviewRequest true "Review details"
// @Success      201 {object} response.IDResponse
// @Failure      401 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Failure      422 {object} httperr.Response
// @Router       /api/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized,
			errors.New("missing identity"), "Authentication required", nil)
		return
	}

	var req request.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	result, err := h.commands.CreateReview(c.Request.Context(), req.ToCommand(), userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, commands.ErrReviewNotAllowed):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
		case errors.Is(err, commands.ErrDuplicateReview):
			httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
		case errors.Is(err, commands.ErrDatabaseOperationFailed):
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		default:
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
		}
		return
	}
	c.JSON(http.StatusCreated, response.IDResponse{ID: result.ReviewID})
}
