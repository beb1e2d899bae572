package api

import (
	"errors"
	"net/http"
	"time"

	"carhive/internal/handler/httperr"
	"carhive/internal/infra"
	"carhive/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type CarHandler struct {
	queries queries.CarQueries
}

func NewCarHandler(q queries.CarQueries) *CarHandler {
	return &CarHandler{queries: q}
}

// List godoc
// @Summary      List the catalog, optionally filtered to cars free over a window
// @Tags         cars
// @Produce      json
// @Param        pickup_date query string false "Pickup date (YYYY-MM-DD)"
// @Param        return_date query string false "Return date (YYYY-MM-DD)"
// @Success      200 {array} queries.CarView
// @Failure      422 {object} httperr.Response
// @Router       /api/cars [get]
func (h *CarHandler) List(c *gin.Context) {
	pickup, ok := parseDateQuery(c, "pickup_date")
	if !ok {
		return
	}
	ret, ok := parseDateQuery(c, "return_date")
	if !ok {
		return
	}

	views, err := h.queries.List(c.Request.Context(), pickup, ret)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidAvailabilityWindow) {
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Return date must be after pickup date", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, views)
}

// Get godoc
// @Summary      Fetch a single car
// @Tags         cars
// @Produce      json
// @Param        id path string true "Car ID"
// @Success      200 {object} queries.CarView
// @Failure      404 {object} httperr.Response
// @Router       /api/cars/{id} [get]
func (h *CarHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid car ID", nil)
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Car not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Reviews godoc
// @Summary      List reviews for a car
// @Tags         cars
// @Produce      json
// @Param        id path string true "Car ID"
// @Success      200 {array} queries.ReviewView
// @Router       /api/cars/{id}/reviews [get]
func (h *CarHandler) Reviews(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid car ID", nil)
		return
	}

	views, err := h.queries.ReviewsByCar(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, views)
}

func parseDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid "+name+" format, expected YYYY-MM-DD", nil)
		return nil, false
	}
	return &t, true
}
