package api

import (
	"errors"
	"net/http"

	"carhive/internal/handler/dto/request"
	"carhive/internal/handler/dto/response"
	"carhive/internal/handler/httperr"
	"carhive/internal/infra/storage"
	"carhive/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminCarHandler struct {
	commands commands.CarCommands
	images   *storage.LocalImageStore
}

func NewAdminCarHandler(cmd commands.CarCommands, images *storage.LocalImageStore) *AdminCarHandler {
	return &AdminCarHandler{commands: cmd, images: images}
}

// Create godoc
// @Summary      Add a car to the fleet
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body request.CarRequest true "Car details"
// @Success      201 {object} response.IDResponse
// @Failure      409 {object} httperr.Response
// @Failure      422 {object} httperr.Response
// @Router       /api/admin/cars [post]
func (h *AdminCarHandler) Create(c *gin.Context) {
	var req request.CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	id, err := h.commands.CreateCar(c.Request.Context(), req.ToSpec())
	if err != nil {
		h.handleCarError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.IDResponse{ID: id})
}

// Update godoc
// @Summary      Update a car's details and status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Car ID"
// @Param        request body request.UpdateCarRequest true "Car details"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Router       /api/admin/cars/{id} [put]
func (h *AdminCarHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid car ID", nil)
		return
	}

	var req request.UpdateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	if err := h.commands.UpdateCar(c.Request.Context(), id, req.ToCommand()); err != nil {
		h.handleCarError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "car updated"})
}

// Delete godoc
// @Summary      Remove a car from the fleet
// @Tags         admin
// @Produce      json
// @Param        id path string true "Car ID"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} httperr.Response
// @Failure      409 {object} httperr.Response
// @Router       /api/admin/cars/{id} [delete]
func (h *AdminCarHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid car ID", nil)
		return
	}

	if err := h.commands.DeleteCar(c.Request.Context(), id); err != nil {
		h.handleCarError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "car deleted"})
}

// UploadImage godoc
// @Summary      Upload a photo for a car
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Car ID"
// @Param        image formData file true "Image file (jpg, png, webp)"
// @Success      200 {object} response.MessageResponse
// @Failure      404 {object} httperr.Response
// @Failure      422 {object} httperr.Response
// @Router       /api/admin/cars/{id}/image [post]
func (h *AdminCarHandler) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid car ID", nil)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Missing image file", nil)
		return
	}

	imageURL, err := h.images.Save(c, file)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImageType) {
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Unsupported image type", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	if err := h.commands.SetCarImage(c.Request.Context(), id, imageURL); err != nil {
		h.images.Delete(imageURL)
		h.handleCarError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": imageURL})
}

func (h *AdminCarHandler) handleCarError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrCarNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Car not found", nil)
	case errors.Is(err, commands.ErrDuplicateRegistration):
		httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
	case errors.Is(err, commands.ErrInvalidBookingState):
		httperr.AbortWithError(c, http.StatusConflict, err, "Car has bookings and cannot be deleted", nil)
	case errors.Is(err, commands.ErrDatabaseOperationFailed):
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	default:
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
	}
}
