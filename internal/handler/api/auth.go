package api

import (
	"errors"
	"net/http"

	"carhive/internal/handler/dto/request"
	"carhive/internal/handler/dto/response"
	"carhive/internal/handler/httperr"
	"carhive/internal/handler/middleware"
	"carhive/internal/pkg/config"
	"carhive/internal/pkg/cookie"
	"carhive/internal/pkg/jwt"
	"carhive/internal/usecase/commands"
	"carhive/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth        commands.AuthCommands
	userQueries queries.UserQueries
	jwtService  *jwt.Service
	cookieCfg   config.CookieConfig
}

func NewAuthHandler(
	auth commands.AuthCommands,
	userQueries queries.UserQueries,
	jwtService *jwt.Service,
	cookieCfg config.CookieConfig,
) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		userQueries: userQueries,
		jwtService:  jwtService,
		cookieCfg:   cookieCfg,
	}
}

// Register godoc
// @Summary      Register a customer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body request.RegisterRequest true "Registration details"
// @Success      201 {object} response.IDResponse
// @Failure      409 {object} httperr.Response
// @Failure      422 {object} httperr.Response
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	userID, err := h.auth.Register(c.Request.Context(), req.ToCommand())
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.IDResponse{ID: userID})
}

// Login godoc
// @Summary      Authenticate and receive an access token cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body request.LoginRequest true "Credentials"
// @Success      200 {object} response.LoginResponse
// @Failure      401 {object} httperr.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid request body", nil)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	cookie.SetAccessTokenCookie(c, h.cookieCfg, result.AccessToken, h.jwtService.TokenDuration())
	c.JSON(http.StatusOK, response.NewLoginResponse(result))
}

// Logout godoc
// @Summary      Clear the access token cookie
// @Tags         auth
// @Produce      json
// @Success      200 {object} response.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearAccessTokenCookie(c, h.cookieCfg)
	c.JSON(http.StatusOK, response.MessageResponse{Message: "logged out"})
}

// Me godoc
// @Summary      Return the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Success      200 {object} queries.AuthorizedUserView
// @Failure      401 {object} httperr.Response
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized,
			errors.New("missing identity"), "Authentication required", nil)
		return
	}

	view, err := h.userQueries.GetAuthorizedUser(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusNotFound, err, "User not found", nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrEmailAlreadyRegistered):
		httperr.AbortWithError(c, http.StatusConflict, err, "Email already registered", nil)
	case errors.Is(err, commands.ErrInvalidCredentials):
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid email or password", nil)
	case errors.Is(err, commands.ErrUserInactive):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Account is inactive", nil)
	case errors.Is(err, commands.ErrDatabaseOperationFailed),
		errors.Is(err, commands.ErrAuthenticationFailed),
		errors.Is(err, commands.ErrTokenGeneration):
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	default:
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)
	}
}
