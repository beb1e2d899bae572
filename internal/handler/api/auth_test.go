//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"carhive/internal/domain/user"
	"carhive/internal/handler/api"
	"carhive/internal/handler/dto/response"
	"carhive/internal/pkg/config"
	"carhive/internal/pkg/cookie"
	"carhive/internal/pkg/jwt"
	"carhive/internal/usecase/commands"
	"carhive/internal/usecase/queries"
	"carhive/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type stubAuthCommands struct {
	registerFn func(ctx context.Context, cmd commands.RegisterCommand) (uuid.UUID, error)
	loginFn    func(ctx context.Context, email, plainPassword string) (*commands.LoginResult, error)
}

func (s *stubAuthCommands) Register(ctx context.Context, cmd commands.RegisterCommand) (uuid.UUID, error) {
	return s.registerFn(ctx, cmd)
}

func (s *stubAuthCommands) Login(ctx context.Context, email, plainPassword string) (*commands.LoginResult, error) {
	return s.loginFn(ctx, email, plainPassword)
}

type stubUserQueries struct {
	getFn func(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error)
}

func (s *stubUserQueries) GetAuthorizedUser(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	return s.getFn(ctx, id)
}

type AuthHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *stubAuthCommands
	queries  *stubUserQueries
	userID   uuid.UUID
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.commands = &stubAuthCommands{}
	s.queries = &stubUserQueries{}
	s.userID = uuid.New()

	handler := api.NewAuthHandler(
		s.commands, s.queries,
		jwt.NewService("test-secret", time.Hour),
		config.CookieConfig{SameSite: "Lax"},
	)

	requireAuth := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Authentication required"}})
			return
		}
		c.Set("auth_user_id", s.userID)
		c.Set("auth_user_role", user.RoleCustomer)
		c.Next()
	}

	s.router.POST("/auth/register", handler.Register)
	s.router.POST("/auth/login", handler.Login)
	s.router.POST("/auth/logout", handler.Logout)
	s.router.GET("/auth/me", requireAuth, handler.Me)
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) TestRegister() {
	body := map[string]any{
		"email":     "alice@example.com",
		"password":  "correct-horse",
		"full_name": "Alice Martin",
		"phone":     "+1 555 0100",
	}

	s.Run("returns the new user id", func() {
		id := uuid.New()
		s.commands.registerFn = func(_ context.Context, cmd commands.RegisterCommand) (uuid.UUID, error) {
			s.Equal("alice@example.com", cmd.Email)
			return id, nil
		}

		var resp response.IDResponse
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/register", body, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
		s.Equal(id, resp.ID)
	})

	s.Run("409 on duplicate email", func() {
		s.commands.registerFn = func(_ context.Context, _ commands.RegisterCommand) (uuid.UUID, error) {
			return uuid.Nil, commands.ErrEmailAlreadyRegistered
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/register", body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Email already registered")
	})

	s.Run("422 on short password", func() {
		bad := map[string]any{
			"email":     "alice@example.com",
			"password":  "short",
			"full_name": "Alice Martin",
			"phone":     "+1 555 0100",
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/register", bad, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Invalid request body")
	})

	s.Run("422 on domain validation failure", func() {
		s.commands.registerFn = func(_ context.Context, _ commands.RegisterCommand) (uuid.UUID, error) {
			return uuid.Nil, user.ErrInvalidPhone
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/register", body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "")
	})
}

func (s *AuthHandlerTestSuite) TestLogin() {
	body := map[string]any{"email": "alice@example.com", "password": "correct-horse"}

	s.Run("sets the access token cookie", func() {
		id := uuid.New()
		s.commands.loginFn = func(_ context.Context, email, plain string) (*commands.LoginResult, error) {
			s.Equal("alice@example.com", email)
			s.Equal("correct-horse", plain)
			return &commands.LoginResult{UserID: id, Role: user.RoleCustomer, AccessToken: "signed-token"}, nil
		}

		var resp response.LoginResponse
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/login", body, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal(id, resp.UserID)

		c := httptest.ExtractCookie(rec, cookie.AccessTokenCookieName)
		s.Require().NotNil(c)
		s.Equal("signed-token", c.Value)
		s.True(c.HttpOnly)
	})

	s.Run("401 on bad credentials", func() {
		s.commands.loginFn = func(_ context.Context, _, _ string) (*commands.LoginResult, error) {
			return nil, commands.ErrInvalidCredentials
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/login", body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid email or password")
	})

	s.Run("403 on deactivated account", func() {
		s.commands.loginFn = func(_ context.Context, _, _ string) (*commands.LoginResult, error) {
			return nil, commands.ErrUserInactive
		}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/login", body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Account is inactive")
	})
}

func (s *AuthHandlerTestSuite) TestLogout() {
	rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/logout", nil, "")
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)

	c := httptest.ExtractCookie(rec, cookie.AccessTokenCookieName)
	s.Require().NotNil(c)
	s.Empty(c.Value)
	s.Negative(c.MaxAge)
}

func (s *AuthHandlerTestSuite) TestMe() {
	s.Run("returns the profile", func() {
		s.queries.getFn = func(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
			s.Equal(s.userID, id)
			return &queries.AuthorizedUserView{ID: id, Email: "alice@example.com", Role: "customer", IsActive: true}, nil
		}

		var resp queries.AuthorizedUserView
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/auth/me", nil, "token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Equal("alice@example.com", resp.Email)
	})

	s.Run("401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/auth/me", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Authentication required")
	})
}
