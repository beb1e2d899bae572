//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"carhive/internal/domain/user"
	"carhive/internal/handler/dto/response"
	"carhive/internal/pkg/cookie"
	"carhive/tests/common/dbtest"
	"carhive/tests/common/httptest"
	"carhive/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	logoutURL   = "/api/auth/logout"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	dbtest.CreateTestUser(s.T(), s.DB, "admin@example.com", string(user.RoleAdmin))
	dbtest.CreateTestUser(s.T(), s.DB, "customer@example.com", string(user.RoleCustomer))
	dbtest.CreateTestUser(s.T(), s.DB, "inactive@example.com", string(user.RoleCustomer))

	ctx := s.T().Context()
	_, err := s.DB.Exec(ctx, "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestRegister() {
	s.Run("registered account can log in", func() {
		t := s.T()

		body := map[string]any{
			"email":     "newcomer@example.com",
			"password":  "correct-horse",
			"full_name": "New Comer",
			"phone":     "+1 555 0199",
		}

		var resp response.IDResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, body, "")
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &resp)

		var role string
		err := s.DB.QueryRow(t.Context(), "SELECT role FROM users WHERE id = $1", resp.ID).Scan(&role)
		require.NoError(t, err)
		require.Equal(t, "customer", role)

		token := e2e.LoginUser(t, s.Router, "newcomer@example.com", "correct-horse")
		require.NotEmpty(t, token)
	})

	s.Run("duplicate email is rejected", func() {
		t := s.T()

		body := map[string]any{
			"email":     "customer@example.com",
			"password":  "correct-horse",
			"full_name": "Copy Cat",
			"phone":     "+1 555 0198",
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, body, "")
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Email already registered")
	})

	s.Run("short password is rejected", func() {
		t := s.T()

		body := map[string]any{
			"email":     "short@example.com",
			"password":  "short",
			"full_name": "Short Pass",
			"phone":     "+1 555 0197",
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, body, "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			email:          "customer@example.com",
			password:       dbtest.TestPassword,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user",
			email:          "nobody@example.com",
			password:       dbtest.TestPassword,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password",
			email:          "customer@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "inactive account",
			email:          "inactive@example.com",
			password:       dbtest.TestPassword,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "empty email",
			email:          "",
			password:       dbtest.TestPassword,
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			body := map[string]string{"email": tt.email, "password": tt.password}
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, body, "")
			require.Equal(t, tt.expectedStatus, w.Code, "unexpected status: %s", w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				c := httptest.ExtractCookie(w, cookie.AccessTokenCookieName)
				require.NotNil(t, c, "access token cookie missing")
				require.NotEmpty(t, c.Value)
				require.True(t, c.HttpOnly)

				var lastLogin any
				err := s.DB.QueryRow(t.Context(), "SELECT last_login FROM users WHERE email = $1", tt.email).Scan(&lastLogin)
				require.NoError(t, err)
				require.NotNil(t, lastLogin, "last_login was not updated")
			}
		})
	}
}

func (s *authSuite) TestLogout() {
	s.Run("logout clears the access token cookie", func() {
		t := s.T()

		token := e2e.LoginUser(t, s.Router, "customer@example.com", dbtest.TestPassword)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		c := httptest.ExtractCookie(w, cookie.AccessTokenCookieName)
		require.NotNil(t, c)
		require.Empty(t, c.Value)
		require.Negative(t, c.MaxAge)
	})
}

func (s *authSuite) TestMe() {
	s.Run("returns the authenticated profile", func() {
		t := s.T()

		token := e2e.LoginUser(t, s.Router, "admin@example.com", dbtest.TestPassword)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		responseBody := w.Body.String()
		require.Contains(t, responseBody, "admin@example.com")
		require.Contains(t, responseBody, string(user.RoleAdmin))
		require.NotContains(t, responseBody, "password")
	})

	s.Run("rejects a garbage token", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, "not-a-jwt")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("rejects a missing token", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
