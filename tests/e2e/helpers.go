//go:build e2e

package e2e

import (
	"net/http"
	"testing"

	"carhive/internal/pkg/cookie"
	"carhive/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// LoginUser logs in through the public API and returns the signed access
// token from the response cookie, usable as a bearer token.
func LoginUser(t *testing.T, router *gin.Engine, email, plainPassword string) string {
	t.Helper()

	body := map[string]string{"email": email, "password": plainPassword}
	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login", body, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	c := httptest.ExtractCookie(w, cookie.AccessTokenCookieName)
	require.NotNil(t, c, "access token cookie missing")
	require.NotEmpty(t, c.Value)
	return c.Value
}
