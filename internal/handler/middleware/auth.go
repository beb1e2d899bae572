package middleware

import (
	"net/http"
	"strings"

	"carhive/internal/domain/user"
	"carhive/internal/handler/httperr"
	"carhive/internal/pkg/cookie"
	"carhive/internal/usecase"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ctxKey string

const (
	ctxUserIDKey   ctxKey = "auth_user_id"
	ctxUserRoleKey ctxKey = "auth_user_role"
)

var roleHierarchy = map[user.Role]int{
	user.RoleCustomer: 1,
	user.RoleAdmin:    2,
}

// extractToken prefers the access token cookie and falls back to the
// Authorization header for non-browser clients.
func extractToken(c *gin.Context) string {
	if token := cookie.GetAccessToken(c); token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

func RequireAuth(validator usecase.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized,
				errors.New("missing access token"), "Authentication required", nil)
			return
		}

		userID, role, err := validator.ValidateToken(token)
		if err != nil {
			httperr.AbortWithError(c, http.StatusUnauthorized,
				err, "Invalid or expired token", nil)
			return
		}

		c.Set(string(ctxUserIDKey), userID)
		c.Set(string(ctxUserRoleKey), role)
		c.Next()
	}
}

// OptionalAuth attaches identity when a valid token is present but never
// rejects the request. Guest booking flows rely on this.
func OptionalAuth(validator usecase.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if userID, role, err := validator.ValidateToken(token); err == nil {
				c.Set(string(ctxUserIDKey), userID)
				c.Set(string(ctxUserRoleKey), role)
			}
		}
		c.Next()
	}
}

func RequireRoleAtLeast(minRole user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusUnauthorized,
				errors.New("missing role in context"), "Authentication required", nil)
			return
		}

		if roleHierarchy[role] < roleHierarchy[minRole] {
			httperr.AbortWithError(c, http.StatusForbidden,
				errors.Newf("role %s below required %s", role, minRole), "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(string(ctxUserIDKey))
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	v, ok := c.Get(string(ctxUserRoleKey))
	if !ok {
		return "", false
	}
	role, ok := v.(user.Role)
	return role, ok
}
