package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docflow/internal/domain"
	"docflow/internal/service"
)

const (
	ContextKeyTenantID = "tenant_id"
	ContextKeyUserID   = "user_id"
	ContextKeyEmail    = "email"
	ContextKeyRole     = "role"
)

func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   gin.H{"code": code, "message": msg},
	})
}

// AuthMiddleware validates the bearer token and injects tenant and user
// context. Every route behind it is tenant scoped.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}
		if claims.TenantID == uuid.Nil {
			abortJSON(c, http.StatusUnauthorized, "UNAUTHORIZED", "tenant context required")
			return
		}

		c.Set(ContextKeyTenantID, claims.TenantID)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

// RequireRole rejects requests whose role is not one of roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		abortJSON(c, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
	}
}

// GetTenantID extracts the tenant ID from the Gin context.
func GetTenantID(c *gin.Context) (uuid.UUID, error) {
	val, ok := c.Get(ContextKeyTenantID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	val, ok := c.Get(ContextKeyUserID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// GetRole extracts the user role from the Gin context.
func GetRole(c *gin.Context) domain.UserRole {
	val, _ := c.Get(ContextKeyRole)
	role, _ := val.(domain.UserRole)
	return role
}
