package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"docflow/internal/domain"
	"docflow/internal/middleware"
	"docflow/internal/service"
	"docflow/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(auth service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.AuthMiddleware(auth))
	handlers := append(extra, func(c *gin.Context) {
		tid, _ := middleware.GetTenantID(c)
		uid, _ := middleware.GetUserID(c)
		c.JSON(http.StatusOK, gin.H{
			"tenant_id": tid,
			"user_id":   uid,
			"role":      middleware.GetRole(c),
		})
	})
	r.GET("/test", handlers...)
	return r
}

func doGet(r http.Handler, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", http.NoBody)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	tenantID, userID := uuid.New(), uuid.New()
	mockAuth.On("ValidateToken", "valid-token").Return(&service.Claims{
		TenantID: tenantID,
		UserID:   userID,
		Role:     domain.RoleMember,
	}, nil)

	w := doGet(authRouter(mockAuth), "Bearer valid-token")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, tenantID.String(), resp["tenant_id"])
	assert.Equal(t, userID.String(), resp["user_id"])
	assert.Equal(t, "member", resp["role"])
	mockAuth.AssertExpectations(t)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)

	w := doGet(authRouter(mockAuth), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockAuth.AssertNotCalled(t, "ValidateToken")
}

func TestAuthMiddleware_NotBearer(t *testing.T) {
	w := doGet(authRouter(new(mocks.MockAuthService)), "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "bad").Return(nil, errors.New("expired"))

	w := doGet(authRouter(mockAuth), "Bearer bad")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthMiddleware_MissingTenant(t *testing.T) {
	mockAuth := new(mocks.MockAuthService)
	mockAuth.On("ValidateToken", "t").Return(&service.Claims{UserID: uuid.New(), Role: domain.RoleAdmin}, nil)

	w := doGet(authRouter(mockAuth), "Bearer t")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role domain.UserRole
		want int
	}{
		{"admin allowed", domain.RoleAdmin, http.StatusOK},
		{"member forbidden", domain.RoleMember, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(mocks.MockAuthService)
			mockAuth.On("ValidateToken", "tok").Return(&service.Claims{
				TenantID: uuid.New(), UserID: uuid.New(), Role: tt.role,
			}, nil)

			w := doGet(authRouter(mockAuth, middleware.RequireRole(domain.RoleAdmin)), "Bearer tok")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGetTenantID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := middleware.GetTenantID(c)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, domain.UserRole(""), middleware.GetRole(c))
}
