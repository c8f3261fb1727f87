package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/internal/config"
	"docflow/internal/domain"
	"docflow/internal/service"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour, Issuer: "docflow-test"}
}

func TestAuthService_IssueAndValidate(t *testing.T) {
	svc := service.NewAuthService(testJWTConfig())
	tenantID, userID := uuid.New(), uuid.New()

	issued, err := svc.IssueToken(service.IssueTokenInput{
		TenantID: tenantID, UserID: userID, Email: "ops@acme.test", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(issued.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tenantID, claims.TenantID)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "ops@acme.test", claims.Email)
}

func TestAuthService_IssueToken_Validation(t *testing.T) {
	svc := service.NewAuthService(testJWTConfig())

	_, err := svc.IssueToken(service.IssueTokenInput{UserID: uuid.New(), Role: domain.RoleMember})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.IssueToken(service.IssueTokenInput{TenantID: uuid.New(), UserID: uuid.New(), Role: "owner"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthService_ValidateToken_Rejections(t *testing.T) {
	cfg := testJWTConfig()
	svc := service.NewAuthService(cfg)

	sign := func(secret string, claims *service.Claims, method jwt.SigningMethod) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return tok
	}
	valid := func() *service.Claims {
		return &service.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    cfg.Issuer,
				Audience:  jwt.ClaimStrings{"access"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			TenantID: uuid.New(),
			UserID:   uuid.New(),
			Role:     domain.RoleMember,
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := valid()
	wrongAudience.Audience = jwt.ClaimStrings{"refresh"}

	tests := map[string]string{
		"garbage":        "not-a-token",
		"wrong secret":   sign("other-secret", valid(), jwt.SigningMethodHS256),
		"expired":        sign(cfg.Secret, expired, jwt.SigningMethodHS256),
		"wrong issuer":   sign(cfg.Secret, wrongIssuer, jwt.SigningMethodHS256),
		"wrong audience": sign(cfg.Secret, wrongAudience, jwt.SigningMethodHS256),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}

	_, err := svc.ValidateToken(sign(cfg.Secret, valid(), jwt.SigningMethodHS256))
	assert.NoError(t, err)
}
