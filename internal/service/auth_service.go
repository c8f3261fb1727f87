package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"docflow/internal/config"
	"docflow/internal/domain"
)

const accessAudience = "access"

// Claims represents the JWT claims with tenant context.
type Claims struct {
	jwt.RegisteredClaims
	TenantID uuid.UUID       `json:"tenant_id"`
	UserID   uuid.UUID       `json:"user_id"`
	Email    string          `json:"email"`
	Role     domain.UserRole `json:"role"`
}

// IssueTokenInput is the DTO for minting an access token.
type IssueTokenInput struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Email    string
	Role     domain.UserRole
}

// IssuedToken is a signed access token and its expiry.
type IssuedToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthService issues and validates access tokens. Users are managed by an
// external identity provider; this service only trusts tokens signed with the
// shared secret.
type AuthService interface {
	IssueToken(input IssueTokenInput) (*IssuedToken, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	cfg config.JWTConfig
	now func() time.Time
}

// NewAuthService creates a new AuthService implementation.
func NewAuthService(cfg config.JWTConfig) AuthService {
	return &authService{cfg: cfg, now: time.Now}
}

func (s *authService) IssueToken(input IssueTokenInput) (*IssuedToken, error) {
	if input.TenantID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, domain.NewValidationError("tenant_id", "tenant and user are required")
	}
	if input.Role != domain.RoleAdmin && input.Role != domain.RoleMember {
		return nil, domain.NewValidationError("role", fmt.Sprintf("unknown role %q", input.Role))
	}

	now := s.now()
	expiry := now.Add(s.cfg.AccessTokenExpiry)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   input.UserID.String(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{accessAudience},
		},
		TenantID: input.TenantID,
		UserID:   input.UserID,
		Email:    input.Email,
		Role:     input.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}
	return &IssuedToken{AccessToken: signed, ExpiresAt: expiry}, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithAudience(accessAudience), jwt.WithIssuer(s.cfg.Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
