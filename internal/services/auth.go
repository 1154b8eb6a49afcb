package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/config"
	"github.com/temcen/taskhub/pkg/models"
)

const tokenIssuer = "github.com/temcen/taskhub"

// AuthService issues and verifies the bearer tokens used on every protected
// request. Tokens are self-contained and never stored server-side; there is
// no revocation before natural expiry.
type AuthService struct {
	logger    *logrus.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{
		logger:    logger,
		jwtSecret: []byte(cfg.Auth.JWTSecret),
		tokenTTL:  cfg.Auth.TokenTTL,
	}
}

// IssueToken signs an HS256 token for the principal with the configured
// lifetime.
func (s *AuthService) IssueToken(p *models.Principal) (string, error) {
	return s.IssueTokenWithTTL(p, s.tokenTTL)
}

// IssueTokenWithTTL allows short-lived variants (and expiry tests) without
// touching the configured session lifetime.
func (s *AuthService) IssueTokenWithTTL(p *models.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		UserID: p.ID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a token string. Failures map onto the
// service taxonomy: ErrTokenExpired, ErrTokenSignature or ErrTokenMalformed.
// Verification has no side effects.
func (s *AuthService) VerifyToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
