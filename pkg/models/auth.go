package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// AuthResult is the payload returned by signup and login.
type AuthResult struct {
	User  *Principal `json:"user"`
	Token string     `json:"token"`
}

// RateLimitInfo is surfaced through X-RateLimit-* headers and in 429 bodies.
// Reset is a unix timestamp of the current window's end.
type RateLimitInfo struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}
