package services

import "errors"

// Service-level error taxonomy. Handlers and middleware translate these to
// HTTP statuses at the boundary; nothing below the boundary writes responses.
var (
	// Token verification failures. The auth middleware collapses all three
	// into one uniform 401 so the response never reveals which check failed.
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
)
