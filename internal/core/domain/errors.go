package domain

import "errors"

// Sentinel errors shared across the service and API layers. The API error
// handler maps each one to a stable error tag and HTTP status.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUser      = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrUserNotFound       = errors.New("user not found")

	// Token verification failures. Both resolve to UNAUTHORIZED at the API
	// boundary; they stay distinct so callers and tests can tell a stale
	// token from a forged one.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token signature")
)
