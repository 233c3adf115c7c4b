package error

import "errors"

// Auth domain errors.
var (
	// ErrInvalidToken is returned when a token is malformed, expired or has
	// an unexpected type.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrMissingToken is returned when no token is supplied on a protected
	// endpoint.
	ErrMissingToken = errors.New("authorization token required")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	ErrCodeMissingToken AuthErrorCode = "AUTH-010001"
	ErrCodeInvalidToken AuthErrorCode = "AUTH-010002"
	ErrCodeRateLimited  AuthErrorCode = "AUTH-020001"
)
