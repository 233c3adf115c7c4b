package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenClaims represents the validated claims of an access token.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

// TokenService validates access tokens issued by the main application.
// This service does not register or log users in; it only verifies that a
// presented bearer token is a live access token and extracts its claims.
type TokenService interface {
	// ValidateAccessToken parses and validates an access token string.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)

	// GenerateAccessToken creates a signed access token for the user. Used by
	// tooling and tests; production tokens come from the main application.
	GenerateAccessToken(userID uuid.UUID, email string, ttl time.Duration) (string, error)
}
