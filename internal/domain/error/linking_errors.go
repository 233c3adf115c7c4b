// Package error defines domain-specific errors for the application.
package error

import "errors"

// Linking domain errors.
var (
	// ErrLinkingCodeNotFound is returned when a linking code is absent or
	// already expired. Callers cannot distinguish the two cases.
	ErrLinkingCodeNotFound = errors.New("linking code invalid or expired")

	// ErrLinkingCodeCollision is returned when an issued code collides with
	// an outstanding one in the store.
	ErrLinkingCodeCollision = errors.New("linking code collision")

	// ErrChannelNotLinked is returned when a channel identity has no
	// persisted link to a user account.
	ErrChannelNotLinked = errors.New("channel not linked to any account")

	// ErrLinkingRateLimited is returned when a channel exceeds the allowed
	// linking attempts inside the window.
	ErrLinkingRateLimited = errors.New("too many linking attempts")
)

// LinkingErrorCode defines error codes for linking errors.
// Format: LNK-XXYYYY where XX is category and YYYY is specific error.
type LinkingErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeLinkingCodeNotFound LinkingErrorCode = "LNK-010001"
	ErrCodeChannelNotLinked    LinkingErrorCode = "LNK-010002"

	// Transient errors (02XXXX)
	ErrCodeLinkingCodeCollision LinkingErrorCode = "LNK-020001"
	ErrCodeLinkingRateLimited   LinkingErrorCode = "LNK-020002"
	ErrCodeLinkingStoreFailure  LinkingErrorCode = "LNK-020003"
)

// LinkingError represents a linking error with code and message.
type LinkingError struct {
	Code    LinkingErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LinkingError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LinkingError) Unwrap() error {
	return e.Err
}

// NewLinkingError creates a new LinkingError with the given code and message.
func NewLinkingError(code LinkingErrorCode, message string, err error) *LinkingError {
	return &LinkingError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
