// Package common defines shared constants and sentinel errors used across
// the server and client layers of healthkeeper. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid, forged or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors. An expired token also matches ErrInvalidToken.
	ErrTokenExpired = errors.New("token expired")

	// Configuration errors.
	ErrInsecureConfig = errors.New("insecure configuration")
)

// ValidationError is a bad-input error whose message is safe to show to the
// caller. It matches ErrorValidation under errors.Is.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
