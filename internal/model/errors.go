package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a record exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")
	// ErrEmailTaken is returned on registration with an already used email.
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so login failures do not leak which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnavailable is returned when the underlying store is unreachable
	// or the caller-supplied deadline expired. Safe to retry with backoff.
	ErrUnavailable = errors.New("store unavailable")
)

// ValidationError describes malformed or out-of-range input. Always
// client-caused, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
