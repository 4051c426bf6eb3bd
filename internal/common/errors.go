// Package common defines shared constants and sentinel errors used across
// the masterrol server layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound            = errors.New("not found")
	ErrorNotFoundOrForbidden = errors.New("not found or forbidden")
	ErrorConflict            = errors.New("already exists")
	ErrorStoreUnavailable    = errors.New("store unavailable")

	// Service-level errors.
	ErrorInternal          = errors.New("internal error")
	ErrorUnauthorized      = errors.New("unauthorized")
	ErrorInvalidCredential = errors.New("invalid credential")
	ErrorValidation        = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)

// FieldError describes a validation failure bound to a single input field.
// It matches ErrorValidation with errors.Is.
type FieldError struct {
	Field  string
	Reason string
}

func NewFieldError(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrorValidation }
