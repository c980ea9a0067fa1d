// Package common defines shared constants and sentinel errors used across
// client and server layers of DevConnector. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorConflict     = errors.New("conflict")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// FieldError attaches field-level messages to one of the sentinel errors
// above. The Fields map is returned to API clients verbatim.
type FieldError struct {
	Kind   error
	Fields map[string]string
}

// NewFieldError builds a FieldError with a single field message.
func NewFieldError(kind error, field, message string) *FieldError {
	return &FieldError{Kind: kind, Fields: map[string]string{field: message}}
}

func (e *FieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Kind.Error() + ": " + strings.Join(parts, "; ")
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}
