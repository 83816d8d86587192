package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrBadRequest    = errors.New("bad request")
	ErrConfiguration = errors.New("not configured")
	// ErrDeliveryFailed marks a message that was persisted with status
	// "failed" after the carrier call did not succeed.
	ErrDeliveryFailed = errors.New("delivery failed")
)

// ValidationError carries the field-level violations of a record that
// failed local validation. Nothing is persisted when it is returned.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}
