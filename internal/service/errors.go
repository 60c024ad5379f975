package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MKhiriev/go-user-prefs/models"
)

var (
	ErrWrongPassword = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrRefreshTokenInvalid     = errors.New("refresh token is expired, revoked or unknown")

	ErrUnknownSection = errors.New("unknown preferences section")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")
)

// ValidationError carries per-field validation messages for a rejected
// request. The HTTP layer serialises Errors verbatim into the response body.
type ValidationError struct {
	Errors models.ValidationErrors
}

// NewValidationError builds a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: models.ValidationErrors{field: message}}
}

// Error implements the error interface with a deterministic field order.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Errors[field]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}
