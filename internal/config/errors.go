package config

import (
	"errors"
	"fmt"
)

// Error is a configuration error: an invalid setting or a missing required
// input. Configuration errors are raised before any cluster call and are
// never worth retrying.
type Error struct {
	Field   string // setting or request field that failed validation
	Message string // human-readable reason
}

// NewError returns a configuration error for field.
func NewError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// IsConfigError reports whether err is, or wraps, a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}
