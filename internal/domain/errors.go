package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn signals a column name absent from the schema registry.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrColumnNotFilterable signals a registry column that cannot be filtered on.
	ErrColumnNotFilterable = errors.New("column not filterable")
	// ErrInvalidValue signals a filter value that does not fit the column kind.
	ErrInvalidValue = errors.New("invalid filter value")
	// ErrInvalidPage signals malformed pagination parameters.
	ErrInvalidPage = errors.New("invalid pagination parameters")
	// ErrStoreUnavailable signals store connectivity loss or a query deadline hit.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// FieldError wraps a validation sentinel with the client field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// NewFieldError creates a validation error naming the offending field.
func NewFieldError(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}

// IsValidation reports whether err is a client-input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrColumnNotFilterable) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrInvalidPage)
}
