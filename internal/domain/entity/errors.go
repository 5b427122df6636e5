package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPlan compose requested with no positive planned entries
	ErrEmptyPlan = errors.New("planned ledger is empty")

	// ErrNoUserName session has no user name yet
	ErrNoUserName = errors.New("user name is not set")

	// ErrRowNotFound row id is outside the current catalog
	ErrRowNotFound = errors.New("row not found")
)

// SchemaError a structurally required column is missing from the sheet.
type SchemaError struct {
	Column  string
	Headers []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column %q not found (headers: %d)", e.Column, len(e.Headers))
}

// IsSchemaError reports whether err carries a *SchemaError.
func IsSchemaError(err error) (*SchemaError, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
