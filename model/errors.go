package model

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned when a caller-supplied parameter is out of range.
// Validation happens before any I/O.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParameterError describes a rejected parameter.
//
// It matches ErrInvalidParameter via errors.Is.
type ParameterError struct {
	Field  string
	Value  any
	Reason string
}

// NewParameterError returns a *ParameterError for field.
func NewParameterError(field string, value any, reason string) *ParameterError {
	return &ParameterError{Field: field, Value: value, Reason: reason}
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidParameter.
func (e *ParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}
