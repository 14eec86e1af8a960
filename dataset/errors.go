package dataset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/filtergen/model"
)

// ErrMalformed is returned when a file cannot be parsed.
var ErrMalformed = errors.New("malformed file")

// DimensionError indicates a vector/header dimensionality mismatch. It
// matches model.ErrInvalidParameter via errors.Is.
type DimensionError struct {
	Expected int
	Actual   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is reports whether target is model.ErrInvalidParameter.
func (e *DimensionError) Is(target error) bool {
	return target == model.ErrInvalidParameter
}

func malformed(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, line, fmt.Sprintf(format, args...))
}
