package model

import (
	"fmt"
	"math"
)

// Range is a closed interval [Lo, Hi] of real numbers.
type Range struct {
	Lo float64 `yaml:"lo" json:"lo"`
	Hi float64 `yaml:"hi" json:"hi"`
}

// Validate reports an error if the range is empty or not a number.
func (r Range) Validate(field string) error {
	if math.IsNaN(r.Lo) || math.IsNaN(r.Hi) {
		return NewParameterError(field, r, "bounds must be numbers")
	}
	if math.IsInf(r.Lo, 0) || math.IsInf(r.Hi, 0) {
		return NewParameterError(field, r, "bounds must be finite")
	}
	if r.Lo > r.Hi {
		return NewParameterError(field, r, "lo must not exceed hi")
	}
	return nil
}

// Contains reports whether x lies in [Lo, Hi].
func (r Range) Contains(x float64) bool {
	return x >= r.Lo && x <= r.Hi
}

// Width returns Hi - Lo.
func (r Range) Width() float64 {
	return r.Hi - r.Lo
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return r.Lo + (r.Hi-r.Lo)/2
}

// String returns a string representation of the Range.
func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Lo, r.Hi)
}

// IntRange is a closed interval [Lo, Hi] of integers.
type IntRange struct {
	Lo int64 `yaml:"lo" json:"lo"`
	Hi int64 `yaml:"hi" json:"hi"`
}

// Validate reports an error if the range is empty.
func (r IntRange) Validate(field string) error {
	if r.Lo > r.Hi {
		return NewParameterError(field, r, "lo must not exceed hi")
	}
	return nil
}

// Span returns the number of integers in the range.
func (r IntRange) Span() uint64 {
	return uint64(r.Hi-r.Lo) + 1
}

// String returns a string representation of the IntRange.
func (r IntRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.Lo, r.Hi)
}

// Record is one row of a data file.
type Record struct {
	Vector []float64
	Scalar float64
}

// Query is one row of a query file.
// SMin <= SMax holds for every query produced by this module.
type Query struct {
	Vector []float64
	K      int
	SMin   float64
	SMax   float64
	// O is an opaque operational parameter passed through unchanged.
	O int64
}

// KeyValue is one line of a key-value dump.
type KeyValue struct {
	Key   string
	Value string
}

// Ptr returns a pointer to v. Optional corpus fields are pointers so the
// zero value stays distinguishable from unset.
func Ptr[T any](v T) *T { return &v }

// Deref returns *p, or def if p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
