package filtergen

import (
	"errors"
	"fmt"

	"github.com/hupe1980/filtergen/model"
)

var (
	// ErrInvalidParameter is returned when a corpus parameter is out of range.
	// Validation happens before any file is created.
	ErrInvalidParameter = model.ErrInvalidParameter

	// ErrIO is returned when an output file cannot be created, written or
	// committed. Partial files are not cleaned up.
	ErrIO = errors.New("io failure")
)

// ParameterError describes a rejected parameter. It matches
// ErrInvalidParameter via errors.Is.
type ParameterError = model.ParameterError

// IOError describes a failed file operation.
//
// The underlying error can be accessed via errors.Unwrap. It matches ErrIO
// via errors.Is.
type IOError struct {
	Op   string
	Name string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool { return target == ErrIO }

func ioError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Name: name, Err: err}
}

// CorpusError reports which corpus of a suite failed.
type CorpusError struct {
	Corpus string
	Err    error
}

func (e *CorpusError) Error() string {
	return fmt.Sprintf("corpus %s: %v", e.Corpus, e.Err)
}

func (e *CorpusError) Unwrap() error { return e.Err }
