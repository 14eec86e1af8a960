// Package model defines core types used throughout filtergen.
//
// # Value Types
//
//   - Range: closed real interval [Lo, Hi] used for vector coordinates and uniform scalars
//   - IntRange: closed integer interval used for k and key/value bounds
//   - Record: a (vector, scalar) pair, one row of a data file
//   - Query: a (vector, k, Smin, Smax, O) tuple, one row of a query file
//   - KeyValue: one line of a key-value dump
//
// # Errors
//
// ErrInvalidParameter is the root of every validation failure. Packages
// return *ParameterError values that match it with errors.Is:
//
//	if errors.Is(err, model.ErrInvalidParameter) {
//	    // caller supplied a bad value, nothing was written
//	}
package model
