package dataset

import (
	"strconv"
)

// DefaultPrecision is the number of decimals written when no Format is given.
const DefaultPrecision = 5

// ShortestPrecision selects the shortest representation that round-trips.
const ShortestPrecision = -1

// Format controls numeric formatting. It applies to every float in a file.
type Format struct {
	// Precision is the number of decimals, or ShortestPrecision.
	Precision int
}

// DefaultFormat returns the fixed five-decimal format.
func DefaultFormat() Format {
	return Format{Precision: DefaultPrecision}
}

// Float formats x.
func (f Format) Float(x float64) string {
	prec := f.Precision
	if prec < 0 {
		prec = -1
	}
	return strconv.FormatFloat(x, 'f', prec, 64)
}

// DataHeader returns the data file header for dim dimensions.
func DataHeader(dim int) []string {
	h := make([]string, 0, dim+1)
	for i := range dim {
		h = append(h, "v"+strconv.Itoa(i+1))
	}
	return append(h, "s")
}

// QueryHeader returns the query file header for dim dimensions.
func QueryHeader(dim int) []string {
	h := make([]string, 0, dim+4)
	for i := range dim {
		h = append(h, "qv"+strconv.Itoa(i+1))
	}
	return append(h, "k", "Smin", "Smax", "O")
}
