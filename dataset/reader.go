package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/filtergen/model"
)

// DataFile is a parsed data file.
type DataFile struct {
	Dim     int
	Records []model.Record
}

// QueryFile is a parsed query file.
type QueryFile struct {
	Dim     int
	Queries []model.Query
}

// ScanData streams a data file, calling fn for each record in row order.
// The dimension is deduced from the header: every column but the last
// is a vector coordinate. It returns the dimension.
func ScanData(r io.Reader, fn func(row int, rec model.Record) error) (int, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, malformed(1, "missing header")
	}
	if err != nil {
		return 0, malformed(1, "%v", err)
	}
	if len(header) < 2 || header[len(header)-1] != "s" {
		return 0, malformed(1, "unexpected data header %q", strings.Join(header, ","))
	}
	dim := len(header) - 1

	for row := 0; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return dim, nil
		}
		if err != nil {
			return dim, malformed(row+2, "%v", err)
		}

		vec := make([]float64, dim)
		for i := range dim {
			if vec[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
				return dim, malformed(row+2, "column %s: %v", header[i], err)
			}
		}
		s, err := strconv.ParseFloat(fields[dim], 64)
		if err != nil {
			return dim, malformed(row+2, "column s: %v", err)
		}

		if err := fn(row, model.Record{Vector: vec, Scalar: s}); err != nil {
			return dim, err
		}
	}
}

// ReadData parses a whole data file.
func ReadData(r io.Reader) (*DataFile, error) {
	df := &DataFile{}
	dim, err := ScanData(r, func(_ int, rec model.Record) error {
		df.Records = append(df.Records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	df.Dim = dim
	return df, nil
}

// ReadQueries parses a whole query file.
func ReadQueries(r io.Reader) (*QueryFile, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, malformed(1, "missing header")
	}
	if err != nil {
		return nil, malformed(1, "%v", err)
	}
	n := len(header)
	if n < 5 || strings.Join(header[n-4:], ",") != "k,Smin,Smax,O" {
		return nil, malformed(1, "unexpected query header %q", strings.Join(header, ","))
	}
	dim := n - 4

	qf := &QueryFile{Dim: dim}
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return qf, nil
		}
		if err != nil {
			return nil, malformed(line, "%v", err)
		}

		q := model.Query{Vector: make([]float64, dim)}
		for i := range dim {
			if q.Vector[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
				return nil, malformed(line, "column %s: %v", header[i], err)
			}
		}
		if q.K, err = strconv.Atoi(fields[dim]); err != nil {
			return nil, malformed(line, "column k: %v", err)
		}
		if q.SMin, err = strconv.ParseFloat(fields[dim+1], 64); err != nil {
			return nil, malformed(line, "column Smin: %v", err)
		}
		if q.SMax, err = strconv.ParseFloat(fields[dim+2], 64); err != nil {
			return nil, malformed(line, "column Smax: %v", err)
		}
		if q.O, err = strconv.ParseInt(fields[dim+3], 10, 64); err != nil {
			return nil, malformed(line, "column O: %v", err)
		}

		qf.Queries = append(qf.Queries, q)
	}
}

// ReadKeyValues parses a key-value dump.
func ReadKeyValues(r io.Reader) ([]model.KeyValue, error) {
	var out []model.KeyValue

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			return nil, malformed(line, "expected 2 fields, got %d", len(fields))
		}
		out = append(out, model.KeyValue{Key: fields[0], Value: fields[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
