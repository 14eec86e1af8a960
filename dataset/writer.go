package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/hupe1980/filtergen/model"
)

// DataWriter writes a data file.
type DataWriter struct {
	w      *csv.Writer
	dim    int
	format Format
	row    []string
	rows   int
}

// NewDataWriter writes the header for dim dimensions and returns the writer.
func NewDataWriter(w io.Writer, dim int, format Format) (*DataWriter, error) {
	if dim <= 0 {
		return nil, model.NewParameterError("dim", dim, "must be positive")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(DataHeader(dim)); err != nil {
		return nil, err
	}

	return &DataWriter{
		w:      cw,
		dim:    dim,
		format: format,
		row:    make([]string, dim+1),
	}, nil
}

// Write appends one record.
func (d *DataWriter) Write(rec model.Record) error {
	if len(rec.Vector) != d.dim {
		return &DimensionError{Expected: d.dim, Actual: len(rec.Vector)}
	}

	for i, x := range rec.Vector {
		d.row[i] = d.format.Float(x)
	}
	d.row[d.dim] = d.format.Float(rec.Scalar)

	if err := d.w.Write(d.row); err != nil {
		return err
	}
	d.rows++
	return nil
}

// Flush writes buffered rows to the underlying writer.
func (d *DataWriter) Flush() error {
	d.w.Flush()
	return d.w.Error()
}

// Rows returns the number of records written.
func (d *DataWriter) Rows() int { return d.rows }

// QueryWriter writes a query file.
type QueryWriter struct {
	w      *csv.Writer
	dim    int
	format Format
	row    []string
	rows   int
}

// NewQueryWriter writes the header for dim dimensions and returns the writer.
func NewQueryWriter(w io.Writer, dim int, format Format) (*QueryWriter, error) {
	if dim <= 0 {
		return nil, model.NewParameterError("dim", dim, "must be positive")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(QueryHeader(dim)); err != nil {
		return nil, err
	}

	return &QueryWriter{
		w:      cw,
		dim:    dim,
		format: format,
		row:    make([]string, dim+4),
	}, nil
}

// Write appends one query.
func (q *QueryWriter) Write(query model.Query) error {
	if len(query.Vector) != q.dim {
		return &DimensionError{Expected: q.dim, Actual: len(query.Vector)}
	}
	if math.IsNaN(query.SMin) || math.IsNaN(query.SMax) {
		return model.NewParameterError("query.window", []float64{query.SMin, query.SMax}, "bounds must be numbers")
	}
	if query.SMin > query.SMax {
		return model.NewParameterError("query.smin", query.SMin, "exceeds smax")
	}

	for i, x := range query.Vector {
		q.row[i] = q.format.Float(x)
	}
	q.row[q.dim] = strconv.Itoa(query.K)
	q.row[q.dim+1] = q.format.Float(query.SMin)
	q.row[q.dim+2] = q.format.Float(query.SMax)
	q.row[q.dim+3] = strconv.FormatInt(query.O, 10)

	if err := q.w.Write(q.row); err != nil {
		return err
	}
	q.rows++
	return nil
}

// Flush writes buffered rows to the underlying writer.
func (q *QueryWriter) Flush() error {
	q.w.Flush()
	return q.w.Error()
}

// Rows returns the number of queries written.
func (q *QueryWriter) Rows() int { return q.rows }

// KVWriter writes a key-value dump.
type KVWriter struct {
	w    *bufio.Writer
	rows int
}

// NewKVWriter returns a KVWriter.
func NewKVWriter(w io.Writer) *KVWriter {
	return &KVWriter{w: bufio.NewWriter(w)}
}

// Write appends one "key value" line.
func (k *KVWriter) Write(kv model.KeyValue) error {
	if _, err := k.w.WriteString(kv.Key); err != nil {
		return err
	}
	if err := k.w.WriteByte(' '); err != nil {
		return err
	}
	if _, err := k.w.WriteString(kv.Value); err != nil {
		return err
	}
	if err := k.w.WriteByte('\n'); err != nil {
		return err
	}
	k.rows++
	return nil
}

// Flush writes buffered lines to the underlying writer.
func (k *KVWriter) Flush() error { return k.w.Flush() }

// Rows returns the number of pairs written.
func (k *KVWriter) Rows() int { return k.rows }
