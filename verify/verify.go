package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/filtergen/blobstore"
	"github.com/hupe1980/filtergen/dataset"
	"github.com/hupe1980/filtergen/internal/compress"
	"github.com/hupe1980/filtergen/internal/hash"
	"github.com/hupe1980/filtergen/manifest"
	"github.com/hupe1980/filtergen/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrMismatch is returned when a file does not match its manifest or a
// report fails a check.
var ErrMismatch = errors.New("verification failed")

// ScalarStats summarizes the scalar column.
type ScalarStats struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// QueryReport is the result of one query against the data file.
type QueryReport struct {
	Row         int     `json:"row"`
	K           int     `json:"k"`
	SMin        float64 `json:"smin"`
	SMax        float64 `json:"smax"`
	Matches     uint64  `json:"matches"`
	Selectivity float64 `json:"selectivity"`
	// Underfilled is set when fewer than k records pass the filter.
	Underfilled bool `json:"underfilled"`
}

// Report describes a data file and its queries.
type Report struct {
	Records int         `json:"records"`
	Dim     int         `json:"dim"`
	Scalar  ScalarStats `json:"scalar"`
	// OutOfRange counts vector coordinates outside the expected range.
	// Zero when no range was given.
	OutOfRange      int           `json:"out_of_range"`
	Queries         []QueryReport `json:"queries"`
	MeanSelectivity float64       `json:"mean_selectivity"`
	// Coverage is the fraction of records matched by at least one query.
	Coverage    float64 `json:"coverage"`
	Underfilled int     `json:"underfilled"`
}

// CheckSelectivity reports an error if any query selects a fraction of
// records further than tol from p.
func (r *Report) CheckSelectivity(p, tol float64) error {
	for _, q := range r.Queries {
		if math.Abs(q.Selectivity-p) > tol {
			return fmt.Errorf("%w: query %d selects %.5f, want %.5f ± %.5f", ErrMismatch, q.Row, q.Selectivity, p, tol)
		}
	}
	return nil
}

type options struct {
	vectorRange *model.Range
}

// Option configures Verify.
type Option func(*options)

// WithVectorRange counts vector coordinates outside r.
func WithVectorRange(r model.Range) Option {
	return func(o *options) {
		o.vectorRange = &r
	}
}

// Open opens a stored file, decompressing it according to its extension.
func Open(ctx context.Context, store blobstore.Store, name string) (io.ReadCloser, error) {
	rc, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	zr, err := compress.NewReader(rc, compress.FromName(name))
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return &readCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// Verify evaluates every query of queryName against dataName.
func Verify(ctx context.Context, store blobstore.Store, dataName, queryName string, optFns ...Option) (*Report, error) {
	var opts options
	for _, fn := range optFns {
		fn(&opts)
	}

	var (
		scalars    []float64
		outOfRange int
	)
	dim, err := scan(ctx, store, dataName, func(_ int, rec model.Record) error {
		scalars = append(scalars, rec.Scalar)
		if opts.vectorRange != nil {
			for _, x := range rec.Vector {
				if !opts.vectorRange.Contains(x) {
					outOfRange++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	qf, err := readQueries(ctx, store, queryName)
	if err != nil {
		return nil, err
	}
	if len(scalars) > 0 && qf.Dim != dim {
		return nil, &dataset.DimensionError{Expected: dim, Actual: qf.Dim}
	}

	r := Evaluate(scalars, qf.Queries)
	r.Dim = dim
	r.OutOfRange = outOfRange
	return r, nil
}

// Evaluate computes a report from the scalar column and the queries.
func Evaluate(scalars []float64, queries []model.Query) *Report {
	r := &Report{
		Records: len(scalars),
		Queries: make([]QueryReport, 0, len(queries)),
	}
	if len(scalars) > 0 {
		r.Scalar.Mean, r.Scalar.Variance = stat.PopMeanVariance(scalars, nil)
		r.Scalar.Min = floats.Min(scalars)
		r.Scalar.Max = floats.Max(scalars)
	}

	idx := NewScalarIndex(scalars)
	matched := make([]*roaring.Bitmap, 0, len(queries))
	var sum float64

	for i, q := range queries {
		bm := idx.Range(q.SMin, q.SMax)
		matched = append(matched, bm)

		qr := QueryReport{
			Row:     i,
			K:       q.K,
			SMin:    q.SMin,
			SMax:    q.SMax,
			Matches: bm.GetCardinality(),
		}
		if r.Records > 0 {
			qr.Selectivity = float64(qr.Matches) / float64(r.Records)
		}
		qr.Underfilled = qr.Matches < uint64(q.K)
		if qr.Underfilled {
			r.Underfilled++
		}
		sum += qr.Selectivity
		r.Queries = append(r.Queries, qr)
	}

	if len(queries) > 0 {
		r.MeanSelectivity = sum / float64(len(queries))
	}
	if r.Records > 0 && len(matched) > 0 {
		r.Coverage = float64(roaring.FastOr(matched...).GetCardinality()) / float64(r.Records)
	}
	return r
}

// Manifest checks that every file of m exists with the recorded size,
// checksum and row count.
func Manifest(ctx context.Context, store blobstore.Store, m *manifest.Manifest) error {
	for _, f := range m.Files {
		data, err := blobstore.ReadAll(ctx, store, f.Name)
		if err != nil {
			return fmt.Errorf("read %s: %w", f.Name, err)
		}
		if int64(len(data)) != f.Bytes {
			return fmt.Errorf("%w: %s has %d bytes, manifest says %d", ErrMismatch, f.Name, len(data), f.Bytes)
		}
		if sum := hash.CRC32C(data); sum != f.CRC32C {
			return fmt.Errorf("%w: %s has crc32c %08x, manifest says %08x", ErrMismatch, f.Name, sum, f.CRC32C)
		}

		rows, err := countRows(ctx, store, f)
		if err != nil {
			return err
		}
		if rows != f.Rows {
			return fmt.Errorf("%w: %s has %d rows, manifest says %d", ErrMismatch, f.Name, rows, f.Rows)
		}
	}
	return nil
}

func countRows(ctx context.Context, store blobstore.Store, f manifest.File) (int64, error) {
	switch f.Role {
	case manifest.RoleData:
		var n int64
		_, err := scan(ctx, store, f.Name, func(int, model.Record) error {
			n++
			return nil
		})
		return n, err
	case manifest.RoleQueries:
		qf, err := readQueries(ctx, store, f.Name)
		if err != nil {
			return 0, err
		}
		return int64(len(qf.Queries)), nil
	case manifest.RoleKeyValues:
		rc, err := Open(ctx, store, f.Name)
		if err != nil {
			return 0, err
		}
		defer rc.Close()
		pairs, err := dataset.ReadKeyValues(rc)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", f.Name, err)
		}
		return int64(len(pairs)), nil
	default:
		return 0, fmt.Errorf("%w: unknown file role %q", ErrMismatch, f.Role)
	}
}

func scan(ctx context.Context, store blobstore.Store, name string, fn func(int, model.Record) error) (int, error) {
	rc, err := Open(ctx, store, name)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	dim, err := dataset.ScanData(rc, func(row int, rec model.Record) error {
		if row%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		return fn(row, rec)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return dim, nil
}

func readQueries(ctx context.Context, store blobstore.Store, name string) (*dataset.QueryFile, error) {
	rc, err := Open(ctx, store, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	qf, err := dataset.ReadQueries(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return qf, nil
}
