package compress

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Kind identifies a stream compression format for output files.
type Kind string

const (
	// None writes files uncompressed.
	None Kind = "none"
	// Zstd writes zstd frames (better ratio).
	Zstd Kind = "zstd"
	// LZ4 writes lz4 frames (fast).
	LZ4 Kind = "lz4"
	// Gzip writes gzip members, readable by standard tooling.
	Gzip Kind = "gzip"
)

// Kinds lists all supported kinds.
var Kinds = []Kind{None, Zstd, LZ4, Gzip}

// ParseKind parses a kind name. The empty string maps to None.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", None:
		return None, nil
	case Zstd, LZ4, Gzip:
		return k, nil
	case "zst":
		return Zstd, nil
	case "gz":
		return Gzip, nil
	default:
		return "", fmt.Errorf("unknown compression %q", s)
	}
}

// Ext returns the file name extension appended for this kind.
func (k Kind) Ext() string {
	switch k {
	case Zstd:
		return ".zst"
	case LZ4:
		return ".lz4"
	case Gzip:
		return ".gz"
	default:
		return ""
	}
}

// FromName infers the kind from a file name extension.
func FromName(name string) Kind {
	for _, k := range Kinds {
		if ext := k.Ext(); ext != "" && strings.HasSuffix(name, ext) {
			return k
		}
	}
	return None
}

// NewWriter returns a writer compressing into w. Closing the returned
// writer flushes the compressed stream but does not close w.
//
// Encoders run single-threaded so identical input always yields identical
// output bytes.
func NewWriter(w io.Writer, k Kind) (io.WriteCloser, error) {
	switch k {
	case "", None:
		return nopWriteCloser{w}, nil
	case Zstd:
		return zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderConcurrency(1),
		)
	case LZ4:
		zw := lz4.NewWriter(w)
		if err := zw.Apply(lz4.ConcurrencyOption(1)); err != nil {
			return nil, err
		}
		return zw, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", string(k))
	}
}

// NewReader returns a reader decompressing r. Closing the returned reader
// releases decoder state but does not close r.
func NewReader(r io.Reader, k Kind) (io.ReadCloser, error) {
	switch k {
	case "", None:
		return io.NopCloser(r), nil
	case Zstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case Gzip:
		return gzip.NewReader(r)
	default:
		return nil, fmt.Errorf("unknown compression %q", string(k))
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
