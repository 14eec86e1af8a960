package filtergen

import (
	"time"

	"github.com/hupe1980/filtergen/codec"
	"github.com/hupe1980/filtergen/dataset"
	"github.com/hupe1980/filtergen/internal/compress"
	"github.com/hupe1980/filtergen/manifest"
)

// Compression selects the stream compression of output files.
type Compression = compress.Kind

// Supported compressions.
const (
	CompressionNone = compress.None
	CompressionZstd = compress.Zstd
	CompressionLZ4  = compress.LZ4
	CompressionGzip = compress.Gzip
)

// ParseCompression parses none, zstd (zst), lz4 or gzip (gz).
func ParseCompression(s string) (Compression, error) {
	return compress.ParseKind(s)
}

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	format           dataset.Format
	compression      compress.Kind
	codec            codec.Codec
	committer        manifest.Committer
	noManifests      bool
	parallelism      int
	ioLimit          int64
	clock            func() time.Time
	runID            string
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		format:           dataset.DefaultFormat(),
		compression:      compress.None,
		codec:            codec.Default,
		parallelism:      1,
		clock:            time.Now,
	}
}

// Option configures a Generator.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithFormat sets how real numbers are rendered in data and query files.
func WithFormat(f dataset.Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithCompression compresses every output file. The file name gets the
// matching extension, e.g. _data.csv.zst.
func WithCompression(k Compression) Option {
	return func(o *options) {
		o.compression = k
	}
}

// WithCodec sets the manifest codec. If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithManifestCommitter replaces the default committer, which stores
// manifests in the output store itself.
func WithManifestCommitter(c manifest.Committer) Option {
	return func(o *options) {
		o.committer = c
	}
}

// WithoutManifests disables manifest commits.
func WithoutManifests() Option {
	return func(o *options) {
		o.noManifests = true
	}
}

// WithParallelism sets how many corpora Run generates concurrently.
// Each corpus is seeded independently, so output does not depend on it.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.parallelism = n
	}
}

// WithIOLimit caps the total output throughput in bytes per second.
// 0 means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithClock sets the time source for manifest timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now == nil {
			now = time.Now
		}
		o.clock = now
	}
}

// WithRunID fixes the run id recorded in manifests. By default every
// GenerateVectors, GenerateKeyValues and Run call gets a fresh one.
func WithRunID(id string) Option {
	return func(o *options) {
		o.runID = id
	}
}
