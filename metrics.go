package filtergen

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting generation metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordCorpus is called after each corpus. rows and bytes cover all
	// files of the corpus, err is nil if successful.
	RecordCorpus(kind string, rows, bytes int64, duration time.Duration, err error)

	// RecordFile is called after each file that was closed successfully.
	RecordFile(name string, rows, bytes int64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCorpus(string, int64, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordFile(string, int64, int64)                         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	CorpusCount      atomic.Int64
	CorpusErrors     atomic.Int64
	CorpusTotalNanos atomic.Int64
	FileCount        atomic.Int64
	Rows             atomic.Int64
	Bytes            atomic.Int64
}

// RecordCorpus implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCorpus(_ string, _, _ int64, duration time.Duration, err error) {
	b.CorpusCount.Add(1)
	b.CorpusTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CorpusErrors.Add(1)
	}
}

// RecordFile implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFile(_ string, rows, bytes int64) {
	b.FileCount.Add(1)
	b.Rows.Add(rows)
	b.Bytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CorpusCount:    b.CorpusCount.Load(),
		CorpusErrors:   b.CorpusErrors.Load(),
		CorpusAvgNanos: b.getAvgCorpusNanos(),
		FileCount:      b.FileCount.Load(),
		Rows:           b.Rows.Load(),
		Bytes:          b.Bytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgCorpusNanos() int64 {
	count := b.CorpusCount.Load()
	if count == 0 {
		return 0
	}
	return b.CorpusTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CorpusCount    int64
	CorpusErrors   int64
	CorpusAvgNanos int64
	FileCount      int64
	Rows           int64
	Bytes          int64
}
