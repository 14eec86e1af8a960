package filtergen

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with generator-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.TrimSpace(s)))
	return l, err
}

// WithCorpus adds a corpus field to the logger.
func (l *Logger) WithCorpus(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("corpus", name),
	}
}

// WithRunID adds a run_id field to the logger.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithFile adds a file field to the logger.
func (l *Logger) WithFile(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", name),
	}
}

// LogFile logs a finished or failed output file.
func (l *Logger) LogFile(ctx context.Context, location string, rows, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "file write failed",
			"location", location,
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "file written",
			"location", location,
			"rows", rows,
			"bytes", bytes,
		)
	}
}

// LogCorpus logs a finished or failed corpus.
func (l *Logger) LogCorpus(ctx context.Context, kind string, rows int64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "corpus generation failed",
			"kind", kind,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "corpus generated",
			"kind", kind,
			"rows", rows,
			"duration", d,
		)
	}
}

// LogCommit logs a manifest commit.
func (l *Logger) LogCommit(ctx context.Context, version uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "manifest commit failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "manifest committed",
			"version", version,
		)
	}
}

// LogSuite logs a finished suite.
func (l *Logger) LogSuite(ctx context.Context, corpora, failed int, d time.Duration) {
	if failed > 0 {
		l.WarnContext(ctx, "suite completed with failures",
			"total", corpora,
			"failed", failed,
			"success", corpora-failed,
		)
	} else {
		l.InfoContext(ctx, "suite completed",
			"corpora", corpora,
			"duration", d,
		)
	}
}
