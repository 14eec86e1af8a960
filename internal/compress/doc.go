// Package compress wraps output files in zstd, lz4 or gzip streams.
package compress
