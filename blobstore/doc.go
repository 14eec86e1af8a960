// Package blobstore provides the output sinks corpora are written to.
//
// Store is the interface for creating, reading and listing blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, creates intermediate directories
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with multipart streaming uploads
//   - minio.Store: MinIO and other S3-compatible storage
//
// A write that fails midway is not rolled back. A truncated blob may remain
// and must be treated as invalid; the corpus manifest is only committed
// after every file was closed successfully.
package blobstore
