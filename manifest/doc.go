// Package manifest records what a generation run produced.
//
// Every successfully generated corpus gets a manifest listing its files
// with row counts, sizes and CRC32C checksums, the seed and the resolved
// parameters. A corpus that failed midway has no manifest, so a truncated
// file is never mistaken for a finished one.
//
// Manifests are versioned per corpus. BlobCommitter keeps a CURRENT pointer
// in the same blob store as the data; the s3 package provides a committer
// that coordinates versions through DynamoDB.
package manifest
