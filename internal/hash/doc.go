// Package hash provides the CRC32-Castagnoli checksums recorded for every
// generated file.
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming output:
//
//	w := hash.NewWriter(f)
//	_, _ = w.Write(chunk)
//	size, sum := w.Count(), w.Sum32()
package hash
