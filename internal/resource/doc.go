// Package resource limits how many corpora are generated at once and how
// fast their files are written.
package resource
