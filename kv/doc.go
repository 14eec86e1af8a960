// Package kv generates plain-text key-value dumps ("key value" per line)
// for loading ordered indexes such as B+ trees.
//
// Three shapes are supported: unique alphanumeric keys with integer values,
// integer keys with alphanumeric values, and integer keys with integer
// values. All draws come from a caller-supplied seeded RNG.
package kv
