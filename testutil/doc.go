// Package testutil provides testing utilities for filtergen.
//
// This package is intended for use in tests only. It provides seeded
// scalar and window generators independent of the sampler package, plus
// brute-force range evaluation to check indexes and reports against.
//
//	rng := testutil.NewRNG(seed)
//	scalars := rng.NormalScalars(10000, 50, 5)
//	ids := testutil.BruteForceRange(scalars, 49, 51)
package testutil
