// Package filtergen generates reproducible synthetic corpora for benchmarking
// filtered vector search and key-value stores.
//
// A vector corpus is a data file of records (a D-dimensional vector plus one
// scalar attribute) and a query file whose rows carry a query vector, a k,
// a scalar window [Smin, Smax] and an opaque operational parameter O. A
// key-value corpus is a dump of whitespace-separated key value lines.
//
// # Quick Start
//
//	store := blobstore.NewLocalStore("./tests/_Data")
//	gen := filtergen.New(store)
//
//	m, err := gen.GenerateVectors(ctx, filtergen.VectorCorpus{
//	    Name:   "normal_p01",
//	    Seed:   42,
//	    Scalar: filtergen.ScalarSpec{Distribution: filtergen.DistNormal, Mean: 50, Variance: 25},
//	    Window: filtergen.WindowSpec{Policy: selectivity.PolicyAnalytic, Proportion: model.Ptr(0.01)},
//	})
//
// Optional counts and window parameters are pointers; nil takes the default
// and a set value, zero included, is validated as given.
//
// # Windows
//
// The analytic policy solves the window that holds a target proportion p of
// a normal or lognormal scalar distribution. For a normal scalar with mean
// μ and variance σ² it is μ ± z·σ with z = Φ⁻¹((1+p)/2). The window does not
// depend on the RNG, so every query of a corpus gets the same window.
//
// The fixed-width and half-split policies draw random windows over a range
// and promise no selectivity.
//
// # Determinism
//
// Each corpus owns one RNG seeded from its Seed. Records are drawn first,
// then each query draws its vector, k and window in that order. Equal
// corpora with equal options produce byte-identical files, independent of
// the store, the parallelism of a suite and the IO limit.
//
// # Manifests
//
// After its files are closed, a corpus commits a manifest recording the run
// id, the files with their row counts and CRC32C checksums, and the
// parameters used. Manifests are written next to the corpus files unless
// WithoutManifests is given; WithManifestCommitter replaces the default
// committer, e.g. with the DynamoDB committer of blobstore/s3.
//
// # Suites
//
// Run generates a set of corpora in parallel. Every corpus is validated
// before any file is written; a failing corpus does not stop the others.
package filtergen
