// Package sampler draws the random fields of a benchmark corpus.
//
// All randomness flows through an explicit *RNG. There is no package-level
// random state, so two samplers seeded alike produce identical streams and
// independent corpora can be generated in parallel.
//
//	rng := sampler.NewRNG(42)
//	s, err := sampler.New(sampler.Config{
//	    Dim:         4,
//	    VectorRange: model.Range{Lo: 0, Hi: 10},
//	    Scalar:      sampler.NewNormal(50, 25),
//	})
//	recs := s.Records(rng, 1024)
//
// Vector coordinates are always uniform. The scalar field follows exactly
// one Distribution per Sampler.
package sampler
