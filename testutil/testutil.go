package testutil

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/hupe1980/filtergen/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// UniformScalars returns n values uniform in [lo, hi).
func (r *RNG) UniformScalars(n int, lo, hi float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, n)
	for i := range out {
		out[i] = lo + r.rand.Float64()*(hi-lo)
	}
	return out
}

// NormalScalars returns n values drawn from N(mean, stddev²).
func (r *RNG) NormalScalars(n int, mean, stddev float64) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, n)
	for i := range out {
		out[i] = mean + stddev*r.rand.NormFloat64()
	}
	return out
}

// Windows returns n random closed windows inside [lo, hi].
func (r *RNG) Windows(n int, lo, hi float64) []model.Range {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Range, n)
	for i := range out {
		a := lo + r.rand.Float64()*(hi-lo)
		b := lo + r.rand.Float64()*(hi-lo)
		out[i] = model.Range{Lo: math.Min(a, b), Hi: math.Max(a, b)}
	}
	return out
}

// Scalars extracts the scalar column of records.
func Scalars(records []model.Record) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = rec.Scalar
	}
	return out
}

// BruteForceRange returns the sorted row ids with lo <= s <= hi by a full scan.
func BruteForceRange(scalars []float64, lo, hi float64) []uint32 {
	var ids []uint32
	for i, s := range scalars {
		if s >= lo && s <= hi {
			ids = append(ids, uint32(i))
		}
	}
	return ids
}

// Fraction returns the share of scalars in [lo, hi].
func Fraction(scalars []float64, lo, hi float64) float64 {
	if len(scalars) == 0 {
		return 0
	}
	return float64(len(BruteForceRange(scalars, lo, hi))) / float64(len(scalars))
}

// Covered returns the number of distinct rows matched by any window.
func Covered(scalars []float64, windows []model.Range) int {
	seen := make(map[uint32]struct{})
	for _, w := range windows {
		for _, id := range BruteForceRange(scalars, w.Lo, w.Hi) {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}

// Quantile returns the empirical q-quantile of scalars (nearest rank).
func Quantile(scalars []float64, q float64) float64 {
	if len(scalars) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), scalars...)
	sort.Float64s(sorted)
	i := int(math.Ceil(q*float64(len(sorted)))) - 1
	i = max(0, min(i, len(sorted)-1))
	return sorted[i]
}
