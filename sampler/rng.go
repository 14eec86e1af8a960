package sampler

import (
	"math"
	"math/rand"
	"sync"
)

const alnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// AlnumSize is the number of distinct characters Alnum draws from.
const AlnumSize = len(alnum)

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
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uniform returns a value in [lo, hi].
func (r *RNG) Uniform(lo, hi float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + (hi-lo)*r.rand.Float64()
}

// Normal returns a normally distributed value with the given mean and standard deviation.
func (r *RNG) Normal(mean, stddev float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return mean + stddev*r.rand.NormFloat64()
}

// IntRange returns an integer in the closed interval [lo, hi].
// Caller must ensure lo <= hi.
func (r *RNG) IntRange(lo, hi int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := uint64(hi-lo) + 1
	if span == 0 || span > math.MaxInt64 {
		for {
			v := int64(r.rand.Uint64())
			if v >= lo && v <= hi {
				return v
			}
		}
	}
	return lo + r.rand.Int63n(int64(span))
}

// FillUniform fills dst with values in [lo, hi].
// Locks only once per call (preferred over calling Uniform in a loop).
func (r *RNG) FillUniform(dst []float64, lo, hi float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := hi - lo
	for i := range dst {
		dst[i] = lo + span*r.rand.Float64()
	}
}

// Alnum returns a random string of n ASCII letters and digits.
func (r *RNG) Alnum(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = alnum[r.rand.Intn(len(alnum))]
	}
	return string(b)
}
