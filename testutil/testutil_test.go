package testutil

import (
	"testing"

	"github.com/hupe1980/filtergen/model"
	"github.com/stretchr/testify/assert"
)

func TestUniformScalars(t *testing.T) {
	rng := NewRNG(4711)

	s := rng.UniformScalars(100, 2, 3)
	assert.Len(t, s, 100)
	for _, x := range s {
		assert.GreaterOrEqual(t, x, 2.0)
		assert.Less(t, x, 3.0)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	a := rng.NormalScalars(10, 0, 1)
	rng.Reset()
	b := rng.NormalScalars(10, 0, 1)
	assert.Equal(t, a, b)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestWindows(t *testing.T) {
	for _, w := range NewRNG(1).Windows(50, -1, 1) {
		assert.LessOrEqual(t, w.Lo, w.Hi)
		assert.GreaterOrEqual(t, w.Lo, -1.0)
		assert.LessOrEqual(t, w.Hi, 1.0)
	}
}

func TestBruteForceRange(t *testing.T) {
	scalars := []float64{5, 1, 3, 3, 9}

	assert.Equal(t, []uint32{2, 3}, BruteForceRange(scalars, 3, 3))
	assert.Equal(t, []uint32{0, 2, 3}, BruteForceRange(scalars, 2, 5))
	assert.Empty(t, BruteForceRange(scalars, 6, 8))
	assert.InDelta(t, 0.6, Fraction(scalars, 2, 5), 1e-12)
	assert.Zero(t, Fraction(nil, 0, 1))

	windows := []model.Range{{Lo: 0, Hi: 2}, {Lo: 1, Hi: 3}}
	assert.Equal(t, 3, Covered(scalars, windows))
}

func TestQuantile(t *testing.T) {
	scalars := []float64{4, 1, 3, 2}
	assert.Equal(t, 2.0, Quantile(scalars, 0.5))
	assert.Equal(t, 4.0, Quantile(scalars, 1))
	assert.Equal(t, 1.0, Quantile(scalars, 0))
	assert.True(t, Quantile(nil, 0.5) != Quantile(nil, 0.5), "NaN")
}
