package selectivity

import (
	"math"
	"testing"

	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalSolver_KnownScenarios(t *testing.T) {
	t.Run("mean 50 variance 25 p 0.01", func(t *testing.T) {
		iv, err := NormalSolver{Mean: 50, Variance: 25}.Interval(0.01)
		require.NoError(t, err)

		assert.InDelta(t, 49.9373, iv.Min, 1e-4)
		assert.InDelta(t, 50.0627, iv.Max, 1e-4)
		assert.InDelta(t, 0.1253, iv.Width(), 1e-4)
	})

	t.Run("standard normal p 0.5", func(t *testing.T) {
		iv, err := NormalSolver{Mean: 0, Variance: 1}.Interval(0.5)
		require.NoError(t, err)

		assert.InDelta(t, -0.6745, iv.Min, 1e-4)
		assert.InDelta(t, 0.6745, iv.Max, 1e-4)
	})

	t.Run("z for p 0.01", func(t *testing.T) {
		z, err := TwoTailedZ(0.01)
		require.NoError(t, err)
		assert.InDelta(t, 0.01253, z, 1e-5)
	})
}

func TestNormalSolver_MassEqualsP(t *testing.T) {
	means := []float64{-100, 0, 50}
	variances := []float64{0.01, 1, 25, 1e4}
	ps := []float64{1e-9, 0.001, 0.01, 0.1, 0.3, 0.5, 0.75, 0.9, 0.99, 0.999999}

	for _, mu := range means {
		for _, v := range variances {
			s := NormalSolver{Mean: mu, Variance: v}
			for _, p := range ps {
				iv, err := s.Interval(p)
				require.NoError(t, err)
				assert.LessOrEqual(t, iv.Min, iv.Max)
				assert.InDelta(t, p, s.Mass(iv), 1e-9, "mu=%g var=%g p=%g", mu, v, p)
				assert.InDelta(t, mu, (iv.Min+iv.Max)/2, 1e-9*math.Max(1, math.Abs(mu)))
			}
		}
	}
}

func TestNormalSolver_Limits(t *testing.T) {
	s := NormalSolver{Mean: 0, Variance: 1}

	prev := -1.0
	for _, p := range []float64{1e-12, 1e-6, 0.01, 0.5, 0.9, 0.999, 0.999999, 1 - 1e-12} {
		iv, err := s.Interval(p)
		require.NoError(t, err)
		assert.Greater(t, iv.Width(), prev, "width must grow with p")
		prev = iv.Width()
	}

	small, err := s.Interval(1e-12)
	require.NoError(t, err)
	assert.Less(t, small.Width(), 1e-11)

	large, err := s.Interval(1 - 1e-12)
	require.NoError(t, err)
	assert.Greater(t, large.Width(), 14.0)
}

func TestNormalSolver_ZeroVariance(t *testing.T) {
	s := NormalSolver{Mean: 42, Variance: 0}

	iv, err := s.Interval(0.3)
	require.NoError(t, err)

	assert.Equal(t, Interval{Min: 42, Max: 42}, iv)
	assert.Equal(t, 1.0, s.Mass(iv))
	assert.Equal(t, 0.0, s.Mass(Interval{Min: 43, Max: 44}))

	// Largest p below 1
	iv, err = NormalSolver{Mean: 50, Variance: 0}.Interval(math.Nextafter(1, 0))
	require.NoError(t, err)
	assert.Equal(t, Interval{Min: 50, Max: 50}, iv)
}

func TestNormalSolver_ProportionNearOne(t *testing.T) {
	for _, p := range []float64{math.Nextafter(1, 0), 1 - 1e-12, 0.999999} {
		z, err := TwoTailedZ(p)
		require.NoError(t, err)
		assert.False(t, math.IsInf(z, 0) || math.IsNaN(z), "z(%v) = %v", p, z)
		assert.Greater(t, z, 4.0)

		iv, err := NormalSolver{Mean: 50, Variance: 25}.Interval(p)
		require.NoError(t, err)
		assert.False(t, math.IsNaN(iv.Min) || math.IsNaN(iv.Max))
		assert.False(t, math.IsInf(iv.Min, 0) || math.IsInf(iv.Max, 0))
		assert.LessOrEqual(t, iv.Min, iv.Max)

		ln, err := LogNormalSolver{Mu: 1, Sigma2: 0}.Interval(p)
		require.NoError(t, err)
		assert.InDelta(t, math.E, ln.Min, 1e-12)
		assert.Equal(t, ln.Min, ln.Max)
	}
}

func TestNormalSolver_InvalidParameters(t *testing.T) {
	tests := []struct {
		name   string
		solver NormalSolver
		p      float64
	}{
		{"p zero", NormalSolver{Variance: 1}, 0},
		{"p one", NormalSolver{Variance: 1}, 1},
		{"p negative", NormalSolver{Variance: 1}, -0.2},
		{"p above one", NormalSolver{Variance: 1}, 1.5},
		{"p nan", NormalSolver{Variance: 1}, math.NaN()},
		{"negative variance", NormalSolver{Variance: -1}, 0.5},
		{"nan variance", NormalSolver{Variance: math.NaN()}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.solver.Interval(tt.p)
			assert.ErrorIs(t, err, model.ErrInvalidParameter)
		})
	}
}

func TestLogNormalSolver(t *testing.T) {
	s := LogNormalSolver{Mu: 1, Sigma2: 0.25}

	for _, p := range []float64{0.01, 0.5, 0.95} {
		iv, err := s.Interval(p)
		require.NoError(t, err)
		assert.Greater(t, iv.Min, 0.0)
		assert.LessOrEqual(t, iv.Min, iv.Max)
		assert.InDelta(t, p, s.Mass(iv), 1e-9)
		// Geometric mean of the bounds is the median exp(Mu).
		assert.InDelta(t, math.E, math.Sqrt(iv.Min*iv.Max), 1e-9)
	}

	assert.Equal(t, 0.0, s.Mass(Interval{Min: -2, Max: -1}))
	assert.InDelta(t, 0.5, s.Mass(Interval{Min: -1, Max: math.E}), 1e-12)
}

func TestFor(t *testing.T) {
	s, err := For(sampler.NewNormal(50, 25))
	require.NoError(t, err)
	assert.Equal(t, NormalSolver{Mean: 50, Variance: 25}, s)

	s, err = For(sampler.LogNormal{Mu: 0, Sigma2: 1})
	require.NoError(t, err)
	assert.Equal(t, LogNormalSolver{Mu: 0, Sigma2: 1}, s)

	_, err = For(sampler.Uniform{Lo: 0, Hi: 100})
	assert.ErrorIs(t, err, model.ErrInvalidParameter)

	_, err = For(nil)
	assert.ErrorIs(t, err, model.ErrInvalidParameter)
}

func TestEmpiricalSelectivity(t *testing.T) {
	dist := sampler.NewNormal(50, 25)
	s, err := For(dist)
	require.NoError(t, err)

	iv, err := s.Interval(0.3)
	require.NoError(t, err)

	rng := sampler.NewRNG(4711)
	const n = 50_000
	hits := 0
	for range n {
		if iv.Contains(dist.Sample(rng)) {
			hits++
		}
	}

	assert.InDelta(t, 0.3, float64(hits)/n, 0.01)
}
