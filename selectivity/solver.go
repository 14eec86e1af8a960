package selectivity

import (
	"math"

	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/sampler"
	"gonum.org/v1/gonum/stat/distuv"
)

// Interval is a closed scalar range [Min, Max]. Min <= Max always holds
// for intervals produced by this package.
type Interval struct {
	Min float64 `json:"smin"`
	Max float64 `json:"smax"`
}

// Width returns Max - Min.
func (iv Interval) Width() float64 { return iv.Max - iv.Min }

// Contains reports whether x satisfies Min <= x <= Max.
func (iv Interval) Contains(x float64) bool { return x >= iv.Min && x <= iv.Max }

// ordered returns the interval with its bounds sorted.
func ordered(lo, hi float64) Interval {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{Min: lo, Max: hi}
}

// Solver maps a target proportion to a scalar interval under a known distribution.
type Solver interface {
	// Interval returns the interval holding proportion p of the mass.
	// p must lie in the open interval (0, 1).
	Interval(p float64) (Interval, error)
	// Mass returns the probability mass of iv under the distribution.
	Mass(iv Interval) float64
}

// ValidateProportion reports an error unless 0 < p < 1.
func ValidateProportion(p float64) error {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return model.NewParameterError("p", p, "must lie in (0, 1)")
	}
	return nil
}

// TwoTailedZ returns z = Φ⁻¹((1+p)/2), the half-width in standard
// deviations of the central interval holding mass p.
//
// It is evaluated as -Φ⁻¹((1-p)/2). (1+p)/2 rounds to 1 for p close to 1,
// while (1-p)/2 stays representable, so z is finite for every valid p.
func TwoTailedZ(p float64) (float64, error) {
	if err := ValidateProportion(p); err != nil {
		return 0, err
	}
	return -distuv.UnitNormal.Quantile((1 - p) / 2), nil
}

// NormalSolver solves intervals for a normally distributed scalar.
type NormalSolver struct {
	Mean     float64
	Variance float64
}

// Interval implements Solver.
// A zero variance yields the point interval [Mean, Mean].
func (s NormalSolver) Interval(p float64) (Interval, error) {
	z, err := TwoTailedZ(p)
	if err != nil {
		return Interval{}, err
	}
	if err := (sampler.Normal{Mu: s.Mean, Sigma2: s.Variance}).Validate(); err != nil {
		return Interval{}, err
	}
	if s.Variance == 0 {
		return Interval{Min: s.Mean, Max: s.Mean}, nil
	}

	sigma := math.Sqrt(s.Variance)
	return ordered(s.Mean-z*sigma, s.Mean+z*sigma), nil
}

// Mass implements Solver using the forward CDF.
func (s NormalSolver) Mass(iv Interval) float64 {
	if s.Variance == 0 {
		return pointMass(s.Mean, iv)
	}
	n := distuv.Normal{Mu: s.Mean, Sigma: math.Sqrt(s.Variance)}
	return n.CDF(iv.Max) - n.CDF(iv.Min)
}

// LogNormalSolver solves intervals for a scalar exp(X), X ~ N(Mu, Sigma2).
// The interval is symmetric in log space and mapped back through exp.
type LogNormalSolver struct {
	Mu     float64
	Sigma2 float64
}

// Interval implements Solver.
func (s LogNormalSolver) Interval(p float64) (Interval, error) {
	inner, err := NormalSolver{Mean: s.Mu, Variance: s.Sigma2}.Interval(p)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Min: math.Exp(inner.Min), Max: math.Exp(inner.Max)}, nil
}

// Mass implements Solver.
func (s LogNormalSolver) Mass(iv Interval) float64 {
	if iv.Max <= 0 {
		return 0
	}
	lo := math.Inf(-1)
	if iv.Min > 0 {
		lo = math.Log(iv.Min)
	}
	return NormalSolver{Mean: s.Mu, Variance: s.Sigma2}.Mass(Interval{Min: lo, Max: math.Log(iv.Max)})
}

// For returns the analytic solver for dist.
// Uniform distributions have none and yield an InvalidParameter error.
func For(dist sampler.Distribution) (Solver, error) {
	switch d := dist.(type) {
	case sampler.Normal:
		return NormalSolver{Mean: d.Mu, Variance: d.Sigma2}, nil
	case sampler.LogNormal:
		return LogNormalSolver{Mu: d.Mu, Sigma2: d.Sigma2}, nil
	case nil:
		return nil, model.NewParameterError("scalar", nil, "distribution is required")
	default:
		return nil, model.NewParameterError("scalar.distribution", dist.Name(), "no analytic solver")
	}
}

func pointMass(at float64, iv Interval) float64 {
	if iv.Contains(at) {
		return 1
	}
	return 0
}
