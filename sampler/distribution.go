package sampler

import (
	"math"

	"github.com/hupe1980/filtergen/model"
)

// Distribution is the generating distribution of a scalar field.
type Distribution interface {
	// Sample draws one value.
	Sample(r *RNG) float64
	// Mean returns the expected value.
	Mean() float64
	// Variance returns the variance.
	Variance() float64
	// Name returns a stable identifier ("uniform", "normal", "lognormal").
	Name() string
	// Validate reports an InvalidParameter error for unusable parameters.
	Validate() error
}

// Uniform is the continuous uniform distribution over [Lo, Hi].
type Uniform struct {
	Lo float64
	Hi float64
}

// Sample implements Distribution.
func (u Uniform) Sample(r *RNG) float64 { return r.Uniform(u.Lo, u.Hi) }

// Mean implements Distribution.
func (u Uniform) Mean() float64 { return u.Lo + (u.Hi-u.Lo)/2 }

// Variance implements Distribution.
func (u Uniform) Variance() float64 {
	w := u.Hi - u.Lo
	return w * w / 12
}

// Name implements Distribution.
func (Uniform) Name() string { return "uniform" }

// Validate implements Distribution.
func (u Uniform) Validate() error {
	return model.Range{Lo: u.Lo, Hi: u.Hi}.Validate("scalar.range")
}

// Range returns the support as a model.Range.
func (u Uniform) Range() model.Range { return model.Range{Lo: u.Lo, Hi: u.Hi} }

// Normal is the normal distribution N(Mean, Variance).
// It is parameterized by variance, not standard deviation.
type Normal struct {
	Mu     float64
	Sigma2 float64
}

// NewNormal returns a Normal with the given mean and variance.
func NewNormal(mean, variance float64) Normal {
	return Normal{Mu: mean, Sigma2: variance}
}

// Sample implements Distribution.
func (n Normal) Sample(r *RNG) float64 { return r.Normal(n.Mu, n.StdDev()) }

// Mean implements Distribution.
func (n Normal) Mean() float64 { return n.Mu }

// Variance implements Distribution.
func (n Normal) Variance() float64 { return n.Sigma2 }

// StdDev returns the standard deviation.
func (n Normal) StdDev() float64 { return math.Sqrt(n.Sigma2) }

// Name implements Distribution.
func (Normal) Name() string { return "normal" }

// Validate implements Distribution.
func (n Normal) Validate() error {
	return validateMoments(n.Mu, n.Sigma2)
}

// LogNormal is the distribution of exp(X) with X ~ N(Mu, Sigma2).
type LogNormal struct {
	Mu     float64
	Sigma2 float64
}

// Sample implements Distribution.
func (l LogNormal) Sample(r *RNG) float64 {
	return math.Exp(r.Normal(l.Mu, math.Sqrt(l.Sigma2)))
}

// Mean implements Distribution.
func (l LogNormal) Mean() float64 { return math.Exp(l.Mu + l.Sigma2/2) }

// Variance implements Distribution.
func (l LogNormal) Variance() float64 {
	return (math.Exp(l.Sigma2) - 1) * math.Exp(2*l.Mu+l.Sigma2)
}

// Name implements Distribution.
func (LogNormal) Name() string { return "lognormal" }

// Validate implements Distribution.
func (l LogNormal) Validate() error {
	return validateMoments(l.Mu, l.Sigma2)
}

func validateMoments(mean, variance float64) error {
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return model.NewParameterError("scalar.mean", mean, "must be finite")
	}
	if math.IsNaN(variance) || math.IsInf(variance, 0) {
		return model.NewParameterError("scalar.variance", variance, "must be finite")
	}
	if variance < 0 {
		return model.NewParameterError("scalar.variance", variance, "must not be negative")
	}
	return nil
}
