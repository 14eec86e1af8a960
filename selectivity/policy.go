package selectivity

import (
	"math"

	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/sampler"
)

// Policy names.
const (
	PolicyAnalytic   = "analytic"
	PolicyFixedWidth = "fixed-width"
	PolicyHalfSplit  = "half-split"
)

// DefaultJitter is the jitter of a FixedWidth window as a fraction of its width.
const DefaultJitter = 0.05

// Policy produces the scalar window of one query.
type Policy interface {
	// Window returns the next query window. Min <= Max always holds.
	Window(r *sampler.RNG) Interval
	// Expected returns the expected selectivity if the policy guarantees one.
	Expected() (float64, bool)
	// Name returns the policy name.
	Name() string
}

// Analytic is a Policy that always returns the Solver interval for P.
// It draws no random numbers.
type Analytic struct {
	interval Interval
	p        float64
}

// NewAnalytic solves the interval for p once.
func NewAnalytic(s Solver, p float64) (*Analytic, error) {
	if s == nil {
		return nil, model.NewParameterError("solver", nil, "is required")
	}
	iv, err := s.Interval(p)
	if err != nil {
		return nil, err
	}
	return &Analytic{interval: iv, p: p}, nil
}

// Window implements Policy.
func (a *Analytic) Window(*sampler.RNG) Interval { return a.interval }

// Interval returns the solved interval.
func (a *Analytic) Interval() Interval { return a.interval }

// Expected implements Policy.
func (a *Analytic) Expected() (float64, bool) { return a.p, true }

// Name implements Policy.
func (*Analytic) Name() string { return PolicyAnalytic }

// FixedWidth places a window of constant width uniformly inside a range.
//
// Smin is drawn so that Smin + width stays inside the range, then each
// bound is moved by an independent jitter in [-j, j] with j = width·jitter
// and clamped to the range. The proportion of matching records depends on
// data density, so no selectivity is guaranteed.
type FixedWidth struct {
	within model.Range
	width  float64
	jitter float64
}

// NewFixedWidth validates and returns a FixedWidth policy.
func NewFixedWidth(within model.Range, width, jitter float64) (*FixedWidth, error) {
	if err := within.Validate("window.range"); err != nil {
		return nil, err
	}
	if math.IsNaN(width) || width < 0 {
		return nil, model.NewParameterError("window.width", width, "must not be negative")
	}
	if width > within.Width() {
		return nil, model.NewParameterError("window.width", width, "exceeds the scalar range")
	}
	if math.IsNaN(jitter) || jitter < 0 {
		return nil, model.NewParameterError("window.jitter", jitter, "must not be negative")
	}
	return &FixedWidth{within: within, width: width, jitter: jitter}, nil
}

// Window implements Policy.
func (f *FixedWidth) Window(r *sampler.RNG) Interval {
	smin := r.Uniform(f.within.Lo, f.within.Hi-f.width)
	smax := smin + f.width

	j := f.width * f.jitter
	smin = math.Max(f.within.Lo, smin-r.Uniform(-j, j))
	smax = math.Min(f.within.Hi, smax+r.Uniform(-j, j))

	return ordered(smin, smax)
}

// Expected implements Policy.
func (*FixedWidth) Expected() (float64, bool) { return 0, false }

// Name implements Policy.
func (*FixedWidth) Name() string { return PolicyFixedWidth }

// HalfSplit draws Smin from the lower half and Smax from the upper half
// of a range. Windows tend to accept many records.
type HalfSplit struct {
	within model.Range
}

// NewHalfSplit validates and returns a HalfSplit policy.
func NewHalfSplit(within model.Range) (*HalfSplit, error) {
	if err := within.Validate("window.range"); err != nil {
		return nil, err
	}
	return &HalfSplit{within: within}, nil
}

// Window implements Policy.
func (h *HalfSplit) Window(r *sampler.RNG) Interval {
	mid := h.within.Mid()
	smin := r.Uniform(h.within.Lo, mid)
	smax := r.Uniform(mid, h.within.Hi)
	return ordered(smin, smax)
}

// Expected implements Policy.
func (*HalfSplit) Expected() (float64, bool) { return 0, false }

// Name implements Policy.
func (*HalfSplit) Name() string { return PolicyHalfSplit }
