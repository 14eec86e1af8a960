// Package selectivity turns a target selectivity into a scalar range predicate.
//
// Given a proportion p in (0, 1) and the distribution that generated the
// scalar field, a Solver returns the interval [Smin, Smax] that holds
// exactly proportion p of the distribution mass:
//
//	solver := selectivity.NormalSolver{Mean: 50, Variance: 25}
//	iv, err := solver.Interval(0.01) // [49.93734, 50.06266]
//
// For the normal distribution the interval is symmetric about the mean:
//
//	z    = Φ⁻¹((1 + p) / 2)
//	Smin = μ − z·σ
//	Smax = μ + z·σ
//
// The inverse CDF comes from gonum's distuv package.
//
// # Window Policies
//
// A Policy produces the scalar window of each query:
//
//   - Analytic: a Solver at a fixed p. Deterministic, exact in expectation.
//   - FixedWidth: a randomly placed window of constant width with jitter.
//   - HalfSplit: Smin from the lower half, Smax from the upper half.
//
// Only Analytic carries a selectivity guarantee. The other two are
// fallbacks for uniform scalar fields.
package selectivity
