// SPDX-License-Identifier: MIT

// Package linalg: functional options for numeric policy.
//   - Option / Options with documented Default* constants,
//   - WithX constructors that panic on nonsensical values (programmer error),
//   - gatherOptions applies setters in order (last writer wins).
//
// Options never change which kernel body a shape selects; they only feed
// scalar parameters (epsilon, singular tolerance) into it.
package linalg

import "math"

const (
	// DefaultEpsilon is added under the square root by Norm/NormInv and to
	// the norm by Normalized, guarding near-zero norms.
	DefaultEpsilon = 1e-6

	// DefaultCheckSingular leaves Inverse on plain IEEE semantics: a zero
	// determinant yields ±Inf/NaN entries rather than an error.
	DefaultCheckSingular = false
)

const (
	panicEpsilonInvalid   = "linalg: WithEpsilon: eps must be finite, non-negative"
	panicSingularTolerant = "linalg: WithSingularTolerance: tol must be finite, non-negative"
)

// Option mutates Options.
type Option func(*Options)

// Options is the resolved configuration of one call.
type Options struct {
	eps           float64 // >= 0; DefaultEpsilon
	checkSingular bool    // DefaultCheckSingular
	singularTol   float64 // >= 0; meaningful only when checkSingular
}

// WithEpsilon sets the epsilon used by Norm, NormInv and Normalized.
// Panics when eps is NaN, ±Inf or negative.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}
	return func(o *Options) { o.eps = eps }
}

// WithSingularTolerance makes Inverse fail with ErrSingular when
// |det| <= tol. tol = 0 rejects only an exactly zero determinant.
// Panics when tol is NaN, ±Inf or negative.
func WithSingularTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicSingularTolerant)
	}
	return func(o *Options) {
		o.checkSingular = true
		o.singularTol = tol
	}
}

// Epsilon returns the resolved epsilon.
func (o Options) Epsilon() float64 { return o.eps }

// SingularTolerance returns the tolerance and whether the guard is enabled.
func (o Options) SingularTolerance() (float64, bool) { return o.singularTol, o.checkSingular }

// NewOptions resolves opts over the defaults.
func NewOptions(opts ...Option) Options { return gatherOptions(opts...) }

func gatherOptions(user ...Option) Options {
	o := Options{
		eps:           DefaultEpsilon,
		checkSingular: DefaultCheckSingular,
	}
	for _, set := range user {
		set(&o)
	}
	return o
}
