// SPDX-License-Identifier: MIT

// Package matrix: functional configuration of the numeric policy.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: no global state.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the symmetry tolerance applied before a Cholesky
	// factorisation.
	DefaultEpsilon = 1e-9

	// DefaultRcond is the relative singular-value cutoff used by SolveSVD to
	// decide the numerical rank: values below Rcond·σmax are dropped.
	DefaultRcond = 2.220446049250313e-16
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicRcondInvalid   = "matrix: WithRcond: rcond must be finite, in [0,1)"
)

// Option mutates internal options.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	eps   float64 // >= 0; DefaultEpsilon
	rcond float64 // [0,1); DefaultRcond
}

// WithEpsilon sets the symmetry tolerance used by CholeskyLower.
// Panics if eps is negative, NaN or Inf.
func WithEpsilon(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithRcond sets the singular-value cutoff used by SolveSVD.
// Panics if rcond is outside [0, 1).
func WithRcond(rcond float64) Option {
	if !(rcond >= 0 && rcond < 1) {
		panic(panicRcondInvalid)
	}

	return func(o *Options) { o.rcond = rcond }
}

// gatherOptions resolves opts over the defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{eps: DefaultEpsilon, rcond: DefaultRcond}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
