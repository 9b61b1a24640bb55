// SPDX-License-Identifier: MIT

package unfold

import "gonum.org/v1/gonum/mat"

// Strategy is one unfolding algorithm. Unfold must not modify the Problem and
// must return a fresh vector of length p.NTruth.
//
// Clone returns a copy with independent mutable state; toys unfold with a
// clone so a strategy may cache per-problem data without locking.
type Strategy interface {
	Kind() Kind
	Unfold(p *Problem) (*mat.VecDense, error)
	Clone() Strategy
}

// CovarianceStrategy is implemented by strategies that propagate the measured
// covariance themselves. Without it the engine falls back to copying the
// measured covariance over the overlapping bin range.
type CovarianceStrategy interface {
	Strategy
	Covariance(p *Problem, reco *mat.VecDense) (*mat.Dense, error)
}

// VarianceStrategy is implemented by strategies that produce per-bin variances
// more cheaply than a full covariance.
type VarianceStrategy interface {
	Strategy
	Variances(p *Problem, reco *mat.VecDense) (*mat.VecDense, error)
}

// RegularizedStrategy is implemented by strategies with a tunable
// regularisation parameter.
type RegularizedStrategy interface {
	Strategy
	SetRegParm(p float64)
	RegParm() float64
	Settings() RegSettings
}
