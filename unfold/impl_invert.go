// SPDX-License-Identifier: MIT

package unfold

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/matrix"
)

// InvertStrategy solves R·x = meas − fakes without regularisation, with R
// the response probability matrix. A non-square or rank-deficient R is
// handled through the SVD pseudo-inverse R⁺, and the covariance is
// R⁺·V·R⁺ᵀ. R⁺ is cached while the response returns the same matrix, so toys
// reuse the decomposition.
type InvertStrategy struct {
	opts []matrix.Option
	pinv *mat.Dense
	cond float64
	resp *mat.Dense // response matrix pinv was computed from
}

var _ CovarianceStrategy = (*InvertStrategy)(nil)

// NewInvert returns a matrix inversion strategy. The matrix options (for
// example matrix.WithRcond) control the singular value cut.
func NewInvert(opts ...matrix.Option) *InvertStrategy {
	return &InvertStrategy{opts: opts}
}

// Kind implements Strategy.
func (s *InvertStrategy) Kind() Kind { return Invert }

// Cond returns the condition number of the response of the last unfold.
func (s *InvertStrategy) Cond() float64 { return s.cond }

// Unfold implements Strategy.
//
// Errors:
//   - ErrNotConfigured for an incomplete problem.
//   - matrix.ErrDimensionMismatch when the response does not match the counts.
//   - matrix.ErrSingular when the response has rank zero.
func (s *InvertStrategy) Unfold(p *Problem) (*mat.VecDense, error) {
	if p == nil || p.Response == nil || p.Measured == nil || p.NTruth == 0 {
		return nil, unfoldErrorf(opInvert, ErrNotConfigured)
	}
	pinv, err := s.inverseFor(p)
	if err != nil {
		return nil, err
	}
	b := mat.VecDenseCopyOf(p.Measured)
	fakes := p.Response.Vfakes()
	for i := 0; i < p.NMeasured && i < len(fakes); i++ {
		b.SetVec(i, b.AtVec(i)-fakes[i])
	}
	reco := mat.NewVecDense(p.NTruth, nil)
	reco.MulVec(pinv, b)

	return reco, nil
}

// Covariance implements CovarianceStrategy.
func (s *InvertStrategy) Covariance(p *Problem, _ *mat.VecDense) (*mat.Dense, error) {
	if p == nil || p.Cov == nil {
		return nil, unfoldErrorf(opInvert, ErrNotConfigured)
	}
	pinv, err := s.inverseFor(p)
	if err != nil {
		return nil, err
	}
	cov, err := matrix.ABAT(pinv, p.Cov)
	if err != nil {
		return nil, unfoldErrorf(opInvert, err)
	}

	return cov, nil
}

func (s *InvertStrategy) inverseFor(p *Problem) (*mat.Dense, error) {
	r := p.Response.Mresponse()
	if r != nil && r == s.resp && s.pinv != nil {
		return s.pinv, nil
	}
	if r == nil {
		return nil, unfoldErrorf(opInvert, matrix.ErrNilMatrix)
	}
	if nr, nc := r.Dims(); nr != p.NMeasured || nc != p.NTruth {
		return nil, unfoldErrorf(opInvert, matrix.ErrDimensionMismatch)
	}
	pinv, cond, err := matrix.PseudoInverse(r, s.opts...)
	s.cond = cond
	if err != nil {
		return nil, unfoldErrorf(opInvert, err)
	}
	s.pinv, s.resp = pinv, r

	return pinv, nil
}

// Clone implements Strategy.
func (s *InvertStrategy) Clone() Strategy {
	c := &InvertStrategy{opts: s.opts, cond: s.cond, resp: s.resp}
	if s.pinv != nil {
		c.pinv = mat.DenseCopyOf(s.pinv)
	}

	return c
}
