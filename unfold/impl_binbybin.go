// SPDX-License-Identifier: MIT

package unfold

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/matrix"
)

// BinByBinStrategy corrects each measured bin by the ratio of truth to
// measured entries in the training sample:
//
//	reco[i] = f[i]·meas[i],  f[i] = truth_train[i] / meas_train[i]
//
// Bins without training entries get f = 0. The covariance is the measured
// covariance scaled by the factors: cov(i,j) = f[i]·f[j]·V(i,j).
type BinByBinStrategy struct {
	factors []float64
	prob    *Problem // problem the factors were computed for
}

var _ CovarianceStrategy = (*BinByBinStrategy)(nil)

// NewBinByBin returns a bin-by-bin correction strategy.
func NewBinByBin() *BinByBinStrategy { return &BinByBinStrategy{} }

// Kind implements Strategy.
func (s *BinByBinStrategy) Kind() Kind { return BinByBin }

// Factors returns a copy of the correction factors of the last unfold.
func (s *BinByBinStrategy) Factors() []float64 {
	return append([]float64(nil), s.factors...)
}

// Unfold implements Strategy.
func (s *BinByBinStrategy) Unfold(p *Problem) (*mat.VecDense, error) {
	if p == nil || p.Response == nil || p.Measured == nil || p.NTruth == 0 {
		return nil, unfoldErrorf(opBinByBin, ErrNotConfigured)
	}
	f, err := s.factorsFor(p)
	if err != nil {
		return nil, err
	}
	reco := mat.NewVecDense(p.NTruth, nil)
	for i, fi := range f {
		reco.SetVec(i, fi*p.Measured.AtVec(i))
	}

	return reco, nil
}

// Covariance implements CovarianceStrategy.
func (s *BinByBinStrategy) Covariance(p *Problem, _ *mat.VecDense) (*mat.Dense, error) {
	if p == nil || p.Cov == nil || p.NTruth == 0 {
		return nil, unfoldErrorf(opBinByBin, ErrNotConfigured)
	}
	f, err := s.factorsFor(p)
	if err != nil {
		return nil, err
	}
	cov := mat.NewDense(p.NTruth, p.NTruth, nil)
	var i, j int
	for i = range f {
		for j = range f {
			cov.Set(i, j, f[i]*f[j]*p.Cov.At(i, j))
		}
	}

	return cov, nil
}

// factorsFor returns the correction factors for p, reusing the cached ones
// when p is the problem they were computed for.
func (s *BinByBinStrategy) factorsFor(p *Problem) ([]float64, error) {
	if s.prob == p && s.factors != nil {
		return s.factors, nil
	}
	truth := p.Response.Vtruth()
	train := p.Response.Vmeasured()
	nb := min(p.NMeasured, p.NTruth)
	if len(truth) < nb || len(train) < nb {
		return nil, unfoldErrorf(opBinByBin, matrix.ErrDimensionMismatch)
	}
	f := make([]float64, nb)
	for i := range f {
		if train[i] != 0 {
			f[i] = truth[i] / train[i]
		}
	}
	s.factors, s.prob = f, p

	return f, nil
}

// Clone implements Strategy.
func (s *BinByBinStrategy) Clone() Strategy {
	return &BinByBinStrategy{factors: s.Factors(), prob: s.prob}
}
