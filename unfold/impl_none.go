// SPDX-License-Identifier: MIT

package unfold

import "gonum.org/v1/gonum/mat"

// NoneStrategy returns the measured vector as the reconstruction over the
// bins the measured and truth binnings share; the remaining truth bins are
// zero. Errors come from the engine's base covariance.
type NoneStrategy struct{}

var _ Strategy = NoneStrategy{}

// NewNone returns the identity strategy.
func NewNone() NoneStrategy { return NoneStrategy{} }

// Kind implements Strategy.
func (NoneStrategy) Kind() Kind { return None }

// Unfold implements Strategy.
func (NoneStrategy) Unfold(p *Problem) (*mat.VecDense, error) {
	if p == nil || p.Measured == nil || p.NTruth == 0 {
		return nil, unfoldErrorf(opNone, ErrNotConfigured)
	}
	reco := mat.NewVecDense(p.NTruth, nil)
	nb := min(p.NMeasured, p.NTruth)
	for i := 0; i < nb; i++ {
		reco.SetVec(i, p.Measured.AtVec(i))
	}

	return reco, nil
}

// Clone implements Strategy.
func (s NoneStrategy) Clone() Strategy { return s }
