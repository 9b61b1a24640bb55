// SPDX-License-Identifier: MIT

package unfold

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/hist"
	"github.com/katalvlaran/unfold/matrix"
)

const (
	// chi2DetWarn is the |det| below which the reduced covariance is reported
	// as nearly singular.
	chi2DetWarn = 1e-5
	// chi2CondWarn is the condition number from which the χ² solve is
	// reported as unreliable.
	chi2CondWarn = 1e17
)

// Chi2 compares the reconstruction with a truth-level reference.
//
// For Covariance and CovToy it returns rᵀ·V⁻¹·r, where r is the residual over
// bins whose reference has non-zero content or a positive error and V is the
// error matrix with zero-information rows and columns removed. For the other
// treatments it returns the sum of squared pulls over bins with a positive
// error from ErecoV(t), so an unavailable treatment contributes nothing.
// Returns -1 when no reconstruction is available.
//
// Notes:
//   - A nearly singular or ill-conditioned V is reported on the logger and
//     the value is still returned.
//   - The cached reconstruction is used; no histogram is rebuilt.
func (e *Engine) Chi2(hTrue *hist.Hist, t ErrorTreatment) float64 {
	if hTrue == nil || !e.Unfold() {
		return -1
	}
	if t == Covariance || t == CovToy {
		return e.chi2Cov(hTrue, t)
	}

	errs := e.ErecoV(t)
	var chi2, d, pull float64
	var it int
	for i := 0; i < e.nt; i++ {
		it = hist.GetBin(hTrue, i, e.overflow)
		if hTrue.BinContent(it) == 0 && hTrue.BinError(it) <= 0 {
			continue
		}
		if d = errs.AtVec(i); d > 0 {
			pull = (e.result.Reco.AtVec(i) - hTrue.BinContent(it)) / d
			chi2 += pull * pull
		}
	}

	return chi2
}

// chi2Cov evaluates the covariance form of Chi2.
//
// Implementation:
//   - Stage 1: Residual r over bins with a usable reference.
//   - Stage 2: Prune V with matrix.CutZeros and select r on the kept indices.
//   - Stage 3: Report det and condition, solve V·x = r by SVD, return r·x.
func (e *Engine) chi2Cov(hTrue *hist.Hist, t ErrorTreatment) float64 {
	res := make([]float64, e.nt)
	var it int
	for i := range res {
		it = hist.GetBin(hTrue, i, e.overflow)
		if hTrue.BinContent(it) != 0 || hTrue.BinError(it) > 0 {
			res[i] = e.result.Reco.AtVec(i) - hTrue.BinContent(it)
		}
	}

	cut, kept, err := matrix.CutZeros(e.Ereco(t))
	if err != nil || cut == nil {
		e.warn("chi2: error matrix has no usable bins", "errors", t, "err", err)
		return 0
	}
	r := mat.NewVecDense(len(kept), nil)
	for k, i := range kept {
		r.SetVec(k, res[i])
	}

	det, err := matrix.Determinant(cut)
	if err == nil && math.Abs(det) < chi2DetWarn {
		e.warn("chi2: error matrix is nearly singular", "det", det)
	}
	x, cond, err := matrix.SolveSVD(cut, r)
	if err != nil {
		e.warn("chi2: error matrix solve failed", "err", err)
		return 0
	}
	e.info("chi2: error matrix", "bins", len(kept), "det", det, "cond", cond)
	if cond >= chi2CondWarn {
		e.warn("chi2: error matrix is ill-conditioned, result may be unreliable", "cond", cond)
	}

	return mat.Dot(r, x)
}
