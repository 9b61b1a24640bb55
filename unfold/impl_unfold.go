// SPDX-License-Identifier: MIT
// Package unfold - lazy unfolding and the error-treatment state machine.
//
// Purpose:
//   - Run the strategy at most once per configuration and memoise the result.
//   - Fill the cache a treatment needs on first request: variances,
//     covariance or toy covariance.
//
// Contract:
//   - A failed unfold is sticky until the next rebinding.
//   - Caches, once filled, are returned unchanged until the next rebinding.

package unfold

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/hist"
	"github.com/katalvlaran/unfold/matrix"
)

// Unfold runs the strategy if it has not run for the current configuration.
// It reports whether a reconstruction is available.
func (e *Engine) Unfold() bool {
	return e.UnfoldWithErrors(NoError)
}

// UnfoldWithErrors makes sure the reconstruction and the cache required by t
// are available, computing them on first request.
//
// Implementation:
//   - Stage 1: Unconfigured engines and sticky failures return false.
//   - Stage 2: Warn on a measured/response binning mismatch and unfold once.
//   - Stage 3: Dispatch on t; a cache that is still missing marks the
//     engine failed and returns false.
//
// Notes:
//   - The failed flag only gates future unfold attempts; a reconstruction that
//     already exists stays readable through Vreco.
func (e *Engine) UnfoldWithErrors(t ErrorTreatment) bool {
	if e.st == unconfigured {
		e.warn("unfold requested before setup")
		return false
	}
	if e.st != unfolded {
		if e.failed {
			return false
		}
		e.checkBinning()
		if !e.runUnfold() {
			e.failed = true
			return false
		}
	}

	var ok bool
	switch t {
	case Errors:
		ok = e.ensureVariances()
	case Covariance:
		ok = e.ensureCov()
	case CovToy:
		ok = e.ensureToyCov()
	default:
		ok = true
	}
	if !ok {
		e.failed = true
	}

	return ok
}

// checkBinning warns when the measured distribution is not binned like the
// response's measured template. The unfold proceeds regardless.
func (e *Engine) checkBinning() {
	rm := e.res.Hmeasured()
	if rm == nil || e.meas == nil {
		return
	}
	if e.meas.Dim() != rm.Dim() || e.meas.NbinsX() != rm.NbinsX() ||
		e.meas.NbinsY() != rm.NbinsY() || e.meas.NbinsZ() != rm.NbinsZ() {
		e.warn("measured binning does not match the response",
			"measured", binningShape(e.meas), "response", binningShape(rm))
	}
}

func (e *Engine) runUnfold() bool {
	p := e.problem()
	reco, err := e.strategy.Unfold(p)
	if err != nil {
		e.logError("unfold failed", "kind", e.Kind(), "err", err)
		return false
	}
	if reco == nil || reco.Len() != e.nt {
		e.logError("unfold failed", "kind", e.Kind(), "err", ErrRecoLength)
		return false
	}
	e.result = Result{Reco: reco}
	e.st = unfolded

	return true
}

func (e *Engine) ensureVariances() bool {
	if e.result.Variances != nil {
		return true
	}
	if vs, ok := e.strategy.(VarianceStrategy); ok {
		v, err := vs.Variances(e.problem(), e.result.Reco)
		if err != nil || v == nil || v.Len() != e.nt {
			e.warn("variances unavailable", "kind", e.Kind(), "err", err)
			return false
		}
		e.result.Variances = v
		return true
	}
	if !e.ensureCov() {
		return false
	}
	e.result.Variances = mat.NewVecDense(e.nt, matrix.DiagOf(e.result.Cov))

	return true
}

func (e *Engine) ensureCov() bool {
	if e.result.Cov != nil {
		return true
	}
	cs, ok := e.strategy.(CovarianceStrategy)
	if !ok {
		e.result.Cov = e.baseCovariance()
		return e.result.Cov != nil
	}
	cov, err := cs.Covariance(e.problem(), e.result.Reco)
	if err != nil || cov == nil {
		e.warn("covariance unavailable", "kind", e.Kind(), "err", err)
		return false
	}
	if r, c := cov.Dims(); r != e.nt || c != e.nt {
		e.warn("covariance unavailable", "kind", e.Kind(), "err", ErrRecoLength)
		return false
	}
	e.result.Cov = cov

	return true
}

// baseCovariance copies the measured covariance into the truth-sized matrix
// over the overlapping bin range. It is a placeholder for strategies that do
// not propagate errors themselves.
func (e *Engine) baseCovariance() *mat.Dense {
	if e.nt == 0 {
		return nil
	}
	cov := mat.NewDense(e.nt, e.nt, nil)
	mc := e.MeasuredCov()
	if mc == nil {
		return cov
	}
	nb := min(e.nm, e.nt)
	var i, j int
	for i = 0; i < nb; i++ {
		for j = 0; j < nb; j++ {
			cov.Set(i, j, mc.At(i, j))
		}
	}

	return cov
}

func (e *Engine) ensureToyCov() bool {
	if e.result.ToyCov == nil {
		e.result.ToyCov = e.toyCovariance()
	}

	return e.result.ToyCov != nil
}

// Unfolded reports whether a reconstruction is available.
func (e *Engine) Unfolded() bool { return e.st == unfolded }

// Failed reports whether the last unfold attempt or cache request failed.
func (e *Engine) Failed() bool { return e.failed }

// Vreco returns a copy of the reconstructed vector, unfolding first if
// needed. Nil when no reconstruction is available.
func (e *Engine) Vreco() *mat.VecDense {
	if !e.Unfold() {
		return nil
	}

	return mat.VecDenseCopyOf(e.result.Reco)
}

// Ereco returns the nt×nt error matrix for treatment t: diag(reco) for
// NoError, diag(variances) for Errors and the full covariance otherwise.
// A zero matrix is returned when the treatment is unavailable, nil when the
// engine has no truth bins.
func (e *Engine) Ereco(t ErrorTreatment) *mat.Dense {
	if e.nt == 0 {
		return nil
	}
	out := mat.NewDense(e.nt, e.nt, nil)
	if !e.UnfoldWithErrors(t) {
		return out
	}
	switch t {
	case NoError:
		for i := 0; i < e.nt; i++ {
			out.Set(i, i, e.result.Reco.AtVec(i))
		}
	case Errors:
		for i := 0; i < e.nt; i++ {
			out.Set(i, i, e.result.Variances.AtVec(i))
		}
	case Covariance:
		out.Copy(e.result.Cov)
	case CovToy:
		out.Copy(e.result.ToyCov)
	}

	return out
}

// ErecoV returns the per-bin errors for treatment t: √|reco| for NoError and
// the square root of the absolute variance otherwise. Zeros when the treatment
// is unavailable, nil when the engine has no truth bins.
func (e *Engine) ErecoV(t ErrorTreatment) *mat.VecDense {
	if e.nt == 0 {
		return nil
	}
	out := mat.NewVecDense(e.nt, nil)
	if !e.UnfoldWithErrors(t) {
		return out
	}
	var v float64
	for i := 0; i < e.nt; i++ {
		switch t {
		case Errors:
			v = e.result.Variances.AtVec(i)
		case Covariance:
			v = e.result.Cov.At(i, i)
		case CovToy:
			v = e.result.ToyCov.At(i, i)
		default:
			v = e.result.Reco.AtVec(i)
		}
		out.SetVec(i, math.Sqrt(math.Abs(v)))
	}

	return out
}

// Result returns a copy of the populated caches.
func (e *Engine) Result() Result {
	var r Result
	if e.result.Reco != nil {
		r.Reco = mat.VecDenseCopyOf(e.result.Reco)
	}
	if e.result.Variances != nil {
		r.Variances = mat.VecDenseCopyOf(e.result.Variances)
	}
	if e.result.Cov != nil {
		r.Cov = mat.DenseCopyOf(e.result.Cov)
	}
	if e.result.ToyCov != nil {
		r.ToyCov = mat.DenseCopyOf(e.result.ToyCov)
	}

	return r
}

func binningShape(h *hist.Hist) []int {
	return []int{h.Dim(), h.NbinsX(), h.NbinsY(), h.NbinsZ()}
}
