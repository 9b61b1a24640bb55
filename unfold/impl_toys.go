// SPDX-License-Identifier: MIT
// Package unfold - toy Monte-Carlo resampling of the measured input.
//
// Purpose:
//   - Estimate the covariance of the reconstruction empirically: perturb the
//     measured vector NToys times, unfold each perturbation with a copy of
//     the strategy and accumulate the sample covariance.
//
// Determinism:
//   - Draws are issued in bin order, toy after toy, from the engine's
//     RandomSource; the same seed reproduces the same toy covariance.

package unfold

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/matrix"
)

// RunToy draws one perturbation of the measured input and returns its
// reconstruction. The engine's caches are not touched.
//
// Errors:
//   - ErrNotConfigured before Setup.
//   - the strategy's error, or ErrRecoLength.
//   - matrix.ErrNotPositiveDefinite when a supplied covariance cannot be
//     factorised.
func (e *Engine) RunToy() (*mat.VecDense, error) {
	if e.st == unconfigured {
		return nil, unfoldErrorf(opRunToy, ErrNotConfigured)
	}
	p, err := e.toyProblem()
	if err != nil {
		return nil, unfoldErrorf(opRunToy, err)
	}
	reco, err := runToy(e.strategy, p)
	if err != nil {
		return nil, unfoldErrorf(opRunToy, err)
	}

	return reco, nil
}

// runToy unfolds p with an independent copy of s.
func runToy(s Strategy, p *Problem) (*mat.VecDense, error) {
	reco, err := s.Clone().Unfold(p)
	if err != nil {
		return nil, err
	}
	if reco == nil || reco.Len() != p.NTruth {
		return nil, ErrRecoLength
	}

	return reco, nil
}

// toyCovariance runs NToys toys and returns the sample covariance of their
// reconstructions, or nil when NToys <= 1 or any toy fails.
//
// Implementation:
//   - Stage 1: Draw a perturbed Problem (correlated or per-bin).
//   - Stage 2: Unfold it with runToy and accumulate first and second moments.
//   - Stage 3: cov(i,j) = (Σxixj − ΣxiΣxj/N)/(N−1).
//
// Complexity:
//   - Time O(NToys·(T_unfold + nt²)), Space O(nt²).
func (e *Engine) toyCovariance() *mat.Dense {
	if e.cfg.nToys <= 1 {
		e.warn("toy covariance needs more than one toy", "ntoys", e.cfg.nToys)
		return nil
	}

	mom := matrix.NewMoments(e.nt)
	var (
		p    *Problem
		reco *mat.VecDense
		err  error
	)
	for k := 0; k < e.cfg.nToys; k++ {
		if p, err = e.toyProblem(); err != nil {
			e.logError("toy generation failed", "toy", k, "err", err)
			return nil
		}
		if reco, err = runToy(e.strategy, p); err != nil {
			e.logError("toy unfold failed", "toy", k, "err", err)
			return nil
		}
		if err = mom.Add(mat.Col(nil, 0, reco)); err != nil {
			e.logError("toy accumulation failed", "toy", k, "err", err)
			return nil
		}
	}
	cov, err := mom.Covariance()
	if err != nil {
		e.logError("toy covariance failed", "err", err)
		return nil
	}
	e.info("toy covariance computed", "ntoys", mom.N(), "policy", e.cfg.policy)
	e.debug("toy mean", "mean", mom.Mean())

	return cov
}

// toyProblem returns the Problem of one toy. With a supplied measured
// covariance the perturbation is correlated through its Cholesky factor,
// which is computed once and cached; otherwise every bin with a positive
// error is resampled on its own according to the toy policy.
func (e *Engine) toyProblem() (*Problem, error) {
	base := e.problem()
	if base.Measured == nil {
		return nil, ErrNotConfigured
	}
	p := &Problem{
		Response:  base.Response,
		NMeasured: base.NMeasured,
		NTruth:    base.NTruth,
		Overflow:  base.Overflow,
	}

	if e.haveCovMes {
		if e.covL == nil {
			l, err := matrix.CholeskyLower(e.covMes)
			if err != nil {
				return nil, err
			}
			e.covL = l
			e.debug("measured covariance factorised", "L", mat.Formatted(l, mat.Squeeze()))
		}
		z := mat.NewVecDense(e.nm, nil)
		for i := 0; i < e.nm; i++ {
			z.SetVec(i, e.cfg.rnd.Gaus(0, 1))
		}
		x := mat.NewVecDense(e.nm, nil)
		x.MulVec(e.covL, z)
		x.AddVec(x, base.Measured)
		p.Measured = x
		p.Cov = mat.DenseCopyOf(base.Cov)
		p.Errors = mat.NewVecDense(e.nm, nil)
		var d float64
		for i := 0; i < e.nm; i++ {
			if d = p.Cov.At(i, i); d > 0 {
				p.Errors.SetVec(i, math.Sqrt(d))
			}
		}

		return p, nil
	}

	x := mat.VecDenseCopyOf(base.Measured)
	var v, s float64
	for i := 0; i < e.nm; i++ {
		if s = base.Errors.AtVec(i); s <= 0 {
			continue
		}
		v = base.Measured.AtVec(i)
		if e.cfg.policy == GaussianToys {
			x.SetVec(i, e.gaussianToy(v, s))
		} else {
			x.SetVec(i, e.poissonToy(v, s))
		}
	}
	p.Measured = x
	p.Errors = mat.VecDenseCopyOf(base.Errors)
	p.Cov = mat.DenseCopyOf(base.Cov)

	return p, nil
}

// poissonToy draws Poisson(λ) with λ = (v/s)², the equivalent number of
// entries of a bin with content v and error s, and scales the draw back so
// that its mean is v.
func (e *Engine) poissonToy(v, s float64) float64 {
	lambda := (v / s) * (v / s)
	if lambda <= 0 {
		return 0
	}

	return e.cfg.rnd.Poisson(lambda) * v / lambda
}

// gaussianToy draws v + Normal(0, s), redrawing while the result is negative.
func (e *Engine) gaussianToy(v, s float64) float64 {
	var x float64
	for k := 0; k < maxGaussianRedraws; k++ {
		if x = v + e.cfg.rnd.Gaus(0, s); x >= 0 {
			return x
		}
	}
	e.warn("gaussian toy stayed negative, bin set to zero", "value", v, "error", s)

	return 0
}
