// SPDX-License-Identifier: MIT
// Package unfold - Engine state, binding and measured-side caches.
//
// Purpose:
//   - Hold the binding (response + measured input), the configuration and the
//     result caches of one unfolding.
//   - Every rebinding goes through invalidate, so no cache outlives the input
//     it was computed from.

package unfold

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/hist"
	"github.com/katalvlaran/unfold/matrix"
)

// Engine binds a response and a measured distribution to a Strategy and
// caches the reconstruction with its error estimates.
//
// An Engine is not safe for concurrent use. Engines may share a RandomSource.
type Engine struct {
	name, title string

	res       ResponseMatrix
	meas      *hist.Hist // bound measured distribution, possibly measOwned
	measOwned *hist.Hist // scratch written by SetMeasuredVector
	nm, nt    int        // logical bin counts, +2 each with overflow
	overflow  bool

	strategy Strategy
	cfg      config

	vMes, eMes *mat.VecDense
	covMes     *mat.Dense
	haveCovMes bool          // covMes was supplied, not derived from eMes
	covL       *mat.TriDense // Cholesky factor of covMes

	st     state
	failed bool
	prob   *Problem // input of the current reconstruction
	result Result
	ll     float64
}

// NewEngine returns an unconfigured engine running s. Options are applied in
// order; a regularisation parameter other than RegParmUnset is passed to s
// when it is a RegularizedStrategy. Panics if s is nil.
func NewEngine(s Strategy, opts ...Option) *Engine {
	if s == nil {
		panic("unfold: NewEngine(nil strategy)")
	}
	e := &Engine{strategy: s, cfg: gatherConfig(opts...)}
	e.name, e.title = e.cfg.name, e.cfg.title
	if e.cfg.regParm != RegParmUnset {
		if rs, ok := s.(RegularizedStrategy); ok {
			rs.SetRegParm(e.cfg.regParm)
		}
	}

	return e
}

// Setup binds the response and the measured distribution, clearing every
// cache. Configuration (toys, verbosity, strategy, random source) is kept.
// Calling Setup again rebinds from scratch.
func (e *Engine) Setup(res ResponseMatrix, meas *hist.Hist) {
	e.Reset()
	e.SetResponse(res)
	e.SetMeasured(meas)
}

// Reset drops the binding and every cache, keeping the configuration.
func (e *Engine) Reset() {
	e.res, e.meas, e.measOwned = nil, nil, nil
	e.nm, e.nt, e.overflow = 0, 0, false
	e.clearMeasured()
	e.invalidate()
	e.st = unconfigured
}

// SetResponse binds a response and derives the logical bin counts. A name and
// title left empty are defaulted from the response.
func (e *Engine) SetResponse(res ResponseMatrix) {
	e.res = res
	e.nm, e.nt, e.overflow = 0, 0, false
	if res != nil {
		e.overflow = res.UseOverflow()
		e.nm = res.NumMeasuredBins()
		e.nt = res.NumTruthBins()
		if e.overflow {
			e.nm += 2
			e.nt += 2
		}
		if e.name == "" {
			e.name = res.Name()
		}
		if e.title == "" {
			e.title = "Unfold " + res.Title()
		}
	}
	e.clearMeasured()
	e.invalidate()
}

// SetMeasured binds a measured distribution. The engine keeps a reference and
// reads it lazily; an explicitly supplied covariance is dropped.
func (e *Engine) SetMeasured(h *hist.Hist) {
	e.meas = h
	e.clearMeasured()
	e.invalidate()
}

// SetMeasuredVector writes v and its errors into an engine-owned histogram
// shaped like the response's measured axis and binds it.
//
// Errors:
//   - ErrNotConfigured without a response.
//   - ErrVectorLength if len(v) or len(errs) differs from the measured bin count.
func (e *Engine) SetMeasuredVector(v, errs mat.Vector) error {
	if err := e.setMeasuredVector(v, errs); err != nil {
		return unfoldErrorf(opSetMeasuredVector, err)
	}

	return nil
}

func (e *Engine) setMeasuredVector(v, errs mat.Vector) error {
	if e.res == nil {
		return ErrNotConfigured
	}
	if v == nil || errs == nil || v.Len() != e.nm || errs.Len() != e.nm {
		return ErrVectorLength
	}
	h := e.res.Hmeasured().Clone(e.name + "_measured")
	h.SetTitle(e.title)
	vals := make([]float64, e.nm)
	errv := make([]float64, e.nm)
	for i := range vals {
		vals[i] = v.AtVec(i)
		errv[i] = errs.AtVec(i)
	}
	if err := hist.FromVectors(h, vals, errv, e.overflow); err != nil {
		return err
	}
	e.measOwned = h
	e.SetMeasured(h)

	return nil
}

// SetMeasuredCovVector binds v with the full covariance cov. Per-bin errors are
// the square roots of the positive diagonal entries (zero otherwise); the
// covariance itself is kept for correlated toys.
//
// Errors: as SetMeasuredVector, plus ErrVectorLength for a cov of wrong size.
func (e *Engine) SetMeasuredCovVector(v mat.Vector, cov mat.Matrix) error {
	if e.res == nil {
		return unfoldErrorf(opSetMeasuredCovVector, ErrNotConfigured)
	}
	if cov == nil {
		return unfoldErrorf(opSetMeasuredCovVector, ErrVectorLength)
	}
	if r, c := cov.Dims(); r != e.nm || c != e.nm {
		return unfoldErrorf(opSetMeasuredCovVector, ErrVectorLength)
	}
	errs := mat.NewVecDense(e.nm, nil)
	var d float64
	for i := 0; i < e.nm; i++ {
		if d = cov.At(i, i); d > 0 {
			errs.SetVec(i, math.Sqrt(d))
		}
	}
	if err := e.setMeasuredVector(v, errs); err != nil {
		return unfoldErrorf(opSetMeasuredCovVector, err)
	}

	return e.SetMeasuredCov(cov)
}

// SetMeasuredCov supplies the full measured covariance (nm×nm). It replaces
// the diagonal built from the bin errors, resets the cached Cholesky factor
// and invalidates the reconstruction.
func (e *Engine) SetMeasuredCov(cov mat.Matrix) error {
	if cov == nil {
		return unfoldErrorf(opSetMeasuredCov, ErrVectorLength)
	}
	if r, c := cov.Dims(); r != e.nm || c != e.nm || r == 0 {
		return unfoldErrorf(opSetMeasuredCov, ErrVectorLength)
	}
	e.covMes = mat.DenseCopyOf(cov)
	e.haveCovMes = true
	e.covL = nil
	e.invalidate()

	return nil
}

// clearMeasured drops every cache derived from the measured input.
func (e *Engine) clearMeasured() {
	e.vMes, e.eMes = nil, nil
	e.covMes, e.haveCovMes = nil, false
	e.covL = nil
}

// invalidate drops the reconstruction and moves the engine back to the
// configured state when both inputs are bound. Failure is cleared too: a new
// configuration deserves a new attempt.
func (e *Engine) invalidate() {
	e.failed = false
	e.prob = nil
	e.result = Result{}
	e.ll = 0
	if e.res != nil && e.meas != nil {
		e.st = configured
	} else {
		e.st = unconfigured
	}
}

// Vmeasured returns the measured contents over the logical bins, or nil when
// no measured distribution is bound. Do not modify the result.
func (e *Engine) Vmeasured() *mat.VecDense {
	if e.vMes == nil && e.meas != nil && e.nm > 0 {
		e.vMes = mat.NewVecDense(e.nm, hist.Vector(e.meas, e.nm, e.overflow))
	}

	return e.vMes
}

// Emeasured returns the measured bin errors over the logical bins, or nil
// when no measured distribution is bound. Do not modify the result.
func (e *Engine) Emeasured() *mat.VecDense {
	if e.eMes == nil && e.meas != nil && e.nm > 0 {
		e.eMes = mat.NewVecDense(e.nm, hist.ErrorVector(e.meas, e.nm, e.overflow))
	}

	return e.eMes
}

// MeasuredCov returns the measured covariance: the supplied one, or diag(e²)
// built from the bin errors. Nil when no measured distribution is bound.
// Do not modify the result.
func (e *Engine) MeasuredCov() *mat.Dense {
	if e.covMes != nil {
		return e.covMes
	}
	errs := e.Emeasured()
	if errs == nil {
		return nil
	}
	d := make([]float64, e.nm)
	for i := range d {
		d[i] = errs.AtVec(i) * errs.AtVec(i)
	}
	e.covMes = matrix.Diag(d)

	return e.covMes
}

// HasMeasuredCov reports whether a full measured covariance was supplied.
func (e *Engine) HasMeasuredCov() bool { return e.haveCovMes }

// problem builds the Problem for the current binding from copies of the
// measured caches.
func (e *Engine) problem() *Problem {
	if e.prob != nil {
		return e.prob
	}
	v, errs, cov := e.Vmeasured(), e.Emeasured(), e.MeasuredCov()
	p := &Problem{
		Response:  e.res,
		NMeasured: e.nm,
		NTruth:    e.nt,
		Overflow:  e.overflow,
	}
	if v != nil {
		p.Measured = mat.VecDenseCopyOf(v)
		p.Errors = mat.VecDenseCopyOf(errs)
		p.Cov = mat.DenseCopyOf(cov)
	}
	e.prob = p

	return p
}

// Name returns the engine name.
func (e *Engine) Name() string { return e.name }

// Title returns the engine title.
func (e *Engine) Title() string { return e.title }

// SetName renames the engine.
func (e *Engine) SetName(name string) { e.name = name }

// SetTitle retitles the engine.
func (e *Engine) SetTitle(title string) { e.title = title }

// Response returns the bound response (nil before Setup).
func (e *Engine) Response() ResponseMatrix { return e.res }

// Hmeasured returns the bound measured distribution.
func (e *Engine) Hmeasured() *hist.Hist { return e.meas }

// Kind returns the kind of the engine's strategy.
func (e *Engine) Kind() Kind { return e.strategy.Kind() }

// Strategy returns the engine's strategy.
func (e *Engine) Strategy() Strategy { return e.strategy }

// NumMeasuredBins returns the logical measured bin count, overflow included.
func (e *Engine) NumMeasuredBins() int { return e.nm }

// NumTruthBins returns the logical truth bin count, overflow included.
func (e *Engine) NumTruthBins() int { return e.nt }

// Overflow reports whether under/overflow bins are tracked.
func (e *Engine) Overflow() bool { return e.overflow }

// NToys returns the toy count used for CovToy.
func (e *Engine) NToys() int { return e.cfg.nToys }

// SetNToys changes the toy count. A toy covariance already computed is kept.
func (e *Engine) SetNToys(n int) {
	if n < 0 {
		n = 0
	}
	e.cfg.nToys = n
}

// Verbose returns the log verbosity.
func (e *Engine) Verbose() int { return e.cfg.verbose }

// SetVerbose changes the log verbosity.
func (e *Engine) SetVerbose(v int) { e.cfg.verbose = max(v, 0) }

// ToyPolicy returns the resampling policy used without a measured covariance.
func (e *Engine) ToyPolicy() ToyPolicy { return e.cfg.policy }

// SetToyPolicy changes the resampling policy for subsequent toys.
func (e *Engine) SetToyPolicy(p ToyPolicy) { e.cfg.policy = p }

// Random returns the engine's random source.
func (e *Engine) Random() *RandomSource { return e.cfg.rnd }

// RegParm returns the strategy's regularisation parameter, or -1 when the
// strategy is not regularised.
func (e *Engine) RegParm() float64 {
	if rs, ok := e.strategy.(RegularizedStrategy); ok {
		return rs.RegParm()
	}

	return -1
}

// SetRegParm passes p to a regularised strategy and invalidates the
// reconstruction. It is a no-op for other strategies.
func (e *Engine) SetRegParm(p float64) {
	rs, ok := e.strategy.(RegularizedStrategy)
	if !ok {
		e.debug("regularisation parameter ignored", "kind", e.Kind(), "parm", p)
		return
	}
	rs.SetRegParm(p)
	e.invalidate()
}

// Settings returns the range of the regularisation parameter, zero for
// strategies without one.
func (e *Engine) Settings() RegSettings {
	if rs, ok := e.strategy.(RegularizedStrategy); ok {
		return rs.Settings()
	}

	return RegSettings{}
}

// Clone returns an independent engine with the same configuration, response
// and measured input. The measured distribution and covariance are copied;
// caches are not. The random source is shared, so a clone continues the
// same stream. An empty name keeps the current one.
func (e *Engine) Clone(name string) *Engine {
	c := &Engine{
		name:     e.name,
		title:    e.title,
		res:      e.res,
		nm:       e.nm,
		nt:       e.nt,
		overflow: e.overflow,
		strategy: e.strategy.Clone(),
		cfg:      e.cfg,
	}
	if name != "" {
		c.name = name
	}
	if e.meas != nil {
		c.measOwned = e.meas.Clone("")
		c.meas = c.measOwned
	}
	if e.haveCovMes {
		c.covMes = mat.DenseCopyOf(e.covMes)
		c.haveCovMes = true
	}
	c.invalidate()

	return c
}

// Print writes a one-line identity and the configuration to w.
func (e *Engine) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\t%s : %s\nregularisation parameter = %g, ntoys = %d\n",
		e.Kind(), e.name, e.title, e.RegParm(), e.cfg.nToys)

	return err
}

func (e *Engine) debug(msg string, args ...any) {
	if e.cfg.verbose >= 2 {
		e.cfg.logger.Debug(msg, append([]any{"engine", e.name}, args...)...)
	}
}

func (e *Engine) info(msg string, args ...any) {
	if e.cfg.verbose >= 1 {
		e.cfg.logger.Info(msg, append([]any{"engine", e.name}, args...)...)
	}
}

func (e *Engine) warn(msg string, args ...any) {
	if e.cfg.verbose >= 1 {
		e.cfg.logger.Warn(msg, append([]any{"engine", e.name}, args...)...)
	}
}

func (e *Engine) logError(msg string, args ...any) {
	e.cfg.logger.Error(msg, append([]any{"engine", e.name}, args...)...)
}
