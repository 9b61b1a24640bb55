// SPDX-License-Identifier: MIT

package unfold

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/hist"
)

// Kind enumerates the unfolding algorithms known to the factory.
type Kind int

const (
	// None copies the measured input into the truth binning.
	None Kind = iota
	// Bayes is the iterative Bayesian method.
	Bayes
	// SVD is the singular value decomposition method.
	SVD
	// BinByBin applies per-bin correction factors from the training sample.
	BinByBin
	// TUnfold is the Tikhonov-regularised least squares method.
	TUnfold
	// Invert solves the unregularised linear system.
	Invert
	// Dagostini is the alternative iterative Bayesian implementation.
	Dagostini
)

// String returns the algorithm name.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Bayes:
		return "bayes"
	case SVD:
		return "svd"
	case BinByBin:
		return "binbybin"
	case TUnfold:
		return "tunfold"
	case Invert:
		return "invert"
	case Dagostini:
		return "dagostini"
	default:
		return "unknown"
	}
}

// ParseKind maps a name produced by Kind.String back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k := None; k <= Dagostini; k++ {
		if k.String() == s {
			return k, true
		}
	}

	return 0, false
}

// ErrorTreatment selects which error estimate accompanies the reconstruction.
type ErrorTreatment int

const (
	// NoError uses √|reco| as a stand-in error and needs no extra work.
	NoError ErrorTreatment = iota
	// Errors requests per-bin variances.
	Errors
	// Covariance requests the full covariance computed by the strategy.
	Covariance
	// CovToy requests the covariance estimated from toy resampling.
	CovToy
)

// String returns the treatment name.
func (t ErrorTreatment) String() string {
	switch t {
	case NoError:
		return "none"
	case Errors:
		return "errors"
	case Covariance:
		return "covariance"
	case CovToy:
		return "toys"
	default:
		return "unknown"
	}
}

// ParseErrorTreatment maps a name produced by ErrorTreatment.String back to
// its value.
func ParseErrorTreatment(s string) (ErrorTreatment, bool) {
	for t := NoError; t <= CovToy; t++ {
		if t.String() == s {
			return t, true
		}
	}

	return 0, false
}

// ToyPolicy selects how measured bins are resampled when no measured
// covariance is available.
type ToyPolicy int

const (
	// PoissonToys draws Poisson((v/e)²) and rescales the draw to the bin value.
	PoissonToys ToyPolicy = iota
	// GaussianToys draws v + Normal(0, e), redrawing while negative.
	GaussianToys
)

// String returns the policy name.
func (p ToyPolicy) String() string {
	if p == GaussianToys {
		return "gaussian"
	}

	return "poisson"
}

// ResponseMatrix is the trained response the engine unfolds with.
// *response.Response implements it.
type ResponseMatrix interface {
	Name() string
	Title() string
	NumMeasuredBins() int
	NumTruthBins() int
	UseOverflow() bool
	Hmeasured() *hist.Hist
	Htruth() *hist.Hist
	Mresponse() *mat.Dense
	Vmeasured() []float64
	Vtruth() []float64
	Vfakes() []float64
	ApplyToTruth(truth *hist.Hist) (*hist.Hist, error)
}

// Problem is the input of one unfold: a response and a measured vector with
// its uncertainties. Engines build a fresh Problem for every call, so a
// strategy may keep references to it but must not expect it to change.
type Problem struct {
	Response ResponseMatrix
	Measured *mat.VecDense // length NMeasured
	Errors   *mat.VecDense // length NMeasured
	Cov      *mat.Dense    // NMeasured×NMeasured; diag(Errors²) when none was supplied

	NMeasured int
	NTruth    int
	Overflow  bool
}

// Result holds the reconstruction and the error caches. A nil field means
// the quantity has not been computed for the current configuration.
type Result struct {
	Reco      *mat.VecDense // length NTruth
	Variances *mat.VecDense // length NTruth
	Cov       *mat.Dense    // NTruth×NTruth, from the strategy or the base propagation
	ToyCov    *mat.Dense    // NTruth×NTruth, from toys
}

// RegSettings describes the range of a strategy's regularisation parameter.
type RegSettings struct {
	Min, Max, Step, Default float64
}

// state is the engine lifecycle; failure is tracked separately and is sticky.
type state int

const (
	unconfigured state = iota
	configured
	unfolded
)
