// SPDX-License-Identifier: MIT
// Package unfold - reconstructed histogram, log-likelihood and table report.

package unfold

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/katalvlaran/unfold/hist"
)

// Hreco returns the reconstruction as a histogram shaped like the response's
// truth template, with bin errors for treatment t. When t is unavailable the
// errors fall back to NoError; without a reconstruction the histogram is
// empty. Nil before a response is bound.
//
// Side effects:
//   - The reconstruction is refolded through the response and the Poisson
//     log-likelihood of the measured distribution is cached (LogLikelihood).
func (e *Engine) Hreco(t ErrorTreatment) *hist.Hist {
	if e.res == nil {
		return nil
	}
	reco := e.res.Htruth().Clone(e.name)
	reco.Reset()
	reco.SetTitle(e.title)
	if !e.UnfoldWithErrors(t) {
		t = NoError
	}
	if !e.Unfolded() {
		return reco
	}

	var j int
	for i := 0; i < e.nt; i++ {
		j = hist.GetBin(reco, i, e.overflow)
		reco.SetBinContent(j, e.result.Reco.AtVec(i))
		switch t {
		case Errors:
			reco.SetBinError(j, math.Sqrt(math.Abs(e.result.Variances.AtVec(i))))
		case Covariance:
			reco.SetBinError(j, math.Sqrt(math.Abs(e.result.Cov.At(i, i))))
		case CovToy:
			reco.SetBinError(j, math.Sqrt(math.Abs(e.result.ToyCov.At(i, i))))
		}
	}

	refold, err := e.res.ApplyToTruth(reco)
	if err != nil {
		e.warn("refold failed, log-likelihood not updated", "err", err)
		return reco
	}
	if e.meas != nil {
		e.ll = PoissonLL(e.meas, refold)
		e.info("log-likelihood", "ll", e.ll)
	}

	return reco
}

// LogLikelihood returns the log-likelihood cached by the last Hreco call.
func (e *Engine) LogLikelihood() float64 { return e.ll }

// PoissonLL returns Σ x·ln μ − lnΓ(x+1) − μ over the global bins
// 1 .. NbinsX·NbinsY−1 of observed, where x is the observed and μ the expected
// content and both are positive.
//
// Notes:
//   - The range stops one bin short of NbinsX·NbinsY, so the last in-range
//     bin of a 1D histogram does not contribute.
func PoissonLL(observed, expected *hist.Hist) float64 {
	if observed == nil || expected == nil {
		return 0
	}
	nbins := observed.NbinsX() * observed.NbinsY()
	var ll, x, mu, lg float64
	for i := 1; i < nbins; i++ {
		x = observed.BinContent(i)
		mu = expected.BinContent(i)
		if x > 0 && mu > 0 {
			lg, _ = math.Lgamma(x + 1)
			ll += x*math.Log(mu) - lg - mu
		}
	}

	return ll
}

const tableRule = "==============================================================================="

// PrintTable writes a per-bin comparison of the training truth, training
// measured, test truth, test input and unfolded values, with the unfolding
// error, difference and pull, followed by column totals and a χ²/NDF line.
// hTrue may be nil. Two- and three-dimensional histograms label rows by cell.
//
// Errors:
//   - ErrNotUnfolded when no reconstruction is available.
//   - the writer's error.
func (e *Engine) PrintTable(w io.Writer, hTrue *hist.Hist, t ErrorTreatment) error {
	hReco := e.Hreco(t)
	if !e.Unfolded() || hReco == nil {
		return unfoldErrorf(opPrintTable, ErrNotUnfolded)
	}
	hMeas := e.meas
	hTrainTrue := e.res.Htruth()
	hTrain := e.res.Hmeasured()

	dim := hReco.Dim()
	if hMeas.Dim() != dim || hMeas.NbinsX() != hReco.NbinsX() || hMeas.NbinsY() != hReco.NbinsY() {
		dim = 1
	}
	iwid, xwid := 5, ""
	switch dim {
	case 2:
		iwid, xwid = 7, "=="
	case 3:
		iwid, xwid = 8, "==="
	}
	rule := tableRule + xwid + "\n"
	blank := strings.Repeat(" ", 9)

	var b strings.Builder
	b.WriteString(rule)
	fmt.Fprintf(&b, "%*s%9s%9s%9s%9s%9s%10s%9s%9s\n", iwid, "",
		"Train", "Train", "Test", "Test", "Unfolded", "Error on", "Diff", "Pull")
	fmt.Fprintf(&b, "%*s%9s%9s%9s%9s%9s%10s\n", iwid, "Bin",
		"Truth", "Measured", "Truth", "Input", "Output", "Unfolding")
	b.WriteString(rule)

	var (
		trueTrainTot, measTrainTot, trueTestTot, measTestTot, unfTot float64
		chi2, y, yerr, ydiff, ypull                                  float64
		ndf, it, im, ix, iy, iz                                      int
	)
	first := 1
	if e.overflow {
		first = 0
	}
	maxbin := max(e.nt, e.nm)
	for i := 0; i < maxbin; i++ {
		it = hist.GetBin(hReco, i, e.overflow)
		im = hist.GetBin(hMeas, i, e.overflow)

		switch dim {
		case 2:
			ix, iy, _ = hReco.Cell(it)
			fmt.Fprintf(&b, "%3d,%3d", ix, iy)
		case 3:
			ix, iy, iz = hReco.Cell(it)
			fmt.Fprintf(&b, "%2d,%2d,%2d", ix, iy, iz)
		default:
			fmt.Fprintf(&b, "%*d", iwid, i+first)
		}

		trueTrainTot += hTrainTrue.BinContent(it)
		measTrainTot += hTrain.BinContent(im)
		if hTrue != nil {
			trueTestTot += hTrue.BinContent(it)
		}
		measTestTot += hMeas.BinContent(im)
		unfTot += hReco.BinContent(it)

		writeCell(&b, i < e.nt, "%8.0f", hTrainTrue.BinContent(it), blank)
		writeCell(&b, i < e.nm, "%8.0f", hTrain.BinContent(im), blank)
		if hTrue != nil {
			writeCell(&b, i < e.nt, "%8.0f", hTrue.BinContent(it), blank)
		} else {
			b.WriteString(blank)
		}
		writeCell(&b, i < e.nm, "%8.0f", hMeas.BinContent(im), blank)

		if i < e.nt {
			y, yerr = hReco.BinContent(it), hReco.BinError(it)
			fmt.Fprintf(&b, " %8.1f %9.1f", y, yerr)
			if hTrue != nil &&
				(y != 0 || (t != NoError && yerr > 0)) &&
				(hTrue.BinContent(it) != 0 || (t != NoError && hTrue.BinError(it) > 0)) {
				ydiff = y - hTrue.BinContent(it)
				fmt.Fprintf(&b, " %8.1f", ydiff)
				if yerr > 0 {
					ndf++
					ypull = ydiff / yerr
					chi2 += ypull * ypull
					fmt.Fprintf(&b, " %8.1f", ypull)
				}
			}
		}
		b.WriteByte('\n')
	}

	b.WriteString(rule)
	fmt.Fprintf(&b, "%*s %8.0f %8.0f", iwid, "", trueTrainTot, measTrainTot)
	if hTrue != nil {
		fmt.Fprintf(&b, " %8.0f", trueTestTot)
	} else {
		b.WriteString(blank)
	}
	fmt.Fprintf(&b, " %8.0f %8.1f %9.1f %8.1f", measTestTot, unfTot,
		math.Sqrt(measTestTot)*(trueTrainTot/measTrainTot), unfTot-trueTestTot)
	if hMeas.Integral() > 0 {
		fmt.Fprintf(&b, " %8.1f", (unfTot-trueTestTot)/math.Sqrt(measTestTot))
	}
	b.WriteByte('\n')
	b.WriteString(rule)

	if hTrue != nil {
		chiSq := chi2
		if t == Covariance || t == CovToy {
			chiSq = e.Chi2(hTrue, t)
			fmt.Fprintf(&b, "Chi^2/NDF=%g/%d (bin-by-bin Chi^2=%g)\n", chiSq, ndf, chi2)
		} else {
			fmt.Fprintf(&b, "Bin-by-bin Chi^2/NDF=%g/%d\n", chiSq, ndf)
		}
		if chiSq <= 0 {
			e.warn("invalid chi2 value", "chi2", chiSq)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// writeCell writes " "+format(v) when ok, otherwise the blank column.
func writeCell(b *strings.Builder, ok bool, format string, v float64, blank string) {
	if !ok {
		b.WriteString(blank)
		return
	}
	b.WriteByte(' ')
	fmt.Fprintf(b, format, v)
}
