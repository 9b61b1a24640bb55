// SPDX-License-Identifier: MIT

package hist

import (
	"math"

	"go-hep.org/x/hep/hbook"
)

// H1D converts a 1D histogram into a go-hep hbook.H1D, carrying contents,
// squared weights and the under/overflow bins. It returns nil for 2D/3D
// histograms; flatten them first with NoOverflow.
func (h *Hist) H1D() *hbook.H1D {
	if h.Dim() != 1 {
		return nil
	}
	ax := h.axes[0]
	out := hbook.NewH1D(ax.N, ax.Min, ax.Max)
	out.Annotation()["name"] = h.name
	out.Annotation()["title"] = h.title

	var total hbook.Dist0D
	for i := 1; i <= ax.N; i++ {
		d := &out.Binning.Bins[i-1].Dist.Dist
		d.SumW = h.BinContent(i)
		d.SumW2 = h.squaredError(i)
		d.N = entries(d.SumW, d.SumW2)
		total.SumW += d.SumW
		total.SumW2 += d.SumW2
		total.N += d.N
	}
	for k, bin := range [2]int{0, ax.N + 1} {
		d := &out.Binning.Outflows[k].Dist
		d.SumW = h.BinContent(bin)
		d.SumW2 = h.squaredError(bin)
		d.N = entries(d.SumW, d.SumW2)
	}
	out.Binning.Dist.Dist = total

	return out
}

// FromH1D builds a Hist from a go-hep hbook.H1D with uniform bins.
func FromH1D(name string, h1 *hbook.H1D) (*Hist, error) {
	if h1 == nil {
		return nil, histErrorf("FromH1D", ErrNilHist)
	}
	title, _ := h1.Annotation()["title"].(string)
	h, err := New1D(name, title, h1.Len(), h1.XMin(), h1.XMax())
	if err != nil {
		return nil, histErrorf("FromH1D", err)
	}
	h.enableSumw2()
	for i, b := range h1.Binning.Bins {
		h.sumw[i+1] = b.SumW()
		h.sumw2[i+1] = b.SumW2()
	}
	n := h1.Len()
	h.sumw[0] = h1.Binning.Outflows[0].SumW()
	h.sumw2[0] = h1.Binning.Outflows[0].SumW2()
	h.sumw[n+1] = h1.Binning.Outflows[1].SumW()
	h.sumw2[n+1] = h1.Binning.Outflows[1].SumW2()

	return h, nil
}

func (h *Hist) squaredError(bin int) float64 {
	e := h.BinError(bin)

	return e * e
}

// entries estimates the effective number of entries, (Σw)²/Σw².
func entries(sumw, sumw2 float64) int64 {
	if sumw2 <= 0 {
		return 0
	}

	return int64(math.Round(sumw * sumw / sumw2))
}
