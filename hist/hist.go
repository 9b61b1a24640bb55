// SPDX-License-Identifier: MIT

// Package hist - Hist storage and safe accessors.
//
// Purpose:
//   - Keep contents and squared-weight sums in one flat buffer per quantity,
//     indexed by global bin number.
//   - Errors follow the sum-of-squared-weights model: until a weighted fill or
//     an explicit SetBinError, the error of a bin is √|content|.
//   - Out-of-range global bins are ignored by setters and read as zero, so
//     callers that iterate logical indices never panic.

package hist

import "math"

// Hist is a 1, 2 or 3 dimensional histogram with uniform axes.
type Hist struct {
	name  string
	title string
	axes  []Axis    // len 1..3
	sumw  []float64 // per global bin
	sumw2 []float64 // nil until weighted fills or explicit errors are used
}

// New1D creates an empty 1D histogram of nx bins over [xlo, xhi).
func New1D(name, title string, nx int, xlo, xhi float64) (*Hist, error) {
	return newHist(name, title, Axis{N: nx, Min: xlo, Max: xhi})
}

// New2D creates an empty 2D histogram.
func New2D(name, title string, nx int, xlo, xhi float64, ny int, ylo, yhi float64) (*Hist, error) {
	return newHist(name, title,
		Axis{N: nx, Min: xlo, Max: xhi},
		Axis{N: ny, Min: ylo, Max: yhi},
	)
}

// New3D creates an empty 3D histogram.
func New3D(name, title string, nx int, xlo, xhi float64, ny int, ylo, yhi float64, nz int, zlo, zhi float64) (*Hist, error) {
	return newHist(name, title,
		Axis{N: nx, Min: xlo, Max: xhi},
		Axis{N: ny, Min: ylo, Max: yhi},
		Axis{N: nz, Min: zlo, Max: zhi},
	)
}

// newHist validates every axis and allocates the flat buffers.
func newHist(name, title string, axes ...Axis) (*Hist, error) {
	if len(axes) < 1 || len(axes) > 3 {
		return nil, histErrorf("New", ErrDimension)
	}
	ncells := 1
	for _, a := range axes {
		if err := a.validate(); err != nil {
			return nil, histErrorf("New", err)
		}
		ncells *= a.cells()
	}

	return &Hist{
		name:  name,
		title: title,
		axes:  append([]Axis(nil), axes...),
		sumw:  make([]float64, ncells),
	}, nil
}

// Name returns the histogram name.
func (h *Hist) Name() string { return h.name }

// Title returns the histogram title.
func (h *Hist) Title() string { return h.title }

// SetName renames the histogram.
func (h *Hist) SetName(name string) { h.name = name }

// SetTitle sets the histogram title.
func (h *Hist) SetTitle(title string) { h.title = title }

// Dim returns the number of axes (1, 2 or 3).
func (h *Hist) Dim() int { return len(h.axes) }

// Axis returns a copy of axis k (0=x, 1=y, 2=z). Missing axes report N=1.
func (h *Hist) Axis(k int) Axis {
	if k < 0 || k >= len(h.axes) {
		return Axis{N: 1, Min: 0, Max: 1}
	}

	return h.axes[k]
}

// NbinsX returns the number of in-range bins on x.
func (h *Hist) NbinsX() int { return h.Axis(0).N }

// NbinsY returns the number of in-range bins on y (1 for 1D histograms).
func (h *Hist) NbinsY() int { return h.Axis(1).N }

// NbinsZ returns the number of in-range bins on z (1 below 3D).
func (h *Hist) NbinsZ() int { return h.Axis(2).N }

// NCells returns the number of global bins, under/overflow included.
func (h *Hist) NCells() int { return len(h.sumw) }

// Bin returns the global bin number of cell (ix, iy, iz).
// Indices beyond the histogram dimension are ignored.
func (h *Hist) Bin(ix, iy, iz int) int {
	switch len(h.axes) {
	case 1:
		return ix
	case 2:
		return ix + h.axes[0].cells()*iy
	default:
		return ix + h.axes[0].cells()*(iy+h.axes[1].cells()*iz)
	}
}

// Cell splits a global bin into its per-axis indices.
func (h *Hist) Cell(bin int) (ix, iy, iz int) {
	cx := h.axes[0].cells()
	ix = bin % cx
	if len(h.axes) < 2 {
		return ix, 0, 0
	}
	cy := h.axes[1].cells()
	iy = (bin / cx) % cy
	if len(h.axes) < 3 {
		return ix, iy, 0
	}
	iz = bin / (cx * cy)

	return ix, iy, iz
}

// inRange reports whether bin addresses a stored cell.
func (h *Hist) inRange(bin int) bool { return bin >= 0 && bin < len(h.sumw) }

// BinContent returns the sum of weights of a global bin (0 when out of range).
func (h *Hist) BinContent(bin int) float64 {
	if !h.inRange(bin) {
		return 0
	}

	return h.sumw[bin]
}

// SetBinContent overwrites the content of a global bin.
func (h *Hist) SetBinContent(bin int, v float64) {
	if !h.inRange(bin) {
		return
	}
	h.sumw[bin] = v
}

// BinError returns √Σw² for the bin, or √|content| when no squared weights
// have been recorded.
func (h *Hist) BinError(bin int) float64 {
	if !h.inRange(bin) {
		return 0
	}
	if h.sumw2 == nil {
		return math.Sqrt(math.Abs(h.sumw[bin]))
	}

	return math.Sqrt(h.sumw2[bin])
}

// SetBinError overwrites the error of a global bin.
func (h *Hist) SetBinError(bin int, e float64) {
	if !h.inRange(bin) {
		return
	}
	h.enableSumw2()
	h.sumw2[bin] = e * e
}

// enableSumw2 starts squared-weight bookkeeping, seeded from the contents
// so existing bins keep their √|content| errors.
func (h *Hist) enableSumw2() {
	if h.sumw2 != nil {
		return
	}
	h.sumw2 = make([]float64, len(h.sumw))
	for i, v := range h.sumw {
		h.sumw2[i] = math.Abs(v)
	}
}

// Fill adds weight w at x on a 1D histogram and returns the global bin,
// or -1 if the histogram is not 1D.
func (h *Hist) Fill(x, w float64) int {
	if len(h.axes) != 1 {
		return -1
	}

	return h.fillBin(h.axes[0].FindBin(x), w)
}

// Fill2D adds weight w at (x, y) on a 2D histogram.
func (h *Hist) Fill2D(x, y, w float64) int {
	if len(h.axes) != 2 {
		return -1
	}

	return h.fillBin(h.Bin(h.axes[0].FindBin(x), h.axes[1].FindBin(y), 0), w)
}

// Fill3D adds weight w at (x, y, z) on a 3D histogram.
func (h *Hist) Fill3D(x, y, z, w float64) int {
	if len(h.axes) != 3 {
		return -1
	}

	return h.fillBin(h.Bin(h.axes[0].FindBin(x), h.axes[1].FindBin(y), h.axes[2].FindBin(z)), w)
}

// AddBinContent adds weight w to a global bin with the same bookkeeping as
// a fill. Out-of-range bins are ignored.
func (h *Hist) AddBinContent(bin int, w float64) {
	if !h.inRange(bin) {
		return
	}
	h.fillBin(bin, w)
}

// FindBin returns the global bin for a point with one coordinate per axis.
func (h *Hist) FindBin(coords ...float64) int {
	var idx [3]int
	for k := range h.axes {
		if k < len(coords) {
			idx[k] = h.axes[k].FindBin(coords[k])
		}
	}

	return h.Bin(idx[0], idx[1], idx[2])
}

// fillBin accumulates w into bin; unit weights keep the √content error model.
func (h *Hist) fillBin(bin int, w float64) int {
	if w != 1 {
		h.enableSumw2()
	}
	h.sumw[bin] += w
	if h.sumw2 != nil {
		h.sumw2[bin] += w * w
	}

	return bin
}

// Integral sums the contents of all in-range bins (under/overflow excluded).
func (h *Hist) Integral() float64 {
	var sum float64
	nx, ny, nz := h.NbinsX(), h.NbinsY(), h.NbinsZ()
	for iz := 1; iz <= nz; iz++ {
		for iy := 1; iy <= ny; iy++ {
			for ix := 1; ix <= nx; ix++ {
				sum += h.sumw[h.Bin(ix, iy, iz)]
			}
		}
	}

	return sum
}

// Reset zeroes contents, keeping the binning. Errors fall back to the
// √|content| model until the next weighted fill or SetBinError.
func (h *Hist) Reset() {
	clear(h.sumw)
	h.sumw2 = nil
}

// Clone returns a deep copy. An empty name keeps the original one.
func (h *Hist) Clone(name string) *Hist {
	if name == "" {
		name = h.name
	}
	c := &Hist{
		name:  name,
		title: h.title,
		axes:  append([]Axis(nil), h.axes...),
		sumw:  append([]float64(nil), h.sumw...),
	}
	if h.sumw2 != nil {
		c.sumw2 = append([]float64(nil), h.sumw2...)
	}

	return c
}

// SameBinning reports whether a and b have the same dimension and bin counts.
func SameBinning(a, b *Hist) bool {
	if a == nil || b == nil {
		return false
	}

	return a.Dim() == b.Dim() &&
		a.NbinsX() == b.NbinsX() &&
		a.NbinsY() == b.NbinsY() &&
		a.NbinsZ() == b.NbinsZ()
}
