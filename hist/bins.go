// SPDX-License-Identifier: MIT

package hist

// GetBin maps a logical vector index i in [0, n) to the global bin of h.
//
// For 1D histograms the logical index is shifted by one when under/overflow
// bins are excluded (overflow=false) and passed through unchanged when they
// are part of the logical range (overflow=true). For 2D/3D histograms the
// logical index enumerates in-range cells x-fastest and the overflow flag is
// ignored.
//
// Every conversion between a vector index and a bin number goes through this
// function.
func GetBin(h *Hist, i int, overflow bool) int {
	if h.Dim() < 2 {
		if overflow {
			return i
		}

		return i + 1
	}
	nx := h.NbinsX()
	if h.Dim() == 2 {
		return h.Bin(i%nx+1, i/nx+1, 0)
	}
	ny := h.NbinsY()

	return h.Bin(i%nx+1, (i/nx)%ny+1, i/(nx*ny)+1)
}

// LogicalIndex is the inverse of GetBin: it returns the logical vector index
// of a global bin, or -1 when the bin lies outside the logical range.
func LogicalIndex(h *Hist, bin int, overflow bool) int {
	if !h.inRange(bin) {
		return -1
	}
	if h.Dim() < 2 {
		if overflow {
			return bin
		}
		if bin < 1 || bin > h.NbinsX() {
			return -1
		}

		return bin - 1
	}
	nx, ny, nz := h.NbinsX(), h.NbinsY(), h.NbinsZ()
	ix, iy, iz := h.Cell(bin)
	if h.Dim() == 2 {
		iz = 1
	}
	if ix < 1 || ix > nx || iy < 1 || iy > ny || iz < 1 || iz > nz {
		return -1
	}

	return (ix - 1) + nx*((iy-1)+ny*(iz-1))
}

// NumBins returns the logical bin count of h: the product of the in-range bin
// counts, plus two when overflow bins are tracked.
func NumBins(h *Hist, overflow bool) int {
	n := h.NbinsX() * h.NbinsY() * h.NbinsZ()
	if overflow {
		n += 2
	}

	return n
}

// Vector returns the contents of the first n logical bins of h.
func Vector(h *Hist, n int, overflow bool) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = h.BinContent(GetBin(h, i, overflow))
	}

	return v
}

// ErrorVector returns the errors of the first n logical bins of h.
func ErrorVector(h *Hist, n int, overflow bool) []float64 {
	e := make([]float64, n)
	for i := range e {
		e[i] = h.BinError(GetBin(h, i, overflow))
	}

	return e
}

// FromVector resets h and writes v into its first len(v) logical bins.
func FromVector(h *Hist, v []float64, overflow bool) {
	h.Reset()
	for i, x := range v {
		h.SetBinContent(GetBin(h, i, overflow), x)
	}
}

// FromVectors resets h and writes contents and errors. len(e) must equal len(v).
func FromVectors(h *Hist, v, e []float64, overflow bool) error {
	if len(v) != len(e) {
		return histErrorf("FromVectors", ErrVectorLength)
	}
	h.Reset()
	var j int
	for i := range v {
		j = GetBin(h, i, overflow)
		h.SetBinContent(j, v[i])
		h.SetBinError(j, e[i])
	}

	return nil
}
