// SPDX-License-Identifier: MIT

package hist

// Resize changes the number of bins per axis in place and returns h.
//
// Contents and errors are copied to the same bin numbers; the old overflow
// bin is copied to the new overflow bin; bins beyond the old range are zeroed.
// Each axis keeps its lower edge and bin width. A negative count (or an axis
// beyond the histogram dimension) keeps the current size.
//
// Complexity: O(cells) time and space.
func (h *Hist) Resize(nx, ny, nz int) *Hist {
	want := [3]int{nx, ny, nz}
	old := append([]Axis(nil), h.axes...)
	axes := append([]Axis(nil), h.axes...)
	mod := false
	for k := range axes {
		if want[k] < 0 || want[k] == old[k].N {
			continue
		}
		w := old[k].Width()
		axes[k] = Axis{N: want[k], Min: old[k].Min, Max: old[k].Min + w*float64(want[k])}
		mod = true
	}
	if !mod {
		return h
	}

	src := h.Clone("")
	h.axes = axes
	ncells := 1
	for _, a := range axes {
		ncells *= a.cells()
	}
	h.sumw = make([]float64, ncells)
	if src.sumw2 != nil {
		h.sumw2 = make([]float64, ncells)
	}

	var from [3]int
	var ok bool
	for bin := 0; bin < ncells; bin++ {
		ix, iy, iz := h.Cell(bin)
		to := [3]int{ix, iy, iz}
		ok = true
		for k := range axes {
			from[k], ok = resizedIndex(to[k], axes[k].N, old[k].N)
			if !ok {
				break
			}
		}
		if !ok {
			continue // extra bins stay zero
		}
		j := src.Bin(from[0], from[1], from[2])
		h.sumw[bin] = src.sumw[j]
		if h.sumw2 != nil {
			h.sumw2[bin] = src.sumw2[j]
		}
	}

	return h
}

// resizedIndex maps bin i of an axis resized from m to n bins back to the
// source bin. The new overflow reads the old overflow; bins past the old
// range have no source.
func resizedIndex(i, n, m int) (int, bool) {
	switch {
	case i == n+1:
		return m + 1, true
	case i > m:
		return 0, false
	default:
		return i, true
	}
}

// NoOverflow flattens h into a 1D histogram of nx*ny*nz logical bins.
//
// Without overflow the result spans [0, nbins) with the logical bins of h in
// bins 1..nbins and empty under/overflow. With overflow (1D only) the result
// gains one bin of the original width on each side and the original
// under/overflow become regular bins.
func NoOverflow(h *Hist, overflow bool) (*Hist, error) {
	if h == nil {
		return nil, histErrorf("NoOverflow", ErrNilHist)
	}
	if !overflow {
		nb := h.NbinsX() * h.NbinsY() * h.NbinsZ()
		if h.Dim() == 1 {
			out := h.Clone("")
			out.SetBinContent(0, 0)
			out.SetBinContent(nb+1, 0)

			return out, nil
		}
		out, err := New1D(h.name, h.title, nb, 0, float64(nb))
		if err != nil {
			return nil, histErrorf("NoOverflow", err)
		}
		var j int
		for i := 0; i < nb; i++ {
			j = GetBin(h, i, false)
			out.SetBinContent(i+1, h.BinContent(j))
			if h.sumw2 != nil {
				out.SetBinError(i+1, h.BinError(j))
			}
		}

		return out, nil
	}
	if h.Dim() != 1 {
		return nil, histErrorf("NoOverflow", ErrDimension)
	}
	ax := h.axes[0]
	w := ax.Width()
	nb := ax.N + 2
	out, err := New1D(h.name, h.title, nb, ax.Min-w, ax.Max+w)
	if err != nil {
		return nil, histErrorf("NoOverflow", err)
	}
	for i := 0; i < nb; i++ {
		out.SetBinContent(i+1, h.BinContent(i))
		out.SetBinError(i+1, h.BinError(i))
	}

	return out, nil
}
