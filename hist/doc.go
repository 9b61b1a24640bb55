// SPDX-License-Identifier: MIT

// Package hist provides the binned container used by the unfolding engine.
//
// A Hist stores per-cell sums of weights and squared weights in the global
// bin layout used by HEP histogramming tools: every axis carries an underflow
// bin (index 0) and an overflow bin (index N+1), and the global bin of the
// cell (ix, iy, iz) is
//
//	ix + (nx+2)*(iy + (ny+2)*iz)
//
// The package also owns the single bin-index mapping used everywhere a
// logical vector index crosses into a histogram (GetBin), the vector
// conversions built on it (Vector, ErrorVector, FromVector), the resize and
// flattening helpers (Resize, NoOverflow), and conversion to and from
// go-hep hbook.H1D for plotting and I/O.
//
// Complexity:
//   - At/Set by global bin: O(1).
//   - Clone, Reset, Integral, Resize, NoOverflow: O(cells).
package hist
