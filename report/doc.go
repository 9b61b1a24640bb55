// SPDX-License-Identifier: MIT

// Package report draws unfolding inputs and results with go-hep hplot.
//
// Every series is a hist.Hist. One-dimensional histograms are drawn on their
// own axis; 2D and 3D histograms are flattened to their logical bin index
// first, so truth, measured and reconstructed distributions of any binning
// can share one plot. The output format follows the file extension
// (png, svg, pdf, eps, tex, jpg).
package report
