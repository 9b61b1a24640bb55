// SPDX-License-Identifier: MIT

// Package response builds the detector response used by the unfolding engine.
//
// A Response is trained on simulated events. Each event either lands in both
// a truth and a measured bin (Fill), is lost by the detector (Miss), or is a
// reconstructed event with no truth counterpart (Fake). From the training
// sample the package derives:
//
//   - Htruth / Hmeasured / Hfakes: the training distributions;
//   - Mresponse: the nm×nt probability matrix P(measured j | truth i),
//     res(j,i) / truth(i), zero for empty truth bins;
//   - ApplyToTruth: the forward fold M·t (+ fakes) of a truth distribution.
//
// Vector indices are logical bin indices as defined by hist.GetBin; with
// WithOverflow(true) (1D only) the under- and overflow bins are part of the
// logical range.
package response
