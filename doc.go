// Package unfold is a toolkit for correcting binned measurements for detector
// effects: train a response on simulation, then unfold a measured
// distribution back to truth level with error propagation, toy Monte-Carlo
// covariances and goodness-of-fit reporting.
//
// 🚀 What is in the module?
//
//	• hist:     binned containers with under/overflow bins and the single
//	            logical-index ↔ global-bin mapping, hbook.H1D conversion
//	• response: trained detector response (measured, truth, fakes, matrix)
//	• matrix:   covariance kernels on gonum (Cholesky, SVD solve,
//	            pseudo-inverse, ABAT, CutZeros, streaming moments)
//	• unfold:   the engine, strategy registry (None, BinByBin, Invert),
//	            error treatments, toys, χ², table and log-likelihood
//	• snapshot: binary engine snapshots with zstd/s2/lz4 and xxhash64
//	• report:   hplot overlays of truth, measured and unfolded spectra
//
// ✨ Why this layout?
//
//   - The engine owns the state machine; strategies only map a Problem to a
//     reconstruction, so every algorithm gets toys and reporting for free.
//   - Toys are reproducible: the random stream is explicit configuration.
//   - Failures are sticky and logged instead of panicking mid-analysis.
//
// Quick start:
//
//	res, _ := response.New(measTemplate, truthTemplate)
//	// ... res.Fill(xMeasured, xTrue, w) / res.Miss(xTrue, w) on simulation
//	e, err := unfold.New(unfold.Invert, res, data)
//	if err != nil { ... }
//	e.PrintTable(os.Stdout, truth, unfold.Covariance)
//
// The cmd/unfoldtoy command runs the full chain on a generated sample.
package unfold
