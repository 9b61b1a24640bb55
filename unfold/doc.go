// SPDX-License-Identifier: MIT

// Package unfold corrects a measured, binned distribution for detector
// smearing and efficiency using a trained response matrix.
//
// What:
//
//   - Engine: binds a ResponseMatrix and a measured distribution, runs a
//     pluggable Strategy lazily and caches the reconstruction together with
//     its error estimates.
//   - Four error treatments: NoError, Errors (per-bin variances), Covariance
//     (full covariance from the strategy) and CovToy (covariance estimated by
//     toy Monte-Carlo resampling of the measured input).
//   - Goodness of fit: covariance-based χ² with zero-information pruning,
//     a fixed-width comparison table and a Poisson log-likelihood of the
//     refolded reconstruction.
//   - Registry: New(kind, ...) selects a strategy by Kind; None, BinByBin and
//     Invert are built in, other kinds are reported as unavailable until a
//     constructor is registered.
//
// Why:
//
//   - Strategies only map a Problem to a reconstructed vector; the engine owns
//     the state machine, so every algorithm gets toys, χ² and reporting for free.
//   - Toys never clone the engine: runToy is a pure function of a strategy copy
//     and a perturbed Problem.
//   - The random stream and the toy policy are explicit configuration, so two
//     engines with the same seed produce the same toys.
//
// Lifecycle:
//
//	e := unfold.NewEngine(unfold.NewBinByBin(), unfold.WithSeed(1))
//	e.Setup(res, measured)        // fixes bin counts, clears caches
//	e.SetMeasuredCov(cov)         // optional, invalidates the unfold
//	h := e.Hreco(unfold.CovToy)   // unfolds once, runs toys, caches LL
//	chi2 := e.Chi2(truth, unfold.CovToy)
//
// Failure policy:
//
//   - Engine accessors never panic and never return Go errors for numerical
//     trouble: a failed unfold is sticky (Failed reports it) and degenerate
//     covariances are reported on the logger.
//   - Option constructors panic on programmer errors such as a negative toy
//     count or a nil logger.
package unfold
