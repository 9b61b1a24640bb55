// SPDX-License-Identifier: MIT

// Command unfoldtoy trains a response on a smeared toy sample, unfolds an
// independent sample and prints the comparison table.
//
// Usage:
//
//	unfoldtoy [options]
//
// The reconstruction can be plotted (-o) and the engine state written to a
// snapshot file (-snapshot) that a later run can restore.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/katalvlaran/unfold/hist"
	"github.com/katalvlaran/unfold/report"
	"github.com/katalvlaran/unfold/response"
	"github.com/katalvlaran/unfold/snapshot"
	"github.com/katalvlaran/unfold/unfold"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type flags struct {
	events    int
	bins      int
	alg       string
	errors    string
	toys      int
	seed      uint64
	gaussToys bool
	output    string
	snapshot  string
	codec     string
	verbose   int
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("unfoldtoy", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&f.events, "n", 100000, "number of events per sample")
	fs.IntVar(&f.bins, "bins", 40, "number of measured and truth bins")
	fs.StringVar(&f.alg, "alg", unfold.Invert.String(), "unfolding algorithm (none, binbybin, invert)")
	fs.StringVar(&f.errors, "errors", unfold.Covariance.String(), "error treatment (none, errors, covariance, toys)")
	fs.IntVar(&f.toys, "toys", unfold.DefaultNToys, "number of toys for -errors=toys")
	fs.Uint64Var(&f.seed, "seed", unfold.DefaultSeed, "random seed")
	fs.BoolVar(&f.gaussToys, "gauss-toys", false, "resample measured bins with Gaussian instead of Poisson toys")
	fs.StringVar(&f.output, "o", "", "plot output file (png, svg, pdf)")
	fs.StringVar(&f.snapshot, "snapshot", "", "write the engine snapshot to this file")
	fs.StringVar(&f.codec, "codec", snapshot.DefaultCodec.String(), "snapshot compression (none, zstd, s2, lz4)")
	fs.IntVar(&f.verbose, "v", unfold.DefaultVerbose, "verbosity: 0 quiet, 1 info, 2 debug")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if f.events <= 0 || f.bins <= 0 {
		return f, errors.New("-n and -bins must be positive")
	}
	if f.toys < 0 || f.verbose < 0 {
		return f, errors.New("-toys and -v must not be negative")
	}

	return f, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "unfoldtoy:", err)
		return 2
	}

	level := slog.LevelWarn
	switch {
	case f.verbose >= 2:
		level = slog.LevelDebug
	case f.verbose == 1:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err = unfoldToy(f, logger, stdout); err != nil {
		logger.Error("unfoldtoy failed", "err", err)
		return 1
	}

	return 0
}

func unfoldToy(f flags, logger *slog.Logger, stdout io.Writer) error {
	kind, ok := unfold.ParseKind(f.alg)
	if !ok {
		return fmt.Errorf("unknown algorithm %q", f.alg)
	}
	treatment, ok := unfold.ParseErrorTreatment(f.errors)
	if !ok {
		return fmt.Errorf("unknown error treatment %q", f.errors)
	}
	codec, err := snapshot.ParseCodec(f.codec)
	if err != nil {
		return err
	}

	measTmpl, err := hist.New1D("meas", "measured", f.bins, xlo, xhi)
	if err != nil {
		return err
	}
	truthTmpl, err := hist.New1D("true", "truth", f.bins, xlo, xhi)
	if err != nil {
		return err
	}
	res, err := response.New(measTmpl, truthTmpl, response.WithName("toy"), response.WithTitle("Gaussian smearing"))
	if err != nil {
		return err
	}

	rnd := unfold.NewRandomSource(f.seed)
	gen := newGenerator(rnd)
	logger.Info("training", "events", f.events, "mean", trainSample.mean, "sigma", trainSample.sigma)
	gen.train(res, trainSample, f.events)

	truth := truthTmpl.Clone("test_truth")
	meas := measTmpl.Clone("test_measured")
	logger.Info("testing", "events", f.events, "mean", testSample.mean, "sigma", testSample.sigma)
	gen.test(truth, meas, testSample, f.events)

	policy := unfold.PoissonToys
	if f.gaussToys {
		policy = unfold.GaussianToys
	}
	e, err := unfold.New(kind, res, meas,
		unfold.WithNToys(f.toys),
		unfold.WithToyPolicy(policy),
		unfold.WithRandom(rnd),
		unfold.WithVerbose(f.verbose),
		unfold.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	if err = e.Print(stdout); err != nil {
		return err
	}
	if err = e.PrintTable(stdout, truth, treatment); err != nil {
		return err
	}
	logger.Info("unfolded", "chi2", e.Chi2(truth, treatment), "ll", e.LogLikelihood())

	if f.output != "" {
		reco := e.Hreco(treatment)
		err = report.Comparison(f.output, truth, meas, reco,
			report.WithTitle(e.Title()), report.WithXLabel("x"))
		if err != nil {
			return err
		}
		logger.Info("plot written", "path", f.output)
	}
	if f.snapshot != "" {
		if err = snapshot.Save(f.snapshot, e.Snapshot(), codec); err != nil {
			return err
		}
		logger.Info("snapshot written", "path", f.snapshot, "codec", codec)
	}

	return nil
}
