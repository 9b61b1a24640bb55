// SPDX-License-Identifier: MIT

package report

import (
	"errors"
	"fmt"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/plotutil"

	"github.com/katalvlaran/unfold/hist"
)

var (
	// ErrNoSeries indicates a plot request without any histogram.
	ErrNoSeries = errors.New("report: no series to draw")

	// ErrNilHist indicates a series without a histogram.
	ErrNilHist = errors.New("report: nil histogram")
)

// Series is one histogram in a plot.
type Series struct {
	Label  string
	Hist   *hist.Hist
	Errors bool // draw y error bars
}

// New builds the plot of series without saving it.
//
// Errors:
//   - ErrNoSeries, ErrNilHist, or a flattening error from hist.NoOverflow.
func New(series []Series, opts ...Option) (*hplot.Plot, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("New: %w", ErrNoSeries)
	}
	o := gatherOptions(opts...)

	p := hplot.New()
	p.Title.Text = o.title
	p.X.Label.Text = o.xlabel
	p.Y.Label.Text = o.ylabel
	p.Legend.Top = true

	for i, s := range series {
		if s.Hist == nil {
			return nil, fmt.Errorf("New: series %q: %w", s.Label, ErrNilHist)
		}
		flat, err := hist.NoOverflow(s.Hist, o.overflow && s.Hist.Dim() == 1)
		if err != nil {
			return nil, fmt.Errorf("New: series %q: %w", s.Label, err)
		}
		h := hplot.NewH1D(flat.H1D(),
			hplot.WithYErrBars(s.Errors),
			hplot.WithHInfo(hplot.HInfoNone),
		)
		h.LineStyle.Color = plotutil.Color(i)
		h.LineStyle.Dashes = plotutil.Dashes(i)
		if h.YErrs != nil {
			h.YErrs.LineStyle.Color = plotutil.Color(i)
		}
		p.Add(h)
		if s.Label != "" {
			p.Legend.Add(s.Label, h)
		}
	}

	return p, nil
}

// Plot draws series and saves the plot to path.
func Plot(path string, series []Series, opts ...Option) error {
	p, err := New(series, opts...)
	if err != nil {
		return err
	}
	o := gatherOptions(opts...)
	if err = p.Save(o.width, o.height, path); err != nil {
		return fmt.Errorf("Plot: %w", err)
	}

	return nil
}

// Comparison saves the usual unfolding overlay: the truth reference, the
// measured input and the reconstruction with error bars. A nil truth is
// left out.
func Comparison(path string, truth, measured, reco *hist.Hist, opts ...Option) error {
	series := make([]Series, 0, 3)
	if truth != nil {
		series = append(series, Series{Label: "Truth", Hist: truth})
	}
	series = append(series,
		Series{Label: "Measured", Hist: measured},
		Series{Label: "Unfolded", Hist: reco, Errors: true},
	)

	return Plot(path, series, opts...)
}
