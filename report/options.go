// SPDX-License-Identifier: MIT

package report

import "gonum.org/v1/plot/vg"

// Defaults for the plot canvas.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// Option configures a plot.
type Option func(*options)

type options struct {
	title, xlabel, ylabel string
	width, height         vg.Length
	overflow              bool
}

func gatherOptions(opts ...Option) options {
	o := options{ylabel: "Entries", width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithTitle sets the plot title.
func WithTitle(t string) Option { return func(o *options) { o.title = t } }

// WithXLabel sets the x-axis label.
func WithXLabel(l string) Option { return func(o *options) { o.xlabel = l } }

// WithYLabel sets the y-axis label (default "Entries").
func WithYLabel(l string) Option { return func(o *options) { o.ylabel = l } }

// WithSize sets the canvas size. Panics on a non-positive dimension.
func WithSize(w, h vg.Length) Option {
	if w <= 0 || h <= 0 {
		panic("report: WithSize requires positive dimensions")
	}

	return func(o *options) { o.width, o.height = w, h }
}

// WithOverflow draws the under/overflow bins of 1D series as regular bins
// on each side of the axis.
func WithOverflow(on bool) Option { return func(o *options) { o.overflow = on } }
