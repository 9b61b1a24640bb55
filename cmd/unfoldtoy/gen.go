// SPDX-License-Identifier: MIT

package main

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/unfold/hist"
	"github.com/katalvlaran/unfold/response"
	"github.com/katalvlaran/unfold/unfold"
)

// Toy detector: efficiency rising linearly from 30% at xlo to 100% at xhi,
// a constant bias and Gaussian resolution.
const (
	xlo, xhi   = -10.0, 10.0
	effLow     = 0.3
	bias       = -2.5
	resolution = 0.2
)

// sample describes the truth distribution of a generated sample.
type sample struct {
	mean, sigma float64
}

var (
	trainSample = sample{mean: 0, sigma: 3}
	testSample  = sample{mean: 0.5, sigma: 2}
)

type generator struct {
	rnd *unfold.RandomSource
	u   distuv.Uniform
}

func newGenerator(rnd *unfold.RandomSource) *generator {
	return &generator{rnd: rnd, u: distuv.Uniform{Min: 0, Max: 1, Src: rnd}}
}

// smear returns the measured value of xt and whether the event was detected.
func (g *generator) smear(xt float64) (float64, bool) {
	eff := effLow + (1-effLow)/(xhi-xlo)*(xt-xlo)
	if g.u.Rand() > eff {
		return 0, false
	}

	return xt + g.rnd.Gaus(bias, resolution), true
}

// train fills res with n events drawn from s.
func (g *generator) train(res *response.Response, s sample, n int) {
	for i := 0; i < n; i++ {
		xt := g.rnd.Gaus(s.mean, s.sigma)
		if xm, ok := g.smear(xt); ok {
			res.Fill(xm, xt, 1)
		} else {
			res.Miss(xt, 1)
		}
	}
}

// test fills the truth and measured histograms with n events drawn from s.
func (g *generator) test(truth, meas *hist.Hist, s sample, n int) {
	for i := 0; i < n; i++ {
		xt := g.rnd.Gaus(s.mean, s.sigma)
		truth.Fill(xt, 1)
		if xm, ok := g.smear(xt); ok {
			meas.Fill(xm, 1)
		}
	}
}
