// SPDX-License-Identifier: MIT
// Package unfold_test - shared fixtures.
//
// Purpose:
//   - Build small trained responses and measured histograms.
//   - Provide strategies that count calls or fail on demand.

package unfold_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/hist"
	"github.com/katalvlaran/unfold/response"
	"github.com/katalvlaran/unfold/unfold"
)

var errBoom = errors.New("boom")

// quiet discards engine logs.
func quiet() unfold.Option {
	return unfold.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// capture returns an option logging into buf at debug level.
func capture(buf *bytes.Buffer) unfold.Option {
	return unfold.WithLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// hist1D returns a 1D histogram over [0, n) with the given bin contents and
// √content errors.
func hist1D(t *testing.T, name string, contents []float64) *hist.Hist {
	t.Helper()
	h, err := hist.New1D(name, name, len(contents), 0, float64(len(contents)))
	require.NoError(t, err)
	hist.FromVector(h, contents, false)

	return h
}

// identityResponse trains a diagonal response with counts[i] events in bin i.
func identityResponse(t *testing.T, counts []float64) *response.Response {
	t.Helper()
	n := len(counts)
	m, err := hist.New1D("meas", "measured", n, 0, float64(n))
	require.NoError(t, err)
	tr, err := hist.New1D("true", "truth", n, 0, float64(n))
	require.NoError(t, err)
	r, err := response.New(m, tr, response.WithName("res"), response.WithTitle("identity"))
	require.NoError(t, err)
	for i, c := range counts {
		x := float64(i) + 0.5
		r.Fill(x, x, c)
	}

	return r
}

// overflowResponse trains an n-bin diagonal response that tracks the
// under- and overflow bins, one event per logical bin.
func overflowResponse(t *testing.T, n int) *response.Response {
	t.Helper()
	m, err := hist.New1D("meas", "measured", n, 0, float64(n))
	require.NoError(t, err)
	tr, err := hist.New1D("true", "truth", n, 0, float64(n))
	require.NoError(t, err)
	r, err := response.New(m, tr, response.WithOverflow(true))
	require.NoError(t, err)
	for i := 0; i < n+2; i++ {
		require.NoError(t, r.FillBins(i, i, 1))
	}

	return r
}

// smearingResponse trains a 2-bin response with R = [[0.8, 0.1], [0.2, 0.9]].
func smearingResponse(t *testing.T) *response.Response {
	t.Helper()
	m, err := hist.New1D("meas", "measured", 2, 0, 2)
	require.NoError(t, err)
	tr, err := hist.New1D("true", "truth", 2, 0, 2)
	require.NoError(t, err)
	r, err := response.New(m, tr)
	require.NoError(t, err)
	r.Fill(0.5, 0.5, 80)
	r.Fill(1.5, 0.5, 20)
	r.Fill(0.5, 1.5, 10)
	r.Fill(1.5, 1.5, 90)

	return r
}

// spyStrategy copies the measured vector and counts its Unfold calls.
type spyStrategy struct {
	calls *int
	fail  bool
}

func newSpy(fail bool) (spyStrategy, *int) {
	n := 0
	return spyStrategy{calls: &n, fail: fail}, &n
}

func (s spyStrategy) Kind() unfold.Kind { return unfold.None }

func (s spyStrategy) Unfold(p *unfold.Problem) (*mat.VecDense, error) {
	*s.calls++
	if s.fail {
		return nil, errBoom
	}

	return unfold.NewNone().Unfold(p)
}

func (s spyStrategy) Clone() unfold.Strategy { return s }

// noVariances copies the measured vector but cannot provide variances.
type noVariances struct{}

func (noVariances) Kind() unfold.Kind { return unfold.None }

func (noVariances) Unfold(p *unfold.Problem) (*mat.VecDense, error) {
	return unfold.NewNone().Unfold(p)
}

func (noVariances) Variances(*unfold.Problem, *mat.VecDense) (*mat.VecDense, error) {
	return nil, errBoom
}

func (s noVariances) Clone() unfold.Strategy { return s }

// tunable is a regularised identity strategy.
type tunable struct {
	parm float64
}

func (s *tunable) Kind() unfold.Kind { return unfold.SVD }

func (s *tunable) Unfold(p *unfold.Problem) (*mat.VecDense, error) {
	return unfold.NewNone().Unfold(p)
}

func (s *tunable) Clone() unfold.Strategy { c := *s; return &c }

func (s *tunable) SetRegParm(p float64) { s.parm = p }

func (s *tunable) RegParm() float64 { return s.parm }

func (s *tunable) Settings() unfold.RegSettings {
	return unfold.RegSettings{Min: 1, Max: 10, Step: 1, Default: 4}
}

// vec returns the raw values of a vector.
func vec(v mat.Vector) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}

	return out
}
