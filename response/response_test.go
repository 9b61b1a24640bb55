// SPDX-License-Identifier: MIT

package response_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/hist"
	"github.com/katalvlaran/unfold/response"
)

func templates(t *testing.T, n int) (*hist.Hist, *hist.Hist) {
	t.Helper()
	m, err := hist.New1D("meas", "measured", n, 0, float64(n))
	require.NoError(t, err)
	tr, err := hist.New1D("true", "truth", n, 0, float64(n))
	require.NoError(t, err)

	return m, tr
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := response.New(nil, nil)
	require.True(t, errors.Is(err, response.ErrNilHist))

	m2, err := hist.New2D("m2", "", 2, 0, 2, 2, 0, 2)
	require.NoError(t, err)
	_, tr := templates(t, 4)
	_, err = response.New(m2, tr, response.WithOverflow(true))
	require.True(t, errors.Is(err, response.ErrOverflowDimension))

	r, err := response.New(m2, tr, response.WithName("r"), response.WithTitle("T"))
	require.NoError(t, err)
	require.Equal(t, "r", r.Name())
	require.Equal(t, "T", r.Title())
	require.Equal(t, 4, r.NumMeasuredBins())
	require.Equal(t, 4, r.NumTruthBins())
	require.False(t, r.UseOverflow())
}

func TestMresponse_Probabilities(t *testing.T) {
	t.Parallel()

	m, tr := templates(t, 2)
	r, err := response.New(m, tr)
	require.NoError(t, err)

	// Truth bin 0: 3 events → 2 measured in bin 0, 1 in bin 1; plus 1 miss.
	r.Fill(0.5, 0.5, 1)
	r.Fill(0.5, 0.5, 1)
	r.Fill(1.5, 0.5, 1)
	r.Miss(0.5, 1)
	// Truth bin 1: 2 events → both measured in bin 1.
	r.Fill(1.5, 1.5, 1)
	r.Fill(1.5, 1.5, 1)
	// One fake in measured bin 0.
	r.Fake(0.5, 1)

	require.Equal(t, []float64{4, 2}, r.Vtruth())
	require.Equal(t, []float64{3, 3}, r.Vmeasured())
	require.Equal(t, []float64{1, 0}, r.Vfakes())

	M := r.Mresponse()
	require.InDelta(t, 0.5, M.At(0, 0), 1e-12)
	require.InDelta(t, 0.25, M.At(1, 0), 1e-12)
	require.InDelta(t, 0.0, M.At(0, 1), 1e-12)
	require.InDelta(t, 1.0, M.At(1, 1), 1e-12)
	require.Same(t, M, r.Mresponse(), "cached until the next fill")

	r.Miss(1.5, 2)
	require.NotSame(t, M, r.Mresponse())
	require.InDelta(t, 0.5, r.Mresponse().At(1, 1), 1e-12)
}

func TestApplyToTruth_FoldsAndAddsFakes(t *testing.T) {
	t.Parallel()

	m, tr := templates(t, 2)
	r, err := response.New(m, tr)
	require.NoError(t, err)
	r.Fill(0.5, 0.5, 1)
	r.Fill(1.5, 0.5, 1)
	r.Fill(1.5, 1.5, 1)
	r.Fake(0.5, 2)

	truth, err := hist.New1D("t", "", 2, 0, 2)
	require.NoError(t, err)
	hist.FromVector(truth, []float64{10, 4}, false)

	refold, err := r.ApplyToTruth(truth)
	require.NoError(t, err)
	// M = [[.5,0],[.5,1]] → M·t = [5, 9]; + fakes [2, 0]
	require.InDeltaSlice(t, []float64{7, 9}, hist.Vector(refold, 2, false), 1e-12)
	require.True(t, hist.SameBinning(refold, r.Hmeasured()))

	_, err = r.ApplyToTruth(nil)
	require.True(t, errors.Is(err, response.ErrNilHist))
}

func TestOverflowAndFillBins(t *testing.T) {
	t.Parallel()

	m, tr := templates(t, 3)
	r, err := response.New(m, tr, response.WithOverflow(true))
	require.NoError(t, err)
	require.True(t, r.UseOverflow())

	r.Fill(-1, -1, 1) // underflow ↔ underflow is a logical bin with overflow
	require.InDelta(t, 1.0, r.Mresponse().At(0, 0), 1e-12)
	require.Len(t, r.Vtruth(), 5)

	require.NoError(t, r.FillBins(4, 4, 2))
	require.InDelta(t, 1.0, r.Mresponse().At(4, 4), 1e-12)
	require.True(t, errors.Is(r.FillBins(5, 0, 1), response.ErrBinRange))
}

func TestFillBins_2D(t *testing.T) {
	t.Parallel()

	m2, err := hist.New2D("m2", "", 2, 0, 2, 2, 0, 2)
	require.NoError(t, err)
	t2, err := hist.New2D("t2", "", 2, 0, 2, 2, 0, 2)
	require.NoError(t, err)
	r, err := response.New(m2, t2)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, r.FillBins(i, i, float64(i+1)))
	}
	require.Equal(t, []float64{1, 2, 3, 4}, r.Vtruth())
	for i := 0; i < 4; i++ {
		require.InDelta(t, 1.0, r.Mresponse().At(i, i), 1e-12)
	}
}

func TestFill_NaNCoordinates(t *testing.T) {
	t.Parallel()

	m, tr := templates(t, 3)
	r, err := response.New(m, tr)
	require.NoError(t, err)
	require.NotPanics(t, func() {
		r.Fill(math.NaN(), 0.5, 1)
		r.Fill(0.5, math.NaN(), 1)
		r.Miss(math.NaN(), 1)
		r.Fake(math.NaN(), 1)
	})
	require.Equal(t, []float64{1, 0, 0}, r.Vmeasured())
	require.Equal(t, []float64{1, 0, 0}, r.Vtruth())
	require.InDelta(t, 2.0, r.Hmeasured().BinContent(4), 0)
	require.InDelta(t, 2.0, r.Htruth().BinContent(4), 0)
	require.True(t, mat.Equal(mat.NewDense(3, 3, nil), r.Mresponse()))

	o, err := response.New(m, tr, response.WithOverflow(true))
	require.NoError(t, err)
	o.Fill(math.NaN(), math.NaN(), 2)
	require.InDelta(t, 1.0, o.Mresponse().At(4, 4), 1e-12)
}
