// SPDX-License-Identifier: MIT

package unfold_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/unfold"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()

	res := identityResponse(t, []float64{1, 1, 1})
	e, err := unfold.New(unfold.None, res, hist1D(t, "m", []float64{30, 40, 50}),
		quiet(), unfold.WithName("run1"), unfold.WithNToys(25), unfold.WithSeed(8))
	require.NoError(t, err)
	e.SetToyPolicy(unfold.GaussianToys)
	require.True(t, e.UnfoldWithErrors(unfold.CovToy))
	e.Hreco(unfold.Errors)

	s := e.Snapshot()
	require.Equal(t, "run1", s.Name)
	require.True(t, s.Unfolded)
	require.Nil(t, s.MeasuredCov)
	require.Len(t, s.ToyCov, 9)

	r, err := unfold.FromSnapshot(s, res, quiet())
	require.NoError(t, err)
	require.Equal(t, "run1", r.Name())
	require.Equal(t, 25, r.NToys())
	require.Equal(t, unfold.GaussianToys, r.ToyPolicy())
	require.True(t, r.Unfolded())
	require.Equal(t, vec(e.Vreco()), vec(r.Vreco()))
	require.True(t, mat.Equal(e.Result().ToyCov, r.Result().ToyCov))
	require.True(t, mat.Equal(e.Result().Cov, r.Result().Cov))
	require.Equal(t, e.LogLikelihood(), r.LogLikelihood())
	require.InDeltaSlice(t, vec(e.Emeasured()), vec(r.Emeasured()), 1e-12)
}

func TestSnapshot_MeasuredCovariance(t *testing.T) {
	t.Parallel()

	res := smearingResponse(t)
	e := unfold.NewEngine(unfold.NewInvert(), quiet())
	e.Setup(res, nil)
	cov := mat.NewDense(2, 2, []float64{250, 10, 10, 150})
	require.NoError(t, e.SetMeasuredCovVector(mat.NewVecDense(2, []float64{250, 150}), cov))

	s := e.Snapshot()
	require.False(t, s.Unfolded)
	require.Equal(t, []float64{250, 10, 10, 150}, s.MeasuredCov)

	r := unfold.NewEngine(unfold.NewInvert(), quiet())
	require.NoError(t, r.Restore(s, res))
	require.True(t, r.HasMeasuredCov())
	require.False(t, r.Unfolded())
	require.True(t, mat.EqualApprox(e.Ereco(unfold.Covariance), r.Ereco(unfold.Covariance), 1e-12))
}

func TestSnapshot_Mismatch(t *testing.T) {
	t.Parallel()

	res := identityResponse(t, []float64{1, 1})
	e := unfold.NewEngine(unfold.NewNone(), quiet())
	e.Setup(res, hist1D(t, "m", []float64{3, 4}))
	require.True(t, e.Unfold())
	good := e.Snapshot()

	cases := map[string]func(s *unfold.Snapshot){
		"kind":     func(s *unfold.Snapshot) { s.Kind = unfold.Invert },
		"overflow": func(s *unfold.Snapshot) { s.Overflow = true },
		"bins":     func(s *unfold.Snapshot) { s.NTruth = 3 },
		"reco":     func(s *unfold.Snapshot) { s.Reco = []float64{1} },
		"missing":  func(s *unfold.Snapshot) { s.Reco = nil },
		"cov":      func(s *unfold.Snapshot) { s.MeasuredCov = []float64{1, 2, 3} },
	}
	for name, mutate := range cases {
		s := *good
		mutate(&s)
		err := unfold.NewEngine(unfold.NewNone(), quiet()).Restore(&s, res)
		require.True(t, errors.Is(err, unfold.ErrSnapshotMismatch), name)
	}

	require.True(t, errors.Is(e.Restore(nil, res), unfold.ErrSnapshotMismatch))
	_, err := unfold.FromSnapshot(nil, res)
	require.True(t, errors.Is(err, unfold.ErrSnapshotMismatch))

	// Unknown kinds fail in the registry before the restore.
	s := *good
	s.Kind = unfold.Dagostini
	_, err = unfold.FromSnapshot(&s, res, quiet())
	require.True(t, errors.Is(err, unfold.ErrAlgorithmUnavailable))
}
