// SPDX-License-Identifier: MIT

package unfold_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/hist"
	"github.com/katalvlaran/unfold/unfold"
)

// EngineSuite covers binding, memoisation and the error-treatment dispatch.
type EngineSuite struct {
	suite.Suite
	contents []float64
}

func (s *EngineSuite) SetupTest() {
	s.contents = []float64{100, 200, 300, 400, 500}
}

// TestSetupDefaults: name and title come from the response.
func (s *EngineSuite) TestSetupDefaults() {
	t := s.T()
	res := identityResponse(t, s.contents)
	e := unfold.NewEngine(unfold.NewNone(), quiet())
	require.False(t, e.Unfolded())
	require.False(t, e.Unfold(), "unconfigured engine cannot unfold")

	e.Setup(res, hist1D(t, "m", s.contents))
	require.Equal(t, "res", e.Name())
	require.Equal(t, "Unfold identity", e.Title())
	require.Equal(t, 5, e.NumMeasuredBins())
	require.Equal(t, 5, e.NumTruthBins())
	require.False(t, e.Overflow())
	require.Equal(t, unfold.DefaultNToys, e.NToys())
	require.Equal(t, unfold.DefaultVerbose, e.Verbose())

	named := unfold.NewEngine(unfold.NewNone(), quiet(), unfold.WithName("n"), unfold.WithTitle("T"))
	named.Setup(res, nil)
	require.Equal(t, "n", named.Name())
	require.Equal(t, "T", named.Title())
	require.False(t, named.Unfold(), "no measured distribution bound")
}

// TestMemoised: repeated requests return identical results without rerunning.
func (s *EngineSuite) TestMemoised() {
	t := s.T()
	spy, calls := newSpy(false)
	e := unfold.NewEngine(spy, quiet())
	e.Setup(identityResponse(t, s.contents), hist1D(t, "m", s.contents))

	first := e.Ereco(unfold.Covariance)
	v1 := e.Vreco()
	second := e.Ereco(unfold.Covariance)
	v2 := e.Vreco()
	require.Equal(t, 1, *calls)
	require.True(t, mat.Equal(first, second))
	require.Equal(t, vec(v1), vec(v2))
	require.Equal(t, s.contents, vec(v1))

	// Vreco hands out copies.
	v1.SetVec(0, -1)
	require.InDelta(t, 100.0, e.Vreco().AtVec(0), 0)
}

// TestRebindingReruns: SetMeasured clears every cache.
func (s *EngineSuite) TestRebindingReruns() {
	t := s.T()
	spy, calls := newSpy(false)
	res := identityResponse(t, s.contents)
	e := unfold.NewEngine(spy, quiet())
	e.Setup(res, hist1D(t, "m", s.contents))
	require.True(t, e.UnfoldWithErrors(unfold.Errors))
	require.NotNil(t, e.Result().Variances)

	fresh := []float64{1, 2, 3, 4, 5}
	e.SetMeasured(hist1D(t, "m2", fresh))
	require.False(t, e.Unfolded())
	r := e.Result()
	require.Nil(t, r.Reco)
	require.Nil(t, r.Variances)
	require.Nil(t, r.Cov)
	require.Nil(t, r.ToyCov)

	require.Equal(t, fresh, vec(e.Vreco()))
	require.Equal(t, 2, *calls)

	e.Setup(res, hist1D(t, "m3", s.contents))
	require.Equal(t, s.contents, vec(e.Vreco()))
	require.Equal(t, 3, *calls)
}

// TestStickyFailure: a failed unfold is not retried until rebinding.
func (s *EngineSuite) TestStickyFailure() {
	t := s.T()
	spy, calls := newSpy(true)
	res := identityResponse(t, s.contents)
	var logs bytes.Buffer
	e := unfold.NewEngine(spy, capture(&logs))
	e.Setup(res, hist1D(t, "m", s.contents))

	require.False(t, e.UnfoldWithErrors(unfold.Covariance))
	require.True(t, e.Failed())
	require.False(t, e.Unfold())
	require.Nil(t, e.Vreco())
	require.True(t, mat.Equal(mat.NewDense(5, 5, nil), e.Ereco(unfold.Errors)))
	require.Equal(t, 1, *calls)
	require.Contains(t, logs.String(), "unfold failed")

	e.SetMeasured(hist1D(t, "m2", s.contents))
	require.False(t, e.Failed())
	require.False(t, e.Unfold())
	require.Equal(t, 2, *calls)
}

// TestBinningMismatchWarns: the unfold proceeds with a warning.
func (s *EngineSuite) TestBinningMismatchWarns() {
	t := s.T()
	var logs bytes.Buffer
	e := unfold.NewEngine(unfold.NewNone(), capture(&logs))
	e.Setup(identityResponse(t, s.contents), hist1D(t, "m", []float64{1, 2, 3, 4, 5, 6}))

	require.True(t, e.Unfold())
	require.Equal(t, []float64{1, 2, 3, 4, 5}, vec(e.Vreco()))
	require.Contains(t, logs.String(), "measured binning does not match")
}

// TestBaseCovariance: without a strategy covariance the measured one is copied.
func (s *EngineSuite) TestBaseCovariance() {
	t := s.T()
	e := unfold.NewEngine(unfold.NewNone(), quiet())
	e.Setup(identityResponse(t, s.contents), hist1D(t, "m", s.contents))

	cov := e.Ereco(unfold.Covariance)
	for i, c := range s.contents {
		require.InDelta(t, c, cov.At(i, i), 1e-9)
	}
	require.Zero(t, cov.At(0, 1))

	ev := e.ErecoV(unfold.Errors)
	require.InDeltaSlice(t, []float64{10, math.Sqrt(200), math.Sqrt(300), 20, math.Sqrt(500)}, vec(ev), 1e-9)

	noerr := e.Ereco(unfold.NoError)
	require.InDelta(t, 300.0, noerr.At(2, 2), 0)
	require.InDeltaSlice(t, vec(ev), vec(e.ErecoV(unfold.NoError)), 1e-9)
}

// TestSetMeasuredVector writes into an owned histogram with exact errors.
func (s *EngineSuite) TestSetMeasuredVector() {
	t := s.T()
	e := unfold.NewEngine(unfold.NewNone(), quiet())
	err := e.SetMeasuredVector(mat.NewVecDense(2, nil), mat.NewVecDense(2, nil))
	require.True(t, errors.Is(err, unfold.ErrNotConfigured))

	res := identityResponse(t, s.contents)
	e.Setup(res, nil)
	err = e.SetMeasuredVector(mat.NewVecDense(3, nil), mat.NewVecDense(3, nil))
	require.True(t, errors.Is(err, unfold.ErrVectorLength))

	v := mat.NewVecDense(5, []float64{5, 4, 3, 2, 1})
	errs := mat.NewVecDense(5, []float64{0.5, 0.4, 0.3, 0.2, 0.1})
	require.NoError(t, e.SetMeasuredVector(v, errs))
	require.Equal(t, vec(v), vec(e.Vmeasured()))
	require.InDeltaSlice(t, vec(errs), vec(e.Emeasured()), 1e-12)
	require.Equal(t, "res_measured", e.Hmeasured().Name())
	require.False(t, e.HasMeasuredCov())
	require.InDelta(t, 0.25, e.MeasuredCov().At(0, 0), 1e-12)
	require.Equal(t, vec(v), vec(e.Vreco()))
	require.InDelta(t, 100.0, res.Hmeasured().BinContent(1), 0, "training distribution untouched")
}

// TestSetMeasuredCovVector derives errors from the positive diagonal.
func (s *EngineSuite) TestSetMeasuredCovVector() {
	t := s.T()
	e := unfold.NewEngine(unfold.NewNone(), quiet())
	e.Setup(identityResponse(t, []float64{10, 10, 10}), nil)

	cov := mat.NewDense(3, 3, []float64{
		4, 1, 0,
		1, -1, 0,
		0, 0, 9,
	})
	require.True(t, errors.Is(e.SetMeasuredCovVector(mat.NewVecDense(3, nil), mat.NewDense(2, 2, nil)), unfold.ErrVectorLength))
	require.NoError(t, e.SetMeasuredCovVector(mat.NewVecDense(3, []float64{1, 2, 3}), cov))
	require.True(t, e.HasMeasuredCov())
	require.InDeltaSlice(t, []float64{2, 0, 3}, vec(e.Emeasured()), 1e-12)
	require.True(t, mat.Equal(cov, e.MeasuredCov()))

	require.True(t, e.Unfold())
	require.True(t, errors.Is(e.SetMeasuredCov(mat.NewDense(2, 2, nil)), unfold.ErrVectorLength))
	require.True(t, e.Unfolded(), "rejected covariance keeps the state")
	require.NoError(t, e.SetMeasuredCov(mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})))
	require.False(t, e.Unfolded(), "new covariance invalidates the unfold")

	// Rebinding a histogram drops the supplied covariance.
	e.SetMeasured(hist1D(t, "m", []float64{4, 9, 16}))
	require.False(t, e.HasMeasuredCov())
	require.InDelta(t, 9.0, e.MeasuredCov().At(1, 1), 1e-12)
}

// TestOverflowBins: tracked under/overflow bins are logical bins 0 and n+1.
func (s *EngineSuite) TestOverflowBins() {
	t := s.T()
	m, err := hist.New1D("m", "", 3, 0, 3)
	require.NoError(t, err)
	for i := 0; i <= 4; i++ {
		m.SetBinContent(i, float64(i+1))
	}
	e := unfold.NewEngine(unfold.NewNone(), quiet())
	e.Setup(overflowResponse(t, 3), m)
	require.True(t, e.Overflow())
	require.Equal(t, 5, e.NumMeasuredBins())
	require.Equal(t, []float64{1, 2, 3, 4, 5}, vec(e.Vreco()))

	h := e.Hreco(unfold.NoError)
	require.InDelta(t, 1.0, h.BinContent(0), 0)
	require.InDelta(t, 5.0, h.BinContent(4), 0)
}

// TestRegParm: only regularised strategies take a parameter.
func (s *EngineSuite) TestRegParm() {
	t := s.T()
	plain := unfold.NewEngine(unfold.NewNone(), quiet(), unfold.WithRegParm(3))
	require.InDelta(t, -1.0, plain.RegParm(), 0)
	require.Equal(t, unfold.RegSettings{}, plain.Settings())

	tu := &tunable{parm: 2}
	e := unfold.NewEngine(tu, quiet(), unfold.WithRegParm(7))
	require.InDelta(t, 7.0, e.RegParm(), 0)
	require.Equal(t, 4.0, e.Settings().Default)

	untouched := unfold.NewEngine(&tunable{parm: 2}, quiet(), unfold.WithRegParm(unfold.RegParmUnset))
	require.InDelta(t, 2.0, untouched.RegParm(), 0)

	e.Setup(identityResponse(t, s.contents), hist1D(t, "m", s.contents))
	require.True(t, e.Unfold())
	e.SetRegParm(5)
	require.False(t, e.Unfolded())
	require.InDelta(t, 5.0, tu.parm, 0)
}

// TestClone: the copy owns its measured input and has no caches.
func (s *EngineSuite) TestClone() {
	t := s.T()
	m := hist1D(t, "m", s.contents)
	e := unfold.NewEngine(unfold.NewNone(), quiet(), unfold.WithNToys(7))
	e.Setup(identityResponse(t, s.contents), m)
	require.True(t, e.Unfold())

	c := e.Clone("copy")
	require.Equal(t, "copy", c.Name())
	require.Equal(t, e.Title(), c.Title())
	require.Equal(t, 7, c.NToys())
	require.False(t, c.Unfolded())
	require.NotSame(t, m, c.Hmeasured())

	m.SetBinContent(1, 0)
	require.Equal(t, s.contents, vec(c.Vreco()))
	require.Same(t, e.Random(), c.Random(), "clones share the random stream")
	require.Equal(t, e.Name(), e.Clone("").Name())
}

// TestPrint reports identity and configuration.
func (s *EngineSuite) TestPrint() {
	t := s.T()
	e := unfold.NewEngine(unfold.NewBinByBin(), quiet(), unfold.WithNToys(12))
	e.Setup(identityResponse(t, s.contents), nil)

	var b strings.Builder
	require.NoError(t, e.Print(&b))
	require.Contains(t, b.String(), "binbybin\tres : Unfold identity")
	require.Contains(t, b.String(), "regularisation parameter = -1, ntoys = 12")
}

// TestOptionPanics: programmer errors in options panic.
func (s *EngineSuite) TestOptionPanics() {
	t := s.T()
	require.Panics(t, func() { unfold.WithNToys(-1) })
	require.Panics(t, func() { unfold.WithVerbose(-2) })
	require.Panics(t, func() { unfold.WithLogger(nil) })
	require.Panics(t, func() { unfold.WithRandom(nil) })
	require.Panics(t, func() { unfold.WithToyPolicy(unfold.ToyPolicy(9)) })
	require.Panics(t, func() { unfold.WithRegParm(math.NaN()) })
	require.Panics(t, func() { unfold.NewEngine(nil) })
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func TestKindAndTreatmentNames(t *testing.T) {
	t.Parallel()

	for k := unfold.None; k <= unfold.Dagostini; k++ {
		got, ok := unfold.ParseKind(k.String())
		require.True(t, ok)
		require.Equal(t, k, got)
	}
	_, ok := unfold.ParseKind("nope")
	require.False(t, ok)
	require.Equal(t, "unknown", unfold.Kind(99).String())

	for tr := unfold.NoError; tr <= unfold.CovToy; tr++ {
		got, ok := unfold.ParseErrorTreatment(tr.String())
		require.True(t, ok)
		require.Equal(t, tr, got)
	}
	require.Equal(t, "gaussian", unfold.GaussianToys.String())
	require.Equal(t, "poisson", unfold.PoissonToys.String())
}
