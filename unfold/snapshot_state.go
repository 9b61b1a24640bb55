// SPDX-License-Identifier: MIT

package unfold

import "gonum.org/v1/gonum/mat"

// Snapshot is the persistent state of an Engine: identity, configuration,
// measured input and every populated cache. Matrices are stored row-major;
// nil slices mark absent quantities. The response itself is not part of the
// snapshot and must be supplied again on restore.
type Snapshot struct {
	Name  string
	Title string

	Kind      Kind
	RegParm   float64
	NToys     int
	Verbose   int
	ToyPolicy ToyPolicy

	Overflow  bool
	NMeasured int
	NTruth    int

	Measured       []float64 // len NMeasured
	MeasuredErrors []float64 // len NMeasured
	MeasuredCov    []float64 // NMeasured², only when supplied explicitly

	Unfolded  bool
	Failed    bool
	Reco      []float64 // len NTruth
	Variances []float64 // len NTruth
	Cov       []float64 // NTruth²
	ToyCov    []float64 // NTruth²
	LL        float64
}

// Snapshot captures the engine state. Nothing is computed.
func (e *Engine) Snapshot() *Snapshot {
	s := &Snapshot{
		Name:      e.name,
		Title:     e.title,
		Kind:      e.Kind(),
		RegParm:   e.RegParm(),
		NToys:     e.cfg.nToys,
		Verbose:   e.cfg.verbose,
		ToyPolicy: e.cfg.policy,
		Overflow:  e.overflow,
		NMeasured: e.nm,
		NTruth:    e.nt,
		Unfolded:  e.st == unfolded,
		Failed:    e.failed,
		LL:        e.ll,
	}
	if v := e.Vmeasured(); v != nil {
		s.Measured = vecData(v)
		s.MeasuredErrors = vecData(e.Emeasured())
	}
	if e.haveCovMes {
		s.MeasuredCov = denseData(e.covMes)
	}
	s.Reco = vecData(e.result.Reco)
	s.Variances = vecData(e.result.Variances)
	s.Cov = denseData(e.result.Cov)
	s.ToyCov = denseData(e.result.ToyCov)

	return s
}

// Restore rebinds the engine to res and loads the snapshot's configuration,
// measured input and caches.
//
// Errors:
//   - ErrSnapshotMismatch when the kind differs from the engine's strategy,
//     the bin counts or overflow flag differ from res, or a stored vector or
//     matrix has the wrong size.
func (e *Engine) Restore(s *Snapshot, res ResponseMatrix) error {
	if s == nil || res == nil {
		return unfoldErrorf(opRestore, ErrSnapshotMismatch)
	}
	if err := s.check(e.Kind(), res); err != nil {
		return unfoldErrorf(opRestore, err)
	}

	e.name, e.title = s.Name, s.Title
	e.cfg.nToys, e.cfg.verbose, e.cfg.policy = s.NToys, s.Verbose, s.ToyPolicy
	if rs, ok := e.strategy.(RegularizedStrategy); ok {
		rs.SetRegParm(s.RegParm)
	}
	e.Setup(res, nil)

	if s.Measured != nil {
		errs := s.MeasuredErrors
		if errs == nil {
			errs = make([]float64, s.NMeasured)
		}
		err := e.setMeasuredVector(mat.NewVecDense(s.NMeasured, s.Measured), mat.NewVecDense(s.NMeasured, errs))
		if err != nil {
			return unfoldErrorf(opRestore, err)
		}
	}
	if s.MeasuredCov != nil {
		if err := e.SetMeasuredCov(mat.NewDense(s.NMeasured, s.NMeasured, s.MeasuredCov)); err != nil {
			return unfoldErrorf(opRestore, err)
		}
	}

	if s.Unfolded && e.meas != nil {
		e.result = Result{
			Reco:      newVec(s.NTruth, s.Reco),
			Variances: newVec(s.NTruth, s.Variances),
			Cov:       newSquare(s.NTruth, s.Cov),
			ToyCov:    newSquare(s.NTruth, s.ToyCov),
		}
		e.st = unfolded
	}
	e.failed = s.Failed
	e.ll = s.LL

	return nil
}

// FromSnapshot builds an engine of the snapshot's kind through the registry
// and restores it against res. Options apply before the snapshot is loaded.
func FromSnapshot(s *Snapshot, res ResponseMatrix, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, unfoldErrorf(opRestore, ErrSnapshotMismatch)
	}
	e, err := New(s.Kind, res, nil, opts...)
	if err != nil {
		return nil, err
	}
	if err = e.Restore(s, res); err != nil {
		return nil, err
	}

	return e, nil
}

// check validates the snapshot against a strategy kind and a response.
func (s *Snapshot) check(kind Kind, res ResponseMatrix) error {
	if s.Kind != kind || s.Overflow != res.UseOverflow() {
		return ErrSnapshotMismatch
	}
	nm, nt := res.NumMeasuredBins(), res.NumTruthBins()
	if s.Overflow {
		nm, nt = nm+2, nt+2
	}
	if s.NMeasured != nm || s.NTruth != nt {
		return ErrSnapshotMismatch
	}
	if s.Unfolded && s.Reco == nil {
		return ErrSnapshotMismatch
	}
	for _, c := range []struct {
		data []float64
		n    int
	}{
		{s.Measured, nm}, {s.MeasuredErrors, nm}, {s.MeasuredCov, nm * nm},
		{s.Reco, nt}, {s.Variances, nt}, {s.Cov, nt * nt}, {s.ToyCov, nt * nt},
	} {
		if c.data != nil && len(c.data) != c.n {
			return ErrSnapshotMismatch
		}
	}

	return nil
}

func vecData(v *mat.VecDense) []float64 {
	if v == nil {
		return nil
	}

	return mat.Col(nil, 0, v)
}

func denseData(m *mat.Dense) []float64 {
	if m == nil {
		return nil
	}
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.RawRowView(i)...)
	}

	return out
}

func newVec(n int, data []float64) *mat.VecDense {
	if data == nil {
		return nil
	}

	return mat.NewVecDense(n, append([]float64(nil), data...))
}

func newSquare(n int, data []float64) *mat.Dense {
	if data == nil {
		return nil
	}

	return mat.NewDense(n, n, append([]float64(nil), data...))
}
