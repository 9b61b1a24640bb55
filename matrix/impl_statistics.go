// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide streaming sample statistics over a sequence of equal-length
//     vectors, as produced by toy Monte-Carlo resampling.
//
// Exposed API:
//   - NewMoments(n)          -> *Moments
//   - (*Moments).Add(x)      -> error  // accumulate Σx and Σx·xᵀ
//   - (*Moments).N()         -> int
//   - (*Moments).Mean()      -> []float64
//   - (*Moments).Covariance() -> (*mat.Dense, error)
//
// Determinism & Performance:
//   - Fixed i→j accumulation order; O(n²) per sample.

package matrix

import "gonum.org/v1/gonum/mat"

// Moments accumulates first and second raw moments of vector samples.
// The zero value is not usable; create it with NewMoments.
type Moments struct {
	n     int
	count int
	sum   []float64
	sum2  *mat.SymDense // Σ x_i x_j, upper triangle
}

// NewMoments returns an accumulator for vectors of length n (n > 0).
func NewMoments(n int) *Moments {
	if n <= 0 {
		return &Moments{}
	}

	return &Moments{
		n:    n,
		sum:  make([]float64, n),
		sum2: mat.NewSymDense(n, nil),
	}
}

// Add accumulates one sample.
//
// Errors:
//   - ErrDimensionMismatch if len(x) differs from the accumulator length.
//
// Complexity:
//   - Time O(n²), Space O(1).
func (m *Moments) Add(x []float64) error {
	if m.n == 0 || len(x) != m.n {
		return matrixErrorf(opMomentsAdd, ErrDimensionMismatch)
	}
	var i, j int
	for i = 0; i < m.n; i++ {
		m.sum[i] += x[i]
		for j = i; j < m.n; j++ {
			m.sum2.SetSym(i, j, m.sum2.At(i, j)+x[i]*x[j])
		}
	}
	m.count++

	return nil
}

// N returns the number of accumulated samples.
func (m *Moments) N() int { return m.count }

// Mean returns the per-component sample mean (zeros when empty).
func (m *Moments) Mean() []float64 {
	out := make([]float64, m.n)
	if m.count == 0 {
		return out
	}
	inv := 1.0 / float64(m.count)
	for i, s := range m.sum {
		out[i] = s * inv
	}

	return out
}

// Covariance returns the unbiased sample covariance
//
//	cov(i,j) = (Σ x_i x_j − Σ x_i · Σ x_j / N) / (N − 1)
//
// Errors:
//   - ErrDimensionMismatch when fewer than two samples were added.
//
// Complexity:
//   - Time O(n²), Space O(n²).
func (m *Moments) Covariance() (*mat.Dense, error) {
	if m.count < 2 {
		return nil, matrixErrorf(opMomentsCov, ErrDimensionMismatch)
	}
	nt := float64(m.count)
	out := mat.NewDense(m.n, m.n, nil)
	var i, j int
	var v float64
	for i = 0; i < m.n; i++ {
		for j = i; j < m.n; j++ {
			v = (m.sum2.At(i, j) - m.sum[i]*m.sum[j]/nt) / (nt - 1)
			out.Set(i, j, v)
			out.Set(j, i, v)
		}
	}

	return out, nil
}
