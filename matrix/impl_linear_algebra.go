// SPDX-License-Identifier: MIT
// Package matrix: covariance-oriented linear-algebra kernels.
//
// Purpose:
//   - Declare the kernels the unfolding engine needs on top of gonum/mat:
//     CutZeros, ABAT, CholeskyLower, SolveSVD, PseudoInverse, Determinant and
//     diagonal helpers.
//   - Keep validation in validators.go and error tagging through matrixErrorf.
//
// Notes:
//   - Inputs are never mutated; every kernel returns freshly allocated results.

package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CutZeros removes every row of a whose elements sum to exactly zero, together
// with the column of the same index, preserving the order of the remaining
// rows and columns.
//
// Implementation:
//   - Stage 1: Validate a (non-nil, square).
//   - Stage 2: Collect the kept indices (row sum != 0) in ascending order.
//   - Stage 3: Gather a[kept[i], kept[j]] into a fresh k×k Dense.
//
// Returns:
//   - *mat.Dense: the pruned matrix, or nil when every row was removed.
//   - []int: the kept indices into a, so callers can prune vectors alike.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare.
//
// Complexity:
//   - Time O(n²), Space O(k²).
//
// Notes:
//   - The test is on the exact row sum; a row with cancelling entries is
//     removed as well.
func CutZeros(a mat.Matrix) (*mat.Dense, []int, error) {
	if err := ValidateSquare(a); err != nil {
		return nil, nil, matrixErrorf(opCutZeros, err)
	}

	n, _ := a.Dims()
	kept := make([]int, 0, n)
	var i, j int
	var sum float64
	for i = 0; i < n; i++ {
		sum = 0
		for j = 0; j < n; j++ {
			sum += a.At(i, j)
		}
		if sum != 0 {
			kept = append(kept, i)
		}
	}
	if len(kept) == 0 {
		return nil, kept, nil
	}

	k := len(kept)
	out := mat.NewDense(k, k, nil)
	for i = 0; i < k; i++ {
		for j = 0; j < k; j++ {
			out.Set(i, j, a.At(kept[i], kept[j]))
		}
	}

	return out, kept, nil
}

// ABAT returns A·B·Aᵀ, the propagation of covariance B through the linear map A.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare (B), ErrDimensionMismatch (A.cols != B.rows).
//
// Complexity:
//   - Time O(r·c² + r²·c) for A of r×c.
func ABAT(a, b mat.Matrix) (*mat.Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opABAT, err)
	}
	if err := ValidateSquare(b); err != nil {
		return nil, matrixErrorf(opABAT, err)
	}
	r, c := a.Dims()
	if n, _ := b.Dims(); n != c {
		return nil, matrixErrorf(opABAT, ErrDimensionMismatch)
	}

	var ab mat.Dense
	ab.Mul(a, b)
	out := mat.NewDense(r, r, nil)
	out.Mul(&ab, a.T())

	return out, nil
}

// CholeskyLower returns the lower-triangular factor L with cov = L·Lᵀ.
//
// Implementation:
//   - Stage 1: Validate cov is square, finite and symmetric within eps.
//   - Stage 2: Factorise with gonum's Cholesky and extract L.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrAsymmetry.
//   - ErrNotPositiveDefinite when the factorisation fails.
//
// Complexity:
//   - Time O(n³), Space O(n²).
func CholeskyLower(cov mat.Matrix, opts ...Option) (*mat.TriDense, error) {
	o := gatherOptions(opts...)
	if err := ValidateSymmetric(cov, o.eps); err != nil {
		return nil, matrixErrorf(opCholeskyLower, err)
	}
	if err := ValidateFinite(cov); err != nil {
		return nil, matrixErrorf(opCholeskyLower, err)
	}

	n, _ := cov.Dims()
	if n == 0 {
		return nil, matrixErrorf(opCholeskyLower, ErrDimensionMismatch)
	}
	sym := mat.NewSymDense(n, nil)
	var i, j int
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(cov.At(i, j)+cov.At(j, i)))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, matrixErrorf(opCholeskyLower, ErrNotPositiveDefinite)
	}
	l := mat.NewTriDense(n, mat.Lower, nil)
	chol.LTo(l)

	return l, nil
}

// SolveSVD solves a·x = b in the least-squares sense with a singular value
// decomposition, dropping singular values below rcond·σmax.
//
// Returns:
//   - *mat.VecDense: the solution x (len = a.cols).
//   - float64: the condition number σmax/σmin of a (+Inf when singular).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (b.len != a.rows).
//   - ErrSingular if the decomposition fails or the numerical rank is zero.
//
// Complexity:
//   - Time O(n³).
//
// Notes:
//   - The condition number is reported even when it is huge; judging it is
//     the caller's business.
func SolveSVD(a mat.Matrix, b mat.Vector, opts ...Option) (*mat.VecDense, float64, error) {
	o := gatherOptions(opts...)
	if err := ValidateNotNil(a); err != nil {
		return nil, 0, matrixErrorf(opSolveSVD, err)
	}
	r, c := a.Dims()
	if err := ValidateVecLen(b, r); err != nil {
		return nil, 0, matrixErrorf(opSolveSVD, err)
	}
	if r == 0 || c == 0 {
		return nil, 0, matrixErrorf(opSolveSVD, ErrDimensionMismatch)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return nil, math.Inf(1), matrixErrorf(opSolveSVD, ErrSingular)
	}
	cond := svd.Cond()
	rank := svd.Rank(o.rcond)
	if rank == 0 {
		return nil, cond, matrixErrorf(opSolveSVD, ErrSingular)
	}

	x := mat.NewVecDense(c, nil)
	svd.SolveVecTo(x, b, rank)

	return x, cond, nil
}

// PseudoInverse returns the Moore-Penrose pseudo-inverse A⁺ (c×r for A of
// r×c), keeping singular values above rcond·σmax.
//
// Implementation:
//   - Stage 1: Full SVD of a.
//   - Stage 2: Solve a·X = I(r) with the truncated decomposition.
//
// Returns:
//   - *mat.Dense: A⁺.
//   - float64: the condition number of a.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (empty a), ErrSingular (rank zero).
//
// Complexity:
//   - Time O(max(r,c)³).
func PseudoInverse(a mat.Matrix, opts ...Option) (*mat.Dense, float64, error) {
	o := gatherOptions(opts...)
	if err := ValidateNotNil(a); err != nil {
		return nil, 0, matrixErrorf(opPseudoInverse, err)
	}
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return nil, 0, matrixErrorf(opPseudoInverse, ErrDimensionMismatch)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDFull); !ok {
		return nil, math.Inf(1), matrixErrorf(opPseudoInverse, ErrSingular)
	}
	cond := svd.Cond()
	rank := svd.Rank(o.rcond)
	if rank == 0 {
		return nil, cond, matrixErrorf(opPseudoInverse, ErrSingular)
	}

	eye := mat.NewDiagDense(r, nil)
	for i := 0; i < r; i++ {
		eye.SetDiag(i, 1)
	}
	pinv := mat.NewDense(c, r, nil)
	svd.SolveTo(pinv, eye, rank)

	return pinv, cond, nil
}

// Determinant returns det(a) for a square matrix.
//
// Errors: ErrNilMatrix, ErrNonSquare.
func Determinant(a mat.Matrix) (float64, error) {
	if err := ValidateSquare(a); err != nil {
		return 0, matrixErrorf(opDeterminant, err)
	}

	return mat.Det(a), nil
}

// Diag builds the n×n diagonal matrix with the given entries.
func Diag(d []float64) *mat.Dense {
	n := len(d)
	if n == 0 {
		return nil
	}
	out := mat.NewDense(n, n, nil)
	for i, v := range d {
		out.Set(i, i, v)
	}

	return out
}

// DiagOf returns the main diagonal of a square matrix (nil for nil input).
func DiagOf(a mat.Matrix) []float64 {
	if isNil(a) {
		return nil
	}
	r, c := a.Dims()
	n := min(r, c)
	d := make([]float64, n)
	for i := range d {
		d[i] = a.At(i, i)
	}

	return d
}
