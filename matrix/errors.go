// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All kernels MUST return these sentinels (optionally wrapped with an
// operation tag) and tests MUST check them via errors.Is.

package matrix

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for consistency and to allow
// easy grepping across logs. Kernels wrap with matrixErrorf(op, ErrX) so the
// operation appears first; callers still match with errors.Is.

var (
	// ErrNilMatrix indicates that a nil matrix or vector argument was used.
	ErrNilMatrix = errors.New("matrix: nil argument")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// or a sample count too small for the requested statistic.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrAsymmetry signals that a matrix expected to be symmetric violated symmetry
	// within the configured epsilon.
	ErrAsymmetry = errors.New("matrix: matrix is not symmetric within eps")

	// ErrNotPositiveDefinite is returned when a Cholesky factorisation fails.
	ErrNotPositiveDefinite = errors.New("matrix: matrix is not positive definite")

	// ErrSingular is returned when a decomposition cannot produce a usable
	// factorisation (zero rank or failed SVD).
	ErrSingular = errors.New("matrix: singular matrix")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")
)

// Operation name constants for unified error wrapping.
const (
	opCutZeros      = "CutZeros"
	opABAT          = "ABAT"
	opCholeskyLower = "CholeskyLower"
	opSolveSVD      = "SolveSVD"
	opPseudoInverse = "PseudoInverse"
	opDeterminant   = "Determinant"
	opMomentsAdd    = "Moments.Add"
	opMomentsCov    = "Moments.Covariance"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
