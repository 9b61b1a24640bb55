// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra kernels used by the
// unfolding engine, built on gonum.org/v1/gonum/mat.
//
// The matrix package provides:
//
//   - Validators (ValidateNotNil, ValidateSquare, ValidateSymmetric, ...)
//     returning package sentinels wrapped with an operation tag.
//   - CutZeros, which prunes all-zero rows and the matching columns from a
//     covariance before it is inverted.
//   - ABAT (A·B·Aᵀ) for covariance propagation through a linear map.
//   - CholeskyLower, the lower factor L of a symmetric positive-definite
//     covariance (V = L·Lᵀ), used to draw correlated toys.
//   - SolveSVD, a rank-revealing least-squares solve that also reports the
//     condition number of the system matrix.
//   - Moments, a streaming accumulator for the sample mean and covariance of
//     a sequence of vectors (toy-MC results).
//
// All functions are deterministic and never panic on user-triggered error
// conditions; errors.Is matches the exported sentinels.
//
// Complexity:
//   - CutZeros, ABAT: O(n²) and O(n³).
//   - CholeskyLower, SolveSVD, Determinant: O(n³).
//   - Moments.Add: O(n²) per sample.
package matrix
