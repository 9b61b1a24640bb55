// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic comparisons for gonum matrices.

package matrix_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// CompareClose fails the test unless want and got have the same shape and
// agree element-wise within tol.
func CompareClose(t *testing.T, want, got mat.Matrix, tol float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("got nil matrix")
	}
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	if wr != gr || wc != gc {
		t.Fatalf("shape mismatch: want %dx%d, got %dx%d", wr, wc, gr, gc)
	}
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			if math.Abs(want.At(i, j)-got.At(i, j)) > tol {
				t.Fatalf("(%d,%d): want %g, got %g", i, j, want.At(i, j), got.At(i, j))
			}
		}
	}
}
