// SPDX-License-Identifier: MIT

package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/matrix"
)

func TestValidators(t *testing.T) {
	t.Parallel()

	var nilDense *mat.Dense
	require.True(t, errors.Is(matrix.ValidateNotNil(nil), matrix.ErrNilMatrix))
	require.True(t, errors.Is(matrix.ValidateNotNil(nilDense), matrix.ErrNilMatrix))
	require.NoError(t, matrix.ValidateNotNil(mat.NewDense(1, 1, nil)))

	require.True(t, errors.Is(matrix.ValidateSquare(mat.NewDense(2, 3, nil)), matrix.ErrNonSquare))

	var nilVec *mat.VecDense
	require.True(t, errors.Is(matrix.ValidateVecLen(nilVec, 2), matrix.ErrNilMatrix))
	require.True(t, errors.Is(matrix.ValidateVecLen(mat.NewVecDense(3, nil), 2), matrix.ErrDimensionMismatch))

	sym := mat.NewDense(2, 2, []float64{1, 2, 2 + 1e-12, 1})
	require.NoError(t, matrix.ValidateSymmetric(sym, 1e-9))
	require.True(t, errors.Is(matrix.ValidateSymmetric(sym, 0), matrix.ErrAsymmetry))
	require.True(t, errors.Is(matrix.ValidateSymmetric(sym, math.Inf(1)), matrix.ErrNaNInf))

	require.True(t, errors.Is(matrix.ValidateFinite(mat.NewDense(1, 1, []float64{math.Inf(-1)})), matrix.ErrNaNInf))
}
