// SPDX-License-Identifier: MIT

package matrix_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/unfold/matrix"
)

func TestMoments_Covariance(t *testing.T) {
	t.Parallel()

	m := matrix.NewMoments(2)
	require.NoError(t, m.Add([]float64{1, 2}))
	require.NoError(t, m.Add([]float64{3, 2}))
	require.NoError(t, m.Add([]float64{5, 8}))
	require.Equal(t, 3, m.N())
	require.InDeltaSlice(t, []float64{3, 4}, m.Mean(), 1e-12)

	// x: var = ((1-3)²+0+(5-3)²)/2 = 4; y: var = (4+4+16)/2 = 12
	// cov = ((-2)(-2) + 0 + (2)(4))/2 = 6
	cov, err := m.Covariance()
	require.NoError(t, err)
	CompareClose(t, mat.NewDense(2, 2, []float64{4, 6, 6, 12}), cov, 1e-12)
}

func TestMoments_Errors(t *testing.T) {
	t.Parallel()

	m := matrix.NewMoments(3)
	require.True(t, errors.Is(m.Add([]float64{1}), matrix.ErrDimensionMismatch))
	require.NoError(t, m.Add([]float64{1, 2, 3}))
	_, err := m.Covariance()
	require.True(t, errors.Is(err, matrix.ErrDimensionMismatch))

	empty := matrix.NewMoments(0)
	require.True(t, errors.Is(empty.Add(nil), matrix.ErrDimensionMismatch))
	require.Empty(t, empty.Mean())
}
