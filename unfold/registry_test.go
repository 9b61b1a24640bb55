// SPDX-License-Identifier: MIT

package unfold_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/unfold/unfold"
)

func TestRegistry_Builtins(t *testing.T) {
	t.Parallel()

	for _, k := range []unfold.Kind{unfold.None, unfold.BinByBin, unfold.Invert} {
		require.True(t, unfold.Available(k), "kind %s", k)
		e, err := unfold.New(k, identityResponse(t, []float64{4, 5}), hist1D(t, "m", []float64{4, 5}), quiet())
		require.NoError(t, err)
		require.Equal(t, k, e.Kind())
		require.InDeltaSlice(t, []float64{4, 5}, vec(e.Vreco()), 1e-9)
	}
}

func TestRegistry_Unavailable(t *testing.T) {
	t.Parallel()

	require.False(t, unfold.Available(unfold.Bayes))

	var buf bytes.Buffer
	e, err := unfold.New(unfold.Bayes, identityResponse(t, []float64{1}), nil, capture(&buf))
	require.Nil(t, e)
	require.True(t, errors.Is(err, unfold.ErrAlgorithmUnavailable))
	require.Contains(t, err.Error(), "bayes")
	require.Contains(t, buf.String(), "unfolding algorithm not available")
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	const custom = unfold.Kind(42)
	require.True(t, errors.Is(unfold.Register(custom, nil), unfold.ErrNilStrategy))
	require.False(t, unfold.Available(custom))

	require.NoError(t, unfold.Register(custom, func() unfold.Strategy { return &tunable{} }))
	require.True(t, unfold.Available(custom))

	e, err := unfold.New(custom, identityResponse(t, []float64{2, 3}), hist1D(t, "m", []float64{2, 3}),
		quiet(), unfold.WithRegParm(7))
	require.NoError(t, err)
	require.Equal(t, 7.0, e.RegParm())
	require.Equal(t, unfold.RegSettings{Min: 1, Max: 10, Step: 1, Default: 4}, e.Settings())
	require.Equal(t, []float64{2, 3}, vec(e.Vreco()))

	const broken = unfold.Kind(43)
	require.NoError(t, unfold.Register(broken, func() unfold.Strategy { return nil }))
	_, err = unfold.New(broken, nil, nil, quiet())
	require.True(t, errors.Is(err, unfold.ErrNilStrategy))
}
