// SPDX-License-Identifier: MIT

package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsdp/adapter"
)

func TestPrimalOptionsDefaults(t *testing.T) {
	t.Parallel()

	got := adapter.PrimalOptions{}.WithDefaults()
	require.Equal(t, adapter.DefaultPrimalOptions(), got)
	require.Equal(t, 50, got.MaxIter)
	require.Equal(t, 1e-6, got.StepTol)
	require.NoError(t, got.Validate())

	kept := adapter.PrimalOptions{MaxIter: 7, PrintLevel: 2}.WithDefaults()
	require.Equal(t, 7, kept.MaxIter)
	require.Equal(t, 2, kept.PrintLevel)
	require.Equal(t, 1e-8, kept.GapTol)
}

func TestDualOptionsDefaults(t *testing.T) {
	t.Parallel()

	got := adapter.DualOptions{}.WithDefaults()
	require.Equal(t, adapter.DefaultDualOptions(), got)
	require.Equal(t, 40, got.MaxIteration)
	require.Equal(t, -1e5, got.LowerBound)
	require.Equal(t, 1e5, got.UpperBound)
	require.Equal(t, 0.9, got.GammaStar)
	require.NoError(t, got.Validate())
}

func TestOptionsRejected(t *testing.T) {
	t.Parallel()

	primal := map[string]adapter.PrimalOptions{
		"negative gap":      {GapTol: -1e-8},
		"negative max iter": {MaxIter: -1},
		"print level":       {PrintLevel: 9},
	}
	for name, o := range primal {
		_, err := adapter.NewPrimal(o)
		require.ErrorIsf(t, err, adapter.ErrInvalidOptions, name)
	}

	dual := map[string]adapter.DualOptions{
		"bounds crossed":  {LowerBound: 10, UpperBound: 5},
		"gamma too large": {GammaStar: 1.5},
		"beta order":      {BetaStar: 0.5, BetaBar: 0.2},
		"omega":           {OmegaStar: 0.5},
		"negative eps":    {EpsilonStar: -1},
	}
	for name, o := range dual {
		_, err := adapter.NewDual(o)
		require.ErrorIsf(t, err, adapter.ErrInvalidOptions, name)
	}
}

func TestConstructorsProbeFeatures(t *testing.T) {
	t.Parallel()

	p, err := adapter.NewPrimal(adapter.PrimalOptions{})
	require.NoError(t, err)
	require.True(t, p.Capabilities().WarmStart)
	require.True(t, p.Capabilities().PrintLevel)
	require.NotNil(t, p.Routine)

	d, err := adapter.NewDual(adapter.DualOptions{})
	require.NoError(t, err)
	require.True(t, d.Capabilities().WarmStart)
	require.NotNil(t, d.Routine)
}
