// SPDX-License-Identifier: MIT

package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsdp/adapter"
	"github.com/katalvlaran/lvsdp/backend/dualform"
	"github.com/katalvlaran/lvsdp/matrix"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/katalvlaran/lvsdp/sdp/sdptest"
	"github.com/katalvlaran/lvsdp/status"
)

func newDual(t *testing.T) *adapter.Dual {
	t.Helper()
	a, err := adapter.NewDual(adapter.DualOptions{PrintLevel: 1})
	require.NoError(t, err)
	return a
}

func rows(t *testing.T, m matrix.Matrix) [][]float64 {
	t.Helper()
	d, err := matrix.ToDense(m)
	require.NoError(t, err)
	return d.ToRows()
}

// echo returns the initial point as the solution and evaluates both native
// objectives on it, the way the backend defines them.
func echo(t *testing.T) adapter.DualRoutine {
	return func(in dualform.Input, init *dualform.Init, _ dualform.Param) (dualform.Output, error) {
		require.NotNil(t, init)
		var pobj, dobj float64
		for i, c := range in.C {
			pobj += c * init.XVec[i]
		}
		for j := range in.F {
			v, err := matrix.Dot(in.F[j][0], init.YMat[j])
			require.NoError(t, err)
			dobj += v
		}
		return dualform.Output{
			XVec:         init.XVec,
			XMat:         init.XMat,
			YMat:         init.YMat,
			ObjValPrimal: pobj,
			ObjValDual:   dobj,
			Phase:        dualform.PhaseOptimal,
			Iteration:    3,
		}, nil
	}
}

func TestDualPrepareNegates(t *testing.T) {
	t.Parallel()

	p := sdptest.TwoBlocks()
	args, err := newDual(t).Prepare(p, nil)
	require.NoError(t, err)
	in := args.(*adapter.DualArgs).Input

	require.Equal(t, sdp.FamilyDual, args.Family())
	require.Equal(t, 2, in.MDim)
	require.Equal(t, 2, in.NBlock)
	require.Equal(t, []int{2, 1}, in.BlockStruct)
	require.Equal(t, []float64{-2, -1}, in.C)
	require.Len(t, in.F[0], 3)
	require.Equal(t, [][]float64{{-1, 0}, {0, -1}}, rows(t, in.F[0][0]))
	require.Equal(t, [][]float64{{-1, 0}, {0, 0}}, rows(t, in.F[0][1]))
	require.Nil(t, in.F[0][2])
	require.Equal(t, [][]float64{{-1}}, rows(t, in.F[1][2]))
}

func TestDualRoundTripIsSignNeutral(t *testing.T) {
	t.Parallel()

	p := sdptest.Feasible()
	x := sdptest.Dense([]float64{0.6, 0.5}, []float64{0.5, 0.4001})
	z := sdptest.Dense([]float64{2, 0}, []float64{0, 3})
	ws := &sdp.WarmStart{X: []matrix.Matrix{x}, Y: []float64{-0.25, 0.75}, Z: []matrix.Matrix{z}}

	a := newDual(t)
	a.Routine = echo(t)
	args, err := a.Prepare(p, ws)
	require.NoError(t, err)
	raw, err := a.Invoke(args)
	require.NoError(t, err)
	out, err := a.Postprocess(raw)
	require.NoError(t, err)

	require.Equal(t, ws.Y, out.Y)
	require.Equal(t, x.ToRows(), rows(t, out.X[0]))
	require.Equal(t, z.ToRows(), rows(t, out.Z[0]))

	cx, err := matrix.Dot(p.C[0], x)
	require.NoError(t, err)
	by := p.B[0]*ws.Y[0] + p.B[1]*ws.Y[1]
	require.InDelta(t, cx, out.Objective[0], 1e-15)
	require.InDelta(t, by, out.Objective[1], 1e-15)
	require.Equal(t, 3, out.Iterations)

	phase, ok := out.Native.AsPhase()
	require.True(t, ok)
	require.Equal(t, dualform.PhaseOptimal, phase)
}

func TestDualVerbosityFollowsCapability(t *testing.T) {
	t.Parallel()

	a := newDual(t)
	args, err := a.Prepare(sdptest.Feasible(), nil)
	require.NoError(t, err)
	par := args.(*adapter.DualArgs).Param
	require.Equal(t, 1, par.PrintLevel)
	require.Empty(t, par.Print)

	a.Caps.PrintLevel = false
	args, err = a.Prepare(sdptest.Feasible(), nil)
	require.NoError(t, err)
	par = args.(*adapter.DualArgs).Param
	require.Zero(t, par.PrintLevel)
	require.Equal(t, "display", par.Print)

	a.Options.PrintLevel = 0
	args, err = a.Prepare(sdptest.Feasible(), nil)
	require.NoError(t, err)
	require.Empty(t, args.(*adapter.DualArgs).Param.Print)
}

func TestDualPassesOptions(t *testing.T) {
	t.Parallel()

	a, err := adapter.NewDual(adapter.DualOptions{MaxIteration: 12, LambdaStar: 10, OmegaStar: 3})
	require.NoError(t, err)
	args, err := a.Prepare(sdptest.Feasible(), nil)
	require.NoError(t, err)
	par := args.(*adapter.DualArgs).Param
	require.Equal(t, 12, par.MaxIteration)
	require.Equal(t, 10.0, par.LambdaStar)
	require.Equal(t, 3.0, par.OmegaStar)
	require.Equal(t, 1e-7, par.EpsilonStar)
	require.Equal(t, -1e5, par.LowerBound)
}

func TestDualRejectsForeignValues(t *testing.T) {
	t.Parallel()

	a := newDual(t)
	_, err := a.Invoke(&adapter.PrimalArgs{})
	require.ErrorIs(t, err, adapter.ErrForeignArgs)
	_, err = a.Postprocess(&adapter.PrimalRaw{})
	require.ErrorIs(t, err, adapter.ErrForeignArgs)
}

func TestDualAgainstBackend(t *testing.T) {
	t.Parallel()

	a := newDual(t)
	a.Options.PrintLevel = 0

	args, err := a.Prepare(sdptest.Feasible(), nil)
	require.NoError(t, err)
	raw, err := a.Invoke(args)
	require.NoError(t, err)
	out, err := a.Postprocess(raw)
	require.NoError(t, err)
	require.Equal(t, sdp.Optimal, status.Normalize(out.Native, a.Family()))
	require.InDelta(t, sdptest.FeasibleValue, out.Objective[0], 1e-5)
	require.InDelta(t, sdptest.FeasibleValue, out.Objective[1], 1e-5)

	args, err = a.Prepare(sdptest.Infeasible(), nil)
	require.NoError(t, err)
	raw, err = a.Invoke(args)
	require.NoError(t, err)
	out, err = a.Postprocess(raw)
	require.NoError(t, err)
	require.Equal(t, sdp.PrimalInfeasible, status.Normalize(out.Native, a.Family()))
}
