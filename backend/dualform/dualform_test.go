// SPDX-License-Identifier: MIT

package dualform_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsdp/backend/dualform"
	"github.com/katalvlaran/lvsdp/matrix"
)

func dense(t *testing.T, rows ...[]float64) matrix.Matrix {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)
	return m
}

// feasible is min tr X s.t. 2·X12 = 1, X11 + 2·X12 + X22 = 2.0001 written as
// (D) with F_0 = −C, F_i = −A_i and c = −b.
func feasible(t *testing.T) dualform.Input {
	return dualform.Input{
		MDim:        2,
		NBlock:      1,
		BlockStruct: []int{2},
		C:           []float64{-1, -2.0001},
		F: [][]matrix.Matrix{{
			dense(t, []float64{-1, 0}, []float64{0, -1}),
			dense(t, []float64{0, -1}, []float64{-1, 0}),
			dense(t, []float64{-1, -1}, []float64{-1, -1}),
		}},
	}
}

func TestSolveOptimal(t *testing.T) {
	t.Parallel()

	out, err := dualform.Solve(feasible(t), nil, dualform.Param{})
	require.NoError(t, err)
	require.Equal(t, dualform.PhaseOptimal, out.Phase)
	require.InDelta(t, -1.0001, out.ObjValPrimal, 1e-5)
	require.InDelta(t, -1.0001, out.ObjValDual, 1e-5)
	require.InDeltaSlice(t, []float64{-1, 1}, out.XVec, 1e-2)
	tr, err := matrix.Trace(out.YMat[0])
	require.NoError(t, err)
	require.InDelta(t, 1.0001, tr, 1e-5)
	require.LessOrEqual(t, out.Iteration, dualform.DefaultParam().MaxIteration)
}

func TestSolveWarmStartFromSolution(t *testing.T) {
	t.Parallel()

	first, err := dualform.Solve(feasible(t), nil, dualform.Param{})
	require.NoError(t, err)
	require.Equal(t, dualform.PhaseOptimal, first.Phase)

	init := &dualform.Init{XVec: first.XVec, XMat: first.XMat, YMat: first.YMat}
	again, err := dualform.Solve(feasible(t), init, dualform.Param{})
	require.NoError(t, err)
	require.Equal(t, dualform.PhaseOptimal, again.Phase)
	require.Zero(t, again.Iteration)
}

func TestSolveInfeasible(t *testing.T) {
	t.Parallel()

	// (D) needs Y11 = −1.
	in := dualform.Input{
		MDim: 1, NBlock: 1, BlockStruct: []int{2},
		C: []float64{-1},
		F: [][]matrix.Matrix{{
			dense(t, []float64{-1, 0}, []float64{0, -1}),
			dense(t, []float64{1, 0}, []float64{0, 0}),
		}},
	}
	out, err := dualform.Solve(in, nil, dualform.Param{})
	require.NoError(t, err)
	require.Contains(t, []string{dualform.PhaseDualInfeasible, dualform.PhasePrimalUnbounded}, out.Phase)
}

func TestSolveBounds(t *testing.T) {
	t.Parallel()

	// A loose feasibility tolerance makes the bound tests fire on the start.
	out, err := dualform.Solve(feasible(t), nil, dualform.Param{EpsilonDash: 1e3, LowerBound: 1e6})
	require.NoError(t, err)
	require.Equal(t, dualform.PhasePrimalUnbounded, out.Phase)
	require.Zero(t, out.Iteration)

	out, err = dualform.Solve(feasible(t), nil, dualform.Param{EpsilonDash: 1e3, LowerBound: -1e9, UpperBound: -1e6})
	require.NoError(t, err)
	require.Equal(t, dualform.PhaseDualUnbounded, out.Phase)
}

func TestSolveIterationCapReportsFeasibility(t *testing.T) {
	t.Parallel()

	out, err := dualform.Solve(feasible(t), nil, dualform.Param{MaxIteration: 1})
	require.NoError(t, err)
	require.Contains(t, []string{
		dualform.PhaseNoInfo, dualform.PhaseFeasible, dualform.PhasePrimalFeasible, dualform.PhaseDualFeasible,
	}, out.Phase)
	require.Equal(t, 1, out.Iteration)
}

func TestSolveRejectsInput(t *testing.T) {
	t.Parallel()

	cases := map[string]func(in *dualform.Input){
		"block count":    func(in *dualform.Input) { in.NBlock = 2 },
		"cost length":    func(in *dualform.Input) { in.C = in.C[:1] },
		"F length":       func(in *dualform.Input) { in.F[0] = in.F[0][:2] },
		"diagonal block": func(in *dualform.Input) { in.BlockStruct = []int{-2} },
		"F shape": func(in *dualform.Input) {
			in.F[0][1] = dense(t, []float64{1})
		},
	}
	for name, mutate := range cases {
		in := feasible(t)
		mutate(&in)
		_, err := dualform.Solve(in, nil, dualform.Param{})
		require.Truef(t, errors.Is(err, dualform.ErrInput), "%s: %v", name, err)
	}

	_, err := dualform.Solve(feasible(t), &dualform.Init{XVec: []float64{0}}, dualform.Param{})
	require.ErrorIs(t, err, dualform.ErrInput)
}

func TestPrinting(t *testing.T) {
	t.Parallel()

	var legacy, level1, silent bytes.Buffer
	_, err := dualform.Solve(feasible(t), nil, dualform.Param{Print: "display", Out: &legacy})
	require.NoError(t, err)
	require.Contains(t, legacy.String(), "phase.value = pdOPT")
	require.Greater(t, strings.Count(legacy.String(), "\n"), 4)

	_, err = dualform.Solve(feasible(t), nil, dualform.Param{PrintLevel: 1, Print: "display", Out: &level1})
	require.NoError(t, err)
	require.Equal(t, 4, strings.Count(level1.String(), "\n"))

	_, err = dualform.Solve(feasible(t), nil, dualform.Param{Out: &silent})
	require.NoError(t, err)
	require.Zero(t, silent.Len())
}

func TestDefaultsAndFeatures(t *testing.T) {
	t.Parallel()

	d := dualform.DefaultParam()
	require.Equal(t, 40, d.MaxIteration)
	require.Equal(t, 1e-7, d.EpsilonStar)
	require.Equal(t, 100.0, d.LambdaStar)
	require.Equal(t, 0.9, d.GammaStar)
	require.True(t, dualform.Features().WarmStart)
}
