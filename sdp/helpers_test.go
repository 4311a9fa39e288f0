// SPDX-License-Identifier: MIT

package sdp_test

import (
	"testing"

	"github.com/katalvlaran/lvsdp/matrix"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/stretchr/testify/require"
)

func dense(t *testing.T, rows ...[]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(rows)
	require.NoError(t, err)
	return m
}

// twoByTwo is the 2×2 single-block problem with A1=[[0,1],[1,0]],
// A2=[[1,1],[1,1]], C=I, b=[1, 2.0001].
func twoByTwo(t *testing.T) *sdp.Problem {
	t.Helper()
	p := sdp.NewProblem(2)
	p.SetObjective(1, dense(t, []float64{1, 0}, []float64{0, 1}))
	p.AddConstraint(1, sdp.Term{Block: 1, A: dense(t, []float64{0, 1}, []float64{1, 0})})
	p.AddConstraint(2.0001, sdp.Term{Block: 1, A: dense(t, []float64{1, 1}, []float64{1, 1})})
	return p
}
