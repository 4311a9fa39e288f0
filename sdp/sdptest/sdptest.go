// SPDX-License-Identifier: MIT

// Package sdptest provides small reference problems with known answers for
// tests across the module.
package sdptest

import (
	"github.com/katalvlaran/lvsdp/matrix"
	"github.com/katalvlaran/lvsdp/sdp"
)

// FeasibleValue is the optimal value of Feasible.
const FeasibleValue = 1.0001

// Dense builds a dense matrix from literal rows and panics on bad input.
func Dense(rows ...[]float64) *matrix.Dense {
	m, err := matrix.NewDenseFrom(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// Identity returns the n×n identity.
func Identity(n int) *matrix.Dense {
	m, err := matrix.NewIdentity(n)
	if err != nil {
		panic(err)
	}
	return m
}

// Feasible is one 2×2 block with
//
//	A1 = [[0,1],[1,0]], A2 = [[1,1],[1,1]], C = I, b = (1, 2.0001).
//
// Every feasible X has trace 1.0001, so primal and dual optimum equal
// FeasibleValue; the dual optimum y = (−1, 1), Z = 0 is unique.
func Feasible() *sdp.Problem {
	p := sdp.NewProblem(2)
	p.SetObjective(1, Identity(2))
	p.AddConstraint(1, sdp.Term{Block: 1, A: Dense([]float64{0, 1}, []float64{1, 0})})
	p.AddConstraint(2.0001, sdp.Term{Block: 1, A: Dense([]float64{1, 1}, []float64{1, 1})})
	return p
}

// Infeasible asks for X11 = −1 on one 2×2 block; y = −1 certifies primal
// infeasibility.
func Infeasible() *sdp.Problem {
	p := sdp.NewProblem(2)
	p.SetObjective(1, Identity(2))
	p.AddConstraint(-1, sdp.Term{Block: 1, A: Dense([]float64{1, 0}, []float64{0, 0})})
	return p
}

// TwoBlocks is a problem over a 2×2 and a 1×1 block with a sparse
// coefficient and one constraint touching only the second block:
//
//	min tr X1 + x2  s.t.  X1_11 + x2 = 2,  x2 = 1.
//
// Its optimal value is 2.
func TwoBlocks() *sdp.Problem {
	p := sdp.NewProblem(2, 1)
	p.SetObjective(1, Identity(2))
	p.SetObjective(2, Dense([]float64{1}))
	e11, err := matrix.NewSparse(2, 2)
	if err != nil {
		panic(err)
	}
	if err = e11.Set(0, 0, 1); err != nil {
		panic(err)
	}
	p.AddConstraint(2, sdp.Term{Block: 1, A: e11}, sdp.Term{Block: 2, A: Dense([]float64{1})})
	p.AddConstraint(1, sdp.Term{Block: 2, A: Dense([]float64{1})})
	return p
}
