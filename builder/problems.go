// SPDX-License-Identifier: MIT
// Package: lvsdp/builder
//
// problems.go — SDP instances built from graphs or raw sizes.
//
// Contract:
//   • Every returned *sdp.Problem passes Validate.
//   • Objectives are in minimisation form; relaxation values are the
//     negated optimum (see each constructor).
//   • Constraint matrices are sparse unless WithDense is given.

package builder

import (
	"fmt"

	"github.com/katalvlaran/lvsdp/matrix"
	"github.com/katalvlaran/lvsdp/sdp"
)

const (
	methodMaxCut         = "MaxCut"
	methodTheta          = "Theta"
	methodRandomFeasible = "RandomFeasible"
)

// MaxCut builds the Goemans–Williamson relaxation of the weighted maximum
// cut of the graph produced by t:
//
//	min ⟨−L/4, X⟩  s.t.  X_ii = 1 (i = 1..n),  X ⪰ 0.
//
// The relaxation value is the negated optimum.
func MaxCut(t Topology, opts ...BuilderOption) (*sdp.Problem, Graph, error) {
	g, err := BuildGraph(t, opts...)
	if err != nil {
		return nil, Graph{}, err
	}
	if len(g.Edges) == 0 {
		return nil, g, fmt.Errorf("%s: %w", methodMaxCut, ErrEmptyGraph)
	}
	cfg := newBuilderConfig(opts...)

	l, err := g.Laplacian()
	if err != nil {
		return nil, g, fmt.Errorf("%s: %w", methodMaxCut, err)
	}
	if err = l.Apply(func(_, _ int, v float64) float64 { return -v / 4 }); err != nil {
		return nil, g, fmt.Errorf("%s: %w", methodMaxCut, err)
	}

	p := sdp.NewProblem(g.N)
	p.SetObjective(1, l)
	for i := 0; i < g.N; i++ {
		a, err := unit(g.N, i, i, cfg.dense)
		if err != nil {
			return nil, g, fmt.Errorf("%s: %w", methodMaxCut, err)
		}
		p.AddConstraint(1, sdp.Term{Block: 1, A: a})
	}
	return p, g, nil
}

// Theta builds the Lovász theta program of the graph produced by t:
//
//	min ⟨−J, X⟩  s.t.  tr X = 1,  2·X_uv = 0 for every edge uv,  X ⪰ 0.
//
// ϑ(G) is the negated optimum. Edge weights are ignored.
func Theta(t Topology, opts ...BuilderOption) (*sdp.Problem, Graph, error) {
	g, err := BuildGraph(t, opts...)
	if err != nil {
		return nil, Graph{}, err
	}
	cfg := newBuilderConfig(opts...)

	j, err := matrix.NewDense(g.N, g.N)
	if err != nil {
		return nil, g, fmt.Errorf("%s: %w", methodTheta, err)
	}
	if err = j.Apply(func(_, _ int, _ float64) float64 { return -1 }); err != nil {
		return nil, g, fmt.Errorf("%s: %w", methodTheta, err)
	}
	id, err := matrix.NewIdentity(g.N)
	if err != nil {
		return nil, g, fmt.Errorf("%s: %w", methodTheta, err)
	}

	p := sdp.NewProblem(g.N)
	p.SetObjective(1, j)
	p.AddConstraint(1, sdp.Term{Block: 1, A: id})
	for _, e := range g.Edges {
		a, err := unit(g.N, e.U, e.V, cfg.dense)
		if err != nil {
			return nil, g, fmt.Errorf("%s: %w", methodTheta, err)
		}
		p.AddConstraint(0, sdp.Term{Block: 1, A: a})
	}
	return p, g, nil
}

// RandomFeasible builds m random constraints over blocks of the given sizes
// around the strictly feasible pair X = I, y = y0, Z = I:
//
//	A_ij symmetric with entries U[−1, 1),  b_i = Σ_j tr A_ij,
//	y0_i ∈ U[−1, 1),  C_j = Σ_i y0_i A_ij + I.
//
// Both the problem and its dual are strictly feasible, so an optimum exists.
// Requires WithSeed or WithRand; WithDense is implied.
func RandomFeasible(sizes []int, m int, opts ...BuilderOption) (*sdp.Problem, error) {
	cfg := newBuilderConfig(opts...)
	if len(sizes) == 0 || m < 1 {
		return nil, fmt.Errorf("%s: %d blocks, m=%d: %w", methodRandomFeasible, len(sizes), m, ErrTooFewVertices)
	}
	for j, n := range sizes {
		if n < 1 {
			return nil, fmt.Errorf("%s: block %d size %d: %w", methodRandomFeasible, j+1, n, ErrTooFewVertices)
		}
	}
	if cfg.rng == nil {
		return nil, fmt.Errorf("%s: %w", methodRandomFeasible, ErrNeedRandSource)
	}
	uniform := func() float64 { return 2*cfg.rng.Float64() - 1 }

	y0 := make([]float64, m)
	for i := range y0 {
		y0[i] = uniform()
	}
	// c[j] accumulates Σ_i y0_i A_ij + I row by row.
	c := make([][][]float64, len(sizes))
	for j, n := range sizes {
		c[j] = square(n)
		for r := 0; r < n; r++ {
			c[j][r][r] = 1
		}
	}

	p := sdp.NewProblem(sizes...)
	for i := 0; i < m; i++ {
		terms := make([]sdp.Term, len(sizes))
		var b float64
		for j, n := range sizes {
			rows := square(n)
			for r := 0; r < n; r++ {
				for k := r; k < n; k++ {
					v := uniform()
					rows[r][k], rows[k][r] = v, v
					c[j][r][k] += y0[i] * v
					if k != r {
						c[j][k][r] += y0[i] * v
					} else {
						b += v
					}
				}
			}
			a, err := matrix.NewDenseFrom(rows)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", methodRandomFeasible, err)
			}
			terms[j] = sdp.Term{Block: j + 1, A: a}
		}
		p.AddConstraint(b, terms...)
	}
	for j := range sizes {
		cj, err := matrix.NewDenseFrom(c[j])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", methodRandomFeasible, err)
		}
		p.SetObjective(j+1, cj)
	}
	return p, nil
}

func square(n int) [][]float64 {
	rows := make([][]float64, n)
	for r := range rows {
		rows[r] = make([]float64, n)
	}
	return rows
}

// unit returns the symmetric unit matrix with ones at (i, j) and (j, i).
func unit(n, i, j int, dense bool) (matrix.Matrix, error) {
	if dense {
		d, err := matrix.NewDense(n, n)
		if err != nil {
			return nil, err
		}
		if err = d.Set(i, j, 1); err != nil {
			return nil, err
		}
		return d, d.Set(j, i, 1)
	}
	s, err := matrix.NewSparse(n, n)
	if err != nil {
		return nil, err
	}
	return s, s.SetSym(i, j, 1)
}
