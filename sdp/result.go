// SPDX-License-Identifier: MIT

package sdp

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvsdp/matrix"
)

// Result is the backend-neutral outcome of one solve.
//
// Objective[0] is the primal value ⟨C, X⟩ and Objective[1] the dual value b·y,
// both in the minimisation sense of the canonical problem, whichever backend
// produced them. Native is the backend's raw status rendering, kept for
// diagnostics only.
type Result struct {
	Objective   [2]float64
	X           []matrix.Matrix
	Y           []float64
	Z           []matrix.Matrix
	Termination Termination
	Backend     Family
	Iterations  int
	Native      string
}

// HasSolution reports whether the result carries a solution triple.
func (r Result) HasSolution() bool { return len(r.X) > 0 && len(r.Z) > 0 }

// Gap returns Objective[0] − Objective[1].
func (r Result) Gap() float64 { return r.Objective[0] - r.Objective[1] }

// Report holds a posteriori accuracy measures of a solution triple.
type Report struct {
	// PrimalResidual is ‖b − A(X)‖₂.
	PrimalResidual float64 `json:"primal_residual" yaml:"primal_residual"`
	// DualResidual is sqrt(Σ_j ‖C_j − Σ_i y_i A_ij − Z_j‖F²).
	DualResidual float64 `json:"dual_residual" yaml:"dual_residual"`
	// RelativeGap is |⟨C,X⟩ − b·y| / (1 + |⟨C,X⟩| + |b·y|).
	RelativeGap float64 `json:"relative_gap" yaml:"relative_gap"`
}

// Residuals evaluates r's solution triple against p.
// Errors: ErrNoSolution, ErrShapeMismatch when the triple does not fit p.
func Residuals(p *Problem, r Result) (Report, error) {
	if !r.HasSolution() {
		return Report{}, ErrNoSolution
	}
	if len(r.X) != p.NumBlocks() || len(r.Z) != p.NumBlocks() || len(r.Y) != p.NumConstraints() {
		return Report{}, fmt.Errorf("solution does not fit problem: %w", ErrShapeMismatch)
	}

	var rep Report
	ax := make([]float64, p.NumConstraints())
	for _, e := range p.Entries() {
		if e.Block < 1 || e.Block > p.NumBlocks() || e.Constraint < 1 || e.Constraint > p.NumConstraints() {
			return Report{}, fmt.Errorf("A[%d,%d]: %w", e.Constraint, e.Block, ErrShapeMismatch)
		}
		v, err := matrix.Dot(p.A[e], r.X[e.Block-1])
		if err != nil {
			return Report{}, fmt.Errorf("A[%d,%d]·X: %w: %v", e.Constraint, e.Block, ErrShapeMismatch, err)
		}
		ax[e.Constraint-1] += v
	}
	sum := 0.0
	for i, b := range p.B {
		sum += (b - ax[i]) * (b - ax[i])
	}
	rep.PrimalResidual = math.Sqrt(sum)

	sum = 0
	primal := 0.0
	for j := range p.Blocks {
		rd, err := matrix.Sub(p.C[j], r.Z[j])
		if err != nil {
			return Report{}, fmt.Errorf("Z[%d]: %w: %v", j+1, ErrShapeMismatch, err)
		}
		for i := 1; i <= p.NumConstraints(); i++ {
			if a, ok := p.ConstraintMatrix(i, j+1); ok {
				if rd, err = matrix.AddScaled(rd, -r.Y[i-1], a); err != nil {
					return Report{}, fmt.Errorf("A[%d,%d]: %w: %v", i, j+1, ErrShapeMismatch, err)
				}
			}
		}
		nrm, _ := matrix.FrobeniusNorm(rd)
		sum += nrm * nrm
		cx, err := matrix.Dot(p.C[j], r.X[j])
		if err != nil {
			return Report{}, fmt.Errorf("X[%d]: %w: %v", j+1, ErrShapeMismatch, err)
		}
		primal += cx
	}
	rep.DualResidual = math.Sqrt(sum)

	dual := 0.0
	for i, b := range p.B {
		dual += b * r.Y[i]
	}
	rep.RelativeGap = math.Abs(primal-dual) / (1 + math.Abs(primal) + math.Abs(dual))

	return rep, nil
}
