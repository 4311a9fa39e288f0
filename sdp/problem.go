// SPDX-License-Identifier: MIT

package sdp

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvsdp/matrix"
)

// ConeType tags the cone of a block. Only the PSD cone is supported.
type ConeType string

// ConePSD is the cone of symmetric positive semidefinite matrices.
const ConePSD ConeType = "s"

// Block describes one diagonal block: its cone and its side length.
type Block struct {
	Cone ConeType `json:"cone" yaml:"cone"`
	Size int      `json:"size" yaml:"size"`
}

// Entry addresses the coefficient matrix A_ij of constraint i on block j.
// Both indices are 1-based.
type Entry struct {
	Constraint int
	Block      int
}

// Term is one (block, matrix) pair of a constraint, used by AddConstraint.
// Block is 1-based.
type Term struct {
	Block int
	A     matrix.Matrix
}

// Problem is a block-diagonal SDP in the canonical primal form.
//
// A holds only the non-zero coefficient matrices; absent entries are zero.
// C is indexed by block (C[0] belongs to block 1). Matrices may be any
// matrix.Matrix implementation; backends densify what they need.
type Problem struct {
	Blocks []Block
	A      map[Entry]matrix.Matrix
	C      []matrix.Matrix
	B      []float64

	// buildErr is the first AddConstraint failure; Validate reports it.
	buildErr error
}

// NewProblem returns a problem with PSD blocks of the given sizes, zero
// objective matrices and no constraints. Invalid sizes leave the matching C
// slot nil; Validate reports them.
func NewProblem(sizes ...int) *Problem {
	p := &Problem{
		Blocks: make([]Block, len(sizes)),
		A:      make(map[Entry]matrix.Matrix),
		C:      make([]matrix.Matrix, len(sizes)),
	}
	for j, s := range sizes {
		p.Blocks[j] = Block{Cone: ConePSD, Size: s}
		if c, err := matrix.NewSparse(s, s); err == nil {
			p.C[j] = c
		}
	}

	return p
}

// SetObjective sets C for the 1-based block j. Out-of-range j is ignored by the
// builder and surfaces as a zero objective.
func (p *Problem) SetObjective(j int, c matrix.Matrix) *Problem {
	if j >= 1 && j <= len(p.C) {
		p.C[j-1] = c
	}
	return p
}

// AddConstraint appends the constraint Σ ⟨A_t, X_{block_t}⟩ = b and returns its
// 1-based index. Terms with a nil matrix are skipped. Terms on the same block
// are summed into one coefficient matrix; terms of different shapes on one
// block make Validate fail with ErrShapeMismatch.
func (p *Problem) AddConstraint(b float64, terms ...Term) int {
	if p.A == nil {
		p.A = make(map[Entry]matrix.Matrix)
	}
	p.B = append(p.B, b)
	i := len(p.B)
	for _, t := range terms {
		if t.A == nil {
			continue
		}
		if err := p.addTerm(Entry{Constraint: i, Block: t.Block}, t.A); err != nil && p.buildErr == nil {
			p.buildErr = err
		}
	}

	return i
}

// addTerm stores a under e, or adds it to the matrix already stored there.
// The caller's matrices are never mutated.
func (p *Problem) addTerm(e Entry, a matrix.Matrix) error {
	prev, ok := p.A[e]
	if !ok || prev == nil {
		p.A[e] = a
		return nil
	}
	sum, err := sumTerms(prev, a)
	if err != nil {
		return fmt.Errorf("A[%d,%d]: repeated block term: %w: %v", e.Constraint, e.Block, ErrShapeMismatch, err)
	}
	p.A[e] = sum

	return nil
}

// sumTerms returns a + b, staying sparse when both operands are.
func sumTerms(a, b matrix.Matrix) (matrix.Matrix, error) {
	sa, okA := a.(*matrix.Sparse)
	sb, okB := b.(*matrix.Sparse)
	if !okA || !okB || sa.Rows() != sb.Rows() || sa.Cols() != sb.Cols() {
		return matrix.Add(a, b)
	}
	out := sa.Clone().(*matrix.Sparse)
	var err error
	sb.Do(func(i, j int, v float64) bool {
		var cur float64
		if cur, err = out.At(i, j); err == nil {
			err = out.Set(i, j, cur+v)
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// NumConstraints returns m = len(B).
func (p *Problem) NumConstraints() int { return len(p.B) }

// NumBlocks returns the number of diagonal blocks.
func (p *Problem) NumBlocks() int { return len(p.Blocks) }

// TotalSize returns Σ_j s_j, the order of the full block-diagonal matrix.
func (p *Problem) TotalSize() int {
	n := 0
	for _, b := range p.Blocks {
		n += b.Size
	}
	return n
}

// BlockSizes returns the side lengths in block order.
func (p *Problem) BlockSizes() []int {
	out := make([]int, len(p.Blocks))
	for j, b := range p.Blocks {
		out[j] = b.Size
	}
	return out
}

// ConstraintMatrix returns A_ij (1-based) and whether it is stored. Absent
// entries are zero.
func (p *Problem) ConstraintMatrix(i, j int) (matrix.Matrix, bool) {
	a, ok := p.A[Entry{Constraint: i, Block: j}]
	return a, ok
}

// Entries returns the stored A keys sorted by (constraint, block).
func (p *Problem) Entries() []Entry {
	keys := make([]Entry, 0, len(p.A))
	for k := range p.A {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].Constraint != keys[b].Constraint {
			return keys[a].Constraint < keys[b].Constraint
		}
		return keys[a].Block < keys[b].Block
	})

	return keys
}
