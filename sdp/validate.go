// SPDX-License-Identifier: MIT

package sdp

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvsdp/matrix"
)

// DefaultSymmetryTolerance is the relative tolerance of the symmetry check:
// |a_ij − a_ji| ≤ tol·max(1, max|a|).
const DefaultSymmetryTolerance = 1e-10

type validateConfig struct {
	symTol float64
}

// ValidateOption configures Validate.
type ValidateOption func(*validateConfig)

// WithSymmetryTolerance overrides DefaultSymmetryTolerance.
// Panics if tol is negative or not finite.
func WithSymmetryTolerance(tol float64) ValidateOption {
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		panic(fmt.Sprintf("sdp: WithSymmetryTolerance(%g): tolerance must be finite and >= 0", tol))
	}
	return func(c *validateConfig) { c.symTol = tol }
}

// Validate checks the structural and numeric invariants of p, fail-fast, in
// this order:
//
//  1. at least one block; every block is PSD with a positive size (ErrShapeMismatch);
//  2. len(C) == number of blocks (ErrShapeMismatch);
//  3. every A constraint index is ≥ 1 (ErrSizeMismatch);
//  4. every C_j and A_ij is non-nil and s_j×s_j, every A block index is in
//     range, and no constraint repeated a block with another shape
//     (ErrShapeMismatch);
//  5. the largest A constraint index equals len(B) (ErrSizeMismatch);
//  6. every entry of C, A and B is finite (ErrNonFinite);
//  7. every C_j and A_ij is symmetric within tolerance (ErrAsymmetry).
//
// Validate has no side effects.
func (p *Problem) Validate(opts ...ValidateOption) error {
	cfg := validateConfig{symTol: DefaultSymmetryTolerance}
	for _, o := range opts {
		o(&cfg)
	}
	if p == nil {
		return fmt.Errorf("problem is nil: %w", ErrShapeMismatch)
	}

	if len(p.Blocks) == 0 {
		return fmt.Errorf("no blocks: %w", ErrShapeMismatch)
	}
	for j, b := range p.Blocks {
		if b.Cone != ConePSD {
			return fmt.Errorf("block %d: cone %q: %w", j+1, b.Cone, ErrShapeMismatch)
		}
		if b.Size <= 0 {
			return fmt.Errorf("block %d: size %d: %w", j+1, b.Size, ErrShapeMismatch)
		}
	}

	if len(p.C) != len(p.Blocks) {
		return fmt.Errorf("C has %d blocks, want %d: %w", len(p.C), len(p.Blocks), ErrShapeMismatch)
	}

	for j, c := range p.C {
		if err := checkShape(c, p.Blocks[j].Size); err != nil {
			return fmt.Errorf("C[%d]: %w", j+1, err)
		}
	}
	entries := p.Entries()
	for _, e := range entries {
		if e.Constraint < 1 {
			return fmt.Errorf("A[%d,%d]: constraint index must be >= 1: %w", e.Constraint, e.Block, ErrSizeMismatch)
		}
	}
	for _, e := range entries {
		if e.Block < 1 || e.Block > len(p.Blocks) {
			return fmt.Errorf("A[%d,%d]: block index out of range 1..%d: %w", e.Constraint, e.Block, len(p.Blocks), ErrShapeMismatch)
		}
		if err := checkShape(p.A[e], p.Blocks[e.Block-1].Size); err != nil {
			return fmt.Errorf("A[%d,%d]: %w", e.Constraint, e.Block, err)
		}
	}
	if p.buildErr != nil {
		return p.buildErr
	}

	implied := 0
	for _, e := range entries {
		if e.Constraint > implied {
			implied = e.Constraint
		}
	}
	if implied != len(p.B) {
		return fmt.Errorf("A implies %d constraints, b has %d: %w", implied, len(p.B), ErrSizeMismatch)
	}

	for j, c := range p.C {
		if err := matrix.ValidateFinite(c); err != nil {
			return fmt.Errorf("C[%d]: %w: %v", j+1, ErrNonFinite, err)
		}
	}
	for _, e := range entries {
		if err := matrix.ValidateFinite(p.A[e]); err != nil {
			return fmt.Errorf("A[%d,%d]: %w: %v", e.Constraint, e.Block, ErrNonFinite, err)
		}
	}
	for i, v := range p.B {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("b[%d] = %g: %w", i+1, v, ErrNonFinite)
		}
	}

	for j, c := range p.C {
		if err := checkSymmetric(c, cfg.symTol); err != nil {
			return fmt.Errorf("C[%d]: %w", j+1, err)
		}
	}
	for _, e := range entries {
		if err := checkSymmetric(p.A[e], cfg.symTol); err != nil {
			return fmt.Errorf("A[%d,%d]: %w", e.Constraint, e.Block, err)
		}
	}

	return nil
}

// checkShape requires a non-nil size×size matrix.
func checkShape(m matrix.Matrix, size int) error {
	if matrix.ValidateNotNil(m) != nil {
		return fmt.Errorf("missing matrix: %w", ErrShapeMismatch)
	}
	if m.Rows() != size || m.Cols() != size {
		return fmt.Errorf("shape %dx%d, block size %d: %w", m.Rows(), m.Cols(), size, ErrShapeMismatch)
	}
	return nil
}

// checkSymmetric translates the matrix package verdict into ErrAsymmetry.
func checkSymmetric(m matrix.Matrix, tol float64) error {
	err := matrix.ValidateSymmetricRel(m, tol)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, matrix.ErrAsymmetry):
		return fmt.Errorf("%w: %v", ErrAsymmetry, err)
	default:
		return fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
}
