// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for common validation checks.
//  - Keep kernels minimal by delegating shape/nil/symmetry/finiteness checks here.
//  - Return sentinel errors tagged with the validator name so call sites can wrap uniformly.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.
//  - Symmetry checks run O(n²) on the upper triangle only.
//
// AI-Hints:
//  - Use ValidateSymmetric (absolute) before spectral methods (Jacobi) to fail fast.
//  - Use ValidateSymmetricRel for user data whose magnitude is unknown.
//  - Use ValidateFinite at ingestion boundaries; kernels assume finite inputs.

package matrix

import (
	"fmt"
	"math"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures the matrix reference is non-nil, including typed nil
// pointers of the package's own implementations.
// Complexity: O(1).
func ValidateNotNil(m Matrix) error {
	switch v := m.(type) {
	case nil:
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	case *Dense:
		if v == nil {
			return validatorErrorf("ValidateNotNil", ErrNilMatrix)
		}
	case *Sparse:
		if v == nil {
			return validatorErrorf("ValidateNotNil", ErrNilMatrix)
		}
	}

	return nil
}

// ValidateSameShape ensures matrices a and b have equal dimensions.
// Assumes a and b are not nil (caller must ensure).
func ValidateSameShape(a, b Matrix) error {
	if a.Rows() != b.Rows() {
		return validatorErrorf("ValidateSameShape: Rows", ErrDimensionMismatch)
	}
	if a.Cols() != b.Cols() {
		return validatorErrorf("ValidateSameShape: Columns", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSquare checks that m is square (Rows == Cols).
// Errors: ErrNonSquare.
func ValidateSquare(m Matrix) error {
	if m.Rows() != m.Cols() {
		return validatorErrorf("ValidateSquare", ErrNonSquare)
	}

	return nil
}

// ValidateVecLen ensures the vector length matches the required size n.
func ValidateVecLen(x []float64, n int) error {
	if x == nil && n > 0 {
		return validatorErrorf("ValidateVecLen", ErrNilMatrix)
	}
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", ErrDimensionMismatch)
	}

	return nil
}

// ValidateBinarySameShape – Composite: NotNil(a) → NotNil(b) → SameShape.
func ValidateBinarySameShape(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return validatorErrorf("ValidateBinarySameShape", err)
	}

	return nil
}

// ValidateSquareNonNil – Composite: NotNil → Square.
func ValidateSquareNonNil(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSquareNonNil", err)
	}
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSquareNonNil", err)
	}

	return nil
}

// ValidateMulCompatible – Composite: NotNil(a) → NotNil(b) → a.Cols == b.Rows.
func ValidateMulCompatible(a, b Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return validatorErrorf("ValidateMulCompatible", err)
	}
	if a.Cols() != b.Rows() {
		return validatorErrorf("ValidateMulCompatible", ErrDimensionMismatch)
	}

	return nil
}

// ValidateSymmetric checks A is symmetric within the absolute tolerance tol:
// |A[i,j] - A[j,i]| ≤ tol for all i<j.
//
// Returns ErrNilMatrix/ErrNonSquare on structural issues, ErrNaNInf on a bad
// tol, ErrAsymmetry on violation.
// Complexity: O(n²). Space: O(1).
func ValidateSymmetric(m Matrix, tol float64) error {
	if err := ValidateSquareNonNil(m); err != nil {
		return validatorErrorf("ValidateSymmetric", err)
	}
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return validatorErrorf("ValidateSymmetric", ErrNaNInf)
	}

	return checkSymmetry(m, math.Abs(tol), "ValidateSymmetric")
}

// ValidateSymmetricRel checks symmetry relative to the matrix magnitude:
// |A[i,j] - A[j,i]| ≤ tol·max(1, max|A|).
//
// Errors: as ValidateSymmetric.
func ValidateSymmetricRel(m Matrix, tol float64) error {
	if err := ValidateSquareNonNil(m); err != nil {
		return validatorErrorf("ValidateSymmetricRel", err)
	}
	if math.IsNaN(tol) || math.IsInf(tol, 0) {
		return validatorErrorf("ValidateSymmetricRel", ErrNaNInf)
	}
	scale, err := MaxAbs(m)
	if err != nil {
		return validatorErrorf("ValidateSymmetricRel", err)
	}

	return checkSymmetry(m, math.Abs(tol)*math.Max(1, scale), "ValidateSymmetricRel")
}

// checkSymmetry scans the strict upper triangle once in fixed i→j order. A
// *Sparse is checked over its stored entries only, in O(nnz).
func checkSymmetry(m Matrix, tol float64, tag string) error {
	n := m.Rows()
	if n <= 1 {
		return nil
	}
	if s, ok := m.(*Sparse); ok {
		return checkSparseSymmetry(s, tol, tag)
	}
	var (
		i, j     int
		aij, aji float64
		err      error
	)
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			if aij, err = m.At(i, j); err != nil {
				return validatorErrorf(tag, err)
			}
			if aji, err = m.At(j, i); err != nil {
				return validatorErrorf(tag, err)
			}
			if math.Abs(aij-aji) > tol {
				return validatorErrorf(tag, fmt.Errorf("(%d,%d) vs (%d,%d): %w", i, j, j, i, ErrAsymmetry))
			}
		}
	}

	return nil
}

// checkSparseSymmetry compares every stored (i, j) with its mirror; a missing
// mirror reads as zero.
func checkSparseSymmetry(s *Sparse, tol float64, tag string) error {
	for _, k := range s.sortedCells() {
		if k.i == k.j {
			continue
		}
		if math.Abs(s.nz[k]-s.nz[cell{k.j, k.i}]) > tol {
			i, j := min(k.i, k.j), max(k.i, k.j)
			return validatorErrorf(tag, fmt.Errorf("(%d,%d) vs (%d,%d): %w", i, j, j, i, ErrAsymmetry))
		}
	}

	return nil
}

// ValidateFinite checks that every entry of m is finite.
// Errors: ErrNilMatrix, ErrNaNInf (with the first offending coordinate).
func ValidateFinite(m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateFinite", err)
	}
	var bad error
	visit := func(i, j int, v float64) bool {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad = validatorErrorf("ValidateFinite", fmt.Errorf("(%d,%d): %w", i, j, ErrNaNInf))
			return false
		}
		return true
	}
	switch v := m.(type) {
	case *Dense:
		v.Do(visit)
	case *Sparse:
		v.Do(visit)
	default:
		for i := 0; i < m.Rows() && bad == nil; i++ {
			for j := 0; j < m.Cols(); j++ {
				x, err := m.At(i, j)
				if err != nil {
					return validatorErrorf("ValidateFinite", err)
				}
				if !visit(i, j, x) {
					break
				}
			}
		}
	}

	return bad
}
