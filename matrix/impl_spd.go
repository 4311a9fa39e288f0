// SPDX-License-Identifier: MIT

// Package matrix - symmetric positive definite kernels.
//
// Purpose:
//   - Cholesky factorization m = L·Lᵀ as the membership test for the open PSD cone
//     and as the workhorse for Schur-complement solves.
//   - Triangular solves and SPD inversion built on top of it.
//
// AI-Hints:
//   - Use IsPositiveDefinite as a cheap interior check before accepting a step.
//   - Prefer SolveCholesky over InverseSPD when only one right-hand side is needed.

package matrix

import (
	"fmt"
	"math"
)

// Cholesky returns the lower-triangular factor L with m = L·Lᵀ.
// Only the lower triangle of m is read; callers validate symmetry upstream.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare.
//   - ErrNotPositiveDefinite when a pivot is ≤ 0 or not finite.
//
// Complexity:
//   - Time O(n³/3), Space O(n²).
func Cholesky(m Matrix) (*Dense, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	src, err := ToDense(m)
	if err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	n := src.r
	l, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}

	var i, j, k int
	var sum float64
	for j = 0; j < n; j++ {
		sum = src.data[j*n+j]
		for k = 0; k < j; k++ {
			sum -= l.data[j*n+k] * l.data[j*n+k]
		}
		if !(sum > 0) || math.IsInf(sum, 0) {
			return nil, matrixErrorf(opCholesky, fmt.Errorf("pivot %d = %g: %w", j, sum, ErrNotPositiveDefinite))
		}
		l.data[j*n+j] = math.Sqrt(sum)
		for i = j + 1; i < n; i++ {
			sum = src.data[i*n+j]
			for k = 0; k < j; k++ {
				sum -= l.data[i*n+k] * l.data[j*n+k]
			}
			l.data[i*n+j] = sum / l.data[j*n+j]
		}
	}

	return l, nil
}

// IsPositiveDefinite reports whether Cholesky succeeds on m.
func IsPositiveDefinite(m Matrix) bool {
	_, err := Cholesky(m)
	return err == nil
}

// SolveLower solves L·W = B for W by forward substitution, L lower triangular
// with a non-zero diagonal.
// Errors: ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch, ErrSingular.
func SolveLower(l, b Matrix) (*Dense, error) {
	if err := ValidateSquareNonNil(l); err != nil {
		return nil, matrixErrorf(opSolveLower, err)
	}
	if err := ValidateMulCompatible(l, b); err != nil {
		return nil, matrixErrorf(opSolveLower, err)
	}
	ld, err := ToDense(l)
	if err != nil {
		return nil, matrixErrorf(opSolveLower, err)
	}
	bd, err := ToDense(b)
	if err != nil {
		return nil, matrixErrorf(opSolveLower, err)
	}
	n, c := ld.r, bd.c
	w := bd.Clone().(*Dense)

	var i, j, k int
	var piv float64
	for i = 0; i < n; i++ {
		piv = ld.data[i*n+i]
		if piv == ZeroPivot {
			return nil, matrixErrorf(opSolveLower, ErrSingular)
		}
		for k = 0; k < i; k++ {
			if ld.data[i*n+k] == 0 {
				continue
			}
			for j = 0; j < c; j++ {
				w.data[i*c+j] -= ld.data[i*n+k] * w.data[k*c+j]
			}
		}
		for j = 0; j < c; j++ {
			w.data[i*c+j] /= piv
		}
	}

	return w, nil
}

// SolveCholesky solves (L·Lᵀ)·x = b given the Cholesky factor L.
// Errors: ErrNilMatrix, ErrNonSquare, ErrDimensionMismatch.
func SolveCholesky(l *Dense, b []float64) ([]float64, error) {
	if l == nil {
		return nil, matrixErrorf(opSolveChol, ErrNilMatrix)
	}
	if err := ValidateSquare(l); err != nil {
		return nil, matrixErrorf(opSolveChol, err)
	}
	if err := ValidateVecLen(b, l.r); err != nil {
		return nil, matrixErrorf(opSolveChol, err)
	}
	n := l.r
	x := make([]float64, n)
	copy(x, b)

	var i, k int
	for i = 0; i < n; i++ {
		for k = 0; k < i; k++ {
			x[i] -= l.data[i*n+k] * x[k]
		}
		x[i] /= l.data[i*n+i]
	}
	for i = n - 1; i >= 0; i-- {
		for k = i + 1; k < n; k++ {
			x[i] -= l.data[k*n+i] * x[k]
		}
		x[i] /= l.data[i*n+i]
	}

	return x, nil
}

// InverseSPD returns m⁻¹ for a symmetric positive definite m. The result is
// exactly symmetric (the upper triangle is mirrored from the lower one).
// Errors: as Cholesky.
func InverseSPD(m Matrix) (*Dense, error) {
	l, err := Cholesky(m)
	if err != nil {
		return nil, matrixErrorf(opInverseSPD, err)
	}
	n := l.r
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverseSPD, err)
	}
	e := make([]float64, n)
	var col, i int
	var x []float64
	for col = 0; col < n; col++ {
		for i = range e {
			e[i] = 0
		}
		e[col] = 1
		if x, err = SolveCholesky(l, e); err != nil {
			return nil, matrixErrorf(opInverseSPD, err)
		}
		for i = col; i < n; i++ {
			inv.data[i*n+col] = x[i]
			inv.data[col*n+i] = x[i]
		}
	}

	return inv, nil
}
