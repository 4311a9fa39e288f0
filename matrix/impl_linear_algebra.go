// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// element-wise addition and subtraction, multiplication, transpose, scaling
// and the Jacobi eigen-solver.
// All functions perform strict fail-fast validation and return clear errors on
// dimension mismatches.
//
// Purpose:
//   - Declare canonical linear-algebra kernels used by the SDP layers.
//   - Define operation tags and shared constants for determinism and error reporting.
//
// Notes:
//   - Operands are densified once through ToDense (no copy for *Dense), so every
//     kernel runs a single flat-slice loop nest regardless of the input type.
//   - All kernels use the central validators and wrap failures via matrixErrorf.

package matrix

import (
	"fmt"
	"math"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroSum is the initial sum value for forward/backward substitution and similar.
const ZeroSum = 0.0

// ZeroPivot is the sentinel for detecting a zero pivot in triangular solves.
const ZeroPivot = 0.0

// Operation name constants for unified error wrapping.
const (
	opAdd        = "Add"
	opSub        = "Sub"
	opMul        = "Mul"
	opTranspose  = "Transpose"
	opScale      = "Scale"
	opEigen      = "Eigen"
	opToDense    = "ToDense"
	opCholesky   = "Cholesky"
	opSolveLower = "SolveLower"
	opSolveChol  = "SolveCholesky"
	opInverseSPD = "InverseSPD"
	opDot        = "Dot"
	opNorm       = "FrobeniusNorm"
	opTrace      = "Trace"
	opAddScaled  = "AddScaled"
	opSymmetrize = "Symmetrize"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// densePair validates a and b for an element-wise kernel and densifies both.
func densePair(a, b Matrix, opTag string) (*Dense, *Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, nil, matrixErrorf(opTag, err)
	}
	da, err := ToDense(a)
	if err != nil {
		return nil, nil, matrixErrorf(opTag, err)
	}
	db, err := ToDense(b)
	if err != nil {
		return nil, nil, matrixErrorf(opTag, err)
	}

	return da, db, nil
}

// addSub computes elementwise out = a + sign*b for sign ∈ {+1, -1}.
// A fresh Dense is allocated; operands are not mutated.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the new result.
func addSub(a, b Matrix, sign float64, opTag string) (Matrix, error) {
	da, db, err := densePair(a, b, opTag)
	if err != nil {
		return nil, err
	}
	res, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	for k := range res.data {
		res.data[k] = da.data[k] + sign*db.data[k]
	}

	return res, nil
}

// Add returns a + b.
// Errors: ErrNilMatrix, ErrDimensionMismatch (wrapped with "Add").
func Add(a, b Matrix) (Matrix, error) { return addSub(a, b, +1, opAdd) }

// Sub returns a - b.
// Errors: ErrNilMatrix, ErrDimensionMismatch (wrapped with "Sub").
func Sub(a, b Matrix) (Matrix, error) { return addSub(a, b, -1, opSub) }

// AddScaled returns a + alpha*b without touching either operand. It is the
// "X + α·dX" update of iterative solvers.
func AddScaled(a Matrix, alpha float64, b Matrix) (Matrix, error) {
	da, db, err := densePair(a, b, opAddScaled)
	if err != nil {
		return nil, err
	}
	res, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opAddScaled, err)
	}
	for k := range res.data {
		res.data[k] = da.data[k] + alpha*db.data[k]
	}

	return res, nil
}

// Mul returns the matrix product a·b.
//
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b), densify both operands.
//   - Stage 2: i-k-j loop order over flat slices; zero entries of a are skipped,
//     which keeps products with mostly-zero constraint matrices cheap.
//
// Complexity:
//   - Time O(r·k·c), Space O(r·c).
func Mul(a, b Matrix) (Matrix, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := ToDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := ToDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	aRows, aCols, bCols := da.r, da.c, db.c
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, j, k                            int
		rowOffsetA, rowOffsetB, rowOffsetR int
		av                                 float64
	)
	for i = 0; i < aRows; i++ {
		rowOffsetA = i * aCols
		rowOffsetR = i * bCols
		for k = 0; k < aCols; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue
			}
			rowOffsetB = k * bCols
			for j = 0; j < bCols; j++ {
				res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ as a new Dense.
func Transpose(m Matrix) (Matrix, error) {
	d, err := ToDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	rows, cols := d.r, d.c
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	var i, j, baseSrc int
	for i = 0; i < rows; i++ {
		baseSrc = i * cols
		for j = 0; j < cols; j++ {
			res.data[j*rows+i] = d.data[baseSrc+j]
		}
	}

	return res, nil
}

// Scale returns alpha·m as a new Dense.
func Scale(m Matrix, alpha float64) (Matrix, error) {
	d, err := ToDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res, err := NewDense(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for k := range res.data {
		res.data[k] = alpha * d.data[k]
	}

	return res, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix using the
// cyclic-by-largest-pivot Jacobi method.
//
// Implementation:
//   - Stage 1: ValidateSymmetric(m, tol); clone m into a working buffer, Q = I.
//   - Stage 2: repeat up to maxIter rotations: pick the largest off-diagonal
//     |A[p,q]|, stop when it is below tol, otherwise annihilate it with a Givens
//     rotation applied to A (both sides) and accumulated into Q.
//   - Stage 3: if the largest off-diagonal is still ≥ tol, fail.
//
// Returns:
//   - eigenvalues in diagonal order (unsorted) and Q whose columns are the
//     corresponding eigenvectors.
//
// Errors:
//   - ErrAsymmetry / ErrDimensionMismatch from the symmetry validator.
//   - ErrMatrixEigenFailed when maxIter rotations do not reach tol.
//
// Complexity:
//   - Time O(maxIter·n), Space O(n²).
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, Matrix, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	src, err := ToDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	n := src.r
	a := src.Clone().(*Dense)
	q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	var (
		iter, i, j, base, p, r int
		maxOff, off            float64
		app, arr, apr          float64
		aip, air, qip, qir     float64
		theta, t, c, s         float64
	)
	largestOff := func() {
		maxOff = NormZero
		for i = 0; i < n; i++ {
			base = i * n
			for j = i + 1; j < n; j++ {
				off = math.Abs(a.data[base+j])
				if off > maxOff {
					maxOff, p, r = off, i, j
				}
			}
		}
	}

	for iter = 0; iter < maxIter; iter++ {
		largestOff()
		if maxOff < tol {
			break
		}
		app = a.data[p*n+p]
		arr = a.data[r*n+r]
		apr = a.data[p*n+r]

		theta = (arr - app) / (2 * apr)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		for i = 0; i < n; i++ {
			if i == p || i == r {
				continue
			}
			aip = a.data[i*n+p]
			air = a.data[i*n+r]
			a.data[i*n+p] = c*aip - s*air
			a.data[p*n+i] = a.data[i*n+p]
			a.data[i*n+r] = s*aip + c*air
			a.data[r*n+i] = a.data[i*n+r]
		}
		a.data[p*n+p] = c*c*app - 2*c*s*apr + s*s*arr
		a.data[r*n+r] = s*s*app + 2*c*s*apr + c*c*arr
		a.data[p*n+r], a.data[r*n+p] = 0, 0

		for i = 0; i < n; i++ {
			qip = q.data[i*n+p]
			qir = q.data[i*n+r]
			q.data[i*n+p] = c*qip - s*qir
			q.data[i*n+r] = s*qip + c*qir
		}
	}

	largestOff()
	if maxOff >= tol {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}
	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = a.data[i*n+i]
	}

	return eigs, q, nil
}
