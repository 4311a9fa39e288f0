// SPDX-License-Identifier: MIT
// Package matrix — public API facades.
//
// Purpose:
//   - Provide thin entry points for common tasks across the package.
//   - Each facade delegates to the canonical kernel; no logic duplication.
//
// AI-Hints:
//   - Prefer passing *Dense to skip densification in kernels.
//   - Use MinEigenvalue for PSD margin checks; it scales the Jacobi tolerance to the input.

package matrix

import "math"

// NewIdentity returns I_n (n×n identity; ones on the diagonal, zeros elsewhere).
// Complexity: O(n^2) zeroing (constructor) + O(n) writes on the diagonal.
func NewIdentity(n int) (*Dense, error) {
	id, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		id.data[i*n+i] = 1.0
	}

	return id, nil
}

// NewScaledIdentity returns alpha·I_n.
func NewScaledIdentity(n int, alpha float64) (*Dense, error) {
	id, err := NewIdentity(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		id.data[i*n+i] = alpha
	}

	return id, nil
}

// Symmetrize returns (m + mᵀ)/2.
// Complexity: O(rc) per stage (transpose, add, scale).
func Symmetrize(m Matrix) (Matrix, error) {
	mt, err := Transpose(m)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}
	sum, err := Add(m, mt)
	if err != nil {
		return nil, matrixErrorf(opSymmetrize, err)
	}

	return Scale(sum, 0.5)
}

// MinEigenvalue returns the smallest eigenvalue of a symmetric matrix. The
// Jacobi tolerance is relTol·(1+‖m‖F) and the rotation budget grows with n².
// Errors: as Eigen.
func MinEigenvalue(m Matrix, relTol float64) (float64, error) {
	norm, err := FrobeniusNorm(m)
	if err != nil {
		return 0, err
	}
	n := m.Rows()
	eigs, _, err := Eigen(m, relTol*(1+norm), 100*n*n+100)
	if err != nil {
		return 0, err
	}
	low := math.Inf(1)
	for _, v := range eigs {
		low = math.Min(low, v)
	}

	return low, nil
}
