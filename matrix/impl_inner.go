// SPDX-License-Identifier: MIT

// Package matrix - Frobenius inner products and norms.
//
// The trace inner product ⟨A, B⟩ = Σ a_ij·b_ij = tr(AᵀB) is the pairing used by
// every SDP objective and constraint, so it gets dedicated kernels that skip
// the zero entries of sparse operands.

package matrix

import "math"

// Dot returns the Frobenius inner product ⟨a, b⟩ = Σ_ij a_ij·b_ij.
// When either operand is *Sparse only its stored entries are visited.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
func Dot(a, b Matrix) (float64, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return 0, matrixErrorf(opDot, err)
	}
	if sa, ok := a.(*Sparse); ok {
		return sparseDot(sa, b)
	}
	if sb, ok := b.(*Sparse); ok {
		return sparseDot(sb, a)
	}
	da, db, err := densePair(a, b, opDot)
	if err != nil {
		return 0, err
	}
	sum := ZeroSum
	for k := range da.data {
		sum += da.data[k] * db.data[k]
	}

	return sum, nil
}

// sparseDot sums s_ij·other_ij over the stored entries of s in row-major order.
func sparseDot(s *Sparse, other Matrix) (float64, error) {
	sum := ZeroSum
	var err error
	s.Do(func(i, j int, v float64) bool {
		var o float64
		if o, err = other.At(i, j); err != nil {
			return false
		}
		sum += v * o
		return true
	})
	if err != nil {
		return 0, matrixErrorf(opDot, err)
	}

	return sum, nil
}

// FrobeniusNorm returns sqrt(⟨m, m⟩).
func FrobeniusNorm(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opNorm, err)
	}
	v, err := Dot(m, m)
	if err != nil {
		return 0, matrixErrorf(opNorm, err)
	}

	return math.Sqrt(v), nil
}

// Trace returns Σ m_ii of a square matrix.
// Errors: ErrNilMatrix, ErrNonSquare.
func Trace(m Matrix) (float64, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return 0, matrixErrorf(opTrace, err)
	}
	sum := ZeroSum
	for i := 0; i < m.Rows(); i++ {
		v, err := m.At(i, i)
		if err != nil {
			return 0, matrixErrorf(opTrace, err)
		}
		sum += v
	}

	return sum, nil
}

// MaxAbs returns max |m_ij|, zero for an all-zero matrix.
// Errors: ErrNilMatrix.
func MaxAbs(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, err
	}
	best := NormZero
	if s, ok := m.(*Sparse); ok {
		for _, v := range s.nz {
			best = math.Max(best, math.Abs(v))
		}
		return best, nil
	}
	d, err := ToDense(m)
	if err != nil {
		return 0, err
	}
	for _, v := range d.data {
		best = math.Max(best, math.Abs(v))
	}

	return best, nil
}
