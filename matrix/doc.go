// SPDX-License-Identifier: MIT

// Package matrix provides the small dense/sparse linear-algebra layer used by
// the SDP data model, the interior-point kernel and the backend adapters.
//
// The matrix package provides:
//
//   - Matrix, a minimal row/column accessor interface with error-returning
//     At/Set (no panics on user input).
//   - Dense, a row-major float64 buffer with fast-paths in every kernel.
//   - Sparse, a triplet map for constraint matrices that are mostly zero;
//     kernels accept it transparently through the Matrix interface.
//   - Kernels: Add, Sub, AddScaled, Mul, Transpose, Scale, Dot, FrobeniusNorm,
//     Trace, Eigen (Jacobi), MinEigenvalue, Cholesky, SolveLower, SolveCholesky
//     and InverseSPD.
//   - Central validators (ValidateSymmetric, ValidateSymmetricRel,
//     ValidateFinite, ...) returning package sentinels that callers match
//     with errors.Is.
//
// Every kernel allocates a fresh *Dense result and never mutates its inputs.
// Loop orders are fixed, so results are bit-for-bit reproducible.
package matrix
