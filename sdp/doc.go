// SPDX-License-Identifier: MIT

// Package sdp defines the canonical block-diagonal semidefinite program and the
// backend-neutral result contract.
//
// The canonical problem is
//
//	min Σ_j ⟨C_j, X_j⟩  s.t.  Σ_j ⟨A_ij, X_j⟩ = b_i (i = 1..m),  X_j ⪰ 0
//
// with dual
//
//	max b·y  s.t.  Σ_i y_i A_ij + Z_j = C_j,  Z_j ⪰ 0.
//
// The package provides:
//
//   - Problem with Validate, the single gate every solve passes through.
//   - WarmStart, an optional initial (X, y, Z) triple.
//   - Result, the normalised outcome: objective pair, solution triple and a
//     Termination drawn from a closed enumeration.
//   - Family, the backend selector.
//   - DecodeProblem / EncodeResult for YAML and JSON files.
//
// Errors are package sentinels (ErrShapeMismatch, ErrSizeMismatch,
// ErrAsymmetry, ErrUnknownBackend, ...) wrapped with context; match them with
// errors.Is.
package sdp
