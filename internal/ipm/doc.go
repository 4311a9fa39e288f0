// SPDX-License-Identifier: MIT

// Package ipm is a primal-dual interior-point kernel for block-diagonal SDPs
//
//	min ⟨C, X⟩  s.t.  A(X) = b,  X ⪰ 0
//	max b·y     s.t.  A*(y) + Z = C,  Z ⪰ 0
//
// solved through the homogeneous self-dual embedding, so a single run ends
// either with an optimal pair or with a certificate of primal and/or dual
// infeasibility.
//
// Implementation:
//   - Stage 1: start from X = Z = s·I, y = 0, τ = 1, κ = s² (or a warm start).
//   - Stage 2: each iteration forms the HKM Schur complement
//     M_ik = Σ_j ⟨X_j A_ij, A_kj Z_j⁻¹⟩, factors it once and solves a
//     predictor (σ = 0) and a corrector (σ = (μ_aff/μ)³) direction.
//   - Stage 3: the step is a fixed fraction of the largest step keeping
//     X, Z, τ, κ interior, found from λ_min(L⁻¹ΔX L⁻ᵀ) and confirmed by Cholesky.
//   - Stage 4: stop on optimality, an infeasibility certificate, a stalled
//     step, numerical breakdown, a monitor veto or the iteration cap.
//
// Complexity:
//   - Per iteration O(m²·Σ s_j² + m·Σ s_j³ + m³).
//
// The package is internal: the backend packages wrap it behind their native
// argument and status contracts.
package ipm
