// SPDX-License-Identifier: MIT

// Package builder generates benchmark SDP instances in the functional-options
// style: a Topology describes a weighted graph, and the problem constructors
// turn graphs (or raw sizes) into *sdp.Problem values ready for a solver.
//
// The package offers the following key components:
//
//   - Graph topologies (Topology implementations):
//     – Cycle(n), Path(n), Star(n), Wheel(n), Complete(n): deterministic.
//     – Grid(rows, cols): 4-neighbour lattice.
//     – RandomSparse(n, p): Erdős–Rényi, needs WithSeed or WithRand.
//   - Problem constructors:
//     – MaxCut:         Goemans–Williamson relaxation, min ⟨−L/4, X⟩, diag(X) = 1.
//     – Theta:          Lovász theta, min ⟨−J, X⟩, tr X = 1, X_ij = 0 on edges.
//     – RandomFeasible: random data built around a strictly feasible pair
//     (X = I, Z = I), so an optimum exists.
//   - Options:
//     – WithSeed / WithRand: RNG for stochastic constructors.
//     – WithWeightFn:        edge weights (DefaultWeightFn, ConstantWeightFn,
//     UniformWeightFn).
//     – WithDense:           emit dense instead of sparse constraint matrices.
//
// Guarantees:
//
//   - Deterministic output for a fixed seed: vertices, edges and constraints
//     are emitted in ascending index order.
//   - Option constructors panic on meaningless input (nil RNG, nil weight
//     function); constructors themselves only return sentinel errors.
//   - Every returned problem passes sdp.Problem.Validate.
//
// Reference values used by the tests: the MaxCut relaxation of C_n for odd n
// is n(1 + cos(π/n))/2 and of K_n is n²/4; ϑ(C_5) = √5 and ϑ(K_n) = 1.
package builder
