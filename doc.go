// Package lvsdp solves block-diagonal semidefinite programs through one
// canonical surface, whichever interior-point backend runs underneath.
//
// 🚀 What is lvsdp?
//
//	A small, pure-Go toolkit that brings together:
//		• A canonical problem model: PSD blocks, constraint entries, warm starts
//		• Two backend families: primal-form (A) and dual/negated-form (B)
//		• Adapters that translate data in and results out of each family
//		• One termination vocabulary: OPTIMAL, PRIMAL_INFEASIBLE,
//		  DUAL_INFEASIBLE, BOTH_INFEASIBLE, INDETERMINATE
//		• Benchmark generators: MaxCut, Lovász theta, random feasible
//
// ✨ Why choose lvsdp?
//
//   - One call – solver.Solve(problem, warmStart, family)
//   - Same answer, same status – the dual-form backend's sign flips and role
//     swaps never leak to callers
//   - Explicit failures – shape, size, symmetry and selector errors surface
//     before any backend runs
//   - Pure Go – no cgo
//
// Under the hood:
//
//	matrix/           — Dense and Sparse matrices, Cholesky, symmetric eigenvalues
//	sdp/              — Problem, WarmStart, Result, validation, file codec
//	internal/ipm/     — homogeneous self-dual interior-point kernel
//	backend/          — primalform and dualform solver routines
//	status/           — native status → canonical termination tables
//	adapter/          — per-family Prepare / Invoke / Postprocess
//	solver/           — Dispatcher: validation, selection, logging, metrics, tracing
//	builder/          — benchmark instance generators
//	config/, server/  — viper configuration, gin HTTP surface
//	cmd/lvsdp/        — the lvsdp command
//
// Quick example:
//
//	p := sdp.NewProblem(2)
//	p.SetObjective(1, c)
//	p.AddConstraint(1, sdp.Term{Block: 1, A: a1})
//	res, err := solver.Solve(p, nil, sdp.FamilyDual)
//
//	go get github.com/katalvlaran/lvsdp
package lvsdp
