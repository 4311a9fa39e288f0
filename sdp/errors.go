// SPDX-License-Identifier: MIT

package sdp

import "errors"

var (
	// ErrShapeMismatch reports a block descriptor, objective or constraint
	// matrix whose dimensions disagree with the block structure.
	ErrShapeMismatch = errors.New("sdp: shape mismatch")

	// ErrSizeMismatch reports a constraint count implied by A that differs from len(b),
	// or a constraint index below 1.
	ErrSizeMismatch = errors.New("sdp: size mismatch")

	// ErrAsymmetry reports a matrix that is not symmetric within tolerance.
	ErrAsymmetry = errors.New("sdp: matrix is not symmetric")

	// ErrUnknownBackend reports a backend selector that names no registered adapter.
	ErrUnknownBackend = errors.New("sdp: unknown backend")

	// ErrNonFinite reports a NaN or ±Inf in problem data.
	ErrNonFinite = errors.New("sdp: non-finite value")

	// ErrBadWarmStart reports a warm start that is not congruent with the problem.
	ErrBadWarmStart = errors.New("sdp: warm start does not match problem")

	// ErrNoSolution is returned by Residuals for a result that carries no solution triple.
	ErrNoSolution = errors.New("sdp: result carries no solution")

	// ErrBadFormat reports an unsupported or malformed problem/result file.
	ErrBadFormat = errors.New("sdp: bad file format")
)
