// SPDX-License-Identifier: MIT
// Package: lvsdp/builder
//
// errors.go — sentinel errors for the builder package.
//
// Callers branch with errors.Is; implementations attach context as
// "<Method>: <detail>: %w".

package builder

import "errors"

// ErrTooFewVertices indicates that a size parameter (n, rows, cols, m) is
// below the constructor's minimum.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates a probability outside [0, 1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates that a stochastic constructor ran without
// WithSeed or WithRand.
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrEmptyGraph indicates a problem constructor received a graph it cannot
// use, e.g. MaxCut on a graph without edges.
var ErrEmptyGraph = errors.New("builder: graph has no edges")
