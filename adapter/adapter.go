// SPDX-License-Identifier: MIT

// Package adapter bridges the canonical sdp.Problem to the native contracts of
// the backend solvers.
//
// Each backend family has one Adapter. A solve is three steps:
//
//	args, err := a.Prepare(p, ws)   // canonical → native arguments
//	raw, err := a.Invoke(args)      // run the native routine
//	out, err := a.Postprocess(raw)  // native → canonical orientation
//
// Prepare and Postprocess own every layout and sign convention of their
// backend; nothing outside this package sees native argument or result types.
// Status interpretation is left to package status.
package adapter

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvsdp/matrix"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/katalvlaran/lvsdp/status"
)

var (
	// ErrForeignArgs is returned when Invoke or Postprocess receives a value
	// produced by a different adapter.
	ErrForeignArgs = errors.New("adapter: value belongs to another backend")

	// ErrInvalidOptions wraps option records rejected by validation.
	ErrInvalidOptions = errors.New("adapter: invalid options")
)

// Adapter is the per-family bridge used by the dispatcher.
type Adapter interface {
	Family() sdp.Family
	Capabilities() Capabilities
	Prepare(p *sdp.Problem, ws *sdp.WarmStart) (Args, error)
	Invoke(args Args) (Raw, error)
	Postprocess(raw Raw) (Outcome, error)
}

// Capabilities are optional backend features, resolved once when the
// adapter is built.
type Capabilities struct {
	// WarmStart reports that the backend accepts an initial point.
	WarmStart bool `json:"warm_start" yaml:"warm_start"`
	// PrintLevel reports that the backend honours the numeric print level;
	// without it the legacy verbosity switch is used.
	PrintLevel bool `json:"print_level" yaml:"print_level"`
}

// Args is a prepared native argument bundle.
type Args interface {
	Family() sdp.Family
}

// Raw is a native result as returned by the backend routine.
type Raw interface {
	Family() sdp.Family
}

// Outcome is a backend result in canonical orientation, before status
// normalisation.
type Outcome struct {
	Objective  [2]float64
	X          []matrix.Matrix
	Y          []float64
	Z          []matrix.Matrix
	Native     status.NativeStatus
	Iterations int
}

// checkLayout guards the index arithmetic of Prepare; Validate reports the
// same conditions with more context.
func checkLayout(p *sdp.Problem) error {
	m, nb := p.NumConstraints(), p.NumBlocks()
	if len(p.C) != nb {
		return fmt.Errorf("%d objective blocks for %d blocks: %w", len(p.C), nb, sdp.ErrShapeMismatch)
	}
	for e := range p.A {
		if e.Block < 1 || e.Block > nb || e.Constraint < 1 || e.Constraint > m {
			return fmt.Errorf("A[%d,%d]: %w", e.Constraint, e.Block, sdp.ErrShapeMismatch)
		}
	}
	return nil
}

// densify returns an independent dense copy of m.
func densify(m matrix.Matrix) (*matrix.Dense, error) {
	if d, ok := m.(*matrix.Dense); ok {
		return d.Clone().(*matrix.Dense), nil
	}
	return matrix.ToDense(m)
}

// negated returns −m as a new dense matrix.
func negated(m matrix.Matrix) (*matrix.Dense, error) {
	n, err := matrix.Scale(m, -1)
	if err != nil {
		return nil, err
	}
	return matrix.ToDense(n)
}

func denseBlocks(ms []matrix.Matrix, tag string) ([]matrix.Matrix, error) {
	out := make([]matrix.Matrix, len(ms))
	for j, m := range ms {
		d, err := densify(m)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", tag, j+1, err)
		}
		out[j] = d
	}
	return out, nil
}
