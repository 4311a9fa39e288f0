// SPDX-License-Identifier: MIT

package adapter

import (
	"fmt"
	"io"

	"github.com/katalvlaran/lvsdp/backend/primalform"
	"github.com/katalvlaran/lvsdp/matrix"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/katalvlaran/lvsdp/status"
)

// PrimalRoutine has the signature of primalform.Solve.
type PrimalRoutine func(blk []int, At [][]matrix.Matrix, C []matrix.Matrix, b []float64,
	init *primalform.Init, par primalform.Params) (primalform.Solution, error)

// PrimalArgs is the native argument bundle of the primal-form backend.
// At[j][i] is the coefficient of constraint i on block j; nil is zero.
type PrimalArgs struct {
	Blk    []int
	At     [][]matrix.Matrix
	C      []matrix.Matrix
	B      []float64
	Init   *primalform.Init
	Params primalform.Params
}

// Family implements Args.
func (*PrimalArgs) Family() sdp.Family { return sdp.FamilyPrimal }

// PrimalRaw wraps a primal-form solution.
type PrimalRaw struct {
	Solution primalform.Solution
}

// Family implements Raw.
func (*PrimalRaw) Family() sdp.Family { return sdp.FamilyPrimal }

// Primal adapts the primal-form backend. Its orientation already matches the
// canonical problem, so Postprocess only repackages.
type Primal struct {
	Options PrimalOptions
	Caps    Capabilities
	// Routine is the native entry point; nil means primalform.Solve.
	Routine PrimalRoutine
	// Out receives backend printing; nil leaves the backend default.
	Out io.Writer
}

// NewPrimal validates opts (after defaults) and probes the backend features.
func NewPrimal(opts PrimalOptions) (*Primal, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	f := primalform.Features()

	return &Primal{
		Options: opts,
		Caps:    Capabilities{WarmStart: f.WarmStart, PrintLevel: f.PrintLevel},
		Routine: primalform.Solve,
	}, nil
}

// Family implements Adapter.
func (a *Primal) Family() sdp.Family { return sdp.FamilyPrimal }

// Capabilities implements Adapter.
func (a *Primal) Capabilities() Capabilities { return a.Caps }

// Prepare builds the block-major layout. ws is passed through when non-nil
// and the backend supports warm starts.
func (a *Primal) Prepare(p *sdp.Problem, ws *sdp.WarmStart) (Args, error) {
	if err := checkLayout(p); err != nil {
		return nil, err
	}
	m, nb := p.NumConstraints(), p.NumBlocks()
	args := &PrimalArgs{
		Blk:    p.BlockSizes(),
		At:     make([][]matrix.Matrix, nb),
		B:      append([]float64(nil), p.B...),
		Params: a.params(),
	}
	var err error
	if args.C, err = denseBlocks(p.C, "C"); err != nil {
		return nil, err
	}
	for j := range args.At {
		args.At[j] = make([]matrix.Matrix, m)
	}
	for _, e := range p.Entries() {
		d, err := densify(p.A[e])
		if err != nil {
			return nil, fmt.Errorf("A[%d,%d]: %w", e.Constraint, e.Block, err)
		}
		args.At[e.Block-1][e.Constraint-1] = d
	}
	if ws != nil && a.Caps.WarmStart {
		in := &primalform.Init{Y0: append([]float64(nil), ws.Y...)}
		if in.X0, err = denseBlocks(ws.X, "X0"); err != nil {
			return nil, err
		}
		if in.Z0, err = denseBlocks(ws.Z, "Z0"); err != nil {
			return nil, err
		}
		args.Init = in
	}

	return args, nil
}

// params maps the option record, choosing the verbosity field by capability.
func (a *Primal) params() primalform.Params {
	o := a.Options
	par := primalform.Params{
		MaxIter:   o.MaxIter,
		GapTol:    o.GapTol,
		InfeasTol: o.InfeasTol,
		StepTol:   o.StepTol,
		Out:       a.Out,
	}
	if a.Caps.PrintLevel {
		par.PrintLevel = o.PrintLevel
	} else {
		par.Verbose = o.PrintLevel > 0
	}
	return par
}

// Invoke runs the routine on args.
func (a *Primal) Invoke(args Args) (Raw, error) {
	in, ok := args.(*PrimalArgs)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignArgs, args)
	}
	routine := a.Routine
	if routine == nil {
		routine = primalform.Solve
	}
	sol, err := routine(in.Blk, in.At, in.C, in.B, in.Init, in.Params)
	if err != nil {
		return nil, err
	}
	return &PrimalRaw{Solution: sol}, nil
}

// Postprocess repackages the solution; the objective pair is already
// (⟨C,X⟩, b·y).
func (a *Primal) Postprocess(raw Raw) (Outcome, error) {
	r, ok := raw.(*PrimalRaw)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %T", ErrForeignArgs, raw)
	}
	sol := r.Solution
	return Outcome{
		Objective:  sol.Obj,
		X:          sol.X,
		Y:          sol.Y,
		Z:          sol.Z,
		Native:     status.Code(sol.Info.TermCode),
		Iterations: sol.Info.Iter,
	}, nil
}
