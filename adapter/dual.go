// SPDX-License-Identifier: MIT

package adapter

import (
	"fmt"
	"io"

	"github.com/katalvlaran/lvsdp/backend/dualform"
	"github.com/katalvlaran/lvsdp/matrix"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/katalvlaran/lvsdp/status"
)

// legacyDisplay is the legacy print switch value that enables output.
const legacyDisplay = "display"

// DualRoutine has the signature of dualform.Solve.
type DualRoutine func(in dualform.Input, init *dualform.Init, par dualform.Param) (dualform.Output, error)

// DualArgs is the native argument bundle of the dual-form backend.
type DualArgs struct {
	Input dualform.Input
	Init  *dualform.Init
	Param dualform.Param
}

// Family implements Args.
func (*DualArgs) Family() sdp.Family { return sdp.FamilyDual }

// DualRaw wraps a dual-form output.
type DualRaw struct {
	Output dualform.Output
}

// Family implements Raw.
func (*DualRaw) Family() sdp.Family { return sdp.FamilyDual }

// Dual adapts the dual-form backend.
//
// The backend's (D) is the canonical primal with every coefficient negated:
//
//	c = −b,  F_0 = −C,  F_i = −A_i,
//
// and its (P) variables (x, X) are the canonical (y, Z). Prepare applies the
// negation and the role swap; Postprocess undoes both, so a round trip is
// sign-neutral.
type Dual struct {
	Options DualOptions
	Caps    Capabilities
	// Routine is the native entry point; nil means dualform.Solve.
	Routine DualRoutine
	// Out receives backend printing; nil leaves the backend default.
	Out io.Writer
}

// NewDual validates opts (after defaults) and probes the backend features.
func NewDual(opts DualOptions) (*Dual, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	f := dualform.Features()

	return &Dual{
		Options: opts,
		Caps:    Capabilities{WarmStart: f.WarmStart, PrintLevel: f.PrintLevel},
		Routine: dualform.Solve,
	}, nil
}

// Family implements Adapter.
func (a *Dual) Family() sdp.Family { return sdp.FamilyDual }

// Capabilities implements Adapter.
func (a *Dual) Capabilities() Capabilities { return a.Caps }

// Prepare builds the negated F-list layout.
func (a *Dual) Prepare(p *sdp.Problem, ws *sdp.WarmStart) (Args, error) {
	if err := checkLayout(p); err != nil {
		return nil, err
	}
	m, nb := p.NumConstraints(), p.NumBlocks()
	in := dualform.Input{
		MDim:        m,
		NBlock:      nb,
		BlockStruct: p.BlockSizes(),
		C:           make([]float64, m),
		F:           make([][]matrix.Matrix, nb),
	}
	for i, b := range p.B {
		in.C[i] = -b
	}
	var err error
	for j := range in.F {
		in.F[j] = make([]matrix.Matrix, m+1)
		if in.F[j][0], err = negated(p.C[j]); err != nil {
			return nil, fmt.Errorf("C[%d]: %w", j+1, err)
		}
	}
	for _, e := range p.Entries() {
		if in.F[e.Block-1][e.Constraint], err = negated(p.A[e]); err != nil {
			return nil, fmt.Errorf("A[%d,%d]: %w", e.Constraint, e.Block, err)
		}
	}

	args := &DualArgs{Input: in, Param: a.param()}
	if ws != nil && a.Caps.WarmStart {
		init := &dualform.Init{XVec: append([]float64(nil), ws.Y...)}
		if init.XMat, err = denseBlocks(ws.Z, "Z0"); err != nil {
			return nil, err
		}
		if init.YMat, err = denseBlocks(ws.X, "X0"); err != nil {
			return nil, err
		}
		args.Init = init
	}

	return args, nil
}

// param maps the option record, choosing the verbosity field by capability.
func (a *Dual) param() dualform.Param {
	o := a.Options
	par := dualform.Param{
		MaxIteration: o.MaxIteration,
		EpsilonStar:  o.EpsilonStar,
		LambdaStar:   o.LambdaStar,
		OmegaStar:    o.OmegaStar,
		LowerBound:   o.LowerBound,
		UpperBound:   o.UpperBound,
		BetaStar:     o.BetaStar,
		BetaBar:      o.BetaBar,
		GammaStar:    o.GammaStar,
		EpsilonDash:  o.EpsilonDash,
		Out:          a.Out,
	}
	switch {
	case a.Caps.PrintLevel:
		par.PrintLevel = o.PrintLevel
	case o.PrintLevel > 0:
		par.Print = legacyDisplay
	}
	return par
}

// Invoke runs the routine on args.
func (a *Dual) Invoke(args Args) (Raw, error) {
	in, ok := args.(*DualArgs)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignArgs, args)
	}
	routine := a.Routine
	if routine == nil {
		routine = dualform.Solve
	}
	out, err := routine(in.Input, in.Init, in.Param)
	if err != nil {
		return nil, err
	}
	return &DualRaw{Output: out}, nil
}

// Postprocess swaps the roles back (X = yMat, y = xVec, Z = xMat) and
// re-negates the objective pair.
func (a *Dual) Postprocess(raw Raw) (Outcome, error) {
	r, ok := raw.(*DualRaw)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %T", ErrForeignArgs, raw)
	}
	out := r.Output
	return Outcome{
		Objective:  [2]float64{-out.ObjValDual, -out.ObjValPrimal},
		X:          out.YMat,
		Y:          out.XVec,
		Z:          out.XMat,
		Native:     status.Phase(out.Phase),
		Iterations: out.Iteration,
	}, nil
}
