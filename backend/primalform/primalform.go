// SPDX-License-Identifier: MIT

// Package primalform is a primal-form SDP backend.
//
// It solves
//
//	min Σ_j ⟨C_j, X_j⟩  s.t.  Σ_j ⟨At[j][i], X_j⟩ = b_i,  X_j ⪰ 0
//
// with constraint data laid out block-major (At[j][i] is the coefficient of
// constraint i on block j) and reports termination as a numeric code in
// Info.TermCode.
package primalform

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/lvsdp/internal/ipm"
	"github.com/katalvlaran/lvsdp/matrix"
)

// Termination codes reported in Info.TermCode.
const (
	TermOptimal          = 0
	TermPrimalInfeasible = 1
	TermDualInfeasible   = 2
	TermBothInfeasible   = 3
	TermMaxIter          = -1
	TermStepTooShort     = -2
	TermBreakdown        = -3
)

// ErrLayout reports arguments whose dimensions do not agree.
var ErrLayout = errors.New("primalform: argument layout rejected")

// Defaults applied to zero Params fields.
const (
	DefaultMaxIter   = 50
	DefaultGapTol    = 1e-8
	DefaultInfeasTol = 1e-8
	DefaultStepTol   = 1e-6
)

// Params tunes Solve.
type Params struct {
	MaxIter   int
	GapTol    float64
	InfeasTol float64
	StepTol   float64

	// Verbose prints per-iteration progress. Superseded by PrintLevel and
	// only consulted when PrintLevel is zero.
	Verbose bool
	// PrintLevel 0 is silent, 1 prints a summary, 2 and above add one line
	// per iteration.
	PrintLevel int
	// Out receives printed output; nil means os.Stderr.
	Out io.Writer
}

// Init is an optional starting point.
type Init struct {
	X0 []matrix.Matrix
	Y0 []float64
	Z0 []matrix.Matrix
}

// Info describes how Solve ended.
type Info struct {
	TermCode     int
	Iter         int
	PrimalInfeas float64
	DualInfeas   float64
	RelGap       float64
	Message      string
}

// Solution is the native result. Obj holds (⟨C,X⟩, b·y).
type Solution struct {
	X    []matrix.Matrix
	Y    []float64
	Z    []matrix.Matrix
	Obj  [2]float64
	Info Info
}

// FeatureSet lists optional behaviour this release supports.
type FeatureSet struct {
	WarmStart  bool
	PrintLevel bool
}

// Features reports the optional behaviour of this backend.
func Features() FeatureSet {
	return FeatureSet{WarmStart: true, PrintLevel: true}
}

var termCodes = map[ipm.Status]int{
	ipm.StatusOptimal:          TermOptimal,
	ipm.StatusPrimalInfeasible: TermPrimalInfeasible,
	ipm.StatusDualInfeasible:   TermDualInfeasible,
	ipm.StatusBothInfeasible:   TermBothInfeasible,
	ipm.StatusMaxIter:          TermMaxIter,
	ipm.StatusStalled:          TermStepTooShort,
	ipm.StatusNumerical:        TermBreakdown,
}

// Solve runs the backend. A non-nil error means the arguments were rejected;
// convergence failures are reported through Info.TermCode.
func Solve(blk []int, At [][]matrix.Matrix, C []matrix.Matrix, b []float64, init *Init, par Params) (Solution, error) {
	prob, err := layout(blk, At, C, b)
	if err != nil {
		return Solution{}, err
	}
	var start *ipm.Start
	if init != nil {
		if start, err = initial(init); err != nil {
			return Solution{}, err
		}
	}

	par = par.withDefaults()
	level := par.PrintLevel
	if level == 0 && par.Verbose {
		level = 2
	}
	out := par.Out
	if out == nil {
		out = os.Stderr
	}
	settings := ipm.Settings{
		MaxIter:   par.MaxIter,
		GapTol:    par.GapTol,
		FeasTol:   par.GapTol,
		InfeasTol: par.InfeasTol,
		StepTol:   par.StepTol,
	}
	if level >= 2 {
		settings.Logf = func(format string, args ...any) {
			fmt.Fprintf(out, format+"\n", args...)
		}
	}

	sol, err := ipm.Solve(prob, start, settings)
	if err != nil {
		return Solution{}, fmt.Errorf("%w: %v", ErrLayout, err)
	}
	code, ok := termCodes[sol.Status]
	if !ok {
		code = TermBreakdown
	}
	res := Solution{
		X:   toMatrices(sol.X),
		Y:   sol.Y,
		Z:   toMatrices(sol.Z),
		Obj: [2]float64{sol.PrimalObj, sol.DualObj},
		Info: Info{
			TermCode:     code,
			Iter:         sol.Iter,
			PrimalInfeas: sol.PRes,
			DualInfeas:   sol.DRes,
			RelGap:       sol.Gap,
			Message:      sol.Status.String(),
		},
	}
	if level >= 1 {
		fmt.Fprintf(out, "primalform: termcode %d (%s), %d iterations, obj [% .8e, % .8e]\n",
			code, res.Info.Message, res.Info.Iter, res.Obj[0], res.Obj[1])
	}

	return res, nil
}

func (p Params) withDefaults() Params {
	if p.MaxIter <= 0 {
		p.MaxIter = DefaultMaxIter
	}
	if p.GapTol <= 0 {
		p.GapTol = DefaultGapTol
	}
	if p.InfeasTol <= 0 {
		p.InfeasTol = DefaultInfeasTol
	}
	if p.StepTol <= 0 {
		p.StepTol = DefaultStepTol
	}
	return p
}

// layout checks the block-major arguments and converts them for the kernel.
func layout(blk []int, At [][]matrix.Matrix, C []matrix.Matrix, b []float64) (ipm.Problem, error) {
	nb, m := len(blk), len(b)
	if nb == 0 {
		return ipm.Problem{}, fmt.Errorf("%w: no blocks", ErrLayout)
	}
	if len(At) != nb || len(C) != nb {
		return ipm.Problem{}, fmt.Errorf("%w: %d blocks, %d At rows, %d C blocks", ErrLayout, nb, len(At), len(C))
	}
	prob := ipm.Problem{
		Sizes: append([]int(nil), blk...),
		A:     make([][]*matrix.Dense, m),
		C:     make([]*matrix.Dense, nb),
		B:     append([]float64(nil), b...),
	}
	for i := range prob.A {
		prob.A[i] = make([]*matrix.Dense, nb)
	}
	var err error
	for j, s := range blk {
		if s <= 0 {
			return ipm.Problem{}, fmt.Errorf("%w: block %d size %d", ErrLayout, j, s)
		}
		if prob.C[j], err = square(C[j], s); err != nil {
			return ipm.Problem{}, fmt.Errorf("%w: C[%d]: %v", ErrLayout, j, err)
		}
		if len(At[j]) != m {
			return ipm.Problem{}, fmt.Errorf("%w: At[%d] has %d constraints, want %d", ErrLayout, j, len(At[j]), m)
		}
		for i, a := range At[j] {
			if a == nil {
				continue
			}
			if prob.A[i][j], err = square(a, s); err != nil {
				return ipm.Problem{}, fmt.Errorf("%w: At[%d][%d]: %v", ErrLayout, j, i, err)
			}
		}
	}

	return prob, nil
}

func square(m matrix.Matrix, s int) (*matrix.Dense, error) {
	if m == nil {
		return nil, matrix.ErrNilMatrix
	}
	if m.Rows() != s || m.Cols() != s {
		return nil, fmt.Errorf("shape %dx%d, want %dx%d", m.Rows(), m.Cols(), s, s)
	}
	return matrix.ToDense(m)
}

func initial(in *Init) (*ipm.Start, error) {
	st := &ipm.Start{
		X: make([]*matrix.Dense, len(in.X0)),
		Y: append([]float64(nil), in.Y0...),
		Z: make([]*matrix.Dense, len(in.Z0)),
	}
	var err error
	for j, x := range in.X0 {
		if x == nil {
			return nil, fmt.Errorf("%w: X0[%d] is nil", ErrLayout, j)
		}
		if st.X[j], err = matrix.ToDense(x); err != nil {
			return nil, fmt.Errorf("%w: X0[%d]: %v", ErrLayout, j, err)
		}
	}
	for j, z := range in.Z0 {
		if z == nil {
			return nil, fmt.Errorf("%w: Z0[%d] is nil", ErrLayout, j)
		}
		if st.Z[j], err = matrix.ToDense(z); err != nil {
			return nil, fmt.Errorf("%w: Z0[%d]: %v", ErrLayout, j, err)
		}
	}
	return st, nil
}

func toMatrices(ds []*matrix.Dense) []matrix.Matrix {
	out := make([]matrix.Matrix, len(ds))
	for j, d := range ds {
		out[j] = d
	}
	return out
}
