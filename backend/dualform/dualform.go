// SPDX-License-Identifier: MIT

// Package dualform is an SDP backend for the matrix-inequality form
//
//	(P)  min c·x   s.t.  X = Σ_i F_i x_i − F_0 ⪰ 0
//	(D)  max ⟨F_0, Y⟩  s.t.  ⟨F_i, Y⟩ = c_i,  Y ⪰ 0
//
// Data are given per block as one list F[j][0..m] with the constant term
// first. The outcome is reported as a phase string (PhaseOptimal, ...).
package dualform

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/lvsdp/internal/ipm"
	"github.com/katalvlaran/lvsdp/matrix"
)

// Phase values.
const (
	PhaseOptimal          = "pdOPT"
	PhaseFeasible         = "pdFEAS"
	PhasePrimalFeasible   = "pFEAS"
	PhaseDualFeasible     = "dFEAS"
	PhaseDualInfeasible   = "pFEAS_dINF"
	PhasePrimalInfeasible = "pINF_dFEAS"
	PhaseInfeasible       = "pdINF"
	PhasePrimalUnbounded  = "pUNBD"
	PhaseDualUnbounded    = "dUNBD"
	PhaseNoInfo           = "noINFO"
)

// ErrInput reports an Input whose dimensions do not agree.
var ErrInput = errors.New("dualform: inconsistent input")

// Input is the problem in matrix-inequality form.
type Input struct {
	MDim        int
	NBlock      int
	BlockStruct []int
	C           []float64
	// F[j][i] is F_i restricted to block j; F[j][0] is the constant term.
	// A nil entry is zero.
	F [][]matrix.Matrix
}

// Init is an optional initial point (x, X, Y).
type Init struct {
	XVec []float64
	XMat []matrix.Matrix
	YMat []matrix.Matrix
}

// Param holds the run parameters. Zero fields take the documented defaults.
type Param struct {
	MaxIteration int
	EpsilonStar  float64 // relative gap and infeasibility tolerance
	LambdaStar   float64 // initial point X = Y = λ*·I
	OmegaStar    float64 // accepted for compatibility; the embedding needs no start bound
	LowerBound   float64 // c·x below this on a feasible (P) reports PhasePrimalUnbounded
	UpperBound   float64 // ⟨F_0,Y⟩ above this on a feasible (D) reports PhaseDualUnbounded
	BetaStar     float64 // centering floor on feasible iterates
	BetaBar      float64 // centering floor on infeasible iterates
	GammaStar    float64 // fraction of the step to the boundary
	EpsilonDash  float64 // feasibility tolerance

	// Print is the legacy output switch: "display" prints iterations, any
	// other value is silent. Ignored when PrintLevel is set.
	Print string
	// PrintLevel 0 is silent, 1 prints the final phase, 2 and above add
	// one line per iteration.
	PrintLevel int
	// Out receives printed output; nil means os.Stdout.
	Out io.Writer
}

// DefaultParam returns the parameters used for zero fields.
func DefaultParam() Param {
	return Param{
		MaxIteration: 40,
		EpsilonStar:  1e-7,
		LambdaStar:   1e2,
		OmegaStar:    2.0,
		LowerBound:   -1e5,
		UpperBound:   1e5,
		BetaStar:     0.1,
		BetaBar:      0.2,
		GammaStar:    0.9,
		EpsilonDash:  1e-7,
	}
}

// Output is the native result.
type Output struct {
	XVec         []float64
	XMat         []matrix.Matrix
	YMat         []matrix.Matrix
	ObjValPrimal float64
	ObjValDual   float64
	Phase        string
	Iteration    int
	PrimalError  float64
	DualError    float64
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

var phases = map[ipm.Status]string{
	ipm.StatusOptimal:          PhaseOptimal,
	ipm.StatusPrimalInfeasible: PhaseDualInfeasible,
	ipm.StatusDualInfeasible:   PhasePrimalInfeasible,
	ipm.StatusBothInfeasible:   PhaseInfeasible,
}

// Solve runs the backend on in. A non-nil error means in was rejected; every
// other outcome is reported through Output.Phase.
func Solve(in Input, init *Init, par Param) (Output, error) {
	prob, err := convert(in)
	if err != nil {
		return Output{}, err
	}
	var start *ipm.Start
	if init != nil {
		if start, err = initial(in, init); err != nil {
			return Output{}, err
		}
	}
	par = par.withDefaults()
	level := par.PrintLevel
	if level == 0 && par.Print == "display" {
		level = 2
	}
	out := par.Out
	if out == nil {
		out = os.Stdout
	}

	// (D) is solved as min ⟨−F_0, Y⟩ s.t. ⟨F_i, Y⟩ = c_i, whose dual
	// multipliers are −x; (P)'s objective is therefore −(kernel dual) and
	// (D)'s is −(kernel primal).
	stop := ""
	settings := ipm.Settings{
		MaxIter:              par.MaxIteration,
		GapTol:               par.EpsilonStar,
		InfeasTol:            par.EpsilonStar,
		FeasTol:              par.EpsilonDash,
		StepFactor:           par.GammaStar,
		InitScale:            par.LambdaStar,
		SigmaFloor:           par.BetaStar,
		SigmaFloorInfeasible: par.BetaBar,
		Monitor: func(pr ipm.Progress) bool {
			pobj, dobj := -pr.DualObj, -pr.PrimalObj
			if level >= 2 {
				fmt.Fprintf(out, "%3d %4.1e %4.1e %4.1e %+10.7e %+10.7e\n",
					pr.Iter, pr.Mu, pr.PRes, pr.DRes, pobj, dobj)
			}
			switch {
			case pr.DRes <= par.EpsilonDash && pobj < par.LowerBound:
				stop = PhasePrimalUnbounded
			case pr.PRes <= par.EpsilonDash && dobj > par.UpperBound:
				stop = PhaseDualUnbounded
			}
			return stop == ""
		},
	}

	sol, err := ipm.Solve(prob, start, settings)
	if err != nil {
		return Output{}, fmt.Errorf("%w: %v", ErrInput, err)
	}
	res := Output{
		XVec:         negate(sol.Y),
		XMat:         toMatrices(sol.Z),
		YMat:         toMatrices(sol.X),
		ObjValPrimal: -sol.DualObj,
		ObjValDual:   -sol.PrimalObj,
		Phase:        phase(sol, stop, par),
		Iteration:    sol.Iter,
		PrimalError:  sol.DRes,
		DualError:    sol.PRes,
	}
	if level >= 1 {
		fmt.Fprintf(out, "phase.value = %s\niteration = %d\nobjValPrimal = %+10.16e\nobjValDual = %+10.16e\n",
			res.Phase, res.Iteration, res.ObjValPrimal, res.ObjValDual)
	}

	return res, nil
}

// phase names the outcome. Runs that end without a verdict still report
// which sides reached feasibility.
func phase(sol ipm.Solution, stop string, par Param) string {
	if sol.Status == ipm.StatusStopped && stop != "" {
		return stop
	}
	if ph, ok := phases[sol.Status]; ok {
		return ph
	}
	pFeas := sol.DRes <= par.EpsilonDash // (P) is the kernel's dual
	dFeas := sol.PRes <= par.EpsilonDash
	switch {
	case pFeas && dFeas:
		return PhaseFeasible
	case pFeas:
		return PhasePrimalFeasible
	case dFeas:
		return PhaseDualFeasible
	}
	return PhaseNoInfo
}

func (p Param) withDefaults() Param {
	d := DefaultParam()
	if p.MaxIteration <= 0 {
		p.MaxIteration = d.MaxIteration
	}
	if p.EpsilonStar <= 0 {
		p.EpsilonStar = d.EpsilonStar
	}
	if p.LambdaStar <= 0 {
		p.LambdaStar = d.LambdaStar
	}
	if p.OmegaStar <= 0 {
		p.OmegaStar = d.OmegaStar
	}
	if p.LowerBound == 0 {
		p.LowerBound = d.LowerBound
	}
	if p.UpperBound == 0 {
		p.UpperBound = d.UpperBound
	}
	if p.BetaStar <= 0 {
		p.BetaStar = d.BetaStar
	}
	if p.BetaBar <= 0 {
		p.BetaBar = d.BetaBar
	}
	if p.GammaStar <= 0 {
		p.GammaStar = d.GammaStar
	}
	if p.EpsilonDash <= 0 {
		p.EpsilonDash = d.EpsilonDash
	}
	return p
}

func convert(in Input) (ipm.Problem, error) {
	if in.NBlock <= 0 || len(in.BlockStruct) != in.NBlock || len(in.F) != in.NBlock {
		return ipm.Problem{}, fmt.Errorf("%w: nBLOCK %d, %d block sizes, %d F blocks",
			ErrInput, in.NBlock, len(in.BlockStruct), len(in.F))
	}
	if in.MDim < 0 || len(in.C) != in.MDim {
		return ipm.Problem{}, fmt.Errorf("%w: mDIM %d, %d cost entries", ErrInput, in.MDim, len(in.C))
	}
	prob := ipm.Problem{
		Sizes: make([]int, in.NBlock),
		A:     make([][]*matrix.Dense, in.MDim),
		C:     make([]*matrix.Dense, in.NBlock),
		B:     append([]float64(nil), in.C...),
	}
	for i := range prob.A {
		prob.A[i] = make([]*matrix.Dense, in.NBlock)
	}
	for j, s := range in.BlockStruct {
		if s <= 0 {
			// Negative sizes denote diagonal blocks elsewhere; not supported here.
			return ipm.Problem{}, fmt.Errorf("%w: block %d: size %d", ErrInput, j, s)
		}
		if len(in.F[j]) != in.MDim+1 {
			return ipm.Problem{}, fmt.Errorf("%w: block %d: %d F matrices, want %d", ErrInput, j, len(in.F[j]), in.MDim+1)
		}
		prob.Sizes[j] = s
		f0, err := block(in.F[j][0], s)
		if err != nil {
			return ipm.Problem{}, fmt.Errorf("%w: F[%d][0]: %v", ErrInput, j, err)
		}
		if f0 == nil {
			if f0, err = matrix.NewDense(s, s); err != nil {
				return ipm.Problem{}, err
			}
		}
		neg, err := matrix.Scale(f0, -1)
		if err != nil {
			return ipm.Problem{}, err
		}
		if prob.C[j], err = matrix.ToDense(neg); err != nil {
			return ipm.Problem{}, err
		}
		for i := 1; i <= in.MDim; i++ {
			if prob.A[i-1][j], err = block(in.F[j][i], s); err != nil {
				return ipm.Problem{}, fmt.Errorf("%w: F[%d][%d]: %v", ErrInput, j, i, err)
			}
		}
	}
	return prob, nil
}

// block densifies m after a shape check; nil stays nil.
func block(m matrix.Matrix, s int) (*matrix.Dense, error) {
	if m == nil {
		return nil, nil
	}
	if m.Rows() != s || m.Cols() != s {
		return nil, fmt.Errorf("shape %dx%d, want %dx%d", m.Rows(), m.Cols(), s, s)
	}
	return matrix.ToDense(m)
}

// initial maps (x, X, Y) onto the kernel's (X, y, Z) = (Y, −x, X).
func initial(in Input, init *Init) (*ipm.Start, error) {
	if len(init.XMat) != in.NBlock || len(init.YMat) != in.NBlock || len(init.XVec) != in.MDim {
		return nil, fmt.Errorf("%w: initial point shape", ErrInput)
	}
	st := &ipm.Start{
		X: make([]*matrix.Dense, in.NBlock),
		Y: negate(init.XVec),
		Z: make([]*matrix.Dense, in.NBlock),
	}
	var err error
	for j, s := range in.BlockStruct {
		if init.YMat[j] == nil || init.XMat[j] == nil {
			return nil, fmt.Errorf("%w: initial point block %d is nil", ErrInput, j)
		}
		if st.X[j], err = block(init.YMat[j], s); err != nil {
			return nil, fmt.Errorf("%w: yMat[%d]: %v", ErrInput, j, err)
		}
		if st.Z[j], err = block(init.XMat[j], s); err != nil {
			return nil, fmt.Errorf("%w: xMat[%d]: %v", ErrInput, j, err)
		}
	}
	return st, nil
}

func negate(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = -x
	}
	return out
}

func toMatrices(ds []*matrix.Dense) []matrix.Matrix {
	out := make([]matrix.Matrix, len(ds))
	for j, d := range ds {
		out[j] = d
	}
	return out
}
