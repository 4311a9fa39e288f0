// SPDX-License-Identifier: MIT

package ipm

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvsdp/matrix"
)

// ErrBadProblem reports kernel input whose dimensions are inconsistent.
var ErrBadProblem = errors.New("ipm: inconsistent problem data")

// Problem is the kernel's dense input. A[i][j] is the coefficient matrix of
// constraint i on block j; a nil entry is zero.
type Problem struct {
	Sizes []int
	A     [][]*matrix.Dense
	C     []*matrix.Dense
	B     []float64
}

// Start is an initial point. X and Z must be positive definite; otherwise the
// kernel falls back to its default start.
type Start struct {
	X []*matrix.Dense
	Y []float64
	Z []*matrix.Dense
}

// Status classifies how a run ended.
type Status int

const (
	StatusOptimal Status = iota
	StatusPrimalInfeasible
	StatusDualInfeasible
	StatusBothInfeasible
	StatusMaxIter
	StatusStalled
	StatusNumerical
	StatusStopped
)

var statusNames = [...]string{
	StatusOptimal:          "optimal",
	StatusPrimalInfeasible: "primal infeasible",
	StatusDualInfeasible:   "dual infeasible",
	StatusBothInfeasible:   "primal and dual infeasible",
	StatusMaxIter:          "iteration limit",
	StatusStalled:          "step too short",
	StatusNumerical:        "numerical breakdown",
	StatusStopped:          "stopped by monitor",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Progress is the per-iteration report passed to Settings.Monitor. Objective
// values and residuals refer to the scaled iterate (X/τ, y/τ, Z/τ).
type Progress struct {
	Iter      int
	Mu        float64
	Tau       float64
	Kappa     float64
	PrimalObj float64
	DualObj   float64
	PRes      float64
	DRes      float64
	Gap       float64
	Step      float64
}

// Settings tunes a run. Zero fields take the Default* values.
type Settings struct {
	MaxIter    int
	GapTol     float64
	FeasTol    float64
	InfeasTol  float64
	StepTol    float64
	StepFactor float64
	// SigmaFloor bounds the centering parameter from below once the scaled
	// iterate is feasible within FeasTol; SigmaFloorInfeasible applies before
	// that and defaults to SigmaFloor.
	SigmaFloor           float64
	SigmaFloorInfeasible float64
	// InitScale is s in the default start X = Z = s·I.
	InitScale float64
	// Monitor, when set, is called once per iteration; returning false ends
	// the run with StatusStopped.
	Monitor func(Progress) bool
	// Logf, when set, receives one line per iteration.
	Logf func(format string, args ...any)
}

// Defaults used for zero Settings fields.
const (
	DefaultMaxIter    = 50
	DefaultGapTol     = 1e-8
	DefaultFeasTol    = 1e-8
	DefaultInfeasTol  = 1e-8
	DefaultStepTol    = 1e-8
	DefaultStepFactor = 0.95
	DefaultInitScale  = 1.0
)

func (s Settings) withDefaults() Settings {
	if s.MaxIter <= 0 {
		s.MaxIter = DefaultMaxIter
	}
	if s.GapTol <= 0 {
		s.GapTol = DefaultGapTol
	}
	if s.FeasTol <= 0 {
		s.FeasTol = DefaultFeasTol
	}
	if s.InfeasTol <= 0 {
		s.InfeasTol = DefaultInfeasTol
	}
	if s.StepTol <= 0 {
		s.StepTol = DefaultStepTol
	}
	if s.StepFactor <= 0 || s.StepFactor >= 1 {
		s.StepFactor = DefaultStepFactor
	}
	if s.SigmaFloor < 0 || s.SigmaFloor >= 1 {
		s.SigmaFloor = 0
	}
	if s.SigmaFloorInfeasible <= 0 || s.SigmaFloorInfeasible >= 1 {
		s.SigmaFloorInfeasible = s.SigmaFloor
	}
	if s.InitScale <= 0 {
		s.InitScale = DefaultInitScale
	}
	return s
}

// Solution is the outcome of a run.
//
// For StatusOptimal and the non-certificate statuses the triple is the scaled
// iterate (X/τ, y/τ, Z/τ). For infeasibility statuses it is the certificate
// normalised so that its defining functional equals one: b·y = 1 for primal
// infeasibility, −⟨C,X⟩ = 1 for dual infeasibility.
type Solution struct {
	X         []*matrix.Dense
	Y         []float64
	Z         []*matrix.Dense
	Status    Status
	Iter      int
	PrimalObj float64
	DualObj   float64
	PRes      float64
	DRes      float64
	Gap       float64
	Tau       float64
	Kappa     float64
}

// check validates dimensions.
func (p *Problem) check() error {
	n := len(p.Sizes)
	if n == 0 {
		return fmt.Errorf("no blocks: %w", ErrBadProblem)
	}
	if len(p.C) != n {
		return fmt.Errorf("%d objective blocks for %d sizes: %w", len(p.C), n, ErrBadProblem)
	}
	for j, s := range p.Sizes {
		if s <= 0 {
			return fmt.Errorf("block %d: size %d: %w", j, s, ErrBadProblem)
		}
		if p.C[j] == nil || p.C[j].Rows() != s || p.C[j].Cols() != s {
			return fmt.Errorf("block %d: objective shape: %w", j, ErrBadProblem)
		}
	}
	if len(p.A) != len(p.B) {
		return fmt.Errorf("%d constraint rows for %d right-hand sides: %w", len(p.A), len(p.B), ErrBadProblem)
	}
	for i, row := range p.A {
		if len(row) != n {
			return fmt.Errorf("constraint %d: %d blocks, want %d: %w", i, len(row), n, ErrBadProblem)
		}
		for j, a := range row {
			if a != nil && (a.Rows() != p.Sizes[j] || a.Cols() != p.Sizes[j]) {
				return fmt.Errorf("constraint %d block %d: shape: %w", i, j, ErrBadProblem)
			}
		}
	}
	return nil
}
