// SPDX-License-Identifier: MIT

// Package status translates backend-native termination reports into the
// canonical sdp.Termination taxonomy.
//
// The translation is a fixed lookup table per backend family and is the only
// place in the module where native statuses are interpreted. Normalize is
// pure and total: anything without a table entry is sdp.Indeterminate.
package status

import (
	"strconv"

	"github.com/katalvlaran/lvsdp/sdp"
)

type kind uint8

const (
	kindNone kind = iota
	kindCode
	kindPhase
)

// NativeStatus is a backend status as reported: a numeric code, a phase
// string, or nothing at all.
type NativeStatus struct {
	kind  kind
	code  int
	phase string
}

// Code wraps a numeric termination code.
func Code(c int) NativeStatus { return NativeStatus{kind: kindCode, code: c} }

// Phase wraps a string phase value.
func Phase(p string) NativeStatus { return NativeStatus{kind: kindPhase, phase: p} }

// None is the absence of any status.
func None() NativeStatus { return NativeStatus{} }

// AsCode returns the numeric code, if that is what the status holds.
func (s NativeStatus) AsCode() (int, bool) { return s.code, s.kind == kindCode }

// AsPhase returns the phase string, if that is what the status holds.
func (s NativeStatus) AsPhase() (string, bool) { return s.phase, s.kind == kindPhase }

// String renders the status for diagnostics: the code in decimal, the phase
// verbatim, or "none".
func (s NativeStatus) String() string {
	switch s.kind {
	case kindCode:
		return strconv.Itoa(s.code)
	case kindPhase:
		return s.phase
	default:
		return "none"
	}
}

// primalFormCodes: codes 0..3 map onto the canonical codes of the same value.
var primalFormCodes = map[int]sdp.Termination{
	0: sdp.Optimal,
	1: sdp.PrimalInfeasible,
	2: sdp.DualInfeasible,
	3: sdp.BothInfeasible,
}

// dualFormPhases: phases describe the backend's own primal (the canonical
// dual) first, so "primal feasible, dual infeasible" is a canonical primal
// infeasibility. Unboundedness of one side implies infeasibility of the other.
var dualFormPhases = map[string]sdp.Termination{
	"pdOPT":      sdp.Optimal,
	"pdINF":      sdp.BothInfeasible,
	"pFEAS_dINF": sdp.PrimalInfeasible,
	"pINF_dFEAS": sdp.DualInfeasible,
	"pUNBD":      sdp.PrimalInfeasible,
	"dUNBD":      sdp.DualInfeasible,
}

// Normalize maps a native status of the given family onto the canonical
// taxonomy. A status of the wrong kind for its family, an unmapped value or
// an unknown family yields sdp.Indeterminate.
func Normalize(native NativeStatus, fam sdp.Family) sdp.Termination {
	switch fam {
	case sdp.FamilyPrimal:
		if c, ok := native.AsCode(); ok {
			if t, found := primalFormCodes[c]; found {
				return t
			}
		}
	case sdp.FamilyDual:
		if p, ok := native.AsPhase(); ok {
			if t, found := dualFormPhases[p]; found {
				return t
			}
		}
	}

	return sdp.Indeterminate
}

// Table returns a copy of the family's table keyed by the native value's
// String rendering. Unknown families yield an empty table.
func Table(fam sdp.Family) map[string]sdp.Termination {
	out := make(map[string]sdp.Termination)
	switch fam {
	case sdp.FamilyPrimal:
		for c, t := range primalFormCodes {
			out[Code(c).String()] = t
		}
	case sdp.FamilyDual:
		for p, t := range dualFormPhases {
			out[p] = t
		}
	}

	return out
}
