// SPDX-License-Identifier: MIT

package sdp

import (
	"fmt"
	"strings"
)

// Termination is the canonical outcome of one solve attempt. It is a closed
// enumeration; every backend status maps onto exactly one value.
type Termination int

const (
	// Indeterminate covers non-convergence, numerical breakdown and any status
	// without a defined mapping.
	Indeterminate Termination = -1
	// Optimal means primal and dual optimal solutions were found.
	Optimal Termination = 0
	// PrimalInfeasible means a certificate of primal infeasibility was found.
	PrimalInfeasible Termination = 1
	// DualInfeasible means a certificate of dual infeasibility was found.
	DualInfeasible Termination = 2
	// BothInfeasible means neither primal nor dual is feasible.
	BothInfeasible Termination = 3
)

var terminationNames = map[Termination]string{
	Indeterminate:    "INDETERMINATE",
	Optimal:          "OPTIMAL",
	PrimalInfeasible: "PRIMAL_INFEASIBLE",
	DualInfeasible:   "DUAL_INFEASIBLE",
	BothInfeasible:   "BOTH_INFEASIBLE",
}

// Terminations lists every canonical code in numeric order.
func Terminations() []Termination {
	return []Termination{Indeterminate, Optimal, PrimalInfeasible, DualInfeasible, BothInfeasible}
}

// Valid reports whether t is one of the five canonical codes.
func (t Termination) Valid() bool {
	_, ok := terminationNames[t]
	return ok
}

// String returns the upper-case name, e.g. "PRIMAL_INFEASIBLE".
func (t Termination) String() string {
	if name, ok := terminationNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Termination(%d)", int(t))
}

// ParseTermination accepts a canonical name (case-insensitive, '-' or '_').
func ParseTermination(s string) (Termination, error) {
	key := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for t, name := range terminationNames {
		if name == key {
			return t, nil
		}
	}
	return Indeterminate, fmt.Errorf("sdp: unknown termination %q", s)
}
