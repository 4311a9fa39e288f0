// SPDX-License-Identifier: MIT

package sdp

import (
	"fmt"
	"strings"
)

// Family names a group of backends sharing one native argument layout and one
// status vocabulary.
type Family string

const (
	// FamilyPrimal takes A in (block, constraint) layout and reports numeric codes.
	FamilyPrimal Family = "primal-form"
	// FamilyDual uses the negated F-matrix layout, swaps primal and dual roles
	// and reports string phases.
	FamilyDual Family = "dual-form"
)

var familyAliases = map[string]Family{
	"primal-form": FamilyPrimal,
	"primal":      FamilyPrimal,
	"a":           FamilyPrimal,
	"family-a":    FamilyPrimal,
	"dual-form":   FamilyDual,
	"dual":        FamilyDual,
	"b":           FamilyDual,
	"family-b":    FamilyDual,
}

// Families lists the known families in a stable order.
func Families() []Family { return []Family{FamilyPrimal, FamilyDual} }

// ParseFamily resolves a selector string. Matching is case-insensitive and
// accepts the aliases "A", "family-A", "B", "family-B", "primal", "dual".
// Errors: ErrUnknownBackend.
func ParseFamily(s string) (Family, error) {
	if f, ok := familyAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// String implements fmt.Stringer.
func (f Family) String() string { return string(f) }
