// SPDX-License-Identifier: MIT

package sdp

import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvsdp/matrix"
)

// WarmStart is an optional initial point (X, y, Z) in the canonical
// orientation. It is honoured only when the selected backend supports warm
// starts and the configuration enables them.
type WarmStart struct {
	X []matrix.Matrix
	Y []float64
	Z []matrix.Matrix
}

// ValidateFor checks that ws is structurally congruent with p: one X and one Z
// per block with the block's shape, len(Y) == m, all values finite.
// Positive definiteness is left to the backend.
// Errors: ErrBadWarmStart.
func (ws *WarmStart) ValidateFor(p *Problem) error {
	if ws == nil {
		return fmt.Errorf("warm start is nil: %w", ErrBadWarmStart)
	}
	n := p.NumBlocks()
	if len(ws.X) != n || len(ws.Z) != n {
		return fmt.Errorf("X has %d blocks, Z has %d, want %d: %w", len(ws.X), len(ws.Z), n, ErrBadWarmStart)
	}
	if len(ws.Y) != p.NumConstraints() {
		return fmt.Errorf("y has %d entries, want %d: %w", len(ws.Y), p.NumConstraints(), ErrBadWarmStart)
	}
	for j, b := range p.Blocks {
		if err := checkShape(ws.X[j], b.Size); err != nil {
			return fmt.Errorf("X[%d]: %w: %v", j+1, ErrBadWarmStart, err)
		}
		if err := checkShape(ws.Z[j], b.Size); err != nil {
			return fmt.Errorf("Z[%d]: %w: %v", j+1, ErrBadWarmStart, err)
		}
		if err := matrix.ValidateFinite(ws.X[j]); err != nil {
			return fmt.Errorf("X[%d]: %w: %v", j+1, ErrBadWarmStart, err)
		}
		if err := matrix.ValidateFinite(ws.Z[j]); err != nil {
			return fmt.Errorf("Z[%d]: %w: %v", j+1, ErrBadWarmStart, err)
		}
	}
	for i, v := range ws.Y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("y[%d] = %g: %w", i+1, v, ErrBadWarmStart)
		}
	}

	return nil
}
