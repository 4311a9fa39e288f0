// SPDX-License-Identifier: MIT
// Package: lvsdp/builder
//
// config.go — internal configuration and deterministic defaults.
//
// Deterministic defaults:
//   • rng      = nil              (pure/deterministic unless seeded)
//   • weightFn = DefaultWeightFn  (every edge weighs 1)
//   • dense    = false            (sparse constraint matrices)

package builder

import "math/rand"

// builderConfig aggregates all knobs used by constructors. It is passed by
// value.
type builderConfig struct {
	// RNG for stochastic choices; nil means "no randomness".
	rng *rand.Rand
	// Weight generator for edges.
	weightFn WeightFn
	// Emit dense constraint matrices.
	dense bool
}

// newBuilderConfig applies opts in order over the defaults; last wins.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{weightFn: DefaultWeightFn}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
