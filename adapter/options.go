// SPDX-License-Identifier: MIT

package adapter

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// optionsValidate checks option records after defaults are applied.
var optionsValidate = validator.New()

// PrimalOptions tune the primal-form backend. Zero fields take the defaults
// of DefaultPrimalOptions.
type PrimalOptions struct {
	MaxIter    int     `mapstructure:"max_iter" json:"max_iter" yaml:"max_iter" validate:"gt=0"`
	GapTol     float64 `mapstructure:"gap_tol" json:"gap_tol" yaml:"gap_tol" validate:"gt=0,lt=1"`
	InfeasTol  float64 `mapstructure:"infeas_tol" json:"infeas_tol" yaml:"infeas_tol" validate:"gt=0,lt=1"`
	StepTol    float64 `mapstructure:"step_tol" json:"step_tol" yaml:"step_tol" validate:"gt=0,lt=1"`
	PrintLevel int     `mapstructure:"print_level" json:"print_level" yaml:"print_level" validate:"gte=0,lte=3"`
}

// DefaultPrimalOptions returns MaxIter 50, GapTol 1e-8, InfeasTol 1e-8,
// StepTol 1e-6, PrintLevel 0.
func DefaultPrimalOptions() PrimalOptions {
	return PrimalOptions{
		MaxIter:   50,
		GapTol:    1e-8,
		InfeasTol: 1e-8,
		StepTol:   1e-6,
	}
}

// WithDefaults fills zero fields from DefaultPrimalOptions.
func (o PrimalOptions) WithDefaults() PrimalOptions {
	d := DefaultPrimalOptions()
	if o.MaxIter == 0 {
		o.MaxIter = d.MaxIter
	}
	if o.GapTol == 0 {
		o.GapTol = d.GapTol
	}
	if o.InfeasTol == 0 {
		o.InfeasTol = d.InfeasTol
	}
	if o.StepTol == 0 {
		o.StepTol = d.StepTol
	}
	return o
}

// Validate checks o as given; call WithDefaults first to accept zero fields.
func (o PrimalOptions) Validate() error {
	if err := optionsValidate.Struct(o); err != nil {
		return fmt.Errorf("%w: primal: %v", ErrInvalidOptions, err)
	}
	return nil
}

// DualOptions tune the dual-form backend. Zero fields take the defaults of
// DefaultDualOptions, so a bound of exactly zero cannot be expressed.
type DualOptions struct {
	MaxIteration int     `mapstructure:"max_iteration" json:"max_iteration" yaml:"max_iteration" validate:"gt=0"`
	EpsilonStar  float64 `mapstructure:"epsilon_star" json:"epsilon_star" yaml:"epsilon_star" validate:"gt=0,lt=1"`
	EpsilonDash  float64 `mapstructure:"epsilon_dash" json:"epsilon_dash" yaml:"epsilon_dash" validate:"gt=0,lt=1"`
	LambdaStar   float64 `mapstructure:"lambda_star" json:"lambda_star" yaml:"lambda_star" validate:"gt=0"`
	OmegaStar    float64 `mapstructure:"omega_star" json:"omega_star" yaml:"omega_star" validate:"gt=1"`
	LowerBound   float64 `mapstructure:"lower_bound" json:"lower_bound" yaml:"lower_bound" validate:"ltfield=UpperBound"`
	UpperBound   float64 `mapstructure:"upper_bound" json:"upper_bound" yaml:"upper_bound"`
	BetaStar     float64 `mapstructure:"beta_star" json:"beta_star" yaml:"beta_star" validate:"gt=0,lt=1,ltefield=BetaBar"`
	BetaBar      float64 `mapstructure:"beta_bar" json:"beta_bar" yaml:"beta_bar" validate:"gt=0,lt=1"`
	GammaStar    float64 `mapstructure:"gamma_star" json:"gamma_star" yaml:"gamma_star" validate:"gt=0,lt=1"`
	PrintLevel   int     `mapstructure:"print_level" json:"print_level" yaml:"print_level" validate:"gte=0,lte=3"`
}

// DefaultDualOptions returns MaxIteration 40, EpsilonStar 1e-7, EpsilonDash
// 1e-7, LambdaStar 100, OmegaStar 2, LowerBound -1e5, UpperBound 1e5,
// BetaStar 0.1, BetaBar 0.2, GammaStar 0.9, PrintLevel 0.
func DefaultDualOptions() DualOptions {
	return DualOptions{
		MaxIteration: 40,
		EpsilonStar:  1e-7,
		EpsilonDash:  1e-7,
		LambdaStar:   100,
		OmegaStar:    2,
		LowerBound:   -1e5,
		UpperBound:   1e5,
		BetaStar:     0.1,
		BetaBar:      0.2,
		GammaStar:    0.9,
	}
}

// WithDefaults fills zero fields from DefaultDualOptions.
func (o DualOptions) WithDefaults() DualOptions {
	d := DefaultDualOptions()
	if o.MaxIteration == 0 {
		o.MaxIteration = d.MaxIteration
	}
	if o.EpsilonStar == 0 {
		o.EpsilonStar = d.EpsilonStar
	}
	if o.EpsilonDash == 0 {
		o.EpsilonDash = d.EpsilonDash
	}
	if o.LambdaStar == 0 {
		o.LambdaStar = d.LambdaStar
	}
	if o.OmegaStar == 0 {
		o.OmegaStar = d.OmegaStar
	}
	if o.LowerBound == 0 {
		o.LowerBound = d.LowerBound
	}
	if o.UpperBound == 0 {
		o.UpperBound = d.UpperBound
	}
	if o.BetaStar == 0 {
		o.BetaStar = d.BetaStar
	}
	if o.BetaBar == 0 {
		o.BetaBar = d.BetaBar
	}
	if o.GammaStar == 0 {
		o.GammaStar = d.GammaStar
	}
	return o
}

// Validate checks o as given; call WithDefaults first to accept zero fields.
func (o DualOptions) Validate() error {
	if err := optionsValidate.Struct(o); err != nil {
		return fmt.Errorf("%w: dual: %v", ErrInvalidOptions, err)
	}
	return nil
}
