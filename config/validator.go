// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/katalvlaran/lvsdp/sdp"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // config key, e.g. "log.level"
	Value   any
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the accepted log.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the accepted log.format values.
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate checks c and returns every failure found. Backend options are
// checked after defaults are applied, as the adapters do.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if _, err := sdp.ParseFamily(c.Backend); err != nil {
		errs = append(errs, ValidationError{
			Field:   "backend",
			Value:   c.Backend,
			Message: fmt.Sprintf("must name a backend family (%v)", sdp.Families()),
		})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: fmt.Sprintf("must be one of %v", ValidLogLevels()),
		})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Log.Format)) {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Value:   c.Log.Format,
			Message: fmt.Sprintf("must be one of %v", ValidLogFormats()),
		})
	}

	if err := c.Primal.WithDefaults().Validate(); err != nil {
		errs = append(errs, ValidationError{Field: "primal", Value: c.Primal, Message: err.Error()})
	}
	if err := c.Dual.WithDefaults().Validate(); err != nil {
		errs = append(errs, ValidationError{Field: "dual", Value: c.Dual, Message: err.Error()})
	}

	if c.Server.Addr == "" {
		errs = append(errs, ValidationError{Field: "server.addr", Value: c.Server.Addr, Message: "must not be empty"})
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.max_body_bytes",
			Value:   c.Server.MaxBodyBytes,
			Message: "must be positive",
		})
	}
	if c.Server.MaxBlockSize <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.max_block_size",
			Value:   c.Server.MaxBlockSize,
			Message: "must be positive",
		})
	}

	return errs
}
