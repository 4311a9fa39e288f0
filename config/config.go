// SPDX-License-Identifier: MIT

// Package config loads process-wide settings for the lvsdp command and
// server: the default backend, the warm-start switch, per-family backend
// options, logging and the HTTP listener.
//
// Values come from, in increasing precedence: Default, an optional
// lvsdp.yaml file, and LVSDP_* environment variables (LVSDP_DUAL_MAX_ITERATION
// sets dual.max_iteration).
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/katalvlaran/lvsdp/adapter"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/katalvlaran/lvsdp/solver"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "LVSDP"
	// FileName is the config file name searched for without extension.
	FileName = "lvsdp"
)

// Config is the complete lvsdp configuration.
type Config struct {
	// Backend is the family used when a call names none.
	Backend string `mapstructure:"backend" json:"backend" yaml:"backend"`
	// UseWarmStart enables passing warm starts to backends that accept them.
	UseWarmStart bool                  `mapstructure:"use_warm_start" json:"use_warm_start" yaml:"use_warm_start"`
	Log          LogConfig             `mapstructure:"log" json:"log" yaml:"log"`
	Primal       adapter.PrimalOptions `mapstructure:"primal" json:"primal" yaml:"primal"`
	Dual         adapter.DualOptions   `mapstructure:"dual" json:"dual" yaml:"dual"`
	Server       ServerConfig          `mapstructure:"server" json:"server" yaml:"server"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `mapstructure:"level" json:"level" yaml:"level"`
	// Format is "text" or "json".
	Format string `mapstructure:"format" json:"format" yaml:"format"`
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr string `mapstructure:"addr" json:"addr" yaml:"addr"`
	// MaxBodyBytes caps the size of a problem upload.
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" json:"max_body_bytes" yaml:"max_body_bytes"`
	// MaxBlockSize caps the side length of any block of an uploaded problem.
	MaxBlockSize int `mapstructure:"max_block_size" json:"max_block_size" yaml:"max_block_size"`
}

// Default returns a Config with the documented defaults.
func Default() *Config {
	return &Config{
		Backend: string(sdp.FamilyPrimal),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Primal: adapter.DefaultPrimalOptions(),
		Dual:   adapter.DefaultDualOptions(),
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 8 << 20,
			MaxBlockSize: 1000,
		},
	}
}

// SetDefaults registers every key with its default so that environment
// overrides and Unmarshal see the full key set.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("backend", d.Backend)
	v.SetDefault("use_warm_start", d.UseWarmStart)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)

	v.SetDefault("primal.max_iter", d.Primal.MaxIter)
	v.SetDefault("primal.gap_tol", d.Primal.GapTol)
	v.SetDefault("primal.infeas_tol", d.Primal.InfeasTol)
	v.SetDefault("primal.step_tol", d.Primal.StepTol)
	v.SetDefault("primal.print_level", d.Primal.PrintLevel)

	v.SetDefault("dual.max_iteration", d.Dual.MaxIteration)
	v.SetDefault("dual.epsilon_star", d.Dual.EpsilonStar)
	v.SetDefault("dual.epsilon_dash", d.Dual.EpsilonDash)
	v.SetDefault("dual.lambda_star", d.Dual.LambdaStar)
	v.SetDefault("dual.omega_star", d.Dual.OmegaStar)
	v.SetDefault("dual.lower_bound", d.Dual.LowerBound)
	v.SetDefault("dual.upper_bound", d.Dual.UpperBound)
	v.SetDefault("dual.beta_star", d.Dual.BetaStar)
	v.SetDefault("dual.beta_bar", d.Dual.BetaBar)
	v.SetDefault("dual.gamma_star", d.Dual.GammaStar)
	v.SetDefault("dual.print_level", d.Dual.PrintLevel)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.max_block_size", d.Server.MaxBlockSize)
}

// NewViper returns a viper instance with defaults and LVSDP_* environment
// overrides. When file is empty it looks for lvsdp.{yaml,json} in the working
// directory and in Dir(); a missing file is not an error.
func NewViper(file string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName(FileName)
	v.AddConfigPath(".")
	v.AddConfigPath(Dir())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return v, nil
}

// Load reads the configuration from v into a Config struct and validates it.
// Validation failures are returned as ValidationErrors.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Dir returns the per-user config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lvsdp")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lvsdp"
	}
	return filepath.Join(home, ".config", "lvsdp")
}

// SlogLevel maps Level onto slog; unknown values mean info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger builds a logger writing to w in the configured format.
func (c LogConfig) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.ToLower(c.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Dispatcher builds a solver.Dispatcher with both backends bound to the
// configured options and the configured default backend. Extra options are
// applied last.
func (c *Config) Dispatcher(log *slog.Logger, opts ...solver.Option) (*solver.Dispatcher, error) {
	fam, err := sdp.ParseFamily(c.Backend)
	if err != nil {
		return nil, err
	}
	primal, err := adapter.NewPrimal(c.Primal)
	if err != nil {
		return nil, err
	}
	dual, err := adapter.NewDual(c.Dual)
	if err != nil {
		return nil, err
	}

	base := []solver.Option{
		solver.WithLogger(log),
		solver.WithAdapter(primal),
		solver.WithAdapter(dual),
		solver.WithConfig(solver.Config{Backend: fam, UseWarmStart: c.UseWarmStart}),
	}
	return solver.New(append(base, opts...)...)
}
