// SPDX-License-Identifier: MIT

package config_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvsdp/adapter"
	"github.com/katalvlaran/lvsdp/config"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/katalvlaran/lvsdp/sdp/sdptest"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.Empty(t, cfg.Validate())
	require.Equal(t, "primal-form", cfg.Backend)
	require.False(t, cfg.UseWarmStart)
	require.Equal(t, adapter.DefaultPrimalOptions(), cfg.Primal)
	require.Equal(t, adapter.DefaultDualOptions(), cfg.Dual)
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Load(v)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestNewViperReadsFileAndEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LVSDP_PRIMAL_MAX_ITER", "17")
	t.Setenv("LVSDP_LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "lvsdp.yaml")
	body := `
backend: dual
use_warm_start: true
dual:
  max_iteration: 12
  gamma_star: 0.8
server:
  addr: 127.0.0.1:9000
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	v, err := config.NewViper(path)
	require.NoError(t, err)
	cfg, err := config.Load(v)
	require.NoError(t, err)

	require.Equal(t, "dual", cfg.Backend)
	require.True(t, cfg.UseWarmStart)
	require.Equal(t, 12, cfg.Dual.MaxIteration)
	require.Equal(t, 0.8, cfg.Dual.GammaStar)
	require.Equal(t, adapter.DefaultDualOptions().EpsilonStar, cfg.Dual.EpsilonStar)
	require.Equal(t, 17, cfg.Primal.MaxIter)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
}

func TestNewViperWithoutFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	v, err := config.NewViper("")
	require.NoError(t, err)
	cfg, err := config.Load(v)
	require.NoError(t, err)
	require.Equal(t, config.Default().Backend, cfg.Backend)

	_, err = config.NewViper(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"unknown backend", func(c *config.Config) { c.Backend = "family-Q" }, "backend"},
		{"log level", func(c *config.Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
		{"primal tolerance", func(c *config.Config) { c.Primal.GapTol = -1 }, "primal"},
		{"dual bounds", func(c *config.Config) { c.Dual.LowerBound, c.Dual.UpperBound = 5, 1 }, "dual"},
		{"server addr", func(c *config.Config) { c.Server.Addr = "" }, "server.addr"},
		{"body cap", func(c *config.Config) { c.Server.MaxBodyBytes = -1 }, "server.max_body_bytes"},
		{"block cap", func(c *config.Config) { c.Server.MaxBlockSize = 0 }, "server.max_block_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			require.Len(t, errs, 1)
			require.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestLoadReportsAllErrors(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("backend", "nope")
	v.Set("log.level", "loud")

	_, err := config.Load(v)
	var verrs config.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	require.True(t, strings.HasPrefix(err.Error(), "2 validation errors:"))
	require.Contains(t, err.Error(), "backend")
	require.Contains(t, err.Error(), "log.level")
}

func TestValidationErrorText(t *testing.T) {
	t.Parallel()

	e := config.ValidationError{Field: "log.level", Value: "loud", Message: "bad"}
	require.Equal(t, "log.level: bad (got: loud)", e.Error())
	require.Equal(t, e.Error(), config.ValidationErrors{e}.Error())
	require.Empty(t, config.ValidationErrors{}.Error())
}

func TestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	lc := config.LogConfig{Level: "warn", Format: "json"}
	log := lc.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "shown", line["msg"])

	require.Equal(t, "DEBUG", config.LogConfig{Level: "DEBUG"}.SlogLevel().String())
	require.Equal(t, "INFO", config.LogConfig{Level: "whatever"}.SlogLevel().String())
}

func TestDispatcher(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Backend = "B"
	cfg.UseWarmStart = true
	d, err := cfg.Dispatcher(config.LogConfig{Level: "error"}.Logger(&bytes.Buffer{}))
	require.NoError(t, err)
	require.Equal(t, sdp.FamilyDual, d.Config().Backend)
	require.True(t, d.Config().UseWarmStart)

	res, err := d.Solve(sdptest.Feasible(), nil, "")
	require.NoError(t, err)
	require.Equal(t, sdp.FamilyDual, res.Backend)
	require.Equal(t, sdp.Optimal, res.Termination)

	bad := config.Default()
	bad.Backend = "nope"
	_, err = bad.Dispatcher(config.Default().Log.Logger(&bytes.Buffer{}))
	require.ErrorIs(t, err, sdp.ErrUnknownBackend)

	bad = config.Default()
	bad.Primal.GapTol = 2
	_, err = bad.Dispatcher(config.Default().Log.Logger(&bytes.Buffer{}))
	require.ErrorIs(t, err, adapter.ErrInvalidOptions)
}
