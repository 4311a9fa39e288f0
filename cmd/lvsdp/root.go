// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/katalvlaran/lvsdp/config"
	"github.com/katalvlaran/lvsdp/solver"
)

// app is the state shared by all subcommands once the root pre-run has
// loaded the configuration.
type app struct {
	stdout, stderr io.Writer
	configFile     string

	cfg    *config.Config
	logger *slog.Logger
}

// flagKeys binds command-line flags onto config keys; flags override the
// file and the environment.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"backend":    "backend",
	"warm-start": "use_warm_start",
	"addr":       "server.addr",
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "lvsdp",
		Short: "Solve block-diagonal semidefinite programs",
		Long: `lvsdp solves min Σ⟨C_j,X_j⟩ s.t. Σ⟨A_ij,X_j⟩ = b_i, X_j ⪰ 0
on one of two interior-point backends and reports a canonical termination
status (OPTIMAL, PRIMAL_INFEASIBLE, DUAL_INFEASIBLE, BOTH_INFEASIBLE,
INDETERMINATE) whichever backend ran.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default: ./lvsdp.yaml or $XDG_CONFIG_HOME/lvsdp/lvsdp.yaml)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.String("backend", "", "Backend family (primal-form, dual-form, or an alias: A, B, primal, dual)")
	pf.Bool("warm-start", false, "Pass warm starts from problem files to backends that accept them")

	root.AddCommand(
		a.newSolveCmd(),
		a.newBatchCmd(),
		a.newBackendsCmd(),
		a.newGenCmd(),
		a.newServeCmd(),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration and builds the logger.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(a.configFile)
	if err != nil {
		return err
	}
	if err = bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	if a.cfg, err = config.Load(v); err != nil {
		return err
	}
	a.logger = a.cfg.Log.Logger(a.stderr)
	return nil
}

// bindFlags binds only flags the user set, so unset flags do not mask the
// file or the environment.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) dispatcher() (*solver.Dispatcher, error) {
	return a.cfg.Dispatcher(a.logger)
}
