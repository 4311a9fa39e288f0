// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvsdp/sdp"
)

func (a *app) newSolveCmd() *cobra.Command {
	var (
		outPath        string
		format         string
		requireOptimal bool
	)
	cmd := &cobra.Command{
		Use:   "solve <problem-file>",
		Short: "Solve one problem file",
		Long: `Reads a problem file (YAML, or JSON by .json extension), solves it on the
configured backend and writes the result with its residual report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher()
			if err != nil {
				return err
			}
			p, ws, err := sdp.ReadProblemFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			res, err := d.SolveContext(cmd.Context(), p, ws, "")
			if err != nil {
				return fmt.Errorf("solve %s: %w", args[0], err)
			}

			f := resultFormat(format, outPath)
			if err = a.writeResult(outPath, f, p, res); err != nil {
				return err
			}
			if requireOptimal && res.Termination != sdp.Optimal {
				return fmt.Errorf("%s: termination %s (%s)", args[0], res.Termination, res.Native)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Result file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "Result format: yaml or json (default: from --out, else yaml)")
	cmd.Flags().BoolVar(&requireOptimal, "require-optimal", false, "Exit non-zero unless the termination is OPTIMAL")
	return cmd
}

// resultFormat picks an explicit format, else one from the output path.
func resultFormat(format, outPath string) sdp.Format {
	switch sdp.Format(format) {
	case sdp.FormatJSON, sdp.FormatYAML:
		return sdp.Format(format)
	}
	if outPath != "" {
		return sdp.FormatFromPath(outPath)
	}
	return sdp.FormatYAML
}

// writeResult encodes res, with residuals when it carries a solution, to
// path or stdout.
func (a *app) writeResult(path string, f sdp.Format, p *sdp.Problem, res sdp.Result) error {
	var rep *sdp.Report
	if res.HasSolution() {
		r, err := sdp.Residuals(p, res)
		if err != nil {
			return err
		}
		rep = &r
	}

	var w io.Writer = a.stdout
	if path != "" {
		fh, err := os.Create(path)
		if err != nil {
			return err
		}
		defer fh.Close()
		w = fh
	}
	if err := sdp.EncodeResult(w, f, res, rep); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
