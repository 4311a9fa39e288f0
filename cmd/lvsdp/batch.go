// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvsdp/sdp"
)

// batchRow is the outcome of one file.
type batchRow struct {
	file string
	res  sdp.Result
	err  error
}

func (a *app) newBatchCmd() *cobra.Command {
	var (
		jobs   int
		outDir string
		format string
	)
	cmd := &cobra.Command{
		Use:   "batch <problem-file>...",
		Short: "Solve many problem files concurrently",
		Long: `Solves every file with at most --jobs solves in flight and prints one
summary line per file in input order. With --out-dir each result is also
written to <out-dir>/<name>.result.<format>. A file that cannot be read or
validated is reported in the summary; the command fails if any did.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dispatcher()
			if err != nil {
				return err
			}
			if outDir != "" {
				if err = os.MkdirAll(outDir, 0o755); err != nil {
					return err
				}
			}
			f := resultFormat(format, "")

			rows := make([]batchRow, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(jobs, 1))
			for i, file := range args {
				g.Go(func() error {
					rows[i].file = file
					p, ws, err := sdp.ReadProblemFile(file)
					if err != nil {
						rows[i].err = err
						return nil
					}
					if rows[i].res, err = d.SolveContext(ctx, p, ws, ""); err != nil {
						rows[i].err = err
						return nil
					}
					if outDir == "" {
						return nil
					}
					base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
					out := filepath.Join(outDir, base+".result."+string(f))
					return a.writeResult(out, f, p, rows[i].res)
				})
			}
			if err = g.Wait(); err != nil {
				return err
			}

			failed := 0
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tBACKEND\tTERMINATION\tPRIMAL\tDUAL\tITER")
			for _, r := range rows {
				if r.err != nil {
					failed++
					fmt.Fprintf(tw, "%s\t-\tERROR\t-\t-\t-\t%v\n", r.file, r.err)
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.8g\t%.8g\t%d\n", r.file, r.res.Backend, r.res.Termination,
					r.res.Objective[0], r.res.Objective[1], r.res.Iterations)
			}
			if err = tw.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(rows))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Maximum concurrent solves")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for per-file results")
	cmd.Flags().StringVar(&format, "format", "yaml", "Result format: yaml or json")
	return cmd
}
