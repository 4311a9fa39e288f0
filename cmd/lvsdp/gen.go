// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvsdp/builder"
	"github.com/katalvlaran/lvsdp/sdp"
)

// genFlags are shared by the gen subcommands.
type genFlags struct {
	topology string
	n        int
	rows     int
	cols     int
	prob     float64
	seed     int64
	weights  string
	dense    bool
	outPath  string
}

func (a *app) newGenCmd() *cobra.Command {
	var gf genFlags
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate benchmark problem files",
		Long: `Writes benchmark SDP instances as problem files:

  maxcut   Goemans–Williamson relaxation of a weighted graph
  theta    Lovász theta of a graph
  random   random data around a strictly feasible point`,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&gf.topology, "topology", "cycle", "Graph: cycle, path, star, wheel, complete, grid, random")
	pf.IntVarP(&gf.n, "nodes", "n", 5, "Vertex count")
	pf.IntVar(&gf.rows, "rows", 2, "Grid rows")
	pf.IntVar(&gf.cols, "cols", 3, "Grid columns")
	pf.Float64Var(&gf.prob, "p", 0.5, "Edge probability for the random topology")
	pf.Int64Var(&gf.seed, "seed", 1, "RNG seed")
	pf.StringVar(&gf.weights, "weights", "unit", "Edge weights: unit, or min:max for uniform")
	pf.BoolVar(&gf.dense, "dense", false, "Write dense constraint matrices")
	pf.StringVarP(&gf.outPath, "out", "o", "", "Problem file (default: stdout as YAML)")

	graphCmd := func(use, short string, build func(builder.Topology, ...builder.BuilderOption) (*sdp.Problem, builder.Graph, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				topo, err := gf.topologyOf()
				if err != nil {
					return err
				}
				opts, err := gf.options()
				if err != nil {
					return err
				}
				p, g, err := build(topo, opts...)
				if err != nil {
					return err
				}
				a.logger.Info("generated", "kind", use, "vertices", g.N, "edges", len(g.Edges),
					"constraints", p.NumConstraints())
				return a.writeProblem(gf.outPath, p)
			},
		}
	}

	var sizes []int
	var m int
	random := &cobra.Command{
		Use:   "random",
		Short: "Random problem with a guaranteed optimum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := builder.RandomFeasible(sizes, m, builder.WithSeed(gf.seed))
			if err != nil {
				return err
			}
			return a.writeProblem(gf.outPath, p)
		},
	}
	random.Flags().IntSliceVar(&sizes, "sizes", []int{3, 2}, "Block sizes")
	random.Flags().IntVarP(&m, "constraints", "m", 4, "Constraint count")

	cmd.AddCommand(
		graphCmd("maxcut", "MaxCut relaxation", builder.MaxCut),
		graphCmd("theta", "Lovász theta", builder.Theta),
		random,
	)
	return cmd
}

func (gf genFlags) topologyOf() (builder.Topology, error) {
	switch strings.ToLower(gf.topology) {
	case "cycle":
		return builder.Cycle(gf.n), nil
	case "path":
		return builder.Path(gf.n), nil
	case "star":
		return builder.Star(gf.n), nil
	case "wheel":
		return builder.Wheel(gf.n), nil
	case "complete":
		return builder.Complete(gf.n), nil
	case "grid":
		return builder.Grid(gf.rows, gf.cols), nil
	case "random":
		return builder.RandomSparse(gf.n, gf.prob), nil
	default:
		return nil, fmt.Errorf("unknown topology %q", gf.topology)
	}
}

func (gf genFlags) options() ([]builder.BuilderOption, error) {
	opts := []builder.BuilderOption{builder.WithSeed(gf.seed)}
	if gf.dense {
		opts = append(opts, builder.WithDense())
	}
	if gf.weights != "unit" {
		var lo, hi float64
		if _, err := fmt.Sscanf(gf.weights, "%g:%g", &lo, &hi); err != nil || lo < 0 || hi < lo {
			return nil, fmt.Errorf("bad --weights %q: want min:max with 0 <= min <= max", gf.weights)
		}
		opts = append(opts, builder.WithWeightFn(builder.UniformWeightFn(lo, hi)))
	}
	return opts, nil
}

// writeProblem encodes p to path (format from its extension) or to stdout
// as YAML.
func (a *app) writeProblem(path string, p *sdp.Problem) error {
	var w io.Writer = a.stdout
	f := sdp.FormatYAML
	if path != "" {
		fh, err := os.Create(path)
		if err != nil {
			return err
		}
		defer fh.Close()
		w, f = fh, sdp.FormatFromPath(path)
	}
	return sdp.EncodeProblem(w, f, p, nil)
}
