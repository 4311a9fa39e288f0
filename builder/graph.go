// SPDX-License-Identifier: MIT
// Package: lvsdp/builder
//
// graph.go — weighted undirected graphs and the topology constructors.
//
// Contract:
//   • Vertices are 0..N-1; every edge has U < V; no loops, no multi-edges.
//   • Edges are emitted in ascending (U, V) order.
//   • Weights come from cfg.weightFn(cfg.rng), drawn in emission order.
//
// Complexity:
//   • Cycle/Path/Star/Wheel/Grid: O(n) edges.
//   • Complete/RandomSparse: O(n²) pairs.

package builder

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/lvsdp/matrix"
)

// Edge is an undirected weighted edge with U < V.
type Edge struct {
	U, V int
	W    float64
}

// Graph is a weighted undirected graph on vertices 0..N-1.
type Graph struct {
	N     int
	Edges []Edge
}

// Topology emits the vertex count and the unweighted edge list of a graph.
type Topology func(cfg builderConfig) (n int, pairs [][2]int, err error)

// Method tags used as error prefixes.
const (
	methodCycle        = "Cycle"
	methodPath         = "Path"
	methodStar         = "Star"
	methodWheel        = "Wheel"
	methodComplete     = "Complete"
	methodGrid         = "Grid"
	methodRandomSparse = "RandomSparse"
)

// Minimum sizes per topology.
const (
	minCycleNodes    = 3
	minPathNodes     = 2
	minStarNodes     = 2
	minWheelNodes    = 4
	minCompleteNodes = 2
	minGridDim       = 1
	minRandomNodes   = 2
)

// BuildGraph runs t under opts and assigns weights.
func BuildGraph(t Topology, opts ...BuilderOption) (Graph, error) {
	cfg := newBuilderConfig(opts...)
	n, pairs, err := t(cfg)
	if err != nil {
		return Graph{}, err
	}

	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})
	g := Graph{N: n, Edges: make([]Edge, len(pairs))}
	for k, p := range pairs {
		g.Edges[k] = Edge{U: p[0], V: p[1], W: cfg.weightFn(cfg.rng)}
	}
	return g, nil
}

// Cycle returns the n-vertex cycle C_n (n ≥ 3).
func Cycle(n int) Topology {
	return func(builderConfig) (int, [][2]int, error) {
		if n < minCycleNodes {
			return 0, nil, fmt.Errorf("%s: n=%d < min=%d: %w", methodCycle, n, minCycleNodes, ErrTooFewVertices)
		}
		pairs := make([][2]int, 0, n)
		for i := 0; i < n; i++ {
			pairs = append(pairs, ordered(i, (i+1)%n))
		}
		return n, pairs, nil
	}
}

// Path returns the n-vertex path P_n (n ≥ 2).
func Path(n int) Topology {
	return func(builderConfig) (int, [][2]int, error) {
		if n < minPathNodes {
			return 0, nil, fmt.Errorf("%s: n=%d < min=%d: %w", methodPath, n, minPathNodes, ErrTooFewVertices)
		}
		pairs := make([][2]int, 0, n-1)
		for i := 0; i+1 < n; i++ {
			pairs = append(pairs, [2]int{i, i + 1})
		}
		return n, pairs, nil
	}
}

// Star returns a hub (vertex 0) joined to n-1 leaves (n ≥ 2).
func Star(n int) Topology {
	return func(builderConfig) (int, [][2]int, error) {
		if n < minStarNodes {
			return 0, nil, fmt.Errorf("%s: n=%d < min=%d: %w", methodStar, n, minStarNodes, ErrTooFewVertices)
		}
		pairs := make([][2]int, 0, n-1)
		for i := 1; i < n; i++ {
			pairs = append(pairs, [2]int{0, i})
		}
		return n, pairs, nil
	}
}

// Wheel returns a hub (vertex 0) joined to every vertex of the cycle on
// 1..n-1 (n ≥ 4).
func Wheel(n int) Topology {
	return func(builderConfig) (int, [][2]int, error) {
		if n < minWheelNodes {
			return 0, nil, fmt.Errorf("%s: n=%d < min=%d: %w", methodWheel, n, minWheelNodes, ErrTooFewVertices)
		}
		rim := n - 1
		pairs := make([][2]int, 0, 2*rim)
		for i := 1; i < n; i++ {
			pairs = append(pairs, [2]int{0, i})
			pairs = append(pairs, ordered(i, 1+i%rim))
		}
		return n, pairs, nil
	}
}

// Complete returns K_n (n ≥ 2).
func Complete(n int) Topology {
	return func(builderConfig) (int, [][2]int, error) {
		if n < minCompleteNodes {
			return 0, nil, fmt.Errorf("%s: n=%d < min=%d: %w", methodComplete, n, minCompleteNodes, ErrTooFewVertices)
		}
		pairs := make([][2]int, 0, n*(n-1)/2)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, [2]int{i, j})
			}
		}
		return n, pairs, nil
	}
}

// Grid returns the rows×cols 4-neighbour lattice; vertex (r, c) is r*cols+c.
func Grid(rows, cols int) Topology {
	return func(builderConfig) (int, [][2]int, error) {
		if rows < minGridDim || cols < minGridDim {
			return 0, nil, fmt.Errorf("%s: %dx%d < min=%d: %w", methodGrid, rows, cols, minGridDim, ErrTooFewVertices)
		}
		var pairs [][2]int
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				v := r*cols + c
				if c+1 < cols {
					pairs = append(pairs, [2]int{v, v + 1})
				}
				if r+1 < rows {
					pairs = append(pairs, [2]int{v, v + cols})
				}
			}
		}
		return rows * cols, pairs, nil
	}
}

// RandomSparse includes each of the n(n-1)/2 pairs independently with
// probability p. The RNG is required when 0 < p < 1.
func RandomSparse(n int, p float64) Topology {
	return func(cfg builderConfig) (int, [][2]int, error) {
		if n < minRandomNodes {
			return 0, nil, fmt.Errorf("%s: n=%d < min=%d: %w", methodRandomSparse, n, minRandomNodes, ErrTooFewVertices)
		}
		if p < 0 || p > 1 {
			return 0, nil, fmt.Errorf("%s: p=%.6f not in [0,1]: %w", methodRandomSparse, p, ErrInvalidProbability)
		}
		if cfg.rng == nil && p > 0 && p < 1 {
			return 0, nil, fmt.Errorf("%s: %w", methodRandomSparse, ErrNeedRandSource)
		}
		var pairs [][2]int
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if p == 1 || (p > 0 && cfg.rng.Float64() < p) {
					pairs = append(pairs, [2]int{i, j})
				}
			}
		}
		return n, pairs, nil
	}
}

// Laplacian returns L = D − W.
func (g Graph) Laplacian() (*matrix.Dense, error) {
	l, err := matrix.NewDense(g.N, g.N)
	if err != nil {
		return nil, err
	}
	add := func(i, j int, v float64) error {
		cur, err := l.At(i, j)
		if err != nil {
			return err
		}
		return l.Set(i, j, cur+v)
	}
	for _, e := range g.Edges {
		for _, step := range []struct {
			i, j int
			v    float64
		}{{e.U, e.U, e.W}, {e.V, e.V, e.W}, {e.U, e.V, -e.W}, {e.V, e.U, -e.W}} {
			if err = add(step.i, step.j, step.v); err != nil {
				return nil, err
			}
		}
	}
	return l, nil
}

// TotalWeight is the sum of edge weights.
func (g Graph) TotalWeight() float64 {
	var s float64
	for _, e := range g.Edges {
		s += e.W
	}
	return s
}

func ordered(i, j int) [2]int {
	if i > j {
		return [2]int{j, i}
	}
	return [2]int{i, j}
}
