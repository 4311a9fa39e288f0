// SPDX-License-Identifier: MIT

package solver_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lvsdp/adapter"
	"github.com/katalvlaran/lvsdp/matrix"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/katalvlaran/lvsdp/sdp/sdptest"
	"github.com/katalvlaran/lvsdp/solver"
)

// spy wraps a real adapter and records what reaches it.
type spy struct {
	adapter.Adapter
	noWarmStart bool
	fail        error

	mu      sync.Mutex
	gotWS   []*sdp.WarmStart
	invokes atomic.Int32
}

func (s *spy) Capabilities() adapter.Capabilities {
	c := s.Adapter.Capabilities()
	if s.noWarmStart {
		c.WarmStart = false
	}
	return c
}

func (s *spy) Prepare(p *sdp.Problem, ws *sdp.WarmStart) (adapter.Args, error) {
	s.mu.Lock()
	s.gotWS = append(s.gotWS, ws)
	s.mu.Unlock()
	return s.Adapter.Prepare(p, ws)
}

func (s *spy) Invoke(args adapter.Args) (adapter.Raw, error) {
	s.invokes.Add(1)
	if s.fail != nil {
		return nil, s.fail
	}
	return s.Adapter.Invoke(args)
}

func (s *spy) lastWS() *sdp.WarmStart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gotWS[len(s.gotWS)-1]
}

func primalSpy(t *testing.T) *spy {
	t.Helper()
	a, err := adapter.NewPrimal(adapter.PrimalOptions{})
	require.NoError(t, err)
	return &spy{Adapter: a}
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newDispatcher(t *testing.T, opts ...solver.Option) *solver.Dispatcher {
	t.Helper()
	d, err := solver.New(append([]solver.Option{solver.WithLogger(quiet())}, opts...)...)
	require.NoError(t, err)
	return d
}

func identityStart(n, m int) *sdp.WarmStart {
	return &sdp.WarmStart{
		X: []matrix.Matrix{sdptest.Identity(n)},
		Y: make([]float64, m),
		Z: []matrix.Matrix{sdptest.Identity(n)},
	}
}

func TestSolveBothFamilies(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t)
	tests := []struct {
		name     string
		selector sdp.Family
		want     sdp.Family
	}{
		{"primal", sdp.FamilyPrimal, sdp.FamilyPrimal},
		{"dual", sdp.FamilyDual, sdp.FamilyDual},
		{"alias A", "A", sdp.FamilyPrimal},
		{"alias family-B", "family-B", sdp.FamilyDual},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := d.Solve(sdptest.Feasible(), nil, tt.selector)
			require.NoError(t, err)
			require.Equal(t, sdp.Optimal, res.Termination, res.Native)
			require.Equal(t, tt.want, res.Backend)
			require.InDelta(t, sdptest.FeasibleValue, res.Objective[0], 1e-4)
			require.InDelta(t, sdptest.FeasibleValue, res.Objective[1], 1e-4)
			require.True(t, res.HasSolution())
			require.Len(t, res.Y, 2)
			require.Positive(t, res.Iterations)

			rep, err := sdp.Residuals(sdptest.Feasible(), res)
			require.NoError(t, err)
			require.Less(t, rep.PrimalResidual, 1e-5)
		})
	}
}

func TestSolveInfeasibleAgreesAcrossFamilies(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t)
	for _, fam := range sdp.Families() {
		res, err := d.Solve(sdptest.Infeasible(), nil, fam)
		require.NoError(t, err)
		require.Equal(t, sdp.PrimalInfeasible, res.Termination, "%s: %s", fam, res.Native)
	}
}

func TestSolveTwoBlocks(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t)
	for _, fam := range sdp.Families() {
		res, err := d.Solve(sdptest.TwoBlocks(), nil, fam)
		require.NoError(t, err)
		require.Equal(t, sdp.Optimal, res.Termination, "%s: %s", fam, res.Native)
		require.InDelta(t, 2.0, res.Objective[0], 1e-4)
		require.Len(t, res.X, 2)
		require.Equal(t, 1, res.X[1].Rows())
	}
}

func TestSolveTermsSplitAcrossOneBlock(t *testing.T) {
	t.Parallel()

	// min X11 + 10·X22 s.t. X11 + X22 = 2, given as two terms on block 1.
	doc := `{"blocks":[2],"c":[{"dense":[[1,0],[0,10]]}],"constraints":[{"b":2,"a":[
		{"block":1,"matrix":{"dense":[[1,0],[0,0]]}},
		{"block":1,"matrix":{"dense":[[0,0],[0,1]]}}]}]}`
	d := newDispatcher(t)
	for _, fam := range sdp.Families() {
		p, _, err := sdp.DecodeProblem(strings.NewReader(doc), sdp.FormatJSON)
		require.NoError(t, err)
		res, err := d.Solve(p, nil, fam)
		require.NoError(t, err)
		require.Equal(t, sdp.Optimal, res.Termination, "%s: %s", fam, res.Native)
		require.InDelta(t, 2.0, res.Objective[0], 1e-4, fam)
		require.InDelta(t, 2.0, res.Objective[1], 1e-4, fam)
	}
}

func TestSolveRejectsBeforeBackend(t *testing.T) {
	t.Parallel()

	s := primalSpy(t)
	d := newDispatcher(t, solver.WithAdapter(s))

	wide, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	badShape := sdptest.Feasible()
	badShape.C[0] = wide

	asym := sdptest.Feasible()
	asym.C[0] = sdptest.Dense([]float64{1, 2}, []float64{0, 1})

	tests := []struct {
		name     string
		p        *sdp.Problem
		selector sdp.Family
		want     error
	}{
		{"unknown selector", sdptest.Feasible(), "family-Q", sdp.ErrUnknownBackend},
		{"nil problem", nil, sdp.FamilyPrimal, sdp.ErrShapeMismatch},
		{"wide objective", badShape, sdp.FamilyPrimal, sdp.ErrShapeMismatch},
		{"asymmetric objective", asym, sdp.FamilyPrimal, sdp.ErrAsymmetry},
	}
	for _, tt := range tests {
		res, err := d.Solve(tt.p, nil, tt.selector)
		require.ErrorIs(t, err, tt.want, tt.name)
		require.Equal(t, sdp.Result{}, res, tt.name)
	}
	require.Zero(t, s.invokes.Load())
}

func TestSolveBackendFailureIsIndeterminate(t *testing.T) {
	t.Parallel()

	s := primalSpy(t)
	s.fail = errors.New("factorization exploded")
	d := newDispatcher(t, solver.WithAdapter(s))

	res, err := d.Solve(sdptest.Feasible(), nil, sdp.FamilyPrimal)
	require.NoError(t, err)
	require.Equal(t, sdp.Indeterminate, res.Termination)
	require.Equal(t, sdp.FamilyPrimal, res.Backend)
	require.Contains(t, res.Native, "factorization exploded")
	require.False(t, res.HasSolution())
	require.EqualValues(t, 1, s.invokes.Load())
}

func TestSolveWarmStartPolicy(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	s := primalSpy(t)
	d, err := solver.New(
		solver.WithAdapter(s),
		solver.WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	require.NoError(t, err)
	p := sdptest.Feasible()
	ws := identityStart(2, 2)
	bad := identityStart(2, 3)

	// Disabled by default: ignored, even when malformed.
	require.False(t, d.Config().UseWarmStart)
	_, err = d.Solve(p, bad, sdp.FamilyPrimal)
	require.NoError(t, err)
	require.Nil(t, s.lastWS())
	require.Contains(t, logs.String(), "disabled by configuration")

	d.SetConfig(solver.Config{Backend: sdp.FamilyPrimal, UseWarmStart: true})
	res, err := d.Solve(p, ws, sdp.FamilyPrimal)
	require.NoError(t, err)
	require.Same(t, ws, s.lastWS())
	require.Equal(t, sdp.Optimal, res.Termination)

	calls := s.invokes.Load()
	_, err = d.Solve(p, bad, sdp.FamilyPrimal)
	require.ErrorIs(t, err, sdp.ErrBadWarmStart)
	require.Equal(t, calls, s.invokes.Load())

	s.noWarmStart = true
	_, err = d.Solve(p, ws, sdp.FamilyPrimal)
	require.NoError(t, err)
	require.Nil(t, s.lastWS())
	require.Contains(t, logs.String(), "backend does not support it")
}

func TestConfigSelectsDefaultBackend(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, solver.WithConfig(solver.Config{Backend: sdp.FamilyDual}))
	require.Equal(t, sdp.FamilyDual, d.Config().Backend)

	res, err := d.Solve(sdptest.Feasible(), nil, "")
	require.NoError(t, err)
	require.Equal(t, sdp.FamilyDual, res.Backend)

	d.SetConfig(solver.Config{Backend: sdp.FamilyPrimal})
	res, err = d.Solve(sdptest.Feasible(), nil, "")
	require.NoError(t, err)
	require.Equal(t, sdp.FamilyPrimal, res.Backend)

	// An explicit selector wins over the configured default.
	res, err = d.Solve(sdptest.Feasible(), nil, sdp.FamilyDual)
	require.NoError(t, err)
	require.Equal(t, sdp.FamilyDual, res.Backend)
}

func TestSolveConcurrent(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t)
	results := make([]sdp.Result, 8)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			fam := sdp.Families()[i%2]
			res, err := d.Solve(sdptest.Feasible(), nil, fam)
			results[i] = res
			return err
		})
	}
	require.NoError(t, g.Wait())
	for i, res := range results {
		require.Equal(t, sdp.Optimal, res.Termination, "run %d", i)
		require.InDelta(t, sdptest.FeasibleValue, res.Objective[0], 1e-4)
	}
}

func TestSolveTraces(t *testing.T) {
	t.Parallel()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	d := newDispatcher(t, solver.WithTracerProvider(tp))

	_, err := d.Solve(sdptest.Feasible(), nil, sdp.FamilyDual)
	require.NoError(t, err)
	_, err = d.Solve(sdptest.Feasible(), nil, "bogus")
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "Dispatcher.Solve", spans[0].Name())
	require.Equal(t, codes.Ok, spans[0].Status().Code)
	require.Contains(t, spans[0].Attributes(), attribute.String("lvsdp.backend", "dual-form"))
	require.Contains(t, spans[0].Attributes(), attribute.String("lvsdp.termination", sdp.Optimal.String()))
	require.Equal(t, codes.Error, spans[1].Status().Code)

	s := primalSpy(t)
	s.fail = errors.New("factorization exploded")
	degraded := newDispatcher(t, solver.WithAdapter(s), solver.WithTracerProvider(tp))
	res, err := degraded.Solve(sdptest.Feasible(), nil, sdp.FamilyPrimal)
	require.NoError(t, err)
	require.Equal(t, sdp.Indeterminate, res.Termination)

	spans = rec.Ended()
	require.Len(t, spans, 3)
	require.Equal(t, codes.Error, spans[2].Status().Code)
	require.Contains(t, spans[2].Attributes(), attribute.String("lvsdp.termination", sdp.Indeterminate.String()))
	require.NotEmpty(t, spans[2].Events(), "backend error recorded on the span")
}

func TestBackends(t *testing.T) {
	t.Parallel()

	infos := newDispatcher(t).Backends()
	require.Len(t, infos, 2)
	require.Equal(t, sdp.FamilyPrimal, infos[0].Family)
	require.Equal(t, sdp.FamilyDual, infos[1].Family)
	for _, info := range infos {
		require.True(t, info.Capabilities.WarmStart, info.Family)
		require.True(t, info.Capabilities.PrintLevel, info.Family)
	}
	require.Equal(t, infos, solver.Backends())
}

func TestPackageSolve(t *testing.T) {
	t.Parallel()

	res, err := solver.Solve(sdptest.Feasible(), nil, "")
	require.NoError(t, err)
	require.Equal(t, sdp.Optimal, res.Termination)
	require.Equal(t, solver.DefaultConfig().Backend, res.Backend)
	require.Same(t, solver.Default(), solver.Default())
}

func TestOptionsPanicOnNil(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { solver.WithLogger(nil) })
	require.Panics(t, func() { solver.WithAdapter(nil) })
	require.Panics(t, func() { solver.WithTracerProvider(nil) })
}
