// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/lvsdp/adapter"
	"github.com/katalvlaran/lvsdp/matrix"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/katalvlaran/lvsdp/status"
)

const tracerName = "lvsdp.solver"

// Config is the per-call configuration snapshot.
type Config struct {
	// Backend is used when Solve receives an empty selector.
	Backend sdp.Family
	// UseWarmStart enables passing warm starts to backends that accept them.
	UseWarmStart bool
}

// DefaultConfig selects the primal-form backend with warm starts disabled.
func DefaultConfig() Config {
	return Config{Backend: sdp.FamilyPrimal}
}

// BackendInfo describes one registered backend.
type BackendInfo struct {
	Family       sdp.Family           `json:"family" yaml:"family"`
	Capabilities adapter.Capabilities `json:"capabilities" yaml:"capabilities"`
}

// Dispatcher routes problems to backend adapters. The adapter registry is
// fixed at construction; the Config may be swapped at any time with
// SetConfig and is read once per Solve.
type Dispatcher struct {
	adapters     map[sdp.Family]adapter.Adapter
	cfg          atomic.Pointer[Config]
	logger       *slog.Logger
	tracer       trace.Tracer
	validateOpts []sdp.ValidateOption
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("solver: WithLogger(nil)")
	}
	return func(d *Dispatcher) { d.logger = l }
}

// WithAdapter registers a for its family, replacing the default. Panics on nil.
func WithAdapter(a adapter.Adapter) Option {
	if a == nil {
		panic("solver: WithAdapter(nil)")
	}
	return func(d *Dispatcher) { d.adapters[a.Family()] = a }
}

// WithConfig sets the initial configuration.
func WithConfig(c Config) Option {
	return func(d *Dispatcher) { d.cfg.Store(&c) }
}

// WithTracerProvider sets the span source; the default is the global provider.
// Panics on nil.
func WithTracerProvider(tp trace.TracerProvider) Option {
	if tp == nil {
		panic("solver: WithTracerProvider(nil)")
	}
	return func(d *Dispatcher) { d.tracer = tp.Tracer(tracerName) }
}

// WithValidateOptions forwards options to sdp.Problem.Validate.
func WithValidateOptions(opts ...sdp.ValidateOption) Option {
	return func(d *Dispatcher) { d.validateOpts = append(d.validateOpts, opts...) }
}

// New builds a Dispatcher with both backend families registered under their
// default options, then applies opts.
func New(opts ...Option) (*Dispatcher, error) {
	primal, err := adapter.NewPrimal(adapter.PrimalOptions{})
	if err != nil {
		return nil, err
	}
	dual, err := adapter.NewDual(adapter.DualOptions{})
	if err != nil {
		return nil, err
	}
	d := &Dispatcher{
		adapters: map[sdp.Family]adapter.Adapter{
			sdp.FamilyPrimal: primal,
			sdp.FamilyDual:   dual,
		},
		logger: slog.Default(),
		tracer: otel.GetTracerProvider().Tracer(tracerName),
	}
	cfg := DefaultConfig()
	d.cfg.Store(&cfg)
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Config returns the current configuration.
func (d *Dispatcher) Config() Config { return *d.cfg.Load() }

// SetConfig replaces the configuration for subsequent calls. Calls already
// running keep the snapshot they started with.
func (d *Dispatcher) SetConfig(c Config) { d.cfg.Store(&c) }

// Backends lists the registered backends in sdp.Families order.
func (d *Dispatcher) Backends() []BackendInfo {
	out := make([]BackendInfo, 0, len(d.adapters))
	for _, f := range sdp.Families() {
		if a, ok := d.adapters[f]; ok {
			out = append(out, BackendInfo{Family: f, Capabilities: a.Capabilities()})
		}
	}
	return out
}

// Solve is SolveContext with a background context.
func (d *Dispatcher) Solve(p *sdp.Problem, ws *sdp.WarmStart, selector sdp.Family) (sdp.Result, error) {
	return d.SolveContext(context.Background(), p, ws, selector)
}

// SolveContext solves p on the backend named by selector, or on the
// configured default when selector is empty. ctx scopes tracing only; a
// running backend is not interrupted.
//
// Errors (all before any backend call):
//   - validation errors of p (sdp.ErrShapeMismatch, sdp.ErrSizeMismatch,
//     sdp.ErrAsymmetry, sdp.ErrNonFinite);
//   - sdp.ErrUnknownBackend for an unknown or unregistered selector;
//   - sdp.ErrBadWarmStart when ws will be used and does not fit p.
func (d *Dispatcher) SolveContext(ctx context.Context, p *sdp.Problem, ws *sdp.WarmStart, selector sdp.Family) (sdp.Result, error) {
	cfg := d.Config()
	if selector == "" {
		selector = cfg.Backend
	}
	runID := uuid.NewString()
	log := d.logger.With("run_id", runID)
	_, span := d.tracer.Start(ctx, "Dispatcher.Solve", trace.WithAttributes(
		attribute.String("lvsdp.run_id", runID),
		attribute.String("lvsdp.selector", string(selector)),
	))
	defer span.End()

	fail := func(stage string, err error) (sdp.Result, error) {
		failuresTotal.WithLabelValues(stage).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debug("solve rejected", "stage", stage, "error", err)
		return sdp.Result{}, err
	}

	if err := p.Validate(d.validateOpts...); err != nil {
		return fail(stageValidate, err)
	}
	fam, err := sdp.ParseFamily(string(selector))
	if err != nil {
		return fail(stageSelect, err)
	}
	a, ok := d.adapters[fam]
	if !ok {
		return fail(stageSelect, fmt.Errorf("%w: %q is not registered", sdp.ErrUnknownBackend, fam))
	}
	span.SetAttributes(
		attribute.String("lvsdp.backend", string(fam)),
		attribute.Int("lvsdp.constraints", p.NumConstraints()),
		attribute.Int("lvsdp.blocks", p.NumBlocks()),
	)

	if ws != nil {
		switch {
		case !cfg.UseWarmStart:
			log.Debug("warm start ignored: disabled by configuration")
			ws = nil
		case !a.Capabilities().WarmStart:
			log.Warn("warm start ignored: backend does not support it", "backend", fam)
			ws = nil
		default:
			if err = ws.ValidateFor(p); err != nil {
				return fail(stageWarmStart, err)
			}
		}
	}

	log.Debug("solve started", "backend", fam,
		"constraints", p.NumConstraints(), "blocks", p.NumBlocks(), "warm_start", ws != nil)
	start := time.Now()

	args, err := a.Prepare(p, ws)
	if err != nil {
		return fail(stagePrepare, err)
	}
	res, runErr := d.run(a, args)
	elapsed := time.Since(start)
	if runErr != nil {
		failuresTotal.WithLabelValues(stageBackend).Inc()
		span.RecordError(runErr)
		log.Warn("backend failed", "backend", fam, "error", runErr)
		res = sdp.Result{Termination: sdp.Indeterminate, Native: runErr.Error()}
	}
	res.Backend = fam

	solvesTotal.WithLabelValues(string(fam), res.Termination.String()).Inc()
	solveDuration.WithLabelValues(string(fam)).Observe(elapsed.Seconds())
	solveIterations.WithLabelValues(string(fam)).Observe(float64(res.Iterations))
	span.SetAttributes(
		attribute.String("lvsdp.termination", res.Termination.String()),
		attribute.Int("lvsdp.iterations", res.Iterations),
	)
	if runErr != nil {
		span.SetStatus(codes.Error, stageBackend)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	log.Info("solve finished",
		"backend", fam,
		"termination", res.Termination.String(),
		"native", res.Native,
		"primal_objective", res.Objective[0],
		"dual_objective", res.Objective[1],
		"iterations", res.Iterations,
		"duration", elapsed,
	)

	return res, nil
}

// run invokes the backend and assembles the canonical result.
func (d *Dispatcher) run(a adapter.Adapter, args adapter.Args) (sdp.Result, error) {
	raw, err := a.Invoke(args)
	if err != nil {
		return sdp.Result{}, err
	}
	out, err := a.Postprocess(raw)
	if err != nil {
		return sdp.Result{}, err
	}

	return sdp.Result{
		Objective:   out.Objective,
		X:           cloneAll(out.X),
		Y:           append([]float64(nil), out.Y...),
		Z:           cloneAll(out.Z),
		Termination: status.Normalize(out.Native, a.Family()),
		Iterations:  out.Iterations,
		Native:      out.Native.String(),
	}, nil
}

func cloneAll(ms []matrix.Matrix) []matrix.Matrix {
	if ms == nil {
		return nil
	}
	out := make([]matrix.Matrix, len(ms))
	for j, m := range ms {
		if m != nil {
			out[j] = m.Clone()
		}
	}
	return out
}

var defaultDispatcher = sync.OnceValue(func() *Dispatcher {
	d, err := New()
	if err != nil {
		panic(fmt.Sprintf("solver: default dispatcher: %v", err))
	}
	return d
})

// Default returns the process-wide Dispatcher used by the package-level
// functions. It has both backends with default options and DefaultConfig.
func Default() *Dispatcher { return defaultDispatcher() }

// Solve solves p on the default Dispatcher.
func Solve(p *sdp.Problem, ws *sdp.WarmStart, selector sdp.Family) (sdp.Result, error) {
	return Default().Solve(p, ws, selector)
}

// Backends lists the backends of the default Dispatcher.
func Backends() []BackendInfo { return Default().Backends() }
