// SPDX-License-Identifier: MIT

package ipm

import (
	"math"

	"github.com/katalvlaran/lvsdp/matrix"
)

// kernel holds the embedding iterate (X, y, Z, τ, κ) and the problem data.
type kernel struct {
	p     Problem
	s     Settings
	m     int
	n     int
	normB float64
	normC float64

	X     []*matrix.Dense
	Z     []*matrix.Dense
	y     []float64
	tau   float64
	kappa float64
}

// residuals of the embedding at the current iterate.
type residuals struct {
	ax     []float64       // A(X)
	rp     []float64       // bτ − A(X)
	aty    []*matrix.Dense // A*(y)
	rd     []*matrix.Dense // Cτ − A*(y) − Z
	rdNorm float64         // ‖Rd‖
	cx     float64         // ⟨C,X⟩
	by     float64         // b·y
	rg     float64         // ⟨C,X⟩ − b·y + κ
	mu     float64         // (⟨X,Z⟩ + τκ)/(n+1)
}

// measures are the scale-free quantities tested for termination.
type measures struct {
	pobj, dobj      float64
	pres, dres, gap float64
}

// Solve runs the interior-point method on p. A nil start selects the default
// start. The returned error is non-nil only for inconsistent input; every
// numerical outcome, including breakdown, is reported through Solution.Status.
func Solve(p Problem, start *Start, s Settings) (Solution, error) {
	if err := p.check(); err != nil {
		return Solution{}, err
	}
	k := &kernel{p: p, s: s.withDefaults(), m: len(p.B)}
	for _, sz := range p.Sizes {
		k.n += sz
	}
	var c calc
	k.normB = vnorm(p.B)
	k.normC = c.normBlocks(p.C)
	if c.err != nil {
		return Solution{}, c.err
	}
	if err := k.start(start); err != nil {
		return Solution{}, err
	}

	return k.run(), nil
}

func (k *kernel) logf(format string, args ...any) {
	if k.s.Logf != nil {
		k.s.Logf(format, args...)
	}
}

// start installs the initial iterate.
func (k *kernel) start(st *Start) error {
	if st != nil {
		if k.warm(st) {
			return nil
		}
		k.logf("ipm: warm start is not interior, using default start")
	}
	var c calc
	sc := k.s.InitScale
	k.X = make([]*matrix.Dense, len(k.p.Sizes))
	k.Z = make([]*matrix.Dense, len(k.p.Sizes))
	for j, sz := range k.p.Sizes {
		k.X[j] = c.identity(sz, sc)
		k.Z[j] = c.identity(sz, sc)
	}
	k.y = make([]float64, k.m)
	k.tau, k.kappa = 1, sc*sc

	return c.err
}

// warm adopts st when its shapes match and X, Z are positive definite.
func (k *kernel) warm(st *Start) bool {
	nb := len(k.p.Sizes)
	if len(st.X) != nb || len(st.Z) != nb || len(st.Y) != k.m {
		return false
	}
	var c calc
	X := make([]*matrix.Dense, nb)
	Z := make([]*matrix.Dense, nb)
	for j, sz := range k.p.Sizes {
		if st.X[j] == nil || st.Z[j] == nil ||
			st.X[j].Rows() != sz || st.X[j].Cols() != sz ||
			st.Z[j].Rows() != sz || st.Z[j].Cols() != sz {
			return false
		}
		X[j] = c.sym(st.X[j])
		Z[j] = c.sym(st.Z[j])
		c.chol(X[j])
		c.chol(Z[j])
	}
	if c.err != nil {
		return false
	}
	xz := c.dotBlocks(X, Z)
	k.X, k.Z = X, Z
	k.y = append([]float64(nil), st.Y...)
	k.tau, k.kappa = 1, xz/float64(k.n)
	if !(k.kappa > 0) || math.IsInf(k.kappa, 0) {
		k.kappa = 1
	}

	return true
}

// apply returns A(V), the vector of ⟨A_i, V⟩.
func (k *kernel) apply(c *calc, v []*matrix.Dense) []float64 {
	out := make([]float64, k.m)
	for i := 0; i < k.m; i++ {
		for j, a := range k.p.A[i] {
			if a != nil {
				out[i] += c.dot(a, v[j])
			}
		}
	}
	return out
}

// adjoint returns A*(y) = Σ_i y_i A_i block by block.
func (k *kernel) adjoint(c *calc, y []float64) []*matrix.Dense {
	out := make([]*matrix.Dense, len(k.p.Sizes))
	for j, sz := range k.p.Sizes {
		acc := c.zeros(sz)
		for i := 0; i < k.m; i++ {
			if a := k.p.A[i][j]; a != nil && y[i] != 0 {
				acc = c.axpy(acc, y[i], a)
			}
		}
		out[j] = acc
	}
	return out
}

func (k *kernel) evaluate(c *calc) residuals {
	var r residuals
	r.ax = k.apply(c, k.X)
	r.rp = make([]float64, k.m)
	for i := range r.rp {
		r.rp[i] = k.p.B[i]*k.tau - r.ax[i]
	}
	r.aty = k.adjoint(c, k.y)
	r.rd = make([]*matrix.Dense, len(k.p.Sizes))
	for j := range r.rd {
		r.rd[j] = c.sub(c.sub(c.scale(k.p.C[j], k.tau), r.aty[j]), k.Z[j])
	}
	r.rdNorm = c.normBlocks(r.rd)
	r.cx = c.dotBlocks(k.p.C, k.X)
	r.by = vdot(k.p.B, k.y)
	r.rg = r.cx - r.by + k.kappa
	r.mu = (c.dotBlocks(k.X, k.Z) + k.tau*k.kappa) / float64(k.n+1)

	return r
}

func (k *kernel) measure(r residuals) measures {
	t := k.tau
	ms := measures{pobj: r.cx / t, dobj: r.by / t}
	ms.pres = vnorm(r.rp) / t / (1 + k.normB)
	ms.dres = r.rdNorm / t / (1 + k.normC)
	ms.gap = math.Abs(ms.pobj-ms.dobj) / (1 + math.Abs(ms.pobj) + math.Abs(ms.dobj))

	return ms
}

// classify tests optimality first, then the two infeasibility certificates.
// A certificate is only accepted once κ dominates τ, the embedding's own
// signal that the scaled iterate is diverging.
func (k *kernel) classify(r residuals, ms measures) (Status, bool) {
	if ms.pres <= k.s.FeasTol && ms.dres <= k.s.FeasTol && ms.gap <= k.s.GapTol {
		return StatusOptimal, true
	}
	if k.tau >= k.kappa {
		return 0, false
	}
	var c calc
	primal, dual := false, false
	if r.by > 0 {
		// A*(y) + Z = Cτ − Rd.
		lhs := make([]*matrix.Dense, len(k.p.C))
		for j := range lhs {
			lhs[j] = c.sub(c.scale(k.p.C[j], k.tau), r.rd[j])
		}
		primal = c.normBlocks(lhs)/r.by <= k.s.InfeasTol
	}
	if r.cx < 0 {
		dual = vnorm(r.ax)/(-r.cx) <= k.s.InfeasTol
	}
	if c.err != nil {
		return 0, false
	}
	switch {
	case primal && dual:
		return StatusBothInfeasible, true
	case primal:
		return StatusPrimalInfeasible, true
	case dual:
		return StatusDualInfeasible, true
	}
	return 0, false
}

func (k *kernel) run() Solution {
	var (
		r    residuals
		ms   measures
		step float64
	)
	for iter := 0; ; iter++ {
		var c calc
		r = k.evaluate(&c)
		if c.err != nil {
			k.logf("ipm: iter %d: residuals: %v", iter, c.err)
			return k.finish(StatusNumerical, iter, ms)
		}
		ms = k.measure(r)
		k.logf("ipm: iter %2d  pobj % .8e  dobj % .8e  pres %.2e  dres %.2e  gap %.2e  mu %.2e  tau %.2e  kappa %.2e  step %.3f",
			iter, ms.pobj, ms.dobj, ms.pres, ms.dres, ms.gap, r.mu, k.tau, k.kappa, step)

		if st, done := k.classify(r, ms); done {
			return k.finish(st, iter, ms)
		}
		if k.s.Monitor != nil && !k.s.Monitor(Progress{
			Iter: iter, Mu: r.mu, Tau: k.tau, Kappa: k.kappa,
			PrimalObj: ms.pobj, DualObj: ms.dobj,
			PRes: ms.pres, DRes: ms.dres, Gap: ms.gap, Step: step,
		}) {
			return k.finish(StatusStopped, iter, ms)
		}
		if iter >= k.s.MaxIter {
			return k.finish(StatusMaxIter, iter, ms)
		}

		alpha, err := k.iterate(r, k.floor(ms))
		if err != nil {
			k.logf("ipm: iter %d: %v", iter, err)
			return k.finish(StatusNumerical, iter, ms)
		}
		if alpha < k.s.StepTol {
			return k.finish(StatusStalled, iter, ms)
		}
		step = alpha
	}
}

// floor picks the centering floor for the current iterate.
func (k *kernel) floor(ms measures) float64 {
	if ms.pres <= k.s.FeasTol && ms.dres <= k.s.FeasTol {
		return k.s.SigmaFloor
	}
	return k.s.SigmaFloorInfeasible
}

// finish scales the iterate into the reported triple.
func (k *kernel) finish(st Status, iter int, ms measures) Solution {
	sol := Solution{
		Status: st, Iter: iter,
		PRes: ms.pres, DRes: ms.dres, Gap: ms.gap,
		Tau: k.tau, Kappa: k.kappa,
	}
	var c calc
	cx := c.dotBlocks(k.p.C, k.X)
	by := vdot(k.p.B, k.y)
	f := 1 / k.tau
	switch st {
	case StatusPrimalInfeasible:
		f = 1 / by
	case StatusDualInfeasible:
		f = -1 / cx
	case StatusBothInfeasible:
		f = 1 / (by - cx)
	}
	sol.X = c.scaleBlocks(k.X, f)
	sol.Z = c.scaleBlocks(k.Z, f)
	sol.Y = vscale(k.y, f)
	if c.err != nil {
		sol.X, sol.Z, sol.Y = k.X, k.Z, k.y
		f = 1
	}
	sol.PrimalObj = cx * f
	sol.DualObj = by * f

	return sol
}
