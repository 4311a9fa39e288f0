// SPDX-License-Identifier: MIT

package ipm

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvsdp/matrix"
)

// backtrack shrinks a step that fails the Cholesky interior test.
const backtrack = 0.8

var errSchur = errors.New("ipm: Schur complement is not positive definite")

// system is the per-iteration factorisation shared by the predictor and the
// corrector.
type system struct {
	lx   []*matrix.Dense // Cholesky factors of X_j
	lz   []*matrix.Dense // Cholesky factors of Z_j
	zinv []*matrix.Dense // Z_j⁻¹
	lm   *matrix.Dense   // Cholesky factor of M; nil when m == 0
	u    []float64       // u_i = tr(A_i X C Z⁻¹)
	q    []float64       // M⁻¹(u + b)
	w    float64         // tr(C X C Z⁻¹) + κ/τ
}

type direction struct {
	dX     []*matrix.Dense
	dZ     []*matrix.Dense
	dy     []float64
	dtau   float64
	dkappa float64
}

// factor builds and factors the HKM Schur complement
// M_ik = Σ_j ⟨X_j A_ij, A_kj Z_j⁻¹⟩.
func (k *kernel) factor(c *calc) *system {
	nb := len(k.p.Sizes)
	sys := &system{
		lx:   make([]*matrix.Dense, nb),
		lz:   make([]*matrix.Dense, nb),
		zinv: make([]*matrix.Dense, nb),
		u:    make([]float64, k.m),
	}
	xa := make([][]*matrix.Dense, k.m)
	azi := make([][]*matrix.Dense, k.m)
	for i := 0; i < k.m; i++ {
		xa[i] = make([]*matrix.Dense, nb)
		azi[i] = make([]*matrix.Dense, nb)
	}
	var w0 float64
	for j := 0; j < nb; j++ {
		sys.lx[j] = c.chol(k.X[j])
		sys.lz[j] = c.chol(k.Z[j])
		sys.zinv[j] = c.invSPD(k.Z[j])
		for i := 0; i < k.m; i++ {
			if a := k.p.A[i][j]; a != nil {
				xa[i][j] = c.mul(k.X[j], a)
				azi[i][j] = c.mul(a, sys.zinv[j])
			}
		}
		xc := c.mul(k.X[j], k.p.C[j])
		czi := c.mul(k.p.C[j], sys.zinv[j])
		w0 += c.dot(xc, czi)
		for i := 0; i < k.m; i++ {
			if xa[i][j] != nil {
				sys.u[i] += c.dot(xa[i][j], czi)
			}
		}
	}
	sys.w = w0 + k.kappa/k.tau
	if c.err != nil || k.m == 0 {
		return sys
	}

	m := c.zeros(k.m)
	var v float64
	for i := 0; i < k.m && c.err == nil; i++ {
		for l := i; l < k.m; l++ {
			v = 0
			for j := 0; j < nb; j++ {
				if xa[i][j] != nil && azi[l][j] != nil {
					v += c.dot(xa[i][j], azi[l][j])
				}
			}
			if err := m.Set(i, l, v); err != nil {
				c.err = err
				break
			}
			if err := m.Set(l, i, v); err != nil {
				c.err = err
				break
			}
		}
	}
	sys.lm = k.factorSchur(c, m)
	sys.q = k.solveSchur(c, sys, vaxpy(sys.u, 1, k.p.B))

	return sys
}

// factorSchur factors M, adding a growing diagonal shift when M is only
// numerically semidefinite.
func (k *kernel) factorSchur(c *calc, m *matrix.Dense) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	l, err := matrix.Cholesky(m)
	if err == nil {
		return l
	}
	var top, d float64
	for i := 0; i < k.m; i++ {
		if d, err = m.At(i, i); err != nil {
			c.err = err
			return nil
		}
		top = math.Max(top, math.Abs(d))
	}
	delta := 1e-14 * math.Max(1, top)
	for try := 0; try < 6; try++ {
		reg := m.Clone().(*matrix.Dense)
		for i := 0; i < k.m; i++ {
			d, _ = reg.At(i, i)
			if err = reg.Set(i, i, d+delta); err != nil {
				c.err = err
				return nil
			}
		}
		if l, err = matrix.Cholesky(reg); err == nil {
			k.logf("ipm: Schur complement regularised by %.1e", delta)
			return l
		}
		delta *= 100
	}
	c.err = fmt.Errorf("%w: %v", errSchur, err)

	return nil
}

func (k *kernel) solveSchur(c *calc, sys *system, rhs []float64) []float64 {
	if c.err != nil || k.m == 0 {
		return make([]float64, k.m)
	}
	x, err := matrix.SolveCholesky(sys.lm, rhs)
	if err != nil {
		c.err = err
		return make([]float64, k.m)
	}
	return x
}

// direction solves the Newton system for centering σ. Residuals are reduced
// by η = 1 − σ so that infeasibility and complementarity shrink together.
func (k *kernel) direction(c *calc, sys *system, r residuals, sigma float64) direction {
	nb := len(k.p.Sizes)
	eta := 1 - sigma
	sm := sigma * r.mu

	g := make([]*matrix.Dense, nb)
	for j := 0; j < nb; j++ {
		t := c.mul(c.mul(k.X[j], c.scale(r.rd[j], eta)), sys.zinv[j])
		g[j] = c.sub(c.axpy(c.scale(sys.zinv[j], sm), -1, k.X[j]), c.sym(t))
	}
	ag := k.apply(c, g)
	rhs := make([]float64, k.m)
	for i := range rhs {
		rhs[i] = eta*r.rp[i] - ag[i]
	}
	p := k.solveSchur(c, sys, rhs)

	bu := vaxpy(k.p.B, -1, sys.u)
	num := eta*r.rg + c.dotBlocks(k.p.C, g) + sm/k.tau - k.kappa - vdot(bu, p)
	den := vdot(bu, sys.q) + sys.w

	var d direction
	d.dtau = num / den
	d.dy = vaxpy(p, d.dtau, sys.q)
	d.dkappa = (sm - k.tau*k.kappa - k.kappa*d.dtau) / k.tau

	ady := k.adjoint(c, d.dy)
	d.dX = make([]*matrix.Dense, nb)
	d.dZ = make([]*matrix.Dense, nb)
	for j := 0; j < nb; j++ {
		t := c.axpy(c.axpy(c.scale(r.rd[j], eta), -1, ady[j]), d.dtau, k.p.C[j])
		d.dZ[j] = c.sym(t)
		t = c.mul(c.mul(k.X[j], d.dZ[j]), sys.zinv[j])
		d.dX[j] = c.sub(c.axpy(c.scale(sys.zinv[j], sm), -1, k.X[j]), c.sym(t))
	}

	return d
}

// blockStep returns the largest α with L(I + αS)Lᵀ ⪰ 0, S = L⁻¹ D L⁻ᵀ.
// An eigenvalue failure yields 1 and leaves the decision to backtracking.
func blockStep(l, d *matrix.Dense) float64 {
	var c calc
	w := c.keep(matrix.SolveLower(l, d))
	s := c.keep(matrix.SolveLower(l, c.transpose(w)))
	s = c.sym(s)
	if c.err != nil {
		return 1
	}
	low, err := matrix.MinEigenvalue(s, 1e-12)
	if err != nil {
		return 1
	}
	if low >= 0 {
		return math.Inf(1)
	}
	return -1 / low
}

func (k *kernel) maxStep(sys *system, d direction) float64 {
	a := math.Inf(1)
	for j := range k.X {
		a = math.Min(a, blockStep(sys.lx[j], d.dX[j]))
		a = math.Min(a, blockStep(sys.lz[j], d.dZ[j]))
	}
	if d.dtau < 0 {
		a = math.Min(a, -k.tau/d.dtau)
	}
	if d.dkappa < 0 {
		a = math.Min(a, -k.kappa/d.dkappa)
	}
	return a
}

// muAfter is μ at the trial point (X, Z, τ, κ) + α·d.
func (k *kernel) muAfter(c *calc, d direction, alpha float64) float64 {
	xz := c.dotBlocks(k.X, k.Z) +
		alpha*(c.dotBlocks(d.dX, k.Z)+c.dotBlocks(k.X, d.dZ)) +
		alpha*alpha*c.dotBlocks(d.dX, d.dZ)
	tk := (k.tau + alpha*d.dtau) * (k.kappa + alpha*d.dkappa)
	return (xz + tk) / float64(k.n+1)
}

// iterate performs one predictor-corrector step and returns its length.
func (k *kernel) iterate(r residuals, floor float64) (float64, error) {
	var c calc
	sys := k.factor(&c)
	if c.err != nil {
		return 0, c.err
	}

	aff := k.direction(&c, sys, r, 0)
	if c.err != nil {
		return 0, c.err
	}
	aAff := math.Min(1, k.maxStep(sys, aff))
	muAff := k.muAfter(&c, aff, aAff)
	sigma := math.Pow(math.Max(muAff, 0)/r.mu, 3)
	sigma = math.Min(1, math.Max(floor, sigma))

	d := k.direction(&c, sys, r, sigma)
	if c.err != nil {
		return 0, c.err
	}
	alpha := math.Min(1, k.s.StepFactor*k.maxStep(sys, d))

	return k.advance(d, alpha), nil
}

// advance moves to the trial point, shrinking α until X and Z factor. It
// commits nothing and returns the last α when α drops below StepTol.
func (k *kernel) advance(d direction, alpha float64) float64 {
	for alpha >= k.s.StepTol {
		var c calc
		X := c.axpyBlocks(k.X, alpha, d.dX)
		Z := c.axpyBlocks(k.Z, alpha, d.dZ)
		for j := range X {
			c.chol(X[j])
			c.chol(Z[j])
		}
		tau := k.tau + alpha*d.dtau
		kappa := k.kappa + alpha*d.dkappa
		if c.err == nil && tau > 0 && kappa > 0 {
			k.X, k.Z = X, Z
			k.y = vaxpy(k.y, alpha, d.dy)
			k.tau, k.kappa = tau, kappa
			return alpha
		}
		alpha *= backtrack
	}
	return alpha
}
