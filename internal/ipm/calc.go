// SPDX-License-Identifier: MIT

package ipm

import (
	"math"

	"github.com/katalvlaran/lvsdp/matrix"
)

// calc chains matrix kernels and keeps the first error. Once err is set every
// method returns a zero value without calling into matrix, so a whole Newton
// step can be written straight through and checked once.
type calc struct {
	err error
}

func (c *calc) keep(m matrix.Matrix, err error) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	if err != nil {
		c.err = err
		return nil
	}
	d, err := matrix.ToDense(m)
	if err != nil {
		c.err = err
		return nil
	}
	return d
}

func (c *calc) mul(a, b *matrix.Dense) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	return c.keep(matrix.Mul(a, b))
}

func (c *calc) add(a, b *matrix.Dense) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	return c.keep(matrix.Add(a, b))
}

func (c *calc) sub(a, b *matrix.Dense) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	return c.keep(matrix.Sub(a, b))
}

// axpy returns a + alpha·b.
func (c *calc) axpy(a *matrix.Dense, alpha float64, b *matrix.Dense) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	return c.keep(matrix.AddScaled(a, alpha, b))
}

func (c *calc) scale(a *matrix.Dense, alpha float64) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	return c.keep(matrix.Scale(a, alpha))
}

func (c *calc) transpose(a *matrix.Dense) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	return c.keep(matrix.Transpose(a))
}

func (c *calc) sym(a *matrix.Dense) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	return c.keep(matrix.Symmetrize(a))
}

func (c *calc) zeros(n int) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	return c.keep(matrix.NewDense(n, n))
}

func (c *calc) identity(n int, alpha float64) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	return c.keep(matrix.NewScaledIdentity(n, alpha))
}

func (c *calc) dot(a, b *matrix.Dense) float64 {
	if c.err != nil {
		return 0
	}
	v, err := matrix.Dot(a, b)
	if err != nil {
		c.err = err
		return 0
	}
	return v
}

func (c *calc) norm(a *matrix.Dense) float64 {
	if c.err != nil {
		return 0
	}
	v, err := matrix.FrobeniusNorm(a)
	if err != nil {
		c.err = err
		return 0
	}
	return v
}

func (c *calc) chol(a *matrix.Dense) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	l, err := matrix.Cholesky(a)
	if err != nil {
		c.err = err
		return nil
	}
	return l
}

func (c *calc) invSPD(a *matrix.Dense) *matrix.Dense {
	if c.err != nil {
		return nil
	}
	inv, err := matrix.InverseSPD(a)
	if err != nil {
		c.err = err
		return nil
	}
	return inv
}

// Block-vector helpers. A block vector is one dense matrix per block.

func (c *calc) dotBlocks(a, b []*matrix.Dense) float64 {
	var s float64
	for j := range a {
		s += c.dot(a[j], b[j])
	}
	return s
}

func (c *calc) normBlocks(a []*matrix.Dense) float64 {
	var s, v float64
	for j := range a {
		v = c.norm(a[j])
		s += v * v
	}
	return math.Sqrt(s)
}

func (c *calc) scaleBlocks(a []*matrix.Dense, alpha float64) []*matrix.Dense {
	out := make([]*matrix.Dense, len(a))
	for j := range a {
		out[j] = c.scale(a[j], alpha)
	}
	return out
}

func (c *calc) axpyBlocks(a []*matrix.Dense, alpha float64, b []*matrix.Dense) []*matrix.Dense {
	out := make([]*matrix.Dense, len(a))
	for j := range a {
		out[j] = c.axpy(a[j], alpha, b[j])
	}
	return out
}
