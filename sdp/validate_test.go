// SPDX-License-Identifier: MIT

package sdp_test

import (
	"testing"

	"github.com/katalvlaran/lvsdp/matrix"
	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormed(t *testing.T) {
	t.Parallel()
	require.NoError(t, twoByTwo(t).Validate())
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(t *testing.T, p *sdp.Problem)
		want   error
	}{
		{
			name:   "no blocks",
			mutate: func(_ *testing.T, p *sdp.Problem) { p.Blocks = nil; p.C = nil },
			want:   sdp.ErrShapeMismatch,
		},
		{
			name:   "zero block size",
			mutate: func(_ *testing.T, p *sdp.Problem) { p.Blocks[0].Size = 0 },
			want:   sdp.ErrShapeMismatch,
		},
		{
			name:   "unsupported cone",
			mutate: func(_ *testing.T, p *sdp.Problem) { p.Blocks[0].Cone = "l" },
			want:   sdp.ErrShapeMismatch,
		},
		{
			name:   "objective count",
			mutate: func(_ *testing.T, p *sdp.Problem) { p.C = append(p.C, p.C[0]) },
			want:   sdp.ErrShapeMismatch,
		},
		{
			name: "objective 2x3",
			mutate: func(t *testing.T, p *sdp.Problem) {
				p.C[0] = dense(t, []float64{1, 0, 0}, []float64{0, 1, 0})
			},
			want: sdp.ErrShapeMismatch,
		},
		{
			name:   "nil objective",
			mutate: func(_ *testing.T, p *sdp.Problem) { p.C[0] = nil },
			want:   sdp.ErrShapeMismatch,
		},
		{
			name: "constraint block out of range",
			mutate: func(t *testing.T, p *sdp.Problem) {
				p.A[sdp.Entry{Constraint: 1, Block: 2}] = dense(t, []float64{1, 0}, []float64{0, 1})
			},
			want: sdp.ErrShapeMismatch,
		},
		{
			name:   "b too long",
			mutate: func(_ *testing.T, p *sdp.Problem) { p.B = append(p.B, 3) },
			want:   sdp.ErrSizeMismatch,
		},
		{
			name:   "b too short",
			mutate: func(_ *testing.T, p *sdp.Problem) { p.B = p.B[:1] },
			want:   sdp.ErrSizeMismatch,
		},
		{
			name: "constraint index zero",
			mutate: func(t *testing.T, p *sdp.Problem) {
				p.A[sdp.Entry{Constraint: 0, Block: 1}] = dense(t, []float64{1, 0}, []float64{0, 1})
			},
			want: sdp.ErrSizeMismatch,
		},
		{
			name: "constraint index zero on a missing block",
			mutate: func(t *testing.T, p *sdp.Problem) {
				p.A[sdp.Entry{Constraint: 0, Block: 5}] = dense(t, []float64{1, 0}, []float64{0, 1})
			},
			want: sdp.ErrSizeMismatch,
		},
		{
			name: "asymmetric constraint",
			mutate: func(t *testing.T, p *sdp.Problem) {
				p.A[sdp.Entry{Constraint: 1, Block: 1}] = dense(t, []float64{0, 1}, []float64{0.9, 0})
			},
			want: sdp.ErrAsymmetry,
		},
		{
			name: "asymmetric objective",
			mutate: func(t *testing.T, p *sdp.Problem) {
				p.C[0] = dense(t, []float64{1, 1e-3}, []float64{0, 1})
			},
			want: sdp.ErrAsymmetry,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := twoByTwo(t)
			tc.mutate(t, p)
			require.ErrorIs(t, p.Validate(), tc.want)
		})
	}
}

func TestValidateSymmetryTolerance(t *testing.T) {
	t.Parallel()
	p := twoByTwo(t)
	p.C[0] = dense(t, []float64{1, 1e-9}, []float64{0, 1})

	require.ErrorIs(t, p.Validate(), sdp.ErrAsymmetry)
	require.NoError(t, p.Validate(sdp.WithSymmetryTolerance(1e-8)))
	require.Panics(t, func() { sdp.WithSymmetryTolerance(-1) })
}

func TestValidateZeroConstraintsAndSparse(t *testing.T) {
	t.Parallel()
	p := sdp.NewProblem(3)
	require.NoError(t, p.Validate())

	s, err := matrix.NewSparse(3, 3)
	require.NoError(t, err)
	require.NoError(t, s.SetSym(0, 2, 1))
	p.AddConstraint(0.5, sdp.Term{Block: 1, A: s})
	require.NoError(t, p.Validate())
	require.Equal(t, 1, p.NumConstraints())
	require.Equal(t, 3, p.TotalSize())
}

func TestValidateNonFinite(t *testing.T) {
	t.Parallel()
	p := twoByTwo(t)
	p.B[0] = 1.0 / zero()
	require.ErrorIs(t, p.Validate(), sdp.ErrNonFinite)
}

func zero() float64 { return 0 }

func TestAddConstraintSumsRepeatedBlocks(t *testing.T) {
	t.Parallel()
	p := sdp.NewProblem(2)
	i := p.AddConstraint(2,
		sdp.Term{Block: 1, A: dense(t, []float64{1, 0}, []float64{0, 0})},
		sdp.Term{Block: 1, A: dense(t, []float64{0, 0}, []float64{0, 1})},
	)
	require.Equal(t, 1, i)
	require.NoError(t, p.Validate())
	require.Len(t, p.A, 1)

	a, ok := p.ConstraintMatrix(1, 1)
	require.True(t, ok)
	for _, c := range []struct {
		i, j int
		want float64
	}{{0, 0, 1}, {0, 1, 0}, {1, 1, 1}} {
		v, err := a.At(c.i, c.j)
		require.NoError(t, err)
		require.Equal(t, c.want, v)
	}
}

func TestAddConstraintSumsSparseTerms(t *testing.T) {
	t.Parallel()
	first, err := matrix.NewSparse(3, 3)
	require.NoError(t, err)
	require.NoError(t, first.SetSym(0, 1, 1))
	second, err := matrix.NewSparse(3, 3)
	require.NoError(t, err)
	require.NoError(t, second.SetSym(0, 1, 2))
	require.NoError(t, second.Set(2, 2, 4))

	p := sdp.NewProblem(3)
	p.AddConstraint(1, sdp.Term{Block: 1, A: first}, sdp.Term{Block: 1, A: second})
	require.NoError(t, p.Validate())

	a, _ := p.ConstraintMatrix(1, 1)
	sum, ok := a.(*matrix.Sparse)
	require.True(t, ok)
	require.Equal(t, 3, sum.NNZ())
	v, err := sum.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 3.0, v)

	v, err = first.At(0, 1)
	require.NoError(t, err)
	require.Equal(t, 1.0, v, "operands are not mutated")
}

func TestAddConstraintRepeatedBlockShapeMismatch(t *testing.T) {
	t.Parallel()
	p := sdp.NewProblem(2)
	p.AddConstraint(1,
		sdp.Term{Block: 1, A: dense(t, []float64{1, 0}, []float64{0, 1})},
		sdp.Term{Block: 1, A: dense(t, []float64{1})},
	)
	require.ErrorIs(t, p.Validate(), sdp.ErrShapeMismatch)
}

func TestValidateHugeSparseBlock(t *testing.T) {
	t.Parallel()
	const n = 4_000_000_000
	p := sdp.NewProblem(n)
	a, err := matrix.NewSparse(n, n)
	require.NoError(t, err)
	require.NoError(t, a.Set(n-1, n-1, 1))
	p.AddConstraint(1, sdp.Term{Block: 1, A: a})

	require.NoError(t, p.Validate())
}
