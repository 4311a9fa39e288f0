// SPDX-License-Identifier: MIT

// Package matrix - Sparse storage (coordinate map).
//
// Purpose:
//   - Hold constraint matrices that carry a handful of non-zeros without paying r*c memory.
//   - Interoperate with every kernel through the Matrix interface; kernels that
//     need speed densify once with ToDense.
//
// Determinism:
//   - Map iteration order is never observed: Do and ToDense walk entries in
//     sorted (row, col) order.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// cell is a (row, col) coordinate key.
type cell struct {
	i, j int
}

// Sparse is a coordinate-map matrix. Absent entries are zero; setting an entry
// to zero removes it.
type Sparse struct {
	r, c int
	nz   map[cell]float64
}

var _ Matrix = (*Sparse)(nil)

// NewSparse creates an empty rows×cols sparse matrix.
// Errors: ErrInvalidDimensions when rows<=0 or cols<=0.
func NewSparse(rows, cols int) (*Sparse, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Sparse{r: rows, c: cols, nz: make(map[cell]float64)}, nil
}

// Rows returns the number of rows.
func (s *Sparse) Rows() int { return s.r }

// Cols returns the number of columns.
func (s *Sparse) Cols() int { return s.c }

// NNZ returns the number of stored non-zeros.
func (s *Sparse) NNZ() int { return len(s.nz) }

// At returns the element at (row, col), zero when absent.
func (s *Sparse) At(row, col int) (float64, error) {
	if row < 0 || row >= s.r || col < 0 || col >= s.c {
		return 0, fmt.Errorf("Sparse.At(%d,%d): %w", row, col, ErrOutOfRange)
	}

	return s.nz[cell{row, col}], nil
}

// Set stores v at (row, col); v == 0 deletes the entry.
// Errors: ErrOutOfRange, ErrNaNInf.
func (s *Sparse) Set(row, col int, v float64) error {
	if row < 0 || row >= s.r || col < 0 || col >= s.c {
		return fmt.Errorf("Sparse.Set(%d,%d): %w", row, col, ErrOutOfRange)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("Sparse.Set(%d,%d): %w", row, col, ErrNaNInf)
	}
	if v == 0 {
		delete(s.nz, cell{row, col})
		return nil
	}
	s.nz[cell{row, col}] = v

	return nil
}

// SetSym stores v at (row, col) and (col, row).
func (s *Sparse) SetSym(row, col int, v float64) error {
	if err := s.Set(row, col, v); err != nil {
		return err
	}

	return s.Set(col, row, v)
}

// Clone returns a deep copy.
func (s *Sparse) Clone() Matrix {
	cp := make(map[cell]float64, len(s.nz))
	for k, v := range s.nz {
		cp[k] = v
	}

	return &Sparse{r: s.r, c: s.c, nz: cp}
}

// sortedCells returns the stored coordinates in row-major order.
func (s *Sparse) sortedCells() []cell {
	keys := make([]cell, 0, len(s.nz))
	for k := range s.nz {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].i != keys[b].i {
			return keys[a].i < keys[b].i
		}
		return keys[a].j < keys[b].j
	})

	return keys
}

// Do visits the stored non-zeros in row-major order; f returning false stops.
func (s *Sparse) Do(f func(i, j int, v float64) bool) {
	for _, k := range s.sortedCells() {
		if !f(k.i, k.j, s.nz[k]) {
			return
		}
	}
}

// ToDense materializes the matrix as a *Dense.
func (s *Sparse) ToDense() *Dense {
	d := &Dense{r: s.r, c: s.c, data: make([]float64, s.r*s.c), validateNaNInf: DefaultValidateNaNInf}
	for k, v := range s.nz {
		d.data[k.i*s.c+k.j] = v
	}

	return d
}

// ToDense returns m as a *Dense: the same pointer for *Dense, a materialized
// copy for *Sparse, and an At-based copy for any other implementation.
// Errors: ErrNilMatrix, or any At failure of a foreign implementation.
func ToDense(m Matrix) (*Dense, error) {
	switch v := m.(type) {
	case nil:
		return nil, matrixErrorf(opToDense, ErrNilMatrix)
	case *Dense:
		return v, nil
	case *Sparse:
		if v.r > math.MaxInt/v.c {
			return nil, matrixErrorf(opToDense, ErrInvalidDimensions)
		}
		return v.ToDense(), nil
	}
	rows, cols := m.Rows(), m.Cols()
	d, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opToDense, err)
	}
	var x float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if x, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opToDense, fmt.Errorf("At(%d,%d): %w", i, j, err))
			}
			d.data[i*cols+j] = x
		}
	}

	return d, nil
}
