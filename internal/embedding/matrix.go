// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

// Package embedding stores item vectors as a dense row-major matrix and
// reads and writes them in the NumPy .npy format.
//
// Row i of a Matrix belongs to catalog row i. The matrix is treated as
// immutable once it has been handed to the recommendation engine.
package embedding

import (
	"errors"
	"fmt"
)

// ErrShape is returned when a matrix is built from inconsistent dimensions.
var ErrShape = errors.New("invalid matrix shape")

// Matrix is a dense rows x dim float32 matrix in row-major order.
type Matrix struct {
	rows int
	dim  int
	data []float32
}

// NewMatrix wraps data as a rows x dim matrix. data is not copied.
func NewMatrix(rows, dim int, data []float32) (*Matrix, error) {
	if rows < 0 || dim < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrShape, rows, dim)
	}
	if len(data) != rows*dim {
		return nil, fmt.Errorf("%w: %dx%d needs %d values, got %d", ErrShape, rows, dim, rows*dim, len(data))
	}
	return &Matrix{rows: rows, dim: dim, data: data}, nil
}

// Zeros allocates a zero-filled rows x dim matrix.
func Zeros(rows, dim int) *Matrix {
	return &Matrix{rows: rows, dim: dim, data: make([]float32, rows*dim)}
}

// FromRows copies a slice of equal-length vectors into a new matrix.
func FromRows(vectors [][]float32) (*Matrix, error) {
	if len(vectors) == 0 {
		return Zeros(0, 0), nil
	}
	dim := len(vectors[0])
	m := Zeros(len(vectors), dim)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShape, i, len(v), dim)
		}
		copy(m.Row(i), v)
	}
	return m, nil
}

// Rows returns the number of vectors.
func (m *Matrix) Rows() int { return m.rows }

// Dim returns the vector dimension.
func (m *Matrix) Dim() int { return m.dim }

// Row returns a view of row i. Writes through the view modify the matrix.
func (m *Matrix) Row(i int) []float32 {
	off := i * m.dim
	return m.data[off : off+m.dim : off+m.dim]
}

// Data returns the backing slice in row-major order.
func (m *Matrix) Data() []float32 { return m.data }
