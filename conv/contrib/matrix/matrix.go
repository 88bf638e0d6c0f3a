// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zeebo/xxh3"
)

var (
	// ErrDimension is returned when a dimension is < 1 or rows are not square.
	ErrDimension = errors.New("matrix: invalid dimension")

	// ErrMalformed is returned when encoded matrix data cannot be decoded.
	ErrMalformed = errors.New("matrix: malformed data")
)

// Matrix is an N x N matrix of int32 values stored row-major in a single
// buffer. The row stride always equals N.
type Matrix struct {
	data   []int32
	n      int
	stride int // elements per row
}

// New creates a zero-filled n x n matrix.
func New(n int) (*Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrDimension, n)
	}
	return &Matrix{
		data:   make([]int32, n*n),
		n:      n,
		stride: n,
	}, nil
}

// FromSlice wraps data as an n x n matrix. data must hold exactly n*n values
// and is not copied.
func FromSlice(n int, data []int32) (*Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrDimension, n)
	}
	if len(data) != n*n {
		return nil, fmt.Errorf("%w: %d values for a %dx%d matrix", ErrDimension, len(data), n, n)
	}
	return &Matrix{data: data, n: n, stride: n}, nil
}

// FromRows copies rows into a new matrix. Every row must have len(rows)
// elements.
func FromRows(rows [][]int32) (*Matrix, error) {
	m, err := New(len(rows))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != m.n {
			return nil, fmt.Errorf("%w: row %d has %d elements, want %d", ErrDimension, i, len(row), m.n)
		}
		copy(m.Row(i), row)
	}
	return m, nil
}

// N returns the matrix dimension.
func (m *Matrix) N() int {
	return m.n
}

// Stride returns the number of elements between the starts of two rows.
func (m *Matrix) Stride() int {
	return m.stride
}

// Data returns the backing row-major buffer.
func (m *Matrix) Data() []int32 {
	return m.data
}

// Row returns the slice for row i, or nil if i is out of range.
// The slice aliases the matrix buffer.
func (m *Matrix) Row(i int) []int32 {
	if i < 0 || i >= m.n {
		return nil
	}
	start := i * m.stride
	return m.data[start : start+m.n : start+m.n]
}

// At returns the value at (row, col). Out-of-range coordinates return 0.
func (m *Matrix) At(row, col int) int32 {
	if row < 0 || row >= m.n || col < 0 || col >= m.n {
		return 0
	}
	return m.data[row*m.stride+col]
}

// Set stores value at (row, col). Out-of-range coordinates are ignored.
func (m *Matrix) Set(row, col int, value int32) {
	if row < 0 || row >= m.n || col < 0 || col >= m.n {
		return
	}
	m.data[row*m.stride+col] = value
}

// Clone creates a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		data:   slices.Clone(m.data),
		n:      m.n,
		stride: m.stride,
	}
}

// Equal reports whether both matrices have the same dimension and values.
func (m *Matrix) Equal(other *Matrix) bool {
	if other == nil {
		return false
	}
	return m.n == other.n && slices.Equal(m.data, other.data)
}

// Fingerprint returns the xxh3 hash of the matrix in its file encoding.
// Two files with the same fingerprint decode to the same matrix.
func (m *Matrix) Fingerprint() uint64 {
	return xxh3.Hash(m.AppendBinary(nil))
}
