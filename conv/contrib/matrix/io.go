// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
)

// ElementSize is the encoded size of one matrix value in bytes.
const ElementSize = 4

// DimensionForSize infers N from the size in bytes of an encoded matrix.
func DimensionForSize(size int64) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	if size%ElementSize != 0 {
		return 0, fmt.Errorf("%w: size %d is not a multiple of %d", ErrMalformed, size, ElementSize)
	}
	elems := size / ElementSize
	n := isqrt(elems)
	if n*n != elems {
		return 0, fmt.Errorf("%w: %d values do not form a square matrix", ErrMalformed, elems)
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: dimension %d too large", ErrMalformed, n)
	}
	return int(n), nil
}

// isqrt returns floor(sqrt(v)) for v >= 0.
func isqrt(v int64) int64 {
	r := int64(math.Sqrt(float64(v)))
	// Correct float rounding in either direction.
	for r*r > v {
		r--
	}
	for (r+1)*(r+1) <= v {
		r++
	}
	return r
}

// Read decodes a matrix of size bytes from r.
func Read(r io.Reader, size int64) (*Matrix, error) {
	n, err := DimensionForSize(size)
	if err != nil {
		return nil, err
	}
	m, err := New(n)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)
	var buf [ElementSize]byte
	for i := range m.data {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: reading value %d of %d: %v", ErrMalformed, i, len(m.data), err)
		}
		m.data[i] = int32(binary.LittleEndian.Uint32(buf[:]))
	}
	return m, nil
}

// Load reads the matrix file at path, inferring its dimension from the file
// size.
func Load(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open matrix file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat matrix file: %w", err)
	}
	m, err := Read(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// AppendBinary appends the file encoding of m to b.
func (m *Matrix) AppendBinary(b []byte) []byte {
	b = slices.Grow(b, len(m.data)*ElementSize)
	for _, v := range m.data {
		b = binary.LittleEndian.AppendUint32(b, uint32(v))
	}
	return b
}

// WriteTo writes the file encoding of m to w.
func (m *Matrix) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	var buf [ElementSize]byte
	for _, v := range m.data {
		binary.LittleEndian.PutUint32(buf[:], uint32(v))
		nw, err := bw.Write(buf[:])
		written += int64(nw)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}

// Save writes m to the file at path, replacing any existing file.
func Save(path string, m *Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create matrix file: %w", err)
	}
	if _, err := m.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write matrix file: %w", err)
	}
	return f.Close()
}
