// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"fmt"
	"math/rand/v2"
)

// Sequential returns an n x n matrix whose cell (r, c) holds r*n + c.
func Sequential(n int) (*Matrix, error) {
	m, err := New(n)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		m.data[i] = int32(i)
	}
	return m, nil
}

// Random returns an n x n matrix of values drawn uniformly from [lo, hi].
// The same seed always produces the same matrix.
func Random(n int, seed uint64, lo, hi int32) (*Matrix, error) {
	if lo > hi {
		return nil, fmt.Errorf("%w: empty value range [%d,%d]", ErrDimension, lo, hi)
	}
	m, err := New(n)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	span := int64(hi) - int64(lo) + 1
	for i := range m.data {
		m.data[i] = int32(int64(lo) + rng.Int64N(span))
	}
	return m, nil
}
