// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"fmt"

	"github.com/ajroetker/go-convolve/conv"
	"github.com/ajroetker/go-convolve/conv/contrib/matrix"
)

// RowOp processes one row of m. It may read any row of m but must not
// modify m.
type RowOp func(m *matrix.Matrix, row int) error

// RowError reports the thread and row at which a RowOp failed.
type RowError struct {
	TID int
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("thread %d: row %d: %v", e.TID, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Dispatch runs op over the rows that thread tid of threads is assigned in
// m, in ascending row order, and returns the range it processed.
//
// When the thread has no rows (more threads than rows) Dispatch returns
// conv.EmptyRange without calling op. The first op error stops the thread and
// is returned as a *RowError.
func Dispatch(m *matrix.Matrix, threads, tid int, op RowOp) (conv.RowRange, error) {
	if err := checkInputs(m, op); err != nil {
		return conv.EmptyRange, err
	}
	r, err := conv.Assign(m.N(), threads, tid)
	if err != nil {
		return conv.EmptyRange, err
	}
	_, err = process(context.Background(), m, tid, r, op, nil)
	return r, err
}

func checkInputs(m *matrix.Matrix, op RowOp) error {
	if m == nil {
		return fmt.Errorf("%w: nil matrix", conv.ErrInvalidArgument)
	}
	if op == nil {
		return fmt.Errorf("%w: nil row operation", conv.ErrInvalidArgument)
	}
	return nil
}

// process applies op to every row of r and returns the number of rows
// completed. onRow, when non-nil, is called after each successful row.
func process(ctx context.Context, m *matrix.Matrix, tid int, r conv.RowRange, op RowOp, onRow func()) (int, error) {
	rows := 0
	for row := r.Start; row < r.End; row++ {
		if err := ctx.Err(); err != nil {
			return rows, err
		}
		if err := op(m, row); err != nil {
			return rows, &RowError{TID: tid, Row: row, Err: err}
		}
		rows++
		if onRow != nil {
			onRow()
		}
	}
	return rows, nil
}
