// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/ajroetker/go-convolve/conv"
	"github.com/ajroetker/go-convolve/conv/contrib/matrix"
)

// RowPrinter is a RowOp that writes each row to w as it is processed, one
// tab-separated line per row. Lines never interleave, but under a parallel
// mode their order depends on scheduling.
type RowPrinter struct {
	mu   sync.Mutex
	w    io.Writer
	line []byte
}

// NewRowPrinter returns a RowPrinter writing to w.
func NewRowPrinter(w io.Writer) *RowPrinter {
	return &RowPrinter{w: w}
}

// Op is the RowOp.
func (p *RowPrinter) Op(m *matrix.Matrix, row int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.line = matrix.AppendRow(p.line[:0], m.Row(row))
	_, err := p.w.Write(p.line)
	return err
}

// OrderedRowPrinter is a RowOp that renders each row into a slot of its own
// and writes them all in ascending row order on Flush. Slots are disjoint
// per row, so concurrent threads never contend.
type OrderedRowPrinter struct {
	lines [][]byte
}

// NewOrderedRowPrinter returns a printer for a matrix with n rows.
func NewOrderedRowPrinter(n int) *OrderedRowPrinter {
	return &OrderedRowPrinter{lines: make([][]byte, n)}
}

// Op is the RowOp.
func (p *OrderedRowPrinter) Op(m *matrix.Matrix, row int) error {
	if row < 0 || row >= len(p.lines) {
		return fmt.Errorf("%w: row %d outside printer of %d rows", conv.ErrInvalidArgument, row, len(p.lines))
	}
	p.lines[row] = matrix.AppendRow(p.lines[row][:0], m.Row(row))
	return nil
}

// Flush writes every rendered row to w in ascending order and clears the
// slots. Rows never processed are skipped.
func (p *OrderedRowPrinter) Flush(w io.Writer) error {
	for i, line := range p.lines {
		if line == nil {
			continue
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
		p.lines[i] = nil
	}
	return nil
}

// RowCounter is a RowOp that only counts invocations and rows seen.
type RowCounter struct {
	calls *xsync.Counter
	rows  *xsync.Map[int, *atomic.Int64]
}

// NewRowCounter returns an empty RowCounter.
func NewRowCounter() *RowCounter {
	return &RowCounter{
		calls: xsync.NewCounter(),
		rows:  xsync.NewMap[int, *atomic.Int64](),
	}
}

// Op is the RowOp.
func (c *RowCounter) Op(_ *matrix.Matrix, row int) error {
	c.calls.Inc()
	visits, _ := c.rows.LoadOrStore(row, new(atomic.Int64))
	visits.Add(1)
	return nil
}

// Calls returns the number of Op invocations.
func (c *RowCounter) Calls() int64 {
	return c.calls.Value()
}

// Visits returns how many times row was processed.
func (c *RowCounter) Visits(row int) int {
	visits, ok := c.rows.Load(row)
	if !ok {
		return 0
	}
	return int(visits.Load())
}
