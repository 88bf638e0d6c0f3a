// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package conv

import (
	"fmt"

	"github.com/samber/lo"
)

// Kind identifies which partitioning regime applies to a (rows, threads) pair.
type Kind int

const (
	// KindDense is used when threads <= rows: multi-row assignments, with the
	// remainder absorbed by the last thread.
	KindDense Kind = iota

	// KindSparse is used when threads > rows: at most one row per thread,
	// excess threads idle.
	KindSparse
)

// String returns a human-readable name for the partitioning regime.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindSparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// KindFor returns the partitioning regime for n rows and t threads.
func KindFor(n, t int) Kind {
	if t > n {
		return KindSparse
	}
	return KindDense
}

// RowRange is the half-open interval [Start, End) of row indices assigned to
// one thread. The zero value is the empty range.
type RowRange struct {
	Start int // first row (inclusive)
	End   int // last row (exclusive)
}

// EmptyRange is returned for threads that have no rows to process.
var EmptyRange = RowRange{}

// Len returns the number of rows in the range.
func (r RowRange) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether the range contains no rows.
func (r RowRange) Empty() bool {
	return r.Len() == 0
}

// Contains reports whether row lies in [Start, End).
func (r RowRange) Contains(row int) bool {
	return row >= r.Start && row < r.End
}

// String formats the range as "[start,end)", or "empty".
func (r RowRange) String() string {
	if r.Empty() {
		return "empty"
	}
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Assign returns the rows that thread tid processes when n rows are split
// among t threads.
//
// It is a pure function: the same inputs always yield the same range. A
// thread with nothing to do (sparse regime, tid >= n) receives EmptyRange and
// a nil error. Inputs with n < 1, t < 1 or tid outside [0, t) are rejected
// with an error wrapping ErrInvalidArgument.
func Assign(n, t, tid int) (RowRange, error) {
	if err := validate(n, t); err != nil {
		return EmptyRange, err
	}
	if tid < 0 || tid >= t {
		return EmptyRange, fmt.Errorf("%w: thread index %d outside [0,%d)", ErrInvalidArgument, tid, t)
	}
	return assign(n, t, tid), nil
}

// MustAssign is like Assign but panics on invalid input. Use it only where
// n, t and tid have already been validated.
func MustAssign(n, t, tid int) RowRange {
	r, err := Assign(n, t, tid)
	if err != nil {
		panic(err)
	}
	return r
}

// MaxPlanThreads is the largest thread count Plan will materialise. Callers
// with more threads should use Assign, or ActiveThreads to bound their loops.
const MaxPlanThreads = 1 << 16

// ActiveThreads returns how many of t threads receive a non-empty range of n
// rows. Thread indices from ActiveThreads(n, t) up to t are idle. It returns
// 0 for invalid input.
func ActiveThreads(n, t int) int {
	if n < 1 || t < 1 {
		return 0
	}
	return min(n, t)
}

// Plan returns the ranges of all t threads, indexed by thread index. t must
// not exceed MaxPlanThreads.
func Plan(n, t int) ([]RowRange, error) {
	if err := validate(n, t); err != nil {
		return nil, err
	}
	if t > MaxPlanThreads {
		return nil, fmt.Errorf("%w: thread count %d exceeds plan limit %d", ErrInvalidArgument, t, MaxPlanThreads)
	}
	return lo.Times(t, func(tid int) RowRange {
		return assign(n, t, tid)
	}), nil
}

func validate(n, t int) error {
	if n < 1 {
		return fmt.Errorf("%w: row count %d must be >= 1", ErrInvalidArgument, n)
	}
	if t < 1 {
		return fmt.Errorf("%w: thread count %d must be >= 1", ErrInvalidArgument, t)
	}
	return nil
}

// assign assumes validated inputs.
func assign(n, t, tid int) RowRange {
	switch KindFor(n, t) {
	case KindSparse:
		if tid >= n {
			return EmptyRange
		}
		return RowRange{Start: tid, End: tid + 1}
	default:
		workload := n / t
		start := workload * tid
		if tid == t-1 {
			return RowRange{Start: start, End: workload*t + n%t}
		}
		return RowRange{Start: start, End: start + workload}
	}
}
