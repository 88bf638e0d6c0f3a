// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-convolve/conv"
	"github.com/ajroetker/go-convolve/conv/contrib/matrix"
	"github.com/ajroetker/go-convolve/conv/contrib/workerpool"
)

// Mode selects how a Dispatcher executes thread indices.
type Mode int

const (
	// ModeParallel runs one goroutine per thread index that has rows.
	ModeParallel Mode = iota

	// ModeSequential runs thread indices in order on the calling goroutine.
	ModeSequential

	// ModePool runs thread indices on a persistent worker pool.
	ModePool
)

// String returns the name accepted by ParseMode.
func (m Mode) String() string {
	switch m {
	case ModeParallel:
		return "parallel"
	case ModeSequential:
		return "sequential"
	case ModePool:
		return "pool"
	default:
		return "unknown"
	}
}

// ParseMode parses "parallel", "sequential" or "pool".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "parallel", "":
		return ModeParallel, nil
	case "sequential":
		return ModeSequential, nil
	case "pool":
		return ModePool, nil
	default:
		return 0, fmt.Errorf("%w: unknown dispatch mode %q", conv.ErrInvalidArgument, s)
	}
}

// ThreadReport describes the work one thread index performed.
type ThreadReport struct {
	TID      int
	Range    conv.RowRange
	Rows     int
	Duration time.Duration
}

// Report summarises a completed run.
type Report struct {
	N         int
	Threads   int
	Kind      conv.Kind
	Mode      Mode
	PerThread []ThreadReport // active threads only, indexed by thread index
	Rows      int            // total rows processed
	Idle      int            // threads that had an empty range, Threads - len(PerThread)
	Duration  time.Duration
}

// threadCounter is padded so that neighbouring threads do not share a cache
// line while counting rows.
type threadCounter struct {
	rows atomic.Int64
	_    cpu.CacheLinePad
}

// Dispatcher runs a RowOp over a matrix with a fixed number of threads.
type Dispatcher struct {
	threads  int
	mode     Mode
	pool     *workerpool.Pool
	ownsPool bool
	logger   Logger
	recorder Recorder

	processed *xsync.Counter
	perThread atomic.Pointer[[]threadCounter]
}

// New creates a Dispatcher for threads thread indices. threads must be >= 1.
// Only the thread indices that receive rows cost memory or goroutines, so
// threads may exceed the row count by any amount.
//
// In ModePool without WithPool, the Dispatcher owns a pool of
// min(threads, GOMAXPROCS) workers.
func New(threads int, opts ...Option) (*Dispatcher, error) {
	if threads < 1 {
		return nil, fmt.Errorf("%w: thread count %d must be >= 1", conv.ErrInvalidArgument, threads)
	}

	d := &Dispatcher{
		threads:   threads,
		mode:      ModeParallel,
		logger:    nopLogger{},
		recorder:  nopRecorder{},
		processed: xsync.NewCounter(),
	}
	for _, opt := range opts {
		opt(d)
	}

	switch d.mode {
	case ModeParallel, ModeSequential:
	case ModePool:
		if d.pool == nil {
			d.pool = workerpool.New(min(threads, runtime.GOMAXPROCS(0)))
			d.ownsPool = true
		}
	default:
		return nil, fmt.Errorf("%w: unknown dispatch mode %d", conv.ErrInvalidArgument, d.mode)
	}

	return d, nil
}

// Threads returns the number of thread indices.
func (d *Dispatcher) Threads() int {
	return d.threads
}

// Mode returns the execution mode.
func (d *Dispatcher) Mode() Mode {
	return d.mode
}

// Processed returns the number of rows completed by the current (or last)
// run. It is safe to call while Run is in progress.
func (d *Dispatcher) Processed() int64 {
	return d.processed.Value()
}

// Close releases the worker pool if the Dispatcher created it.
func (d *Dispatcher) Close() {
	if d.ownsPool {
		d.pool.Close()
	}
}

// Run applies op to every row of m, each thread index processing the range
// conv.Assign gives it. It returns after all threads finish, or with the
// first error once any RowOp fails or ctx is cancelled.
//
// Run must not be called concurrently on the same Dispatcher.
func (d *Dispatcher) Run(ctx context.Context, m *matrix.Matrix, op RowOp) (*Report, error) {
	if err := checkInputs(m, op); err != nil {
		return nil, err
	}

	n := m.N()
	kind := conv.KindFor(n, d.threads)
	active := conv.ActiveThreads(n, d.threads)
	report := &Report{
		N:         n,
		Threads:   d.threads,
		Kind:      kind,
		Mode:      d.mode,
		PerThread: make([]ThreadReport, active),
		Idle:      d.threads - active,
	}

	d.processed.Reset()
	counters := make([]threadCounter, active)
	d.perThread.Store(&counters)
	d.recorder.ObserveRun(n, d.threads, kind)
	d.logger.Info("dispatch started",
		"n", n, "threads", d.threads, "kind", kind.String(), "mode", d.mode.String())

	start := time.Now()
	var err error
	switch d.mode {
	case ModeSequential:
		err = d.runSequential(ctx, m, op, counters, report)
	case ModeParallel:
		err = d.runParallel(ctx, m, op, counters, report)
	case ModePool:
		err = d.runPool(ctx, m, op, counters, report)
	}
	report.Duration = time.Since(start)

	if err != nil {
		d.logger.Error("dispatch failed", "error", err, "rows_done", d.processed.Value())
		return nil, err
	}

	for _, tr := range report.PerThread {
		report.Rows += tr.Rows
	}
	if report.Idle > 0 {
		d.logger.Debug("threads idle", "first_tid", active, "count", report.Idle)
	}
	d.logger.Info("dispatch finished",
		"rows", report.Rows, "idle_threads", report.Idle, "duration", report.Duration)

	return report, nil
}

func (d *Dispatcher) runSequential(ctx context.Context, m *matrix.Matrix, op RowOp, counters []threadCounter, report *Report) error {
	for tid := range counters {
		if err := d.runThread(ctx, m, tid, op, &counters[tid], report); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) runParallel(ctx context.Context, m *matrix.Matrix, op RowOp, counters []threadCounter, report *Report) error {
	g, gctx := errgroup.WithContext(ctx)
	for tid := range counters {
		g.Go(func() error {
			return d.runThread(gctx, m, tid, op, &counters[tid], report)
		})
	}
	return g.Wait()
}

func (d *Dispatcher) runPool(ctx context.Context, m *matrix.Matrix, op RowOp, counters []threadCounter, report *Report) error {
	pctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	err := d.pool.ForEach(len(counters), func(tid int) error {
		err := d.runThread(pctx, m, tid, op, &counters[tid], report)
		if err != nil {
			cancel(err)
		}
		return err
	})
	if err != nil {
		// Report the failure that cancelled the others, not a later
		// context.Canceled from a thread that noticed it.
		return context.Cause(pctx)
	}
	return nil
}

// runThread resolves the range of an active tid and processes it. Each
// thread writes only report.PerThread[tid].
func (d *Dispatcher) runThread(ctx context.Context, m *matrix.Matrix, tid int, op RowOp, counter *threadCounter, report *Report) error {
	r := conv.MustAssign(m.N(), d.threads, tid)

	start := time.Now()
	rows, err := process(ctx, m, tid, r, op, func() {
		counter.rows.Add(1)
		d.processed.Inc()
	})
	elapsed := time.Since(start)
	report.PerThread[tid] = ThreadReport{TID: tid, Range: r, Rows: rows, Duration: elapsed}

	if err != nil {
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			d.recorder.ObserveRowError(tid)
		}
		return err
	}

	d.recorder.ObserveThread(tid, r, rows, elapsed)
	d.logger.Debug("thread finished", "tid", tid, "range", r.String(), "rows", rows, "duration", elapsed)
	return nil
}

// ThreadRows returns the number of rows thread tid has completed in the
// current (or last) run. Idle threads always report 0.
func (d *Dispatcher) ThreadRows(tid int) int64 {
	counters := d.perThread.Load()
	if counters == nil || tid < 0 || tid >= len(*counters) {
		return 0
	}
	return (*counters)[tid].rows.Load()
}
