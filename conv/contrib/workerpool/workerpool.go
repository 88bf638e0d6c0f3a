// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent, reusable worker pool. A Pool is
// created once and reused across many dispatch passes, so repeated runs over
// the same matrix do not pay goroutine spawn costs each time.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	for _, m := range matrices {
//	    pool.ParallelFor(m.N(), func(start, end int) {
//	        processRows(m, start, end)
//	    })
//	}
//
// dispatch.Dispatcher in ModePool runs its thread indices through ForEach;
// ParallelFor is for callers that want one contiguous block per worker.
//
// Close must not run concurrently with ParallelFor or ForEach.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/ajroetker/go-convolve/conv"
)

// Pool is a persistent worker pool. Workers are spawned once at creation and
// reused until Close.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

// workItem represents a single unit of work handed to a worker.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		// Buffer enough for all workers to have pending work
		workC: make(chan workItem, numWorkers*2),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	return p.closed.Load()
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe. Close must not be called while
// ParallelFor or ForEach is running on the pool.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// ParallelFor executes fn over [0, n) split into one contiguous range per
// worker, using the same dense/sparse assignment as conv.Assign. Blocks
// until all work completes.
//
// fn receives (start, end) indices where work should process [start, end).
// Close must not run concurrently with ParallelFor.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	if p.closed.Load() {
		fn(0, n)
		return
	}

	// Idle workers in the sparse regime are not scheduled at all.
	workers := min(p.numWorkers, n)
	if workers == 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for tid := range workers {
		r := conv.MustAssign(n, workers, tid)
		p.workC <- workItem{
			fn: func() {
				fn(r.Start, r.End)
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}

// ForEach calls fn once for every index in [0, n) using the pool workers and
// returns the first error any call produced. Once a call fails, indices not
// yet started are skipped. Blocks until all started calls return. Close must
// not run concurrently with ForEach.
func (p *Pool) ForEach(n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	if p.closed.Load() {
		for i := range n {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		nextIdx  atomic.Int64
		failed   atomic.Bool
		errOnce  sync.Once
		firstErr error
		wg       sync.WaitGroup
	)

	workers := min(p.numWorkers, n)
	wg.Add(workers)
	for range workers {
		p.workC <- workItem{
			fn: func() {
				for !failed.Load() {
					idx := int(nextIdx.Add(1)) - 1
					if idx >= n {
						return
					}
					if err := fn(idx); err != nil {
						errOnce.Do(func() { firstErr = err })
						failed.Store(true)
						return
					}
				}
			},
			barrier: &wg,
		}
	}
	wg.Wait()

	return firstErr
}
