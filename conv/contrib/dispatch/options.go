// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"time"

	"github.com/ajroetker/go-convolve/conv"
	"github.com/ajroetker/go-convolve/conv/contrib/workerpool"
)

// Logger is the structured logger used by a Dispatcher. Methods take
// key-value pairs, as log/slog does.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Recorder receives per-run and per-thread measurements.
type Recorder interface {
	// ObserveRun is called once at the start of every run.
	ObserveRun(n, threads int, kind conv.Kind)

	// ObserveThread is called when a thread finishes its range successfully.
	ObserveThread(tid int, r conv.RowRange, rows int, elapsed time.Duration)

	// ObserveRowError is called when a thread stops on a RowOp error.
	ObserveRowError(tid int)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type nopRecorder struct{}

func (nopRecorder) ObserveRun(int, int, conv.Kind)                        {}
func (nopRecorder) ObserveThread(int, conv.RowRange, int, time.Duration) {}
func (nopRecorder) ObserveRowError(int)                                   {}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMode selects how thread indices are executed. Default: ModeParallel.
func WithMode(mode Mode) Option {
	return func(d *Dispatcher) {
		d.mode = mode
	}
}

// WithPool runs thread indices on pool and implies ModePool. The caller keeps
// ownership of pool; Dispatcher.Close does not close it.
func WithPool(pool *workerpool.Pool) Option {
	return func(d *Dispatcher) {
		d.mode = ModePool
		d.pool = pool
	}
}

// WithLogger sets the logger. Default: discard.
func WithLogger(logger Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder. Default: discard.
func WithRecorder(recorder Recorder) Option {
	return func(d *Dispatcher) {
		if recorder != nil {
			d.recorder = recorder
		}
	}
}
