// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

// Package metrics records dispatch measurements in Prometheus form.
//
// The convolution command is a batch job, so nothing is served over HTTP.
// Instead the registry is written once at the end of a run in the textfile
// collector format, ready for node_exporter to pick up.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ajroetker/go-convolve/conv"
	"github.com/ajroetker/go-convolve/conv/contrib/dispatch"
)

// Collector implements dispatch.Recorder on a private Prometheus registry.
type Collector struct {
	reg *prometheus.Registry

	runs           *prometheus.CounterVec
	dimension      prometheus.Gauge
	threads        prometheus.Gauge
	idleThreads    prometheus.Gauge
	threadRows     *prometheus.CounterVec
	threadDuration prometheus.Histogram
	rowErrors      *prometheus.CounterVec
}

var _ dispatch.Recorder = (*Collector)(nil)

// New creates a Collector whose metrics are prefixed with namespace
// ("convolution" if empty).
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = "convolution"
	}

	c := &Collector{
		reg: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "runs_total",
			Help:      "Dispatch runs started, by partitioning regime (dense, sparse).",
		}, []string{"kind"}),
		dimension: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "matrix",
			Name:      "dimension",
			Help:      "Dimension N of the N x N input matrix.",
		}),
		threads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "threads",
			Help:      "Number of thread indices in the last run.",
		}),
		idleThreads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "idle_threads",
			Help:      "Thread indices that received an empty row range in the last run.",
		}),
		threadRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "rows_processed_total",
			Help:      "Rows processed, by thread index.",
		}, []string{"tid"}),
		threadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "thread_duration_seconds",
			Help:      "Wall time a thread index spent on its row range.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs .. ~26s
		}),
		rowErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "row_errors_total",
			Help:      "Row operations that failed, by thread index.",
		}, []string{"tid"}),
	}

	c.reg.MustRegister(
		c.runs,
		c.dimension,
		c.threads,
		c.idleThreads,
		c.threadRows,
		c.threadDuration,
		c.rowErrors,
	)
	return c
}

// Registry returns the registry holding all metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// WriteFile writes the current metric values to path in the Prometheus text
// format. The file is replaced atomically.
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.reg)
}

// ObserveRun implements dispatch.Recorder.
func (c *Collector) ObserveRun(n, threads int, kind conv.Kind) {
	c.runs.WithLabelValues(kind.String()).Inc()
	c.dimension.Set(float64(n))
	c.threads.Set(float64(threads))
	c.idleThreads.Set(float64(max(0, threads-n)))
}

// ObserveThread implements dispatch.Recorder.
func (c *Collector) ObserveThread(tid int, _ conv.RowRange, rows int, elapsed time.Duration) {
	c.threadRows.WithLabelValues(strconv.Itoa(tid)).Add(float64(rows))
	c.threadDuration.Observe(elapsed.Seconds())
}

// ObserveRowError implements dispatch.Recorder.
func (c *Collector) ObserveRowError(tid int) {
	c.rowErrors.WithLabelValues(strconv.Itoa(tid)).Inc()
}
