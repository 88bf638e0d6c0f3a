// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-convolve/conv"
	"github.com/ajroetker/go-convolve/conv/contrib/dispatch"
	"github.com/ajroetker/go-convolve/conv/contrib/matrix"
)

func TestObserve(t *testing.T) {
	c := New("")

	c.ObserveRun(4, 6, conv.KindSparse)
	c.ObserveThread(0, conv.RowRange{Start: 0, End: 1}, 1, time.Millisecond)
	c.ObserveThread(3, conv.RowRange{Start: 3, End: 4}, 1, time.Millisecond)
	c.ObserveRowError(5)

	require.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("sparse")))
	require.Equal(t, 4.0, testutil.ToFloat64(c.dimension))
	require.Equal(t, 6.0, testutil.ToFloat64(c.threads))
	require.Equal(t, 2.0, testutil.ToFloat64(c.idleThreads))
	require.Equal(t, 1.0, testutil.ToFloat64(c.threadRows.WithLabelValues("3")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.rowErrors.WithLabelValues("5")))
	require.Equal(t, 2, testutil.CollectAndCount(c.threadRows))
}

func TestCollectorAsRecorder(t *testing.T) {
	c := New("test")
	m, err := matrix.Sequential(10)
	require.NoError(t, err)

	d, err := dispatch.New(3, dispatch.WithRecorder(c))
	require.NoError(t, err)
	_, err = d.Run(context.Background(), m, dispatch.NewRowCounter().Op)
	require.NoError(t, err)

	require.Equal(t, 3.0, testutil.ToFloat64(c.threadRows.WithLabelValues("0")))
	require.Equal(t, 4.0, testutil.ToFloat64(c.threadRows.WithLabelValues("2")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("dense")))
	require.Equal(t, 0.0, testutil.ToFloat64(c.idleThreads))
}

func TestWriteFile(t *testing.T) {
	c := New("conv")
	c.ObserveRun(10, 3, conv.KindDense)

	path := filepath.Join(t.TempDir(), "conv.prom")
	require.NoError(t, c.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "conv_matrix_dimension 10")
	require.Contains(t, string(data), `conv_dispatch_runs_total{kind="dense"} 1`)
}
