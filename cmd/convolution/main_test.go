// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-convolve/conv"
	"github.com/ajroetker/go-convolve/conv/contrib/matrix"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeMatrix(t *testing.T, m *matrix.Matrix) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matrix.bin")
	require.NoError(t, matrix.Save(path, m))
	return path
}

func TestRunEmitsRowsInOrder(t *testing.T) {
	m, err := matrix.Random(10, 3, -20, 20)
	require.NoError(t, err)
	path := writeMatrix(t, m)

	for _, mode := range []string{"parallel", "sequential", "pool"} {
		t.Run(mode, func(t *testing.T) {
			stdout, stderr, err := execute(t, path, "2", "3", "--mode", mode, "--log-format", "json")
			require.NoError(t, err, stderr)
			require.Equal(t, m.String(), stdout)
			require.Contains(t, stderr, `"msg":"done"`)
			require.Contains(t, stderr, `"rows":10`)
		})
	}
}

func TestRunMoreThreadsThanRows(t *testing.T) {
	m, err := matrix.Sequential(4)
	require.NoError(t, err)
	path := writeMatrix(t, m)

	stdout, stderr, err := execute(t, path, "1", "6", "--log-format", "text")
	require.NoError(t, err, stderr)
	require.Equal(t, m.String(), stdout)
	require.Contains(t, stderr, "some threads will be idle")
	require.Contains(t, stderr, "idle_threads=2")
	require.Contains(t, stderr, `msg="dispatch finished" component=dispatch`)
	require.Contains(t, stderr, "kind=sparse")
}

func TestRunPrintMatrix(t *testing.T) {
	m, err := matrix.Sequential(2)
	require.NoError(t, err)
	path := writeMatrix(t, m)

	stdout, _, err := execute(t, path, "1", "1", "--print-matrix")
	require.NoError(t, err)
	require.Equal(t, "0\t1\n2\t3\n\n0\t1\n2\t3\n", stdout)
}

func TestRunInvalidArguments(t *testing.T) {
	m, err := matrix.Sequential(2)
	require.NoError(t, err)
	path := writeMatrix(t, m)

	tests := map[string][]string{
		"too few":       {path, "1"},
		"zero depth":    {path, "0", "2"},
		"bad threads":   {path, "1", "four"},
		"neg threads":   {path, "1", "-2"},
		"too many args": {path, "1", "2", "3"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			stdout, stderr, err := execute(t, args...)
			require.Error(t, err)
			require.Contains(t, stderr, "Error:")
			// cobra writes usage to the configured output writer.
			require.Contains(t, stdout, "Usage:")
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	stdout, _, err := execute(t, filepath.Join(t.TempDir(), "nope.bin"), "1", "2")
	require.ErrorIs(t, err, os.ErrNotExist)
	require.NotContains(t, stdout, "Usage:")
}

func TestRunMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 12), 0o644))

	_, _, err := execute(t, path, "1", "2")
	require.ErrorIs(t, err, matrix.ErrMalformed)
}

func TestRunConfigAndMetrics(t *testing.T) {
	m, err := matrix.Sequential(6)
	require.NoError(t, err)
	path := writeMatrix(t, m)

	dir := t.TempDir()
	metricsFile := filepath.Join(dir, "run.prom")
	configFile := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
mode: pool
log:
  level: debug
  format: json
metrics:
  file: `+metricsFile+`
  namespace: conv
`), 0o644))

	// The flag wins over the YAML mode.
	stdout, stderr, err := execute(t, path, "1", "4", "--config", configFile, "--mode", "sequential")
	require.NoError(t, err, stderr)
	require.Equal(t, m.String(), stdout)
	require.Contains(t, stderr, `"mode":"sequential"`)
	require.Contains(t, stderr, `"msg":"thread finished"`)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(data), `conv_dispatch_rows_processed_total{tid="3"} 3`)
	require.Contains(t, string(data), "conv_matrix_dimension 6")
}

func TestRunInvalidConfig(t *testing.T) {
	m, err := matrix.Sequential(2)
	require.NoError(t, err)
	path := writeMatrix(t, m)

	_, _, err = execute(t, path, "1", "1", "--mode", "fibers")
	require.Error(t, err)
	require.Contains(t, err.Error(), "fibers")
}

func TestGenerateThenRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen.bin")

	stdout, _, err := execute(t, "generate", path, "5", "--random", "--seed", "9", "--min=-5", "--max=5")
	require.NoError(t, err)
	require.Contains(t, stdout, "wrote 5x5 matrix")

	want, err := matrix.Random(5, 9, -5, 5)
	require.NoError(t, err)
	got, err := matrix.Load(path)
	require.NoError(t, err)
	require.True(t, want.Equal(got))

	stdout, _, err = execute(t, path, "3", "2")
	require.NoError(t, err)
	require.Equal(t, want.String(), stdout)
}

func TestGenerateSequential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.bin")
	_, _, err := execute(t, "generate", path, "3")
	require.NoError(t, err)

	m, err := matrix.Load(path)
	require.NoError(t, err)
	require.Equal(t, "0\t1\t2\n3\t4\t5\n6\t7\t8\n", m.String())
}

func TestPlan(t *testing.T) {
	stdout, _, err := execute(t, "plan", "4", "6")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Equal(t, []string{
		"# rows=4 threads=6 kind=sparse",
		"tid\trange\trows",
		"0\t[0,1)\t1",
		"1\t[1,2)\t1",
		"2\t[2,3)\t1",
		"3\t[3,4)\t1",
		"4-5\tempty\t0",
	}, lines)

	stdout, _, err = execute(t, "plan", "4", "5")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(stdout, "3\t[3,4)\t1\n4\tempty\t0\n"), stdout)

	stdout, _, err = execute(t, "plan", "10", "3")
	require.NoError(t, err)
	require.NotContains(t, stdout, "empty")

	_, _, err = execute(t, "plan", "0", "3")
	require.Error(t, err)
}

func TestBuildConfigParsesArguments(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cfg, err := buildConfig(fs, &rootOptions{}, []string{"m.bin", "3", "2"})
	require.NoError(t, err)
	require.Equal(t, "m.bin", cfg.MatrixFile)
	require.Equal(t, 3, cfg.Depth)
	require.Equal(t, 2, cfg.Threads)

	_, err = buildConfig(fs, &rootOptions{}, []string{"m.bin", "deep", "2"})
	require.ErrorIs(t, err, conv.ErrInvalidArgument)
	require.ErrorContains(t, err, "depth")

	_, err = buildConfig(fs, &rootOptions{}, []string{"m.bin", "1", "-4"})
	require.ErrorIs(t, err, conv.ErrInvalidArgument)
	require.ErrorContains(t, err, "numThreads")
}

func TestHugeThreadCount(t *testing.T) {
	threads := strconv.Itoa(math.MaxInt)

	stdout, _, err := execute(t, "plan", "4", threads)
	require.NoError(t, err)
	require.Contains(t, stdout, "kind=sparse")
	require.Contains(t, stdout, "4-"+strconv.Itoa(math.MaxInt-1)+"\tempty\t0\n")

	m, err := matrix.Sequential(4)
	require.NoError(t, err)
	path := writeMatrix(t, m)

	for _, mode := range []string{"parallel", "sequential", "pool"} {
		t.Run(mode, func(t *testing.T) {
			stdout, stderr, err := execute(t, path, "1", threads, "--mode", mode, "--log-format", "text")
			require.NoError(t, err, stderr)
			require.Equal(t, m.String(), stdout)
			require.Contains(t, stderr, "kind=sparse")
		})
	}
}

func TestInfo(t *testing.T) {
	stdout, _, err := execute(t, "info")
	require.NoError(t, err)
	require.Contains(t, stdout, "cpu:\t")
	require.Contains(t, stdout, "gomaxprocs:\t")
}
