// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-convolve/conv/contrib/dispatch"
)

func validConfig() Config {
	cfg := Default()
	cfg.MatrixFile = "m.bin"
	cfg.Depth = 1
	cfg.Threads = 4
	return cfg
}

func TestDefaultNeedsPositionalArgs(t *testing.T) {
	err := Default().Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Contains(t, err.Error(), "matrix file is required")
	require.Contains(t, err.Error(), "depth must be an integer > 0")
	require.Contains(t, err.Error(), "thread count must be an integer > 0")
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, dispatch.ModeParallel, cfg.DispatchMode())
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]func(*Config){
		"negative depth":   func(c *Config) { c.Depth = -1 },
		"zero threads":     func(c *Config) { c.Threads = 0 },
		"bad mode":         func(c *Config) { c.Mode = "fibers" },
		"bad log level":    func(c *Config) { c.Log.Level = "chatty" },
		"bad log format":   func(c *Config) { c.Log.Format = "xml" },
		"metrics no names": func(c *Config) { c.Metrics.File = "x.prom"; c.Metrics.Namespace = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convolution.yaml")
	yamlConfig := `
mode: pool
print_matrix: true
log:
  level: debug
  format: json
metrics:
  file: out.prom
`
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "pool", cfg.Mode)
	require.Equal(t, dispatch.ModePool, cfg.DispatchMode())
	require.True(t, cfg.PrintMatrix)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, "out.prom", cfg.Metrics.File)
	// Untouched keys keep their defaults.
	require.Equal(t, "convolution", cfg.Metrics.Namespace)
}

func TestLoadUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threds: 4\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}
