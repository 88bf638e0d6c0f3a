// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

// Package config holds the run configuration of the convolution command.
//
// The matrix file, depth and thread count come from positional arguments.
// Everything else may also be set in a YAML file:
//
//	mode: pool
//	print_matrix: false
//	log:
//	  level: debug
//	  format: json
//	metrics:
//	  file: /var/lib/node_exporter/convolution.prom
//	  namespace: convolution
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-convolve/conv/contrib/dispatch"
	"github.com/ajroetker/go-convolve/internal/logging"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full run configuration.
type Config struct {
	MatrixFile  string        `yaml:"matrix_file"`
	Depth       int           `yaml:"depth"`   // neighbourhood depth, accepted but unused
	Threads     int           `yaml:"threads"` // number of thread indices
	Mode        string        `yaml:"mode"`    // sequential, parallel or pool
	PrintMatrix bool          `yaml:"print_matrix"`
	Log         LogConfig     `yaml:"log"`
	Metrics     MetricsConfig `yaml:"metrics"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, auto
}

// MetricsConfig configures the Prometheus textfile output.
type MetricsConfig struct {
	File      string `yaml:"file"` // empty disables the output
	Namespace string `yaml:"namespace"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Mode: dispatch.ModeParallel.String(),
		Log: LogConfig{
			Level:  "info",
			Format: string(logging.FormatAuto),
		},
		Metrics: MetricsConfig{
			Namespace: "convolution",
		},
	}
}

// Load reads a YAML file on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and returns all problems joined together.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.MatrixFile) == "" {
		errs = append(errs, errors.New("matrix file is required"))
	}
	if c.Depth <= 0 {
		errs = append(errs, fmt.Errorf("depth must be an integer > 0, got %d", c.Depth))
	}
	if c.Threads <= 0 {
		errs = append(errs, fmt.Errorf("thread count must be an integer > 0, got %d", c.Threads))
	}
	if _, err := dispatch.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch logging.Format(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON, logging.FormatAuto:
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Log.Format))
	}
	if c.Metrics.File != "" && c.Metrics.Namespace == "" {
		errs = append(errs, errors.New("metrics namespace is required when metrics file is set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// DispatchMode returns the parsed Mode. Call Validate first.
func (c Config) DispatchMode() dispatch.Mode {
	mode, _ := dispatch.ParseMode(c.Mode)
	return mode
}
