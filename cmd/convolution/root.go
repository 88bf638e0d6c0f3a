// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajroetker/go-convolve/conv"
	"github.com/ajroetker/go-convolve/conv/contrib/dispatch"
	"github.com/ajroetker/go-convolve/conv/contrib/matrix"
	"github.com/ajroetker/go-convolve/internal/config"
	"github.com/ajroetker/go-convolve/internal/logging"
	"github.com/ajroetker/go-convolve/internal/metrics"
)

type rootOptions struct {
	configPath  string
	mode        string
	logLevel    string
	logFormat   string
	metricsFile string
	printMatrix bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "convolution <matrixFile> <depth> <numThreads>",
		Short: "Process the rows of a square matrix with a fixed number of threads",
		Long: `convolution reads an N x N matrix of little-endian int32 values from
matrixFile (N is inferred from the file size) and splits its rows among
numThreads worker threads. Each thread emits its rows to stdout,
tab-separated, in ascending row order.

depth is the neighbourhood depth of the convolution filter. It must be an
integer > 0 and is currently unused.`,
		Args: cobra.MatchAll(cobra.ExactArgs(3), positiveIntArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid from here on; later failures are not usage errors.
			cmd.SilenceUsage = true

			cfg, err := buildConfig(cmd.Flags(), opts, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "YAML file with run settings")
	flags.StringVar(&opts.mode, "mode", dispatch.ModeParallel.String(), "thread execution mode: parallel, sequential or pool")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", string(logging.FormatAuto), "log format: text, json or auto")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	flags.BoolVar(&opts.printMatrix, "print-matrix", false, "print the whole matrix before processing")

	cmd.AddCommand(newGenerateCmd(), newPlanCmd(), newInfoCmd())
	return cmd
}

// positiveIntArgs checks that the arguments at the given positions are
// integers > 0.
func positiveIntArgs(positions ...int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		for _, pos := range positions {
			if pos >= len(args) {
				continue
			}
			if _, err := parsePositive(args[pos]); err != nil {
				return fmt.Errorf("invalid value %q for argument %d: %w", args[pos], pos+1, err)
			}
		}
		return nil
	}
}

func parsePositive(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: not an integer", conv.ErrInvalidArgument)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: must be > 0", conv.ErrInvalidArgument)
	}
	return v, nil
}

// buildConfig layers defaults, the optional YAML file, changed flags and the
// positional arguments, in that order.
func buildConfig(fs *pflag.FlagSet, opts *rootOptions, args []string) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if fs.Changed("mode") {
		cfg.Mode = opts.mode
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = opts.logFormat
	}
	if fs.Changed("metrics-file") {
		cfg.Metrics.File = opts.metricsFile
	}
	if fs.Changed("print-matrix") {
		cfg.PrintMatrix = opts.printMatrix
	}

	var err error
	cfg.MatrixFile = args[0]
	if cfg.Depth, err = parsePositive(args[1]); err != nil {
		return cfg, fmt.Errorf("depth: %w", err)
	}
	if cfg.Threads, err = parsePositive(args[2]); err != nil {
		return cfg, fmt.Errorf("numThreads: %w", err)
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg config.Config, stdout, stderr io.Writer) error {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger, err := logging.New(stderr, level, logging.Format(cfg.Log.Format))
	if err != nil {
		return err
	}

	logger.Info("starting",
		"file", cfg.MatrixFile,
		"depth", cfg.Depth,
		"threads", cfg.Threads,
		"mode", cfg.Mode,
		"cpu", conv.CurrentName(),
		"gomaxprocs", runtime.GOMAXPROCS(0))

	m, err := matrix.Load(cfg.MatrixFile)
	if err != nil {
		logger.Error("loading matrix failed", "error", err)
		return err
	}
	logger.Info("matrix loaded", "n", m.N(), "fingerprint", fmt.Sprintf("%016x", m.Fingerprint()))
	if cfg.Threads > m.N() {
		logger.Warn("more threads than rows, some threads will be idle",
			"threads", cfg.Threads, "rows", m.N())
	}

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	if cfg.PrintMatrix {
		if err := m.Format(out); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}

	collector := metrics.New(cfg.Metrics.Namespace)
	d, err := dispatch.New(cfg.Threads,
		dispatch.WithMode(cfg.DispatchMode()),
		dispatch.WithLogger(logger.With("component", "dispatch")),
		dispatch.WithRecorder(collector))
	if err != nil {
		return err
	}
	defer d.Close()

	// Sequential runs already visit rows in order and can stream; the
	// parallel modes render into per-row slots and flush afterwards.
	var report *dispatch.Report
	if d.Mode() == dispatch.ModeSequential {
		report, err = d.Run(ctx, m, dispatch.NewRowPrinter(out).Op)
	} else {
		printer := dispatch.NewOrderedRowPrinter(m.N())
		report, err = d.Run(ctx, m, printer.Op)
		if err == nil {
			err = printer.Flush(out)
		}
	}
	if err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	if err := out.Flush(); err != nil {
		return err
	}

	if cfg.Metrics.File != "" {
		if err := collector.WriteFile(cfg.Metrics.File); err != nil {
			logger.Error("writing metrics failed", "file", cfg.Metrics.File, "error", err)
			return err
		}
	}

	logger.Info("done",
		"rows", report.Rows,
		"idle_threads", report.Idle,
		"kind", report.Kind.String(),
		"duration", report.Duration)
	return nil
}
