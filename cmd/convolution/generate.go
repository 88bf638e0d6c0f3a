// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-convolve/conv/contrib/matrix"
)

func newGenerateCmd() *cobra.Command {
	var (
		random bool
		seed   uint64
		minVal int32
		maxVal int32
	)

	cmd := &cobra.Command{
		Use:   "generate <matrixFile> <n>",
		Short: "Write an n x n test matrix file",
		Long: `generate writes an n x n matrix in the binary format read by convolution.
By default cell (r, c) holds r*n + c; with --random the values are drawn
uniformly from [--min, --max] using --seed.`,
		Args: cobra.MatchAll(cobra.ExactArgs(2), positiveIntArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			n, err := parsePositive(args[1])
			if err != nil {
				return err
			}
			if n > math.MaxInt32/n {
				return fmt.Errorf("dimension %d too large", n)
			}

			var m *matrix.Matrix
			if random {
				m, err = matrix.Random(n, seed, minVal, maxVal)
			} else {
				m, err = matrix.Sequential(n)
			}
			if err != nil {
				return err
			}
			if err := matrix.Save(args[0], m); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %dx%d matrix to %s (fingerprint %016x)\n",
				n, n, args[0], m.Fingerprint())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&random, "random", false, "fill with random values instead of r*n + c")
	flags.Uint64Var(&seed, "seed", 1, "random seed")
	flags.Int32Var(&minVal, "min", -100, "smallest random value")
	flags.Int32Var(&maxVal, "max", 100, "largest random value")
	return cmd
}
