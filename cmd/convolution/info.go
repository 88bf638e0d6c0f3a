// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-convolve/conv"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the detected CPU level and runtime parallelism",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "cpu:\t%s\n", conv.CurrentName())
			fmt.Fprintf(out, "arch:\t%s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out, "gomaxprocs:\t%d\n", runtime.GOMAXPROCS(0))
			fmt.Fprintf(out, "go:\t%s\n", runtime.Version())
			return nil
		},
	}
}
