// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-convolve/conv"
)

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <rows> <numThreads>",
		Short: "Print the row range assigned to every thread",
		Args:  cobra.MatchAll(cobra.ExactArgs(2), positiveIntArgs(0, 1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			n, err := parsePositive(args[0])
			if err != nil {
				return err
			}
			threads, err := parsePositive(args[1])
			if err != nil {
				return err
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			fmt.Fprintf(w, "# rows=%d threads=%d kind=%s\n", n, threads, conv.KindFor(n, threads))
			fmt.Fprintln(w, "tid\trange\trows")
			active := conv.ActiveThreads(n, threads)
			for tid := range active {
				r := conv.MustAssign(n, threads, tid)
				fmt.Fprintf(w, "%d\t%s\t%d\n", tid, r, r.Len())
			}
			// Idle threads share one line.
			switch idle := threads - active; {
			case idle == 1:
				fmt.Fprintf(w, "%d\t%s\t0\n", active, conv.EmptyRange)
			case idle > 1:
				fmt.Fprintf(w, "%d-%d\t%s\t0\n", active, threads-1, conv.EmptyRange)
			}
			return w.Flush()
		},
	}
}
