// Copyright 2025 go-convolve Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command convolution reads a square int32 matrix from a binary file and
// processes its rows with a fixed number of worker threads.
//
// Usage:
//
//	convolution matrix.bin 2 4                      # depth 2, 4 threads
//	convolution matrix.bin 1 8 --mode sequential    # run thread indices in order
//	convolution matrix.bin 1 8 --config run.yaml    # ambient settings from YAML
//	convolution generate matrix.bin 100 --random    # write a 100x100 test matrix
//	convolution plan 10 3                           # show the row partition
//	convolution info                                # show the detected CPU level
//
// Each thread index is assigned a contiguous range of rows. Today every
// thread only emits its rows, tab-separated, one per line; the depth argument
// is validated and reserved for the neighbourhood kernel.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
