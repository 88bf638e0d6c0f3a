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

// Package dispatch applies a row operation to a matrix, split across a fixed
// number of worker threads.
//
// Each thread index resolves its own row range with conv.Assign and calls the
// RowOp for every row in that range, in ascending order. A thread whose range
// is empty returns without calling the RowOp. Dispatcher never schedules
// such threads at all: they are counted in Report.Idle.
//
// # Modes
//
//	ModeSequential - thread indices run one after another on the caller
//	ModeParallel   - one goroutine per active thread index (errgroup)
//	ModePool       - thread indices run on a persistent workerpool.Pool
//
// The matrix is shared read-only by all threads. Because ranges are disjoint,
// no locking is needed as long as a RowOp only writes state owned by its row.
//
// # Row Operations
//
// The shipped RowOps emit rows as tab-separated text:
//
//	p := dispatch.NewOrderedRowPrinter(m.N())
//	d, _ := dispatch.New(4, dispatch.WithMode(dispatch.ModeParallel))
//	if _, err := d.Run(ctx, m, p.Op); err != nil {
//	    return err
//	}
//	p.Flush(os.Stdout)
//
// A neighbourhood kernel with depth > 0 reads rows outside its own range. It
// must write to a separate output matrix of the same dimension, never to the
// input.
//
// # Errors
//
// A failing RowOp is fatal for the whole run. Run returns the first error,
// wrapped in a *RowError carrying the thread index and row. In the parallel
// modes the other threads stop at their next row. Nothing is retried.
package dispatch
