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

// Package conv contains the row partitioning core of the convolution filter.
//
// A square matrix of N rows is split among T worker threads. Every thread
// index maps to one contiguous, half-open RowRange, and the ranges of all
// thread indices are disjoint and cover [0, N) exactly.
//
// Two regimes exist:
//
//   - Dense (T <= N): every thread gets N/T rows; the N%T leftover rows are
//     appended to the last thread.
//   - Sparse (T > N): threads [0, N) get one row each, the rest get the empty
//     range and have nothing to do.
//
// Usage:
//
//	for tid := range threads {
//	    r := conv.MustAssign(n, threads, tid)
//	    for row := r.Start; row < r.End; row++ {
//	        process(row)
//	    }
//	}
//
// The package also reports the vector ISA detected on the host (see
// CurrentName), which the command line tool logs at start-up.
package conv
