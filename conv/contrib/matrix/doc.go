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

// Package matrix provides the square int32 matrix consumed by the row
// dispatcher, together with its binary file format.
//
// The Matrix type stores all N*N values in one contiguous row-major buffer.
// Row(i) returns a sub-slice of that buffer, so read-only rows can be handed
// to parallel workers without copying.
//
// # File Format
//
// A matrix file is a bare sequence of N*N little-endian int32 values, row
// after row, with no header. The dimension is inferred from the file size:
//
//	N = isqrt(size / 4)
//
// Sizes that are not a multiple of four, or whose element count is not a
// perfect square, are rejected with ErrMalformed.
//
// # Usage Example
//
//	m, err := matrix.Load("input.bin")
//	if err != nil {
//	    return err
//	}
//	for i := range m.N() {
//	    matrix.FormatRow(os.Stdout, m.Row(i))
//	}
package matrix
