// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"bytes"
	"io"
	"strconv"
)

// AppendRow appends row as tab-separated decimal values followed by a newline.
func AppendRow(b []byte, row []int32) []byte {
	for i, v := range row {
		if i > 0 {
			b = append(b, '\t')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return append(b, '\n')
}

// FormatRow writes row to w as one tab-separated line.
func FormatRow(w io.Writer, row []int32) error {
	_, err := w.Write(AppendRow(nil, row))
	return err
}

// Format writes the whole matrix to w, one tab-separated line per row.
func (m *Matrix) Format(w io.Writer) error {
	var line []byte
	for i := range m.n {
		line = AppendRow(line[:0], m.Row(i))
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}

// String returns the tab-separated text form of the matrix.
func (m *Matrix) String() string {
	var buf bytes.Buffer
	_ = m.Format(&buf)
	return buf.String()
}
