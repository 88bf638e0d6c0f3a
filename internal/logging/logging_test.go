// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, slog.LevelInfo, FormatJSON)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.With("component", "test").Info("hello", "rows", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "test", rec["component"])
	assert.EqualValues(t, 3, rec["rows"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, slog.LevelDebug, FormatText)
	require.NoError(t, err)

	logger.Warn("careful", "tid", 2)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "tid=2")
}

func TestAutoFormatOnBuffer(t *testing.T) {
	// A bytes.Buffer is never a terminal.
	var buf bytes.Buffer
	assert.Equal(t, FormatJSON, resolveFormat(&buf, FormatAuto))
	assert.Equal(t, FormatText, resolveFormat(&buf, FormatText))
}

func TestNewInvalidFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, slog.LevelInfo, Format("xml"))
	require.Error(t, err)
}
