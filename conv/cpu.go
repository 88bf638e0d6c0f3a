// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package conv

import (
	"os"
	"strconv"
)

// Level is the vector instruction set detected on the host.
type Level int

const (
	// LevelScalar indicates no usable vector extension.
	LevelScalar Level = iota

	// LevelSSE2 indicates SSE2 (x86-64 baseline).
	LevelSSE2

	// LevelAVX2 indicates AVX2 (256-bit).
	LevelAVX2

	// LevelAVX512 indicates AVX-512 Foundation (512-bit).
	LevelAVX512

	// LevelNEON indicates ARM NEON / ASIMD (128-bit).
	LevelNEON

	// LevelSVE indicates ARM SVE (scalable).
	LevelSVE
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelScalar:
		return "scalar"
	case LevelSSE2:
		return "sse2"
	case LevelAVX2:
		return "avx2"
	case LevelAVX512:
		return "avx512"
	case LevelNEON:
		return "neon"
	case LevelSVE:
		return "sve"
	default:
		return "unknown"
	}
}

// currentLevel is set by init() in cpu_*.go files.
var currentLevel Level

// CurrentLevel returns the vector instruction set detected at start-up.
func CurrentLevel() Level {
	return currentLevel
}

// CurrentName returns the name of CurrentLevel, e.g. "avx2" or "neon".
func CurrentName() string {
	return currentLevel.String()
}

// NoSimdEnv reports whether the CONV_NO_SIMD environment variable is set.
// When set, detection is skipped and the level is reported as scalar.
func NoSimdEnv() bool {
	val := os.Getenv("CONV_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
