// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

//go:build amd64

package conv

import "golang.org/x/sys/cpu"

func init() {
	currentLevel = detectLevel()
}

func detectLevel() Level {
	if NoSimdEnv() {
		return LevelScalar
	}
	switch {
	case cpu.X86.HasAVX512F:
		return LevelAVX512
	case cpu.X86.HasAVX2:
		return LevelAVX2
	case cpu.X86.HasSSE2:
		return LevelSSE2
	default:
		return LevelScalar
	}
}
