// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

//go:build arm64

package conv

import "golang.org/x/sys/cpu"

func init() {
	currentLevel = detectLevel()
}

func detectLevel() Level {
	if NoSimdEnv() {
		return LevelScalar
	}
	// ASIMD is part of the ARMv8-A base, so the scalar branch is only
	// reachable on unusual kernels that hide the hwcaps.
	switch {
	case cpu.ARM64.HasSVE:
		return LevelSVE
	case cpu.ARM64.HasASIMD:
		return LevelNEON
	default:
		return LevelScalar
	}
}
