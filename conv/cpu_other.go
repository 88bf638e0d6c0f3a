// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

//go:build !amd64 && !arm64

package conv

func init() {
	currentLevel = detectLevel()
}

func detectLevel() Level {
	return LevelScalar
}
