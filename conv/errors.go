// Copyright 2025 The go-convolve Authors. SPDX-License-Identifier: Apache-2.0

package conv

import "errors"

// ErrInvalidArgument is returned when a row count, thread count or thread
// index falls outside the domain accepted by Assign.
var ErrInvalidArgument = errors.New("conv: invalid argument")
