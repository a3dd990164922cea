// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"math"
)

// floatBytes packs float32 values little-endian for queue uploads.
func floatBytes(values []float32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
