// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// PixelFormat is a capture frame pixel format.
type PixelFormat uint8

const (
	// FormatBGRA8 is 8-bit BGRA, the common desktop capture format.
	FormatBGRA8 PixelFormat = iota

	// FormatRGBA8 is 8-bit RGBA.
	FormatRGBA8

	// FormatRGBA10 is 10-bit color with 2-bit alpha.
	FormatRGBA10

	// FormatRGBA16F is 16-bit float per channel, used for HDR captures.
	FormatRGBA16F
)

// String returns a human-readable name for the format.
func (f PixelFormat) String() string {
	switch f {
	case FormatBGRA8:
		return "BGRA8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGBA10:
		return "RGBA10"
	case FormatRGBA16F:
		return "RGBA16F"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// BytesPerPixel returns the storage size of one pixel.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatBGRA8, FormatRGBA8, FormatRGBA10:
		return 4
	case FormatRGBA16F:
		return 8
	default:
		return 0
	}
}

// GPUFormat maps the frame format to its wgpu texture format. Unsupported
// formats return ErrUnsupportedFormat.
func (f PixelFormat) GPUFormat() (gputypes.TextureFormat, error) {
	switch f {
	case FormatBGRA8:
		return gputypes.TextureFormatBGRA8Unorm, nil
	case FormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm, nil
	case FormatRGBA10:
		return gputypes.TextureFormatRGB10A2Unorm, nil
	case FormatRGBA16F:
		return gputypes.TextureFormatRGBA16Float, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}
