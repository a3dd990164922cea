// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package present

import (
	"github.com/vdesk/present/rects"
	"github.com/vdesk/present/texture"
)

// Frame is one captured desktop frame handed to Desktop.Update.
type Frame struct {
	// Format, Width, Height and Pitch describe the pixel data. Pitch is
	// in bytes per row.
	Format texture.PixelFormat
	Width  int
	Height int
	Pitch  int

	// Data is the CPU-side pixel buffer. It must be valid for the
	// duration of the Update call only.
	Data []byte

	// Handle is an optional GPU-visible memory handle for zero-copy
	// import; zero means no handle is available for this frame.
	Handle uintptr

	// Damage lists the regions changed since the previous frame, in
	// native desktop coordinates. Empty means the whole surface
	// changed.
	Damage []rects.Rect
}
