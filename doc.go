// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

// Package present renders a remotely captured desktop frame onto a
// local GPU surface: it imports frame pixels into a texture (zero-copy
// from a device memory handle where the platform allows it, CPU upload
// otherwise), runs a configurable chain of post-processing filters
// (edge-adaptive upscaling and contrast-adaptive sharpening), and
// composites the result through a damage-rectangle mesh so only changed
// screen regions are redrawn.
//
// The Desktop type is the entry point. It is driven from one render
// goroutine:
//
//	d, err := present.New(device, queue, registry)
//	...
//	d.Setup(texture.FormatBGRA8, 1920, 1080, 1920*4)
//	d.Resize(2560, 1440)
//	for frame := range frames {
//	    d.Update(frame)
//	    d.Render(surfaceView, surfaceFormat, params)
//	}
//
// UI and input layers never touch Desktop state directly; they post
// Command values that are applied at the start of the next Render.
package present
