// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

// Package texture owns the desktop texture: importing frame data from the
// capture source into GPU memory and running the attached post-processing
// chain over it.
//
// An Importer operates in exactly one of two modes. Zero-copy mode binds
// device memory already holding pixel data through a platform-supplied
// HandleImporter; copy mode uploads CPU buffers, restricted to the damaged
// sub-regions when the frame carries a damage list. A failed zero-copy
// import permanently downgrades the session to copy mode: the desktop
// destroys the importer and builds a fresh one, reattaching the filter
// chain, whose state is independent of texture identity.
package texture

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/vdesk/present/filter"
	"github.com/vdesk/present/internal/logging"
	"github.com/vdesk/present/rects"
)

// Importer errors.
var (
	// ErrUnsupportedFormat is returned by Setup for pixel formats the GPU
	// path cannot store.
	ErrUnsupportedFormat = errors.New("texture: unsupported pixel format")

	// ErrNotConfigured is returned when updating an importer before Setup.
	ErrNotConfigured = errors.New("texture: importer not configured")

	// ErrWrongMode is returned when an update does not match the
	// importer's import mode.
	ErrWrongMode = errors.New("texture: update does not match import mode")

	// ErrImportFailed wraps zero-copy import failures; the caller is
	// expected to downgrade to copy mode.
	ErrImportFailed = errors.New("texture: zero-copy import failed")
)

// Status is the result of Process.
type Status int

const (
	// StatusOK means the texture and its filter output are current.
	StatusOK Status = iota

	// StatusNotReady is a non-fatal transient state (typically a pending
	// fence); retry on the next render call. Never logged as an error.
	StatusNotReady

	// StatusError means filter processing failed; the previous output
	// remains bound.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNotReady:
		return "NotReady"
	case StatusError:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Mode selects the import strategy.
type Mode int

const (
	// ModeZeroCopy imports device memory handles from the capture source.
	ModeZeroCopy Mode = iota

	// ModeCopy uploads CPU frame buffers.
	ModeCopy
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeZeroCopy {
		return "zero-copy"
	}
	return "copy"
}

// HandleImporter binds externally-allocated device memory as a texture.
// It is supplied by the platform layer (dma-buf, IOSurface, shared
// handles); the importer treats its absence in zero-copy mode as an
// import failure, which drives the downgrade to copy mode.
type HandleImporter interface {
	Import(handle uintptr, format PixelFormat, width, height int) (hal.Texture, error)
}

// Backend performs the GPU work behind an Importer: texture storage,
// uploads, filter pass execution, and fence polling. The production
// implementation lives in the internal GPU layer; tests substitute stubs.
type Backend interface {
	// Configure (re)allocates storage for the given format and size.
	Configure(format PixelFormat, width, height int) error

	// ImportHandle binds a device memory handle as the source texture.
	ImportHandle(handle uintptr) error

	// Upload copies a CPU buffer into the source texture. A non-empty
	// damage list restricts the copy to those sub-regions.
	Upload(buf []byte, pitch int, damage []rects.Rect) error

	// Run executes the planned filter passes against the source texture.
	Run(steps []filter.Step) error

	// Poll reports whether previously submitted GPU work has completed.
	Poll() Status

	// OutputView returns the view of the final texture (after the last
	// enabled filter pass, or the source when none ran).
	OutputView() hal.TextureView

	// Destroy releases all GPU resources.
	Destroy()
}

// Importer owns the desktop texture for one import mode. It is created in
// a fixed mode and never changes mode; the downgrade from zero-copy to
// copy is expressed by destroying the importer and creating a new one.
//
// Importer is owned by the render thread; see the concurrency contract on
// the Desktop type.
type Importer struct {
	mode    Mode
	backend Backend
	chain   *filter.Chain

	format PixelFormat
	width  int
	height int
	pitch  int

	configured bool
	dirty      bool
}

// NewImporter creates an importer in the given mode over a GPU backend.
func NewImporter(mode Mode, backend Backend) *Importer {
	return &Importer{mode: mode, backend: backend}
}

// Mode returns the importer's fixed import mode.
func (im *Importer) Mode() Mode { return im.mode }

// AttachChain attaches the post-processing chain. Pass state (enabled,
// parameters, target resolutions) lives in the chain, so reattaching the
// same chain to a recreated importer preserves all of it.
func (im *Importer) AttachChain(c *filter.Chain) { im.chain = c }

// Chain returns the attached chain, or nil.
func (im *Importer) Chain() *filter.Chain { return im.chain }

// Setup (re)configures storage for the given pixel format and dimensions.
// It fails with ErrUnsupportedFormat for formats outside the supported
// set; such a failure leaves the importer unconfigured.
func (im *Importer) Setup(format PixelFormat, width, height, pitch int) error {
	if _, err := format.GPUFormat(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("texture: invalid dimensions %dx%d", width, height)
	}
	if err := im.backend.Configure(format, width, height); err != nil {
		return fmt.Errorf("texture: configure %s %dx%d: %w", format, width, height, err)
	}
	im.format = format
	im.width = width
	im.height = height
	im.pitch = pitch
	im.configured = true
	im.dirty = true

	logging.L().Debug("texture importer configured",
		"mode", im.mode.String(), "format", format.String(),
		"width", width, "height", height, "pitch", pitch)
	return nil
}

// Format returns the configured pixel format and dimensions, for
// re-running Setup on a replacement importer after a downgrade.
func (im *Importer) Format() (PixelFormat, int, int, int) {
	return im.format, im.width, im.height, im.pitch
}

// UpdateFromHandle performs a zero-copy update from a device memory
// handle. On failure the caller must downgrade per the one-shot fallback
// contract; the importer itself never retries.
func (im *Importer) UpdateFromHandle(handle uintptr) error {
	if !im.configured {
		return ErrNotConfigured
	}
	if im.mode != ModeZeroCopy {
		return fmt.Errorf("%w: handle update on %s importer", ErrWrongMode, im.mode)
	}
	if err := im.backend.ImportHandle(handle); err != nil {
		return fmt.Errorf("%w: %w", ErrImportFailed, err)
	}
	im.dirty = true
	return nil
}

// UpdateFromBuffer uploads frame pixels from a CPU buffer. A non-empty
// damage list uploads only the changed sub-regions; an empty list uploads
// the full surface. Safe to call every frame at capture rate.
func (im *Importer) UpdateFromBuffer(buf []byte, damage []rects.Rect) error {
	if !im.configured {
		return ErrNotConfigured
	}
	if err := im.backend.Upload(buf, im.pitch, damage); err != nil {
		return fmt.Errorf("texture: buffer upload: %w", err)
	}
	im.dirty = true
	return nil
}

// Invalidate forces the filter chain to re-run on the next Process even
// without a new frame, e.g. after a filter toggle or parameter change.
func (im *Importer) Invalidate() { im.dirty = true }

// Process runs the attached filter chain against the current texture
// content. StatusNotReady means GPU work from a previous call has not
// completed; it is polled, not awaited, and the caller retries next
// frame. Errors are reported as StatusError with the previous output left
// bound; processing an unchanged texture is a no-op returning StatusOK.
func (im *Importer) Process() Status {
	if !im.configured {
		return StatusNotReady
	}
	if st := im.backend.Poll(); st != StatusOK {
		return st
	}
	if !im.dirty {
		return StatusOK
	}

	var steps []filter.Step
	if im.chain != nil {
		steps = im.chain.Plan(im.width, im.height)
	}
	if err := im.backend.Run(steps); err != nil {
		logging.L().Error("filter chain execution failed", "error", err)
		return StatusError
	}
	im.dirty = false
	return StatusOK
}

// FinalSize returns the texture resolution after all enabled filter
// passes. With no chain or no enabled passes this is the native size.
func (im *Importer) FinalSize() (int, int) {
	if im.chain == nil {
		return im.width, im.height
	}
	return im.chain.Output(im.width, im.height)
}

// Bind returns the final output texture view for sampling by the
// compositor.
func (im *Importer) Bind() hal.TextureView {
	return im.backend.OutputView()
}

// Destroy releases the importer's GPU resources. The attached chain is
// not destroyed; its state survives for reattachment.
func (im *Importer) Destroy() {
	im.backend.Destroy()
	im.configured = false
}
