// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package present

import "fmt"

// FilterID names a user-facing filter. The upscale filter is a pair of
// chain passes toggled together; the sharpen filter is a single pass.
type FilterID int

const (
	// FilterUpscale is the edge-adaptive upscale pair.
	FilterUpscale FilterID = iota

	// FilterSharpen is the standalone contrast-adaptive sharpener.
	FilterSharpen
)

func (f FilterID) String() string {
	switch f {
	case FilterUpscale:
		return "upscale"
	case FilterSharpen:
		return "sharpen"
	default:
		return fmt.Sprintf("FilterID(%d)", int(f))
	}
}

// Command is a state change posted by the UI or input layer. Commands
// are queued and applied on the render goroutine at the start of the
// next Render call. Every applied command requests a redraw; commands
// that change the filter chain's output additionally invalidate the
// texture so the chain re-runs.
type Command interface {
	apply(d *Desktop)

	// invalidates reports whether the command changes filter chain
	// output. Pure composite-state changes redraw without re-running
	// the chain.
	invalidates() bool
}

// SetFilterEnabled toggles a filter on or off. Enabling the upscale
// filter only takes effect while the destination is larger than the
// native size; the preference is remembered across resizes.
type SetFilterEnabled struct {
	Filter  FilterID
	Enabled bool
}

func (c SetFilterEnabled) apply(d *Desktop)  { d.setFilterEnabled(c.Filter, c.Enabled) }
func (c SetFilterEnabled) invalidates() bool { return true }

// SetSharpness sets a filter's sharpness from the UI slider range
// [0,1]. Setting a sharpness also enables the filter.
type SetSharpness struct {
	Filter FilterID
	Value  float32
}

func (c SetSharpness) apply(d *Desktop)  { d.setSharpness(c.Filter, c.Value) }
func (c SetSharpness) invalidates() bool { return true }

// SetScaleAlgorithm changes the sampling algorithm preference. The
// algorithm only affects the composite draw, not the filter chain.
type SetScaleAlgorithm struct {
	Algo ScaleAlgo
}

func (c SetScaleAlgorithm) apply(d *Desktop)  { d.setScaleAlgo(c.Algo) }
func (c SetScaleAlgorithm) invalidates() bool { return false }

// SetNightVisionGain sets the night vision gain directly; values are
// clamped to [0, max gain].
type SetNightVisionGain struct {
	Gain int
}

func (c SetNightVisionGain) apply(d *Desktop)  { d.setNightVisionGain(c.Gain) }
func (c SetNightVisionGain) invalidates() bool { return false }

// SetColorblindMode selects the daltonization mode; zero disables it.
type SetColorblindMode struct {
	Mode int
}

func (c SetColorblindMode) apply(d *Desktop)  { d.setColorblindMode(c.Mode) }
func (c SetColorblindMode) invalidates() bool { return false }

// Post queues a command for the next Render call. Safe to call from
// any goroutine.
func (d *Desktop) Post(cmd Command) {
	d.cmdMu.Lock()
	d.commands = append(d.commands, cmd)
	d.cmdMu.Unlock()
}

// applyCommands drains the queue on the render goroutine. Any applied
// command signals a redraw; the texture output is invalidated only when
// a command changed what the filter chain produces.
func (d *Desktop) applyCommands() {
	d.cmdMu.Lock()
	pending := d.commands
	d.commands = nil
	d.cmdMu.Unlock()

	if len(pending) == 0 {
		return
	}
	invalidate := false
	for _, cmd := range pending {
		cmd.apply(d)
		invalidate = invalidate || cmd.invalidates()
	}
	if invalidate && d.importer != nil {
		d.importer.Invalidate()
	}
	d.requestRedraw()
}
