// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package present

import (
	"fmt"

	"github.com/vdesk/present/config"
	"github.com/vdesk/present/filter"
	"github.com/vdesk/present/texture"
)

// Configuration option keys, grouped by module table.
const (
	moduleDisplay = "display"
	moduleFilter  = "filter"

	optScale     = "scale"
	optNVGainMax = "nvGainMax"
	optNVGain    = "nvGain"
	optCBMode    = "cbMode"

	optUpscale          = "upscale"
	optUpscaleSharpness = "upscaleSharpness"
	optSharpen          = "sharpen"
	optSharpenSharpness = "sharpenSharpness"
)

func validSharpness(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("sharpness out of range [0,1]: %v", v)
	}
	return nil
}

// RegisterOptions declares the presentation options on a registry. Call
// once before New; Load may then restore persisted values.
func RegisterOptions(reg *config.Registry) {
	reg.RegisterInt(moduleDisplay, optScale, int(ScaleAuto), ValidScaleAlgo)
	reg.RegisterInt(moduleDisplay, optNVGainMax, 1, func(v int) error {
		if v < 0 {
			return fmt.Errorf("max gain must be non-negative: %d", v)
		}
		return nil
	})
	reg.RegisterInt(moduleDisplay, optNVGain, 0, func(v int) error {
		if v < 0 {
			return fmt.Errorf("gain must be non-negative: %d", v)
		}
		return nil
	})
	reg.RegisterInt(moduleDisplay, optCBMode, 0, func(v int) error {
		if v < 0 || v > 3 {
			return fmt.Errorf("colorblind mode out of range [0,3]: %d", v)
		}
		return nil
	})

	reg.RegisterBool(moduleFilter, optUpscale, false)
	reg.RegisterFloat(moduleFilter, optUpscaleSharpness, 0.5, validSharpness)
	reg.RegisterBool(moduleFilter, optSharpen, false)
	reg.RegisterFloat(moduleFilter, optSharpenSharpness, 0.5, validSharpness)
}

// Notifier receives short user-visible status messages, e.g. from the
// night vision keybinding.
type Notifier interface {
	Notify(message string)
}

// Option configures a Desktop at construction.
type Option func(*Desktop)

// WithCompositor substitutes the draw backend; used by tests and by
// hosts that already own a compositor.
func WithCompositor(c Compositor) Option {
	return func(d *Desktop) {
		d.compositor = c
		d.ownCompositor = false
	}
}

// WithBackendFactory substitutes the factory creating the importer's
// GPU backend. The factory is invoked once at Setup and once more if
// the zero-copy downgrade rebuilds the importer.
func WithBackendFactory(f func() (texture.Backend, error)) Option {
	return func(d *Desktop) { d.backendFactory = f }
}

// WithPrograms substitutes the three filter programs. The caller keeps
// ownership of any GPU resources behind them.
func WithPrograms(upscale, upscaleSharpen, sharpen filter.Program) Option {
	return func(d *Desktop) {
		d.progUpscale = upscale
		d.progUpscaleSharpen = upscaleSharpen
		d.progSharpen = sharpen
	}
}

// WithHandleImporter enables the zero-copy import path using the
// platform's handle importer.
func WithHandleImporter(hi texture.HandleImporter) Option {
	return func(d *Desktop) { d.handleImporter = hi }
}

// WithNotifier routes user-visible notifications.
func WithNotifier(n Notifier) Option {
	return func(d *Desktop) { d.notifier = n }
}

// WithRedrawSignal registers the callback invoked whenever state
// changed in a way that requires a redraw.
func WithRedrawSignal(f func()) Option {
	return func(d *Desktop) { d.redraw = f }
}

// WithMaxDamageRects overrides the damage mesh capacity before updates
// collapse to a full-surface redraw.
func WithMaxDamageRects(n int) Option {
	return func(d *Desktop) { d.maxDamageRects = n }
}
