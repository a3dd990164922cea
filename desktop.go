// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package present

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/vdesk/present/config"
	"github.com/vdesk/present/filter"
	"github.com/vdesk/present/internal/gpu"
	"github.com/vdesk/present/internal/logging"
	"github.com/vdesk/present/rects"
	"github.com/vdesk/present/texture"
)

// Chain slot names. Slot order is fixed at construction: the upscale
// pair runs first, the standalone sharpener last.
const (
	SlotUpscaleEASU = "upscale-easu"
	SlotUpscaleRCAS = "upscale-rcas"
	SlotSharpen     = "sharpen"
)

// defaultMaxDamageRects bounds the damage mesh before an update
// collapses to a full redraw.
const defaultMaxDamageRects = 64

// ErrNotSetup is returned by Update and Render before Setup succeeded.
var ErrNotSetup = errors.New("present: desktop surface not set up")

// Compositor draws the processed desktop texture onto a destination
// surface. The production implementation is the internal GPU
// compositor; tests substitute stubs.
type Compositor interface {
	Composite(dst hal.TextureView, dstFormat gputypes.TextureFormat, src hal.TextureView, params gpu.CompositeParams) error
	Destroy()
}

// RenderParams carries one Render call's placement and damage input.
type RenderParams struct {
	// X and Y are the placement offset in destination pixels.
	X float32
	Y float32

	// ScaleX and ScaleY are the placement scale factors.
	ScaleX float32
	ScaleY float32

	// Rotation of the desktop within the destination.
	Rotation rects.Rotation

	// Damage lists destination-relative changed regions; empty redraws
	// the full surface.
	Damage []rects.Rect

	// Clear wipes the destination before drawing.
	Clear bool
}

// Desktop is the top-level presentation aggregate: one imported desktop
// texture, one filter chain, the scale policy state and the damage
// mesh.
//
// All methods except Post must be called from a single render
// goroutine; Post may be called from anywhere.
type Desktop struct {
	device gpu.Device
	queue  gpu.Queue
	reg    *config.Registry

	compositor    Compositor
	ownCompositor bool
	notifier      Notifier
	redraw        func()

	backendFactory func() (texture.Backend, error)
	handleImporter texture.HandleImporter

	progUpscale        filter.Program
	progUpscaleSharpen filter.Program
	progSharpen        filter.Program
	ownedPrograms      []*gpu.Program

	importer *texture.Importer
	chain    *filter.Chain
	batcher  *rects.Batcher

	maxDamageRects int
	transform      [rects.MatrixSize]float32

	// Native capture resolution and destination surface size.
	width  int
	height int
	destW  int
	destH  int

	upscale   bool
	scaleType ScaleType

	// User preferences; filter pass state is derived from these plus
	// the upscale flag.
	scalePref        ScaleAlgo
	upscalePref      bool
	upscaleSharpness float32
	sharpenPref      bool
	sharpenSharpness float32

	nvGain    int
	nvGainMax int
	cbMode    int

	downgraded bool

	cmdMu    sync.Mutex
	commands []Command
}

// New creates a desktop surface bound to a device and queue. The
// registry must have RegisterOptions applied; pass nil to run on
// defaults. GPU programs and the compositor are created here, so a
// construction failure leaves no partial surface behind.
func New(device hal.Device, queue hal.Queue, reg *config.Registry, opts ...Option) (*Desktop, error) {
	d := &Desktop{
		device:           device,
		queue:            queue,
		reg:              reg,
		ownCompositor:    true,
		maxDamageRects:   defaultMaxDamageRects,
		scaleType:        ScaleTypeNone,
		nvGainMax:        1,
		upscaleSharpness: 0.5,
		sharpenSharpness: 0.5,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.loadConfig()

	if d.backendFactory == nil {
		d.backendFactory = func() (texture.Backend, error) {
			return gpu.NewPipelineBackend(d.device, d.queue, d.handleImporter)
		}
	}

	if d.progUpscale == nil {
		easu, err := gpu.NewUpscaleProgram(d.device, d.queue)
		if err != nil {
			d.Destroy()
			return nil, fmt.Errorf("present: %w", err)
		}
		d.ownedPrograms = append(d.ownedPrograms, easu)
		d.progUpscale = easu

		rcas, err := gpu.NewUpscaleSharpenProgram(d.device, d.queue)
		if err != nil {
			d.Destroy()
			return nil, fmt.Errorf("present: %w", err)
		}
		d.ownedPrograms = append(d.ownedPrograms, rcas)
		d.progUpscaleSharpen = rcas

		cas, err := gpu.NewSharpenProgram(d.device, d.queue)
		if err != nil {
			d.Destroy()
			return nil, fmt.Errorf("present: %w", err)
		}
		d.ownedPrograms = append(d.ownedPrograms, cas)
		d.progSharpen = cas
	}

	if d.compositor == nil {
		comp, err := gpu.NewCompositor(d.device, d.queue)
		if err != nil {
			d.Destroy()
			return nil, fmt.Errorf("present: %w", err)
		}
		d.compositor = comp
	}

	d.batcher = rects.NewBatcher(d.maxDamageRects)

	d.chain = filter.NewChain(
		filter.NewPass(SlotUpscaleEASU, d.progUpscale),
		filter.NewPass(SlotUpscaleRCAS, d.progUpscaleSharpen,
			filter.Param{Name: gpu.SharpnessParam, Value: mapUpscaleSharpness(d.upscaleSharpness)}),
		filter.NewPass(SlotSharpen, d.progSharpen,
			filter.Param{Name: gpu.SharpnessParam, Value: d.sharpenSharpness}),
	)
	d.applyFilterState()

	return d, nil
}

func (d *Desktop) loadConfig() {
	if d.reg == nil {
		return
	}
	d.scalePref = ScaleAlgo(d.reg.Int(moduleDisplay, optScale))
	d.nvGainMax = d.reg.Int(moduleDisplay, optNVGainMax)
	d.nvGain = d.reg.Int(moduleDisplay, optNVGain)
	d.cbMode = d.reg.Int(moduleDisplay, optCBMode)
	d.upscalePref = d.reg.Bool(moduleFilter, optUpscale)
	d.upscaleSharpness = float32(d.reg.Float(moduleFilter, optUpscaleSharpness))
	d.sharpenPref = d.reg.Bool(moduleFilter, optSharpen)
	d.sharpenSharpness = float32(d.reg.Float(moduleFilter, optSharpenSharpness))
	if d.nvGain > d.nvGainMax {
		d.nvGain = d.nvGainMax
	}
}

// mapUpscaleSharpness converts the UI slider range [0,1] to the
// shader-native range [0,2] where 0 is the strongest sharpening.
func mapUpscaleSharpness(v float32) float32 { return 2 - 2*v }

// Setup (re)configures the surface for a capture stream of the given
// format, resolution and row pitch. A format the GPU cannot sample is a
// fatal setup failure.
func (d *Desktop) Setup(format texture.PixelFormat, width, height, pitch int) error {
	if d.importer == nil {
		backend, err := d.backendFactory()
		if err != nil {
			return fmt.Errorf("present: setup: %w", err)
		}
		mode := texture.ModeCopy
		if d.handleImporter != nil && !d.downgraded {
			mode = texture.ModeZeroCopy
		}
		d.importer = texture.NewImporter(mode, backend)
		d.importer.AttachChain(d.chain)
	}
	if err := d.importer.Setup(format, width, height, pitch); err != nil {
		return fmt.Errorf("present: setup: %w", err)
	}
	d.width = width
	d.height = height
	if d.destW == 0 || d.destH == 0 {
		d.destW, d.destH = width, height
	}
	d.Resize(d.destW, d.destH)
	return nil
}

// Update ingests one captured frame. In zero-copy mode an import
// failure downgrades the surface to copy mode for the rest of the
// session and falls back to a buffer upload of the same frame. A frame
// that simply carries no handle is uploaded from its buffer without
// downgrading; later frames may import again.
func (d *Desktop) Update(f Frame) error {
	if d.importer == nil {
		return ErrNotSetup
	}

	// Reconfigure when the capture stream changed shape.
	format, w, h, pitch := d.importer.Format()
	if f.Format != format || f.Width != w || f.Height != h || f.Pitch != pitch {
		if err := d.Setup(f.Format, f.Width, f.Height, f.Pitch); err != nil {
			return err
		}
	}

	if d.importer.Mode() == texture.ModeZeroCopy && f.Handle != 0 {
		err := d.importer.UpdateFromHandle(f.Handle)
		if err == nil {
			return nil
		}
		logging.L().Warn("zero-copy import failed, downgrading to copy mode", "error", err)
		if derr := d.downgrade(); derr != nil {
			return derr
		}
	}

	if err := d.importer.UpdateFromBuffer(f.Data, f.Damage); err != nil {
		return fmt.Errorf("present: update: %w", err)
	}
	return nil
}

// downgrade performs the one-shot zero-copy to copy transition: the
// importer is destroyed and rebuilt in copy mode with the chain
// reattached, preserving every pass's enabled, parameter and resolution
// state.
func (d *Desktop) downgrade() error {
	format, w, h, pitch := d.importer.Format()
	d.importer.Destroy()
	d.importer = nil
	d.downgraded = true

	backend, err := d.backendFactory()
	if err != nil {
		return fmt.Errorf("present: downgrade: %w", err)
	}
	d.importer = texture.NewImporter(texture.ModeCopy, backend)
	d.importer.AttachChain(d.chain)
	if err := d.importer.Setup(format, w, h, pitch); err != nil {
		return fmt.Errorf("present: downgrade: %w", err)
	}
	return nil
}

// Resize reacts to a destination surface size change. When the
// destination exceeds the native size on both axes the upscale pair is
// armed (if the user enabled it) with the destination as its target;
// otherwise the pair is force-disabled regardless of preference, since
// it would run at 1:1.
func (d *Desktop) Resize(destWidth, destHeight int) {
	d.destW = destWidth
	d.destH = destHeight

	d.upscale = destWidth > d.width && destHeight > d.height
	switch {
	case d.upscale:
		d.scaleType = ScaleTypeUpscale
	case destWidth < d.width || destHeight < d.height:
		d.scaleType = ScaleTypeDownscale
	default:
		d.scaleType = ScaleTypeNone
	}

	easu := d.chain.Pass(SlotUpscaleEASU)
	rcas := d.chain.Pass(SlotUpscaleRCAS)
	sharpen := d.chain.Pass(SlotSharpen)
	if d.upscale {
		easu.SetTargetResolution(destWidth, destHeight)
		rcas.SetTargetResolution(destWidth, destHeight)
		sharpen.SetTargetResolution(destWidth, destHeight)
	} else {
		sharpen.SetTargetResolution(0, 0)
	}
	d.applyFilterState()

	if d.importer != nil {
		d.importer.Invalidate()
	}
	d.requestRedraw()
}

// applyFilterState derives pass enablement from the user preferences
// and the current upscale flag.
func (d *Desktop) applyFilterState() {
	enablePair := d.upscalePref && d.upscale
	d.chain.Pass(SlotUpscaleEASU).SetEnabled(enablePair)
	d.chain.Pass(SlotUpscaleRCAS).SetEnabled(enablePair)
	d.chain.Pass(SlotSharpen).SetEnabled(d.sharpenPref)
}

// Render draws the current desktop texture onto dst. Per-frame
// processing failures are absorbed: the previous frame's output stays
// bound and is drawn instead.
func (d *Desktop) Render(dst hal.TextureView, dstFormat gputypes.TextureFormat, p RenderParams) error {
	d.applyCommands()

	if d.importer == nil {
		return ErrNotSetup
	}

	// StatusNotReady is a silent poll retry; StatusError was already
	// logged by the importer. Both leave the prior output bound, which
	// is still drawn below.
	d.importer.Process()

	src := d.importer.Bind()
	if src == nil {
		// No frame has been uploaded yet.
		return nil
	}

	finalW, finalH := d.importer.FinalSize()

	// A processed output larger than the native desktop is shown
	// under-resolution; treat it as a downscale no matter what the
	// resize handler decided.
	scaleType := d.scaleType
	if finalW > d.width || finalH > d.height {
		scaleType = ScaleTypeDownscale
	}
	algo := ResolveScaleAlgo(d.scalePref, scaleType)

	d.batcher.Update(p.Damage, d.destW, d.destH)
	rects.Matrix(d.transform[:], d.destW, d.destH, p.X, p.Y, p.ScaleX, p.ScaleY, p.Rotation)

	err := d.compositor.Composite(dst, dstFormat, src, gpu.CompositeParams{
		Transform:      d.transform,
		DesktopWidth:   d.width,
		DesktopHeight:  d.height,
		TextureWidth:   finalW,
		TextureHeight:  finalH,
		NVGain:         nightVisionMultiplier(d.nvGain),
		LinearFilter:   algo == ScaleLinear,
		ColorblindMode: uint32(d.cbMode),
		Vertices:       d.batcher.Vertices(),
		Clear:          p.Clear,
	})
	if err != nil {
		return fmt.Errorf("present: render: %w", err)
	}
	return nil
}

// nightVisionMultiplier maps gain steps to the shader's brightness
// multiplier; zero disables the effect entirely.
func nightVisionMultiplier(gain int) float32 {
	if gain <= 0 {
		return 0
	}
	return float32(int(1) << gain)
}

// CycleNightVision advances the gain 0..max and wraps back to 0,
// notifying the user of the new state. It is the handler behind the
// night vision keybinding.
func (d *Desktop) CycleNightVision() {
	d.setNightVisionGain((d.nvGain + 1) % (d.nvGainMax + 1))
	switch {
	case d.nvGain == 0:
		d.notify("Night Vision: Off")
	case d.nvGain == 1:
		d.notify("Night Vision: On")
	default:
		d.notify(fmt.Sprintf("Night Vision: On (Gain: %d)", d.nvGain))
	}
	d.requestRedraw()
}

// Invalidate forces the filter chain to re-run and a redraw, e.g. after
// an external state change.
func (d *Desktop) Invalidate() {
	if d.importer != nil {
		d.importer.Invalidate()
	}
	d.requestRedraw()
}

// Destroy releases every GPU resource owned by the surface.
func (d *Desktop) Destroy() {
	if d.importer != nil {
		d.importer.Destroy()
		d.importer = nil
	}
	if d.compositor != nil && d.ownCompositor {
		d.compositor.Destroy()
	}
	d.compositor = nil
	for _, p := range d.ownedPrograms {
		p.Destroy()
	}
	d.ownedPrograms = nil
}

// =============================================================================
// State accessors and command targets
// =============================================================================

// Upscaling reports whether the destination currently exceeds the
// native size on both axes.
func (d *Desktop) Upscaling() bool { return d.upscale }

// NativeSize returns the capture resolution from the last Setup.
func (d *Desktop) NativeSize() (int, int) { return d.width, d.height }

// FinalSize returns the texture resolution after all enabled filters.
func (d *Desktop) FinalSize() (int, int) {
	if d.importer == nil {
		return d.width, d.height
	}
	return d.importer.FinalSize()
}

// Downgraded reports whether the one-shot zero-copy fallback fired.
func (d *Desktop) Downgraded() bool { return d.downgraded }

// FilterEnabled reports the user preference for a filter. The upscale
// pair additionally requires an upscaling destination to actually run.
func (d *Desktop) FilterEnabled(f FilterID) bool {
	if f == FilterUpscale {
		return d.upscalePref
	}
	return d.sharpenPref
}

// Sharpness returns a filter's sharpness in the UI range [0,1].
func (d *Desktop) Sharpness(f FilterID) float32 {
	if f == FilterUpscale {
		return d.upscaleSharpness
	}
	return d.sharpenSharpness
}

// ScaleAlgorithm returns the current sampling preference.
func (d *Desktop) ScaleAlgorithm() ScaleAlgo { return d.scalePref }

// NightVisionGain returns the current gain step.
func (d *Desktop) NightVisionGain() int { return d.nvGain }

// ColorblindMode returns the current daltonization mode.
func (d *Desktop) ColorblindMode() int { return d.cbMode }

// Chain exposes the filter chain for inspection.
func (d *Desktop) Chain() *filter.Chain { return d.chain }

func (d *Desktop) setFilterEnabled(f FilterID, enabled bool) {
	switch f {
	case FilterUpscale:
		d.upscalePref = enabled
		d.storeBool(moduleFilter, optUpscale, enabled)
	case FilterSharpen:
		d.sharpenPref = enabled
		d.storeBool(moduleFilter, optSharpen, enabled)
	}
	d.applyFilterState()
}

func (d *Desktop) setSharpness(f FilterID, v float32) {
	switch f {
	case FilterUpscale:
		d.upscaleSharpness = v
		d.upscalePref = true
		d.chain.Pass(SlotUpscaleRCAS).SetParameter(gpu.SharpnessParam, mapUpscaleSharpness(v))
		d.storeFloat(moduleFilter, optUpscaleSharpness, float64(v))
		d.storeBool(moduleFilter, optUpscale, true)
	case FilterSharpen:
		d.sharpenSharpness = v
		d.sharpenPref = true
		d.chain.Pass(SlotSharpen).SetParameter(gpu.SharpnessParam, v)
		d.storeFloat(moduleFilter, optSharpenSharpness, float64(v))
		d.storeBool(moduleFilter, optSharpen, true)
	}
	d.applyFilterState()
}

func (d *Desktop) setScaleAlgo(a ScaleAlgo) {
	if ValidScaleAlgo(int(a)) != nil {
		logging.L().Error("invalid scale algorithm", "algo", int(a))
		return
	}
	d.scalePref = a
	d.storeInt(moduleDisplay, optScale, int(a))
}

func (d *Desktop) setNightVisionGain(gain int) {
	if gain < 0 {
		gain = 0
	}
	if gain > d.nvGainMax {
		gain = d.nvGainMax
	}
	d.nvGain = gain
	d.storeInt(moduleDisplay, optNVGain, gain)
}

func (d *Desktop) setColorblindMode(mode int) {
	d.cbMode = mode
	d.storeInt(moduleDisplay, optCBMode, mode)
}

func (d *Desktop) storeInt(module, name string, v int) {
	if d.reg == nil {
		return
	}
	if err := d.reg.SetInt(module, name, v); err != nil {
		logging.L().Warn("config write rejected", "option", module+"."+name, "error", err)
	}
}

func (d *Desktop) storeBool(module, name string, v bool) {
	if d.reg == nil {
		return
	}
	if err := d.reg.SetBool(module, name, v); err != nil {
		logging.L().Warn("config write rejected", "option", module+"."+name, "error", err)
	}
}

func (d *Desktop) storeFloat(module, name string, v float64) {
	if d.reg == nil {
		return
	}
	if err := d.reg.SetFloat(module, name, v); err != nil {
		logging.L().Warn("config write rejected", "option", module+"."+name, "error", err)
	}
}

func (d *Desktop) notify(msg string) {
	if d.notifier != nil {
		d.notifier.Notify(msg)
	}
}

func (d *Desktop) requestRedraw() {
	if d.redraw != nil {
		d.redraw()
	}
}
