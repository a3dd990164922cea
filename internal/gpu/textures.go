// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/vdesk/present/filter"
)

// renderTarget is one intermediate filter output: a texture usable both
// as render attachment and as the sampled input of the next pass.
type renderTarget struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
}

// textureSet owns the pipeline's textures: the source desktop texture,
// the per-pass intermediate targets, and the shared samplers. Targets
// are rebuilt lazily whenever the planned pass sizes change.
type textureSet struct {
	device Device

	source      hal.Texture
	sourceView  hal.TextureView
	sourceOwned bool
	sourceW     int
	sourceH     int
	format      gputypes.TextureFormat

	targets []renderTarget

	linear  hal.Sampler
	nearest hal.Sampler
}

func newTextureSet(device Device) (*textureSet, error) {
	ts := &textureSet{device: device}

	linear, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "present_sampler_linear",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("create linear sampler: %w", err)
	}
	ts.linear = linear

	nearest, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "present_sampler_nearest",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		ts.destroy()
		return nil, fmt.Errorf("create nearest sampler: %w", err)
	}
	ts.nearest = nearest

	return ts, nil
}

// configureSource (re)creates the owned source texture for buffer
// uploads.
func (ts *textureSet) configureSource(format gputypes.TextureFormat, w, h int) error {
	if ts.source != nil && ts.sourceOwned && ts.format == format && ts.sourceW == w && ts.sourceH == h {
		return nil
	}
	ts.releaseSource()

	tex, err := ts.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "present_source",
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create source texture: %w", err)
	}
	view, err := ts.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "present_source_view",
	})
	if err != nil {
		ts.device.DestroyTexture(tex)
		return fmt.Errorf("create source view: %w", err)
	}

	ts.source = tex
	ts.sourceView = view
	ts.sourceOwned = true
	ts.sourceW, ts.sourceH = w, h
	ts.format = format
	return nil
}

// adoptSource wraps an externally imported texture. The caller retains
// ownership of the texture; the set only owns the view.
func (ts *textureSet) adoptSource(tex hal.Texture, format gputypes.TextureFormat, w, h int) error {
	ts.releaseSource()

	view, err := ts.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "present_imported_view",
	})
	if err != nil {
		return fmt.Errorf("create imported view: %w", err)
	}

	ts.source = tex
	ts.sourceView = view
	ts.sourceOwned = false
	ts.sourceW, ts.sourceH = w, h
	ts.format = format
	return nil
}

func (ts *textureSet) releaseSource() {
	if ts.sourceView != nil {
		ts.device.DestroyTextureView(ts.sourceView)
		ts.sourceView = nil
	}
	if ts.source != nil && ts.sourceOwned {
		ts.device.DestroyTexture(ts.source)
	}
	ts.source = nil
	ts.sourceOwned = false
}

// ensureTargets sizes one render target per planned pass, reusing
// targets whose dimensions already match.
func (ts *textureSet) ensureTargets(steps []filter.Step) error {
	if len(ts.targets) == len(steps) {
		match := true
		for i, st := range steps {
			if ts.targets[i].width != st.OutWidth || ts.targets[i].height != st.OutHeight {
				match = false
				break
			}
		}
		if match {
			return nil
		}
	}
	ts.releaseTargets()

	for i, st := range steps {
		tex, err := ts.device.CreateTexture(&hal.TextureDescriptor{
			Label:         fmt.Sprintf("present_pass%d_%s", i, st.Pass.Slot()),
			Size:          hal.Extent3D{Width: uint32(st.OutWidth), Height: uint32(st.OutHeight), DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        ts.format,
			Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
		})
		if err != nil {
			ts.releaseTargets()
			return fmt.Errorf("create pass %d target: %w", i, err)
		}
		view, err := ts.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label: fmt.Sprintf("present_pass%d_view", i),
		})
		if err != nil {
			ts.device.DestroyTexture(tex)
			ts.releaseTargets()
			return fmt.Errorf("create pass %d view: %w", i, err)
		}
		ts.targets = append(ts.targets, renderTarget{
			tex:    tex,
			view:   view,
			width:  st.OutWidth,
			height: st.OutHeight,
		})
	}
	return nil
}

func (ts *textureSet) releaseTargets() {
	for _, t := range ts.targets {
		ts.device.DestroyTextureView(t.view)
		ts.device.DestroyTexture(t.tex)
	}
	ts.targets = nil
}

// outputView is the view the compositor samples: the last pass target,
// or the source itself when every pass is disabled.
func (ts *textureSet) outputView() hal.TextureView {
	if len(ts.targets) > 0 {
		return ts.targets[len(ts.targets)-1].view
	}
	return ts.sourceView
}

func (ts *textureSet) destroy() {
	ts.releaseTargets()
	ts.releaseSource()
	if ts.linear != nil {
		ts.device.DestroySampler(ts.linear)
		ts.linear = nil
	}
	if ts.nearest != nil {
		ts.device.DestroySampler(ts.nearest)
		ts.nearest = nil
	}
}
