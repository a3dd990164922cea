// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/vdesk/present/filter"
	"github.com/vdesk/present/rects"
	"github.com/vdesk/present/texture"
)

// frameResources holds GPU objects referenced by in-flight work. They
// are released once the queue reports the submission completed.
type frameResources struct {
	submission uint64
	cmdBuf     hal.CommandBuffer
	binds      []hal.BindGroup
}

// PipelineBackend executes filter passes on a wgpu device. It
// implements texture.Backend: one backend instance serves one importer.
//
// Submissions are asynchronous. Run encodes every planned pass into a
// single submission and records its index; Poll reports completion
// without blocking and releases the frame's resources once the queue
// has advanced past that index.
type PipelineBackend struct {
	device   Device
	queue    Queue
	importer texture.HandleImporter

	textures *textureSet

	format    texture.PixelFormat
	gpuFormat gputypes.TextureFormat
	width     int
	height    int

	inflight *frameResources
}

var _ texture.Backend = (*PipelineBackend)(nil)

// NewPipelineBackend creates a backend over the device and queue. The
// handle importer may be nil when only copy mode is used.
func NewPipelineBackend(device Device, queue Queue, importer texture.HandleImporter) (*PipelineBackend, error) {
	ts, err := newTextureSet(device)
	if err != nil {
		return nil, err
	}
	return &PipelineBackend{
		device:   device,
		queue:    queue,
		importer: importer,
		textures: ts,
	}, nil
}

// Configure records the source format and dimensions. Texture storage
// is allocated lazily by the first Upload or ImportHandle.
func (b *PipelineBackend) Configure(format texture.PixelFormat, width, height int) error {
	gpuFormat, err := format.GPUFormat()
	if err != nil {
		return err
	}
	b.format = format
	b.gpuFormat = gpuFormat
	b.width = width
	b.height = height
	return nil
}

// ImportHandle wraps a device memory handle as the source texture.
func (b *PipelineBackend) ImportHandle(handle uintptr) error {
	if b.importer == nil {
		return fmt.Errorf("%w: no handle importer available", texture.ErrImportFailed)
	}
	tex, err := b.importer.Import(handle, b.format, b.width, b.height)
	if err != nil {
		return fmt.Errorf("%w: %w", texture.ErrImportFailed, err)
	}
	if err := b.textures.adoptSource(tex, b.gpuFormat, b.width, b.height); err != nil {
		return fmt.Errorf("%w: %w", texture.ErrImportFailed, err)
	}
	return nil
}

// Upload copies buf into the source texture, restricted to the damage
// rectangles when any are given. buf is laid out with the given pitch
// in bytes per row.
func (b *PipelineBackend) Upload(buf []byte, pitch int, damage []rects.Rect) error {
	if err := b.textures.configureSource(b.gpuFormat, b.width, b.height); err != nil {
		return err
	}

	bpp := b.format.BytesPerPixel()
	if len(damage) == 0 {
		damage = []rects.Rect{{X: 0, Y: 0, W: b.width, H: b.height}}
	}
	for _, r := range damage {
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		offset := r.Y*pitch + r.X*bpp
		end := (r.Y+r.H-1)*pitch + (r.X+r.W)*bpp
		if offset < 0 || end > len(buf) {
			return fmt.Errorf("damage rect %+v outside buffer of %d bytes", r, len(buf))
		}
		err := b.queue.WriteTexture(
			&hal.ImageCopyTexture{
				Texture:  b.textures.source,
				MipLevel: 0,
				Origin:   hal.Origin3D{X: uint32(r.X), Y: uint32(r.Y), Z: 0},
			},
			buf[offset:end],
			&hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(pitch),
				RowsPerImage: uint32(r.H),
			},
			&hal.Extent3D{Width: uint32(r.W), Height: uint32(r.H), DepthOrArrayLayers: 1},
		)
		if err != nil {
			return fmt.Errorf("write texture rect %+v: %w", r, err)
		}
	}
	return nil
}

// Run encodes one render pass per planned step and submits them as a
// single command buffer. Poll observes completion.
func (b *PipelineBackend) Run(steps []filter.Step) error {
	if b.textures.source == nil {
		if err := b.textures.configureSource(b.gpuFormat, b.width, b.height); err != nil {
			return err
		}
	}
	if err := b.textures.ensureTargets(steps); err != nil {
		return err
	}
	if len(steps) == 0 {
		return nil
	}

	var binds []hal.BindGroup
	releaseBinds := func() {
		for _, bg := range binds {
			b.device.DestroyBindGroup(bg)
		}
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "present_filter_encoder",
	})
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}
	if err := encoder.BeginEncoding("present_filters"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	input := b.textures.sourceView
	for i, st := range steps {
		prog, ok := st.Pass.Program().(*Program)
		if !ok {
			encoder.DiscardEncoding()
			releaseBinds()
			return fmt.Errorf("pass %s has no GPU program", st.Pass.Slot())
		}

		prog.SetFloats(uniformInputSize, float32(st.InWidth), float32(st.InHeight))
		prog.SetFloats(uniformOutputSize, float32(st.OutWidth), float32(st.OutHeight))
		for _, param := range st.Pass.Parameters() {
			prog.SetFloats(param.Name, param.Value)
		}
		if err := prog.flush(); err != nil {
			encoder.DiscardEncoding()
			releaseBinds()
			return err
		}

		pipe, err := prog.pipelineFor(b.gpuFormat)
		if err != nil {
			encoder.DiscardEncoding()
			releaseBinds()
			return err
		}
		bg, err := prog.bindGroup(input, b.textures.linear)
		if err != nil {
			encoder.DiscardEncoding()
			releaseBinds()
			return err
		}
		binds = append(binds, bg)

		target := b.textures.targets[i]
		rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: fmt.Sprintf("present_pass_%s", st.Pass.Slot()),
			ColorAttachments: []hal.RenderPassColorAttachment{
				{
					View:       target.view,
					LoadOp:     gputypes.LoadOpClear,
					StoreOp:    gputypes.StoreOpStore,
					ClearValue: gputypes.Color{},
				},
			},
		})
		rp.SetPipeline(pipe)
		rp.SetBindGroup(0, bg, nil)
		rp.Draw(3, 1, 0, 0)
		rp.End()

		input = target.view
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		releaseBinds()
		return fmt.Errorf("end encoding: %w", err)
	}

	submission, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		b.device.FreeCommandBuffer(cmdBuf)
		releaseBinds()
		return fmt.Errorf("submit filters: %w", err)
	}

	// The previous frame's resources are normally retired when Poll
	// sees its submission complete; a still-pending frame is released
	// here because the new submission queues behind it.
	b.retireInflight()
	b.inflight = &frameResources{submission: submission, cmdBuf: cmdBuf, binds: binds}
	return nil
}

// Poll reports the state of the last submission without blocking.
func (b *PipelineBackend) Poll() texture.Status {
	if b.inflight == nil {
		return texture.StatusOK
	}
	if b.queue.PollCompleted() < b.inflight.submission {
		return texture.StatusNotReady
	}
	b.retireInflight()
	return texture.StatusOK
}

func (b *PipelineBackend) retireInflight() {
	if b.inflight == nil {
		return
	}
	for _, bg := range b.inflight.binds {
		b.device.DestroyBindGroup(bg)
	}
	b.device.FreeCommandBuffer(b.inflight.cmdBuf)
	b.inflight = nil
}

// OutputView returns the texture view the compositor samples.
func (b *PipelineBackend) OutputView() hal.TextureView {
	return b.textures.outputView()
}

// Destroy releases all GPU resources held by the backend.
func (b *PipelineBackend) Destroy() {
	b.retireInflight()
	b.textures.destroy()
}
