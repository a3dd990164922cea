// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Desktop uniform slots. The layout mirrors the Params struct in
// desktop.wgsl; offsets are in 32-bit words.
var desktopUniforms = []UniformSpec{
	{Name: "transform0", Offset: 0, Count: 2},
	{Name: "transform1", Offset: 2, Count: 2},
	{Name: "translate", Offset: 4, Count: 2},
	{Name: "desktopSize", Offset: 6, Count: 2},
	{Name: "textureSize", Offset: 8, Count: 2},
	{Name: "nvGain", Offset: 10, Count: 1},
	{Name: "scaleAlgo", Offset: 11, Count: 1},
	{Name: "cbMode", Offset: 12, Count: 1},
}

const desktopUniformBytes = 64

// CompositeParams carries one frame's state into the desktop draw.
type CompositeParams struct {
	// Transform is the placement matrix produced by rects.Matrix.
	Transform [6]float32

	// DesktopWidth and DesktopHeight are the native guest desktop
	// size, before any scaling to the destination.
	DesktopWidth  int
	DesktopHeight int

	// TextureWidth and TextureHeight are the sampled texture's size
	// after filtering.
	TextureWidth  int
	TextureHeight int

	// NVGain is the night vision multiplier; zero disables it.
	NVGain float32

	// LinearFilter selects linear sampling; nearest otherwise.
	LinearFilter bool

	// ColorblindMode is the daltonization mode, zero for none.
	ColorblindMode uint32

	// Vertices is the damage mesh in destination NDC, two floats per
	// vertex.
	Vertices []float32

	// Clear wipes the destination before drawing.
	Clear bool
}

// Compositor draws the filtered desktop texture onto a destination
// surface through the damage mesh. One compositor serves one window;
// it is owned by the render thread.
type Compositor struct {
	device Device
	queue  Queue
	prog   *Program

	linear  hal.Sampler
	nearest hal.Sampler

	vertBuf hal.Buffer
	vertCap int
}

// NewCompositor compiles the desktop shader and creates the shared
// samplers.
func NewCompositor(device Device, queue Queue) (*Compositor, error) {
	vertexLayout := []gputypes.VertexBufferLayout{
		{
			ArrayStride: 8,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
	}
	prog, err := NewProgram(device, queue, "desktop", desktopShaderSource, desktopUniformBytes, desktopUniforms, vertexLayout)
	if err != nil {
		return nil, err
	}

	c := &Compositor{device: device, queue: queue, prog: prog}

	c.linear, err = device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "desktop_sampler_linear",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		c.Destroy()
		return nil, fmt.Errorf("create desktop linear sampler: %w", err)
	}
	c.nearest, err = device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "desktop_sampler_nearest",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		c.Destroy()
		return nil, fmt.Errorf("create desktop nearest sampler: %w", err)
	}
	return c, nil
}

// ensureVertexBuffer grows the vertex buffer to hold at least n floats.
func (c *Compositor) ensureVertexBuffer(n int) error {
	if c.vertBuf != nil && c.vertCap >= n {
		return nil
	}
	if c.vertBuf != nil {
		c.device.DestroyBuffer(c.vertBuf)
		c.vertBuf = nil
	}
	buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "desktop_verts",
		Size:  uint64(n * 4),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create desktop vertex buffer: %w", err)
	}
	c.vertBuf = buf
	c.vertCap = n
	return nil
}

// Composite draws src onto dst through the damage mesh. The call is
// synchronous: it returns once the GPU work completed.
func (c *Compositor) Composite(dst hal.TextureView, dstFormat gputypes.TextureFormat, src hal.TextureView, params CompositeParams) error {
	if len(params.Vertices) == 0 || len(params.Vertices)%2 != 0 {
		return fmt.Errorf("composite: invalid vertex count %d", len(params.Vertices))
	}
	if err := c.ensureVertexBuffer(len(params.Vertices)); err != nil {
		return err
	}
	if err := c.queue.WriteBuffer(c.vertBuf, 0, floatBytes(params.Vertices)); err != nil {
		return fmt.Errorf("write desktop vertices: %w", err)
	}

	c.prog.SetFloats("transform0", params.Transform[0], params.Transform[1])
	c.prog.SetFloats("transform1", params.Transform[2], params.Transform[3])
	c.prog.SetFloats("translate", params.Transform[4], params.Transform[5])
	c.prog.SetFloats("desktopSize", float32(params.DesktopWidth), float32(params.DesktopHeight))
	c.prog.SetFloats("textureSize", float32(params.TextureWidth), float32(params.TextureHeight))
	c.prog.SetFloats("nvGain", params.NVGain)
	if params.LinearFilter {
		c.prog.SetUint("scaleAlgo", 1)
	} else {
		c.prog.SetUint("scaleAlgo", 0)
	}
	c.prog.SetUint("cbMode", params.ColorblindMode)
	if err := c.prog.flush(); err != nil {
		return err
	}

	pipe, err := c.prog.pipelineFor(dstFormat)
	if err != nil {
		return err
	}
	sampler := c.nearest
	if params.LinearFilter {
		sampler = c.linear
	}
	bg, err := c.prog.bindGroup(src, sampler)
	if err != nil {
		return err
	}
	defer c.device.DestroyBindGroup(bg)

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "desktop_encoder",
	})
	if err != nil {
		return fmt.Errorf("create desktop encoder: %w", err)
	}
	if err := encoder.BeginEncoding("desktop_composite"); err != nil {
		return fmt.Errorf("begin desktop encoding: %w", err)
	}

	loadOp := gputypes.LoadOpLoad
	if params.Clear {
		loadOp = gputypes.LoadOpClear
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "desktop_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       dst,
				LoadOp:     loadOp,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{},
			},
		},
	})
	rp.SetPipeline(pipe)
	rp.SetBindGroup(0, bg, nil)
	rp.SetVertexBuffer(0, c.vertBuf, 0)
	rp.Draw(uint32(len(params.Vertices)/2), 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end desktop encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	if _, err := c.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit desktop pass: %w", err)
	}
	if err := c.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait desktop pass: %w", err)
	}
	return nil
}

// Destroy releases all GPU resources held by the compositor.
func (c *Compositor) Destroy() {
	if c.vertBuf != nil {
		c.device.DestroyBuffer(c.vertBuf)
		c.vertBuf = nil
	}
	if c.linear != nil {
		c.device.DestroySampler(c.linear)
		c.linear = nil
	}
	if c.nearest != nil {
		c.device.DestroySampler(c.nearest)
		c.nearest = nil
	}
	if c.prog != nil {
		c.prog.Destroy()
		c.prog = nil
	}
}
