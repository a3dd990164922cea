// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// UniformSpec declares one named slot in a program's uniform block.
// Offset and Count are in 32-bit words.
type UniformSpec struct {
	Name   string
	Offset int
	Count  int
}

type uniformSlot struct {
	offset int
	count  int
}

// Program wraps a WGSL shader with its pipeline state: bind group
// layout (uniform block, sampled texture, sampler), a staged uniform
// buffer addressed by named slots, and a render pipeline cached per
// destination format.
//
// Program satisfies the pass program interface used by the filter
// chain; the chain only sees the label.
type Program struct {
	device Device
	queue  Queue
	label  string

	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	vertexBufs []gputypes.VertexBufferLayout

	uniformBuf hal.Buffer
	staging    []byte
	slots      map[string]uniformSlot
	dirty      bool

	pipelines map[gputypes.TextureFormat]hal.RenderPipeline
}

// NewProgram validates source through naga, creates the shader module,
// the shared bind group layout, and the uniform buffer sized to
// uniformBytes. vertexBufs may be nil for fullscreen-triangle passes
// that synthesize positions from the vertex index.
func NewProgram(device Device, queue Queue, label, source string, uniformBytes int, specs []UniformSpec, vertexBufs []gputypes.VertexBufferLayout) (*Program, error) {
	if _, err := naga.Compile(source); err != nil {
		return nil, fmt.Errorf("compile %s: %w", label, err)
	}

	p := &Program{
		device:     device,
		queue:      queue,
		label:      label,
		vertexBufs: vertexBufs,
		staging:    make([]byte, uniformBytes),
		slots:      make(map[string]uniformSlot, len(specs)),
		pipelines:  make(map[gputypes.TextureFormat]hal.RenderPipeline),
	}
	for _, s := range specs {
		if _, dup := p.slots[s.Name]; dup {
			panic(fmt.Sprintf("gpu: program %s: uniform %s declared twice", label, s.Name))
		}
		if (s.Offset+s.Count)*4 > uniformBytes {
			panic(fmt.Sprintf("gpu: program %s: uniform %s overruns block", label, s.Name))
		}
		p.slots[s.Name] = uniformSlot{offset: s.Offset, count: s.Count}
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_shader",
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s shader: %w", label, err)
	}
	p.module = module

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create %s bind layout: %w", label, err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create %s pipeline layout: %w", label, err)
	}
	p.pipeLayout = pipeLayout

	if uniformBytes > 0 {
		uniformBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: label + "_uniform",
			Size:  uint64(uniformBytes),
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			p.Destroy()
			return nil, fmt.Errorf("create %s uniform buffer: %w", label, err)
		}
		p.uniformBuf = uniformBuf
		p.dirty = true
	}

	return p, nil
}

// Label reports the program name.
func (p *Program) Label() string { return p.label }

// SetFloats stores values into a named uniform slot. Unknown names and
// size mismatches are programming errors.
func (p *Program) SetFloats(name string, values ...float32) {
	slot, ok := p.slots[name]
	if !ok {
		panic(fmt.Sprintf("gpu: program %s: unknown uniform %s", p.label, name))
	}
	if len(values) != slot.count {
		panic(fmt.Sprintf("gpu: program %s: uniform %s takes %d values, got %d", p.label, name, slot.count, len(values)))
	}
	for i, v := range values {
		binary.LittleEndian.PutUint32(p.staging[(slot.offset+i)*4:], math.Float32bits(v))
	}
	p.dirty = true
}

// SetUint stores a single 32-bit unsigned value into a named slot.
func (p *Program) SetUint(name string, value uint32) {
	slot, ok := p.slots[name]
	if !ok {
		panic(fmt.Sprintf("gpu: program %s: unknown uniform %s", p.label, name))
	}
	if slot.count != 1 {
		panic(fmt.Sprintf("gpu: program %s: uniform %s takes %d values", p.label, name, slot.count))
	}
	binary.LittleEndian.PutUint32(p.staging[slot.offset*4:], value)
	p.dirty = true
}

// flush writes staged uniform values to the GPU buffer if they changed
// since the last flush.
func (p *Program) flush() error {
	if !p.dirty || p.uniformBuf == nil {
		return nil
	}
	if err := p.queue.WriteBuffer(p.uniformBuf, 0, p.staging); err != nil {
		return fmt.Errorf("write %s uniforms: %w", p.label, err)
	}
	p.dirty = false
	return nil
}

// pipelineFor returns the render pipeline targeting the given color
// format, creating and caching it on first use.
func (p *Program) pipelineFor(format gputypes.TextureFormat) (hal.RenderPipeline, error) {
	if pipe, ok := p.pipelines[format]; ok {
		return pipe, nil
	}
	pipe, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("%s_pipeline_%d", p.label, format),
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.module,
			EntryPoint: "vs_main",
			Buffers:    p.vertexBufs,
		},
		Fragment: &hal.FragmentState{
			Module:     p.module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", p.label, err)
	}
	p.pipelines[format] = pipe
	return pipe, nil
}

// bindGroup builds a bind group pairing the uniform buffer with the
// given source view and sampler. The caller owns the result.
func (p *Program) bindGroup(view hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error) {
	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.label + "_bind",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: p.uniformBuf.NativeHandle(), Offset: 0, Size: uint64(len(p.staging)),
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s bind group: %w", p.label, err)
	}
	return bg, nil
}

// Destroy releases all GPU resources held by the program.
func (p *Program) Destroy() {
	for _, pipe := range p.pipelines {
		p.device.DestroyRenderPipeline(pipe)
	}
	p.pipelines = make(map[gputypes.TextureFormat]hal.RenderPipeline)
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.module != nil {
		p.device.DestroyShaderModule(p.module)
		p.module = nil
	}
}
