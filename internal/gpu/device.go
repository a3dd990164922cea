// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

// Package gpu implements the wgpu-backed rendering path of the
// presentation pipeline: shader programs with named uniforms, the
// filter pass executor behind texture.Backend, and the desktop
// compositor that draws the damage mesh to the destination surface.
package gpu

import (
	"github.com/gogpu/wgpu/hal"
)

// Device is the subset of hal.Device the pipeline uses. Any hal.Device
// satisfies it; tests substitute lightweight fakes.
type Device interface {
	CreateTexture(*hal.TextureDescriptor) (hal.Texture, error)
	CreateTextureView(hal.Texture, *hal.TextureViewDescriptor) (hal.TextureView, error)
	CreateSampler(*hal.SamplerDescriptor) (hal.Sampler, error)
	CreateShaderModule(*hal.ShaderModuleDescriptor) (hal.ShaderModule, error)
	CreateBindGroupLayout(*hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error)
	CreateBindGroup(*hal.BindGroupDescriptor) (hal.BindGroup, error)
	CreatePipelineLayout(*hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error)
	CreateRenderPipeline(*hal.RenderPipelineDescriptor) (hal.RenderPipeline, error)
	CreateBuffer(*hal.BufferDescriptor) (hal.Buffer, error)
	CreateCommandEncoder(*hal.CommandEncoderDescriptor) (hal.CommandEncoder, error)
	WaitIdle() error

	DestroyTexture(hal.Texture)
	DestroyTextureView(hal.TextureView)
	DestroySampler(hal.Sampler)
	DestroyShaderModule(hal.ShaderModule)
	DestroyBindGroupLayout(hal.BindGroupLayout)
	DestroyBindGroup(hal.BindGroup)
	DestroyPipelineLayout(hal.PipelineLayout)
	DestroyRenderPipeline(hal.RenderPipeline)
	DestroyBuffer(hal.Buffer)
	FreeCommandBuffer(hal.CommandBuffer)
}

// Queue is the subset of hal.Queue the pipeline uses. Submit returns a
// monotonically increasing submission index; PollCompleted reports the
// highest index the device has finished, or zero if none have.
type Queue interface {
	Submit(commandBuffers []hal.CommandBuffer) (uint64, error)
	PollCompleted() uint64
	WriteBuffer(buffer hal.Buffer, offset uint64, data []byte) error
	WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error
}
