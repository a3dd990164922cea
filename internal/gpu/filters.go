// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package gpu

// Uniform slot names shared between the pass executor and the filter
// shaders. Every filter program declares inputSize and outputSize; the
// executor writes them from the planned step before each pass, then
// copies the pass parameters by name.
const (
	uniformInputSize  = "inputSize"
	uniformOutputSize = "outputSize"
	uniformSharpness  = "sharpness"
)

// SharpnessParam is the parameter name carried by the sharpening
// passes.
const SharpnessParam = uniformSharpness

// sizeOnlyUniforms is the block layout for passes with no tunables.
var sizeOnlyUniforms = []UniformSpec{
	{Name: uniformInputSize, Offset: 0, Count: 2},
	{Name: uniformOutputSize, Offset: 2, Count: 2},
}

// sharpnessUniforms extends the size block with one sharpness scalar.
var sharpnessUniforms = []UniformSpec{
	{Name: uniformInputSize, Offset: 0, Count: 2},
	{Name: uniformOutputSize, Offset: 2, Count: 2},
	{Name: uniformSharpness, Offset: 4, Count: 1},
}

// NewUpscaleProgram creates the edge-adaptive upscale pass program.
func NewUpscaleProgram(device Device, queue Queue) (*Program, error) {
	return NewProgram(device, queue, "fsr_easu", fsrEASUShaderSource, 16, sizeOnlyUniforms, nil)
}

// NewUpscaleSharpenProgram creates the robust-contrast sharpen pass
// that pairs with the upscale pass.
func NewUpscaleSharpenProgram(device Device, queue Queue) (*Program, error) {
	return NewProgram(device, queue, "fsr_rcas", fsrRCASShaderSource, 32, sharpnessUniforms, nil)
}

// NewSharpenProgram creates the standalone contrast-adaptive sharpen
// pass.
func NewSharpenProgram(device Device, queue Queue) (*Program, error) {
	return NewProgram(device, queue, "cas", casShaderSource, 32, sharpnessUniforms, nil)
}
