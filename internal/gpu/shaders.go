// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package gpu

import _ "embed"

// WGSL shader sources, embedded at build time.

//go:embed shaders/desktop.wgsl
var desktopShaderSource string

//go:embed shaders/fsr_easu.wgsl
var fsrEASUShaderSource string

//go:embed shaders/fsr_rcas.wgsl
var fsrRCASShaderSource string

//go:embed shaders/cas.wgsl
var casShaderSource string
