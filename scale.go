// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package present

import "fmt"

// ScaleAlgo selects the sampling algorithm used when the desktop
// texture is drawn at a size other than its own.
type ScaleAlgo int

const (
	// ScaleAuto picks nearest or linear from the scale direction.
	ScaleAuto ScaleAlgo = iota

	// ScaleNearest forces nearest-pixel sampling.
	ScaleNearest

	// ScaleLinear forces linear sampling.
	ScaleLinear

	scaleAlgoCount
)

// DisplayName returns the user-facing name shown in the algorithm
// dropdown. The mapping is total over the defined values.
func (a ScaleAlgo) DisplayName() string {
	switch a {
	case ScaleAuto:
		return "Auto"
	case ScaleNearest:
		return "Nearest Pixel"
	case ScaleLinear:
		return "Linear"
	default:
		return fmt.Sprintf("ScaleAlgo(%d)", int(a))
	}
}

// ValidScaleAlgo reports whether v names a defined algorithm; it is the
// validator for the scale preference option.
func ValidScaleAlgo(v int) error {
	if v < 0 || v >= int(scaleAlgoCount) {
		return fmt.Errorf("scale algorithm out of range: %d", v)
	}
	return nil
}

// ScaleType describes the direction of the size change between the
// processed texture and the destination surface.
type ScaleType int

const (
	// ScaleTypeNone means the sizes match.
	ScaleTypeNone ScaleType = iota

	// ScaleTypeUpscale means the destination exceeds the texture.
	ScaleTypeUpscale

	// ScaleTypeDownscale means the texture exceeds the destination.
	ScaleTypeDownscale
)

func (t ScaleType) String() string {
	switch t {
	case ScaleTypeNone:
		return "none"
	case ScaleTypeUpscale:
		return "upscale"
	case ScaleTypeDownscale:
		return "downscale"
	default:
		return fmt.Sprintf("ScaleType(%d)", int(t))
	}
}

// ResolveScaleAlgo applies the scale policy: a forced preference always
// wins; automatic picks linear when downscaling (to average the lost
// pixels) and nearest otherwise.
func ResolveScaleAlgo(pref ScaleAlgo, scaleType ScaleType) ScaleAlgo {
	if pref != ScaleAuto {
		return pref
	}
	if scaleType == ScaleTypeDownscale {
		return ScaleLinear
	}
	return ScaleNearest
}
