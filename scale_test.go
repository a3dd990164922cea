// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package present

import "testing"

func TestResolveScaleAlgo(t *testing.T) {
	tests := []struct {
		name      string
		pref      ScaleAlgo
		scaleType ScaleType
		want      ScaleAlgo
	}{
		{"auto no scale", ScaleAuto, ScaleTypeNone, ScaleNearest},
		{"auto upscale", ScaleAuto, ScaleTypeUpscale, ScaleNearest},
		{"auto downscale", ScaleAuto, ScaleTypeDownscale, ScaleLinear},
		{"forced nearest wins on downscale", ScaleNearest, ScaleTypeDownscale, ScaleNearest},
		{"forced linear wins on upscale", ScaleLinear, ScaleTypeUpscale, ScaleLinear},
		{"forced linear wins without scaling", ScaleLinear, ScaleTypeNone, ScaleLinear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveScaleAlgo(tt.pref, tt.scaleType); got != tt.want {
				t.Errorf("ResolveScaleAlgo(%v, %v) = %v, want %v", tt.pref, tt.scaleType, got, tt.want)
			}
		})
	}
}

func TestScaleAlgoDisplayNamesTotal(t *testing.T) {
	seen := make(map[string]bool)
	for a := ScaleAlgo(0); a < scaleAlgoCount; a++ {
		name := a.DisplayName()
		if name == "" {
			t.Errorf("ScaleAlgo(%d) has empty display name", a)
		}
		if seen[name] {
			t.Errorf("duplicate display name %q", name)
		}
		seen[name] = true
	}
}

func TestValidScaleAlgo(t *testing.T) {
	if err := ValidScaleAlgo(int(ScaleLinear)); err != nil {
		t.Errorf("ValidScaleAlgo(linear) = %v", err)
	}
	if err := ValidScaleAlgo(-1); err == nil {
		t.Error("ValidScaleAlgo(-1) accepted")
	}
	if err := ValidScaleAlgo(int(scaleAlgoCount)); err == nil {
		t.Error("ValidScaleAlgo(count) accepted")
	}
}
