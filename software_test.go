// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package present

import (
	"errors"
	"image"
	"testing"

	xdraw "golang.org/x/image/draw"

	"github.com/vdesk/present/rects"
	"github.com/vdesk/present/texture"
)

// solidFrame builds a WxH frame with every pixel set to the given
// 4-byte value in the frame's format ordering.
func solidFrame(format texture.PixelFormat, w, h int, px [4]byte) Frame {
	pitch := w * 4
	data := make([]byte, pitch*h)
	for i := 0; i < len(data); i += 4 {
		copy(data[i:], px[:])
	}
	return Frame{Format: format, Width: w, Height: h, Pitch: pitch, Data: data}
}

func TestSoftwarePresentBGRASwapsChannels(t *testing.T) {
	p := NewSoftwarePresenter(ScaleNearest)
	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))

	// BGRA blue=200, green=100, red=50.
	f := solidFrame(texture.FormatBGRA8, 2, 2, [4]byte{200, 100, 50, 255})
	if err := p.Present(dst, f, rects.Rotate0); err != nil {
		t.Fatalf("Present: %v", err)
	}

	r, g, b, a := dst.At(1, 1).RGBA()
	if r>>8 != 50 || g>>8 != 100 || b>>8 != 200 || a>>8 != 255 {
		t.Errorf("pixel = (%d,%d,%d,%d), want (50,100,200,255)", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestSoftwarePresentUpscalesNearest(t *testing.T) {
	p := NewSoftwarePresenter(ScaleAuto)
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))

	f := solidFrame(texture.FormatRGBA8, 1, 1, [4]byte{10, 20, 30, 255})
	if err := p.Present(dst, f, rects.Rotate0); err != nil {
		t.Fatalf("Present: %v", err)
	}
	for _, pt := range []image.Point{{0, 0}, {3, 3}, {1, 2}} {
		r, g, b, _ := dst.At(pt.X, pt.Y).RGBA()
		if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
			t.Errorf("pixel %v = (%d,%d,%d), want (10,20,30)", pt, r>>8, g>>8, b>>8)
		}
	}
}

func TestSoftwarePresentRotate90(t *testing.T) {
	p := NewSoftwarePresenter(ScaleNearest)

	// 2x1 frame: left pixel red, right pixel green (RGBA).
	f := Frame{
		Format: texture.FormatRGBA8,
		Width:  2, Height: 1, Pitch: 8,
		Data: []byte{
			255, 0, 0, 255,
			0, 255, 0, 255,
		},
	}
	// Rotated 90 degrees the frame becomes 1x2.
	dst := image.NewRGBA(image.Rect(0, 0, 1, 2))
	if err := p.Present(dst, f, rects.Rotate90); err != nil {
		t.Fatalf("Present: %v", err)
	}

	// A quarter turn maps the left (red) pixel to the top row and the
	// right (green) pixel to the bottom row.
	topR, topG, _, _ := dst.At(0, 0).RGBA()
	if topR>>8 != 255 || topG>>8 != 0 {
		t.Errorf("top pixel = (%d,%d), want red", topR>>8, topG>>8)
	}
	botR, botG, _, _ := dst.At(0, 1).RGBA()
	if botR>>8 != 0 || botG>>8 != 255 {
		t.Errorf("bottom pixel = (%d,%d), want green", botR>>8, botG>>8)
	}
}

func TestSoftwareInterpolatorSelection(t *testing.T) {
	tests := []struct {
		name      string
		pref      ScaleAlgo
		scaleType ScaleType
		want      xdraw.Interpolator
	}{
		{"auto downscale is bilinear", ScaleAuto, ScaleTypeDownscale, xdraw.ApproxBiLinear},
		{"auto upscale is nearest", ScaleAuto, ScaleTypeUpscale, xdraw.NearestNeighbor},
		{"forced linear", ScaleLinear, ScaleTypeNone, xdraw.ApproxBiLinear},
		{"forced nearest on downscale", ScaleNearest, ScaleTypeDownscale, xdraw.NearestNeighbor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := interpolatorFor(tt.pref, tt.scaleType); got != tt.want {
				t.Errorf("interpolatorFor(%v, %v) = %T, want %T", tt.pref, tt.scaleType, got, tt.want)
			}
		})
	}
}

func TestSoftwarePresentRejectsWideFormats(t *testing.T) {
	p := NewSoftwarePresenter(ScaleAuto)
	dst := image.NewRGBA(image.Rect(0, 0, 2, 2))

	f := solidFrame(texture.FormatRGBA16F, 2, 2, [4]byte{0, 0, 0, 0})
	f.Pitch = 2 * 8
	f.Data = make([]byte, f.Pitch*2)
	if err := p.Present(dst, f, rects.Rotate0); !errors.Is(err, texture.ErrUnsupportedFormat) {
		t.Errorf("Present(RGBA16F) = %v, want ErrUnsupportedFormat", err)
	}
}
