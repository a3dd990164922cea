// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package present

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/vdesk/present/rects"
	"github.com/vdesk/present/texture"
)

// SoftwarePresenter is the CPU fallback path used when no GPU device is
// available (headless capture dumps, tests, thumbnailing). It scales
// and rotates a captured frame into a destination image with the same
// scale policy the GPU path uses, minus the filter chain.
type SoftwarePresenter struct {
	pref ScaleAlgo
}

// NewSoftwarePresenter creates a presenter with the given sampling
// preference.
func NewSoftwarePresenter(pref ScaleAlgo) *SoftwarePresenter {
	return &SoftwarePresenter{pref: pref}
}

// SetScaleAlgorithm changes the sampling preference.
func (p *SoftwarePresenter) SetScaleAlgorithm(pref ScaleAlgo) { p.pref = pref }

// Present draws the frame into dst, filling its bounds, applying the
// rotation. Only the 8-bit formats are supported on the CPU path.
func (p *SoftwarePresenter) Present(dst *image.RGBA, f Frame, rotation rects.Rotation) error {
	src, err := frameImage(f)
	if err != nil {
		return err
	}

	dstW := dst.Bounds().Dx()
	dstH := dst.Bounds().Dy()
	effW, effH := f.Width, f.Height
	if rotation == rects.Rotate90 || rotation == rects.Rotate270 {
		effW, effH = effH, effW
	}

	scaleType := ScaleTypeNone
	switch {
	case dstW > effW && dstH > effH:
		scaleType = ScaleTypeUpscale
	case dstW < effW || dstH < effH:
		scaleType = ScaleTypeDownscale
	}
	interp := interpolatorFor(p.pref, scaleType)

	interp.Transform(dst, presentMatrix(f.Width, f.Height, dstW, dstH, rotation),
		src, src.Bounds(), xdraw.Src, nil)
	return nil
}

// interpolatorFor maps the resolved scale algorithm to an interpolator.
func interpolatorFor(pref ScaleAlgo, scaleType ScaleType) xdraw.Interpolator {
	if ResolveScaleAlgo(pref, scaleType) == ScaleLinear {
		return xdraw.ApproxBiLinear
	}
	return xdraw.NearestNeighbor
}

// presentMatrix builds the source-to-destination affine transform:
// rotate about the source center, scale to fill the destination, then
// translate to the destination center.
func presentMatrix(srcW, srcH, dstW, dstH int, rotation rects.Rotation) f64.Aff3 {
	var cos, sin float64
	switch rotation {
	case rects.Rotate90:
		cos, sin = 0, 1
	case rects.Rotate180:
		cos, sin = -1, 0
	case rects.Rotate270:
		cos, sin = 0, -1
	default:
		cos, sin = 1, 0
	}

	var sx, sy float64
	if rotation == rects.Rotate90 || rotation == rects.Rotate270 {
		sx = float64(dstH) / float64(srcW)
		sy = float64(dstW) / float64(srcH)
	} else {
		sx = float64(dstW) / float64(srcW)
		sy = float64(dstH) / float64(srcH)
	}

	a := cos * sx
	b := -sin * sy
	d := sin * sx
	e := cos * sy
	cx := float64(srcW) / 2
	cy := float64(srcH) / 2
	return f64.Aff3{
		a, b, float64(dstW)/2 - a*cx - b*cy,
		d, e, float64(dstH)/2 - d*cx - e*cy,
	}
}

// frameImage wraps or converts frame pixels into an RGBA image.
func frameImage(f Frame) (*image.RGBA, error) {
	switch f.Format {
	case texture.FormatRGBA8, texture.FormatBGRA8:
	default:
		return nil, fmt.Errorf("present: software path: %w: %s", texture.ErrUnsupportedFormat, f.Format)
	}
	bpp := f.Format.BytesPerPixel()
	if need := (f.Height-1)*f.Pitch + f.Width*bpp; len(f.Data) < need {
		return nil, fmt.Errorf("present: software path: frame buffer too small: %d < %d", len(f.Data), need)
	}

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		srcRow := f.Data[y*f.Pitch : y*f.Pitch+f.Width*bpp]
		dstRow := img.Pix[y*img.Stride : y*img.Stride+f.Width*4]
		if f.Format == texture.FormatRGBA8 {
			copy(dstRow, srcRow)
			continue
		}
		for x := 0; x < f.Width; x++ {
			dstRow[x*4+0] = srcRow[x*4+2]
			dstRow[x*4+1] = srcRow[x*4+1]
			dstRow[x*4+2] = srcRow[x*4+0]
			dstRow[x*4+3] = srcRow[x*4+3]
		}
	}
	return img, nil
}
