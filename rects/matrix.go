// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package rects

// Rotation is an exact quarter-turn display rotation.
type Rotation int

const (
	Rotate0 Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// String returns the rotation in degrees.
func (r Rotation) String() string {
	switch r {
	case Rotate0:
		return "0"
	case Rotate90:
		return "90"
	case Rotate180:
		return "180"
	case Rotate270:
		return "270"
	default:
		return "invalid"
	}
}

// MatrixSize is the number of float32 values a transform occupies.
const MatrixSize = 6

// Matrix writes the desktop placement transform into out, which must hold
// at least MatrixSize values. The transform is a column-major 3x2 matrix
// (basis column a,b then c,d then translation tx,ty) mapping the batcher's
// NDC mesh through scale, rotation, and placement:
//
//	p' = R(rotation) * S(scaleX, scaleY) * p + t
//
// x and y are the placement offset in destination surface pixels; width
// and height are the destination surface size used to normalize the offset
// into clip space. Rotation uses exact integer sine/cosine pairs; no
// arbitrary angles.
func Matrix(out []float32, width, height int, x, y, scaleX, scaleY float32, rotation Rotation) {
	_ = out[MatrixSize-1]

	var tx, ty float32
	if width > 0 && height > 0 {
		tx = 2 * x / float32(width)
		ty = -2 * y / float32(height)
	}

	var cos, sin float32
	switch rotation {
	case Rotate90:
		cos, sin = 0, 1
	case Rotate180:
		cos, sin = -1, 0
	case Rotate270:
		cos, sin = 0, -1
	default:
		cos, sin = 1, 0
	}

	out[0] = cos * scaleX  // a
	out[1] = sin * scaleX  // b
	out[2] = -sin * scaleY // c
	out[3] = cos * scaleY  // d
	out[4] = tx            // tx
	out[5] = ty            // ty
}
