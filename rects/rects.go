// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

// Package rects batches desktop damage rectangles into draw geometry and
// computes the desktop placement transform.
//
// A frame update from the capture source carries zero or more damage
// rectangles in native desktop coordinates. The Batcher converts them into
// a triangle mesh so the compositor redraws only the regions that changed.
// When the update carries no rectangles, or more than the configured
// maximum, the batcher degrades to a single full-surface rectangle: damage
// is never dropped, only coarsened.
package rects

// Rect is a damage rectangle in native desktop coordinates.
type Rect struct {
	X, Y int
	W, H int
}

// FloatsPerVertex is the number of float32 values per mesh vertex (x, y).
const FloatsPerVertex = 2

// vertsPerRect is two triangles per rectangle.
const vertsPerRect = 6

// Batcher converts damage rectangles into a batched triangle mesh in
// normalized device coordinates. The full desktop surface maps to the
// [-1,1] square with Y up, so a full-surface rectangle covers the whole
// clip space before the placement transform is applied.
//
// Batcher is not safe for concurrent use; it is owned by the render thread.
type Batcher struct {
	maxRects int
	verts    []float32
	count    int
}

// NewBatcher creates a batcher that holds at most maxRects rectangles per
// update. A maxRects below one is treated as one.
func NewBatcher(maxRects int) *Batcher {
	if maxRects < 1 {
		maxRects = 1
	}
	return &Batcher{
		maxRects: maxRects,
		verts:    make([]float32, 0, maxRects*vertsPerRect*FloatsPerVertex),
	}
}

// MaxRects returns the configured rectangle limit.
func (b *Batcher) MaxRects() int { return b.maxRects }

// Update rebuilds the mesh from the given damage rectangles against a
// surface of the given size. An empty list means the whole surface
// changed. A list longer than the configured maximum collapses to a single
// full-surface rectangle rather than dropping any damage.
func (b *Batcher) Update(damage []Rect, width, height int) {
	b.verts = b.verts[:0]
	b.count = 0
	if width <= 0 || height <= 0 {
		return
	}

	if len(damage) == 0 || len(damage) > b.maxRects {
		b.appendRect(Rect{0, 0, width, height}, width, height)
		return
	}
	for _, r := range damage {
		r = clamp(r, width, height)
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		b.appendRect(r, width, height)
	}
	if b.count == 0 {
		// All rectangles were degenerate or off-surface; redraw everything
		// rather than nothing.
		b.appendRect(Rect{0, 0, width, height}, width, height)
	}
}

// appendRect emits two triangles covering r in NDC.
func (b *Batcher) appendRect(r Rect, width, height int) {
	x0 := 2*float32(r.X)/float32(width) - 1
	x1 := 2*float32(r.X+r.W)/float32(width) - 1
	y0 := 1 - 2*float32(r.Y)/float32(height)
	y1 := 1 - 2*float32(r.Y+r.H)/float32(height)

	b.verts = append(b.verts,
		x0, y0, x1, y0, x0, y1,
		x1, y0, x1, y1, x0, y1,
	)
	b.count++
}

// Vertices returns the current mesh as interleaved x,y pairs. The slice is
// reused across Update calls.
func (b *Batcher) Vertices() []float32 { return b.verts }

// RectCount returns the number of rectangles in the current mesh.
func (b *Batcher) RectCount() int { return b.count }

// VertexCount returns the number of vertices in the current mesh.
func (b *Batcher) VertexCount() int { return b.count * vertsPerRect }

func clamp(r Rect, width, height int) Rect {
	if r.X < 0 {
		r.W += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	if r.X+r.W > width {
		r.W = width - r.X
	}
	if r.Y+r.H > height {
		r.H = height - r.Y
	}
	return r
}
