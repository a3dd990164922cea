// Copyright 2026 The vdesk Authors
// SPDX-License-Identifier: MIT

package rects

import "testing"

func fullSurfaceVerts() []float32 {
	return []float32{
		-1, 1, 1, 1, -1, -1,
		1, 1, 1, -1, -1, -1,
	}
}

func TestBatcherUpdate(t *testing.T) {
	tests := []struct {
		name      string
		maxRects  int
		damage    []Rect
		wantCount int
		wantFull  bool
	}{
		{"empty list is full surface", 8, nil, 1, true},
		{"single rect", 8, []Rect{{0, 0, 100, 100}}, 1, false},
		{"several rects", 8, []Rect{{0, 0, 10, 10}, {50, 50, 10, 10}, {100, 0, 20, 30}}, 3, false},
		{"at the limit", 2, []Rect{{0, 0, 10, 10}, {50, 50, 10, 10}}, 2, false},
		{"over the limit collapses", 2, []Rect{{0, 0, 10, 10}, {50, 50, 10, 10}, {60, 60, 10, 10}}, 1, true},
		{"degenerate rects redraw everything", 8, []Rect{{0, 0, 0, 0}, {10, 10, -5, 3}}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBatcher(tt.maxRects)
			b.Update(tt.damage, 1920, 1080)

			if b.RectCount() != tt.wantCount {
				t.Errorf("RectCount() = %d, want %d", b.RectCount(), tt.wantCount)
			}
			if b.VertexCount() != tt.wantCount*6 {
				t.Errorf("VertexCount() = %d, want %d", b.VertexCount(), tt.wantCount*6)
			}
			if len(b.Vertices()) != b.VertexCount()*FloatsPerVertex {
				t.Errorf("len(Vertices()) = %d, want %d", len(b.Vertices()), b.VertexCount()*FloatsPerVertex)
			}
			if tt.wantFull {
				want := fullSurfaceVerts()
				got := b.Vertices()
				for i := range want {
					if got[i] != want[i] {
						t.Fatalf("vertex %d = %v, want %v (full-surface mesh)", i, got[i], want[i])
					}
				}
			}
		})
	}
}

func TestBatcherClampsToSurface(t *testing.T) {
	b := NewBatcher(8)
	b.Update([]Rect{{-10, -10, 30, 30}, {1900, 1060, 100, 100}}, 1920, 1080)

	if b.RectCount() != 2 {
		t.Fatalf("RectCount() = %d, want 2", b.RectCount())
	}
	v := b.Vertices()
	// First rect clamps to (0,0,20,20): its top-left vertex is the NDC corner.
	if v[0] != -1 || v[1] != 1 {
		t.Errorf("clamped top-left = (%v,%v), want (-1,1)", v[0], v[1])
	}
	// Second rect clamps to the bottom-right corner.
	last := len(v) - 4
	if v[last+2] != -1+2*float32(1900)/1920 && v[last] != 1 {
		t.Errorf("bottom-right rect not clamped: tail verts %v", v[last:])
	}
}

func TestBatcherReusesBuffer(t *testing.T) {
	b := NewBatcher(4)
	b.Update([]Rect{{0, 0, 10, 10}, {5, 5, 10, 10}}, 100, 100)
	if b.RectCount() != 2 {
		t.Fatalf("RectCount() = %d, want 2", b.RectCount())
	}
	b.Update([]Rect{{0, 0, 10, 10}}, 100, 100)
	if b.RectCount() != 1 {
		t.Fatalf("after second update RectCount() = %d, want 1", b.RectCount())
	}
	if len(b.Vertices()) != 12 {
		t.Fatalf("stale vertices left in mesh: len = %d, want 12", len(b.Vertices()))
	}
}

func TestMatrixRotations(t *testing.T) {
	tests := []struct {
		name string
		rot  Rotation
		want [6]float32
	}{
		{"identity", Rotate0, [6]float32{1, 0, 0, 1, 0, 0}},
		{"quarter turn", Rotate90, [6]float32{0, 1, -1, 0, 0, 0}},
		{"half turn", Rotate180, [6]float32{-1, 0, 0, -1, 0, 0}},
		{"three quarters", Rotate270, [6]float32{0, -1, 1, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out [MatrixSize]float32
			Matrix(out[:], 1920, 1080, 0, 0, 1, 1, tt.rot)
			if out != tt.want {
				t.Errorf("Matrix(%v) = %v, want %v", tt.rot, out, tt.want)
			}
		})
	}
}

func TestMatrixScaleAndOffset(t *testing.T) {
	var out [MatrixSize]float32
	// Offset of a quarter surface right and half surface up, in pixels.
	Matrix(out[:], 800, 600, 200, -150, 0.5, 0.75, Rotate0)
	want := [6]float32{0.5, 0, 0, 0.75, 0.5, 0.5}
	if out != want {
		t.Fatalf("Matrix = %v, want %v", out, want)
	}

	// Scale is applied before rotation: at 90 degrees the X scale lands in
	// the second row of the first column.
	Matrix(out[:], 800, 600, 0, 0, 0.5, 2, Rotate90)
	want = [6]float32{0, 0.5, -2, 0, 0, 0}
	if out != want {
		t.Fatalf("Matrix rotated = %v, want %v", out, want)
	}
}
