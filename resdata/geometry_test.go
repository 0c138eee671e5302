// Copyright 2024 The Vesper Authors. All rights reserved.

package resdata

import (
	"testing"

	"github.com/vesper3d/vesper/linear"
)

func TestGeometryStrideAndOffset(t *testing.T) {
	l := Layout{Key: Position | UV}
	if got, want := l.Stride(), 5; got != want {
		t.Fatalf("Stride\nhave %d\nwant %d", got, want)
	}
	if got, want := l.offset(Position), 0; got != want {
		t.Fatalf("offset(Position)\nhave %d\nwant %d", got, want)
	}
	if got, want := l.offset(UV), 3; got != want {
		t.Fatalf("offset(UV)\nhave %d\nwant %d", got, want)
	}
}

func TestGeometryOffsetMissingAttributePanics(t *testing.T) {
	l := Layout{Key: Position}
	defer func() {
		if recover() == nil {
			t.Fatal("offset: expected panic for attribute not in layout")
		}
	}()
	l.offset(Normal)
}

func TestNewGeometryComputesAABB(t *testing.T) {
	l := Layout{Key: Position}
	vertex := []float32{
		-1, -1, -1,
		1, 1, 1,
	}
	g := NewGeometry(l, vertex, nil)
	box := g.AABB()
	if box.Min != (linear.V3{-1, -1, -1}) || box.Max != (linear.V3{1, 1, 1}) {
		t.Fatalf("AABB\nhave %v\nwant [-1,-1,-1]-[1,1,1]", box)
	}
	if g.VertexCount() != 2 {
		t.Fatalf("VertexCount\nhave %d\nwant 2", g.VertexCount())
	}
	if g.UsesIBO() {
		t.Fatal("UsesIBO: expected false for unindexed geometry")
	}
}

func TestGeometryViewDeinterleaves(t *testing.T) {
	l := Layout{Key: Position | UV}
	vertex := []float32{
		0, 0, 0, 0.5, 0.5,
		1, 1, 1, 1.0, 1.0,
	}
	g := NewGeometry(l, vertex, nil)
	uv := g.View(UV)
	want := []float32{0.5, 0.5, 1.0, 1.0}
	for i := range want {
		if uv[i] != want[i] {
			t.Fatalf("View(UV)\nhave %v\nwant %v", uv, want)
		}
	}
}

func TestNewGeometryBadStridePanics(t *testing.T) {
	l := Layout{Key: Position}
	defer func() {
		if recover() == nil {
			t.Fatal("NewGeometry: expected panic for misaligned vertex buffer")
		}
	}()
	NewGeometry(l, []float32{0, 0}, nil)
}

func TestGeometrySetVerticesMarksDirtyAndRecomputesAABB(t *testing.T) {
	l := Layout{Key: Position}
	g := NewGeometry(l, []float32{0, 0, 0}, nil)
	v0 := g.CurrentVersion()
	g.SetVertices([]float32{2, 2, 2, -2, -2, -2})
	if g.CurrentVersion() == v0 {
		t.Fatal("SetVertices: expected version to change")
	}
	box := g.AABB()
	if box.Max != (linear.V3{2, 2, 2}) {
		t.Fatalf("AABB after SetVertices\nhave %v\nwant max [2,2,2]", box)
	}
}
