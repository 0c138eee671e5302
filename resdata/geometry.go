// Copyright 2024 The Vesper Authors. All rights reserved.

// Package resdata implements the CPU-side resource types of spec.md
// §3.2-§3.4 (Geometry, Texture, Material, plus the supplemented Skin):
// the cacheable artifacts that package cache bridges to GPU-side
// counterparts. Each embeds resource.Resource for its version counter
// and pre-destruct notification.
package resdata

import (
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/panicx"
	"github.com/vesper3d/vesper/resource"
)

// Attribute is one bit of a geometry's layout key (spec.md §3.2: "a
// bitset over {position, normal, uv, color}").
type Attribute int

const (
	Position Attribute = 1 << iota
	Normal
	UV
	Color
)

// attrComponents is the number of float32 components packed per vertex
// for each attribute (spec.md §3.2: "3/3/2/4 float components
// respectively").
func attrComponents(a Attribute) int {
	switch a {
	case Position, Normal:
		return 3
	case UV:
		return 2
	case Color:
		return 4
	default:
		panicx.Panic(panicx.Invariant, "resdata: unknown attribute %v", a)
		return 0
	}
}

// attrOrder is the fixed packing order: position, normal, uv, color.
var attrOrder = [4]Attribute{Position, Normal, UV, Color}

// Layout is an immutable bitset describing which attributes a geometry
// carries, and the tightly-packed per-vertex stride those attributes
// imply.
type Layout struct {
	Key Attribute
}

// Has reports whether a is present in the layout.
func (l Layout) Has(a Attribute) bool { return l.Key&a != 0 }

// Stride returns the number of float32 components per vertex.
func (l Layout) Stride() int {
	n := 0
	for _, a := range attrOrder {
		if l.Has(a) {
			n += attrComponents(a)
		}
	}
	return n
}

// offset returns the float32 component offset of attribute a within one
// packed vertex, panicking (ContractViolation) if a is not in the
// layout (spec.md §7: "attribute requested but not in geometry layout").
func (l Layout) offset(a Attribute) int {
	if !l.Has(a) {
		panicx.Panic(panicx.ContractViolation, "resdata: attribute %v not in geometry layout", a)
	}
	off := 0
	for _, cur := range attrOrder {
		if cur == a {
			return off
		}
		if l.Has(cur) {
			off += attrComponents(cur)
		}
	}
	panicx.Unreachable()
	return 0
}

// Geometry is a CPU-side packed-vertex mesh (spec.md §3.2). Vertex is a
// tightly packed float32 buffer, attribute order position, normal, uv,
// color; Index is an optional 32-bit index array (present iff
// len(Index) > 0).
type Geometry struct {
	resource.Resource

	layout Layout
	vertex []float32
	index  []uint32
	aabb   linear.AABB
}

// NewGeometry creates a geometry with the given layout and vertex/index
// data. vertex must be a multiple of layout.Stride() floats; aabb is
// computed from the position attribute if present, otherwise left zero.
func NewGeometry(layout Layout, vertex []float32, index []uint32) *Geometry {
	stride := layout.Stride()
	if stride == 0 || len(vertex)%stride != 0 {
		panicx.Panic(panicx.ContractViolation, "resdata: vertex buffer length %d is not a multiple of stride %d", len(vertex), stride)
	}
	g := &Geometry{layout: layout, vertex: vertex, index: index}
	if layout.Has(Position) {
		g.recomputeAABB()
	}
	return g
}

func (g *Geometry) recomputeAABB() {
	n := g.VertexCount()
	if n == 0 {
		return
	}
	off := g.layout.offset(Position)
	stride := g.layout.Stride()
	pts := make([]linear.V3, n)
	for i := 0; i < n; i++ {
		base := i*stride + off
		pts[i] = linear.V3{g.vertex[base], g.vertex[base+1], g.vertex[base+2]}
	}
	g.aabb = linear.FromPoints(pts)
}

// Layout returns the geometry's immutable attribute layout.
func (g *Geometry) Layout() Layout { return g.layout }

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	if s := g.layout.Stride(); s != 0 {
		return len(g.vertex) / s
	}
	return 0
}

// IndexCount returns the number of indices (0 if unindexed).
func (g *Geometry) IndexCount() int { return len(g.index) }

// UsesIBO reports whether the geometry is indexed (spec.md §3.7/§3.8:
// RenderBundleKey.uses_ibo).
func (g *Geometry) UsesIBO() bool { return len(g.index) > 0 }

// AABB returns the geometry's axis-aligned bounding box.
func (g *Geometry) AABB() linear.AABB { return g.aabb }

// VertexBytes returns the raw vertex buffer for staged upload.
func (g *Geometry) VertexBytes() []float32 { return g.vertex }

// IndexBytes returns the raw index buffer for staged upload.
func (g *Geometry) IndexBytes() []uint32 { return g.index }

// View returns the per-vertex values of attribute a as a flat float32
// slice (length VertexCount()*components(a)), panicking if a is absent
// from the layout. The returned slice is a copy; it does not reflect
// later SetVertices calls.
func (g *Geometry) View(a Attribute) []float32 {
	off := g.layout.offset(a)
	n := attrComponents(a)
	stride := g.layout.Stride()
	count := g.VertexCount()
	out := make([]float32, count*n)
	for i := 0; i < count; i++ {
		copy(out[i*n:(i+1)*n], g.vertex[i*stride+off:i*stride+off+n])
	}
	return out
}

// SetVertices replaces the vertex buffer (same layout) and marks the
// resource dirty so the geometry cache re-uploads it.
func (g *Geometry) SetVertices(vertex []float32) {
	stride := g.layout.Stride()
	if len(vertex)%stride != 0 {
		panicx.Panic(panicx.ContractViolation, "resdata: vertex buffer length %d is not a multiple of stride %d", len(vertex), stride)
	}
	g.vertex = vertex
	if g.layout.Has(Position) {
		g.recomputeAABB()
	}
	g.MarkDirty()
}

// SetIndices replaces the index buffer and marks the resource dirty.
func (g *Geometry) SetIndices(index []uint32) {
	g.index = index
	g.MarkDirty()
}
