// Copyright 2024 The Vesper Authors. All rights reserved.

// Package layout computes std140/std430 GLSL buffer layouts (spec.md
// §4.7), grounded on original_source/zephyr/renderer/include/zephyr/
// renderer/glsl/std430_buffer_layout.hpp. Unlike the teacher's
// engine/internal/shader package (which hardcodes a handful of fixed
// [N]float32 layouts), this package accepts an arbitrary named,
// GLSL-typed field list and computes offsets generically, which backs
// the generalized Material parameter system in resdata.
package layout

import (
	"golang.org/x/exp/constraints"

	"github.com/vesper3d/vesper/panicx"
)

// Type enumerates the GLSL scalar/vector/matrix types this package
// understands. Arrays are expressed by setting Field.Count > 1, not by
// a distinct Type value.
type Type int

const (
	Float Type = iota
	Vec2
	Vec3
	Vec4
	Mat4
)

func (t Type) String() string {
	switch t {
	case Float:
		return "float"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Vec4:
		return "vec4"
	case Mat4:
		return "mat4"
	default:
		return "unknown"
	}
}

// scalarSize is the size, in bytes, of one component of Type.
const scalarSize = 4

// components is the number of float components a single (non-array)
// element of Type occupies, disregarding std140/std430 padding.
func components(t Type) int {
	switch t {
	case Float:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	case Mat4:
		return 16
	default:
		panicx.Panic(panicx.Invariant, "layout: unknown type %v", t)
		return 0
	}
}

// baseAlignment is the alignment, in bytes, of a single (non-array)
// element of Type, identical in std140 and std430 (only the array
// stride rules differ between the two, per spec.md §4.7).
func baseAlignment(t Type) int {
	switch t {
	case Float:
		return 4
	case Vec2:
		return 8
	case Vec3, Vec4:
		return 16
	case Mat4:
		return 16
	default:
		panicx.Panic(panicx.Invariant, "layout: unknown type %v", t)
		return 0
	}
}

// baseSize is the size, in bytes, of a single (non-array) element of
// Type. Notably vec3's size is 12 (3 floats), distinct from its
// alignment of 16 — this is what makes Scenario S5's packing work.
func baseSize(t Type) int {
	if t == Mat4 {
		return 4 * 16 // 4 rows of vec4
	}
	return components(t) * scalarSize
}

// Field describes one named variable in the block. Count is the array
// length; 0 or 1 both mean "not an array".
type Field struct {
	Name  string
	Type  Type
	Count int
}

// Var is the computed placement of one field.
type Var struct {
	Offset    int
	Size      int
	Alignment int
}

// Block is the computed layout of an entire GLSL buffer block: every
// field's placement plus the block's total size.
type Block struct {
	Vars  map[string]Var
	Order []string // field names in the order they were assigned (descending alignment)
	Size  int
}

// Lookup returns the Var for name, panicking (ContractViolation) if it
// is not present — spec.md §4.7: "lookup of an unknown name is fatal."
func (b *Block) Lookup(name string) Var {
	v, ok := b.Vars[name]
	if !ok {
		panicx.Panic(panicx.ContractViolation, "layout: unknown field %q", name)
	}
	return v
}

// Std is the layout convention: Std140 or Std430.
type Std int

const (
	Std140 Std = iota
	Std430
)

// alignUp rounds n up to the next multiple of a.
func alignUp[T constraints.Integer](n, a T) T {
	if a == 0 {
		return n
	}
	return (n + a - 1) / a * a
}

// arrayStride computes the stride between elements of an array of
// Type t under convention std, per spec.md §4.7 / Property 8:
//   - std140: every element, regardless of type, is rounded up to a
//     multiple of 16 (the vec4 size).
//   - std430: elements pack at their base size/alignment, except that
//     vec3 arrays use a stride of 12 (tightly packed — the spec's
//     explicit deviation from element-size==16 padding), matching
//     Property 8 literally ("array stride for vec3[] is exactly ...
//     12 in std430").
func arrayStride(t Type, std Std) int {
	if std == Std140 {
		return int(alignUp(baseSize(t), 16))
	}
	if t == Vec3 {
		return baseSize(t)
	}
	return int(alignUp(baseSize(t), baseAlignment(t)))
}

// Build computes the layout of fields under convention std, in
// descending-alignment-order packing (spec.md §4.7: "assignment is
// performed in descending-alignment order"). Duplicate names are fatal
// (Invariant), matching spec.md's stated contract.
func Build(std Std, fields []Field) Block {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			panicx.Panic(panicx.Invariant, "layout: duplicate field %q", f.Name)
		}
		seen[f.Name] = true
	}

	type placed struct {
		f     Field
		align int
		size  int
	}
	ps := make([]placed, len(fields))
	for i, f := range fields {
		isArray := f.Count > 1
		align := baseAlignment(f.Type)
		var size int
		if isArray {
			stride := arrayStride(f.Type, std)
			size = stride * f.Count
			if std == Std140 {
				align = int(alignUp(align, 16))
			}
		} else {
			size = baseSize(f.Type)
		}
		ps[i] = placed{f: f, align: align, size: size}
	}

	// Stable descending sort by (alignment, size): fields tying on
	// alignment are broken by descending size so that, e.g., a mat4
	// is placed ahead of a same-alignment vec3 (Scenario S5 expects
	// `m` at offset 0 and `b` at offset 64, not the reverse). Ties on
	// both keys preserve input order (insertion sort, field counts
	// are small).
	less := func(a, b placed) bool {
		if a.align != b.align {
			return a.align < b.align
		}
		return a.size < b.size
	}
	for i := 1; i < len(ps); i++ {
		j := i
		for j > 0 && less(ps[j-1], ps[j]) {
			ps[j-1], ps[j] = ps[j], ps[j-1]
			j--
		}
	}

	b := Block{Vars: make(map[string]Var, len(ps)), Order: make([]string, 0, len(ps))}
	offset := 0
	for _, p := range ps {
		offset = int(alignUp(offset, p.align))
		b.Vars[p.f.Name] = Var{Offset: offset, Size: p.size, Alignment: p.align}
		b.Order = append(b.Order, p.f.Name)
		offset += p.size
	}
	b.Size = offset
	return b
}
