// Copyright 2024 The Vesper Authors. All rights reserved.

package layout

import "testing"

// TestStd430PackingS5 reproduces spec.md Scenario S5: input
// { float a; vec3 b; float c; mat4 m; } must pack as
// m@0, b@64, a@76, c@80, with total size 84.
func TestStd430PackingS5(t *testing.T) {
	b := Build(Std430, []Field{
		{Name: "a", Type: Float},
		{Name: "b", Type: Vec3},
		{Name: "c", Type: Float},
		{Name: "m", Type: Mat4},
	})
	check := func(name string, offset, size int) {
		t.Helper()
		v := b.Lookup(name)
		if v.Offset != offset {
			t.Fatalf("%s.Offset\nhave %d\nwant %d", name, v.Offset, offset)
		}
		if v.Size != size {
			t.Fatalf("%s.Size\nhave %d\nwant %d", name, v.Size, size)
		}
	}
	check("m", 0, 64)
	check("b", 64, 12)
	check("a", 76, 4)
	check("c", 80, 4)
	if b.Size != 84 {
		t.Fatalf("Size\nhave %d\nwant %d", b.Size, 84)
	}
}

// TestProperty8Alignment checks every produced offset is a multiple of
// its alignment, for both conventions, over a representative field set
// (spec.md §8 Property 8).
func TestProperty8Alignment(t *testing.T) {
	fields := []Field{
		{Name: "a", Type: Float},
		{Name: "b", Type: Vec2},
		{Name: "c", Type: Vec3},
		{Name: "d", Type: Vec4},
		{Name: "e", Type: Mat4},
		{Name: "arr", Type: Vec3, Count: 4},
	}
	for _, std := range []Std{Std140, Std430} {
		b := Build(std, fields)
		for name, v := range b.Vars {
			if v.Offset%v.Alignment != 0 {
				t.Fatalf("std=%v field %s: offset %d not a multiple of alignment %d", std, name, v.Offset, v.Alignment)
			}
		}
	}
}

// TestVec3ArrayStride checks spec.md Property 8's literal numbers:
// array stride for vec3[] is 16 in std140 and 12 in std430.
func TestVec3ArrayStride(t *testing.T) {
	if s := arrayStride(Vec3, Std140); s != 16 {
		t.Fatalf("std140 vec3[] stride\nhave %d\nwant %d", s, 16)
	}
	if s := arrayStride(Vec3, Std430); s != 12 {
		t.Fatalf("std430 vec3[] stride\nhave %d\nwant %d", s, 12)
	}
}

func TestDuplicateFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Build: expected panic on duplicate field")
		}
	}()
	Build(Std430, []Field{{Name: "a", Type: Float}, {Name: "a", Type: Float}})
}

func TestUnknownFieldLookupPanics(t *testing.T) {
	b := Build(Std430, []Field{{Name: "a", Type: Float}})
	defer func() {
		if recover() == nil {
			t.Fatal("Lookup: expected panic on unknown field")
		}
	}()
	b.Lookup("nope")
}
