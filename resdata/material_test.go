// Copyright 2024 The Vesper Authors. All rights reserved.

package resdata

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/vesper3d/vesper/layout"
	"github.com/vesper3d/vesper/linear"
)

func pbrShader() *MaterialShader {
	return NewMaterialShader("pbr", layout.Std140, []layout.Field{
		{Name: "baseColorFactor", Type: layout.Vec4},
		{Name: "metallicFactor", Type: layout.Float},
		{Name: "roughnessFactor", Type: layout.Float},
	}, []string{"baseColor", "metallicRoughness", "normal"})
}

func TestMaterialSetAndRoundTripThroughBytes(t *testing.T) {
	m := NewMaterial(pbrShader())
	v0 := m.CurrentVersion()
	m.SetVec4("baseColorFactor", linear.V4{1, 0, 0, 1})
	m.SetFloat("metallicFactor", 0.5)

	if m.CurrentVersion() == v0 {
		t.Fatal("SetVec4/SetFloat: expected version to change")
	}
	off := m.shader.Block.Lookup("metallicFactor").Offset
	bits := m.UniformBytes()[off : off+4]
	if len(bits) != 4 {
		t.Fatalf("expected 4 bytes for float field, got %d", len(bits))
	}
	if f := math.Float32frombits(binary.LittleEndian.Uint32(bits)); f != 0.5 {
		t.Fatalf("metallicFactor round trip\nhave %v\nwant 0.5", f)
	}
}

func TestMaterialSetUnknownParamPanics(t *testing.T) {
	m := NewMaterial(pbrShader())
	defer func() {
		if recover() == nil {
			t.Fatal("SetFloat: expected panic for unknown parameter name")
		}
	}()
	m.SetFloat("doesNotExist", 1)
}

func TestMaterialSetWrongTypePanics(t *testing.T) {
	m := NewMaterial(pbrShader())
	defer func() {
		if recover() == nil {
			t.Fatal("SetVec3: expected panic when field is actually a vec4")
		}
	}()
	m.SetVec3("baseColorFactor", linear.V3{1, 1, 1})
}

func TestMaterialSetUnknownTextureSlotPanics(t *testing.T) {
	m := NewMaterial(pbrShader())
	defer func() {
		if recover() == nil {
			t.Fatal("SetTexture: expected panic for undeclared slot")
		}
	}()
	m.SetTexture("emissive", TexRef{})
}

func TestMaterialSetTextureMarksDirty(t *testing.T) {
	m := NewMaterial(pbrShader())
	v0 := m.CurrentVersion()
	tex := New2D(1, 1, RGBA8, U8, SRGB, make([]byte, 4))
	m.SetTexture("baseColor", TexRef{Texture: tex})
	if m.CurrentVersion() == v0 {
		return
	}
	t.Fatal("SetTexture: expected version to change")
}
