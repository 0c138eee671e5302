// Copyright 2024 The Vesper Authors. All rights reserved.

package resdata

import (
	"encoding/binary"
	"math"

	"github.com/vesper3d/vesper/layout"
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/panicx"
	"github.com/vesper3d/vesper/resource"
)

// MaterialShader declares a material's std430/std140-laid-out parameter
// block and its named texture-slot list (spec.md §3.4). It generalizes
// gviegas-neo3/engine/material/material.go's hardcoded PBR/Unlit schema
// into a block built from an arbitrary layout.Field list, so that new
// shading models need only declare their fields, not a new Go type.
type MaterialShader struct {
	Name         string
	Block        layout.Block
	TextureSlots []string
}

// NewMaterialShader computes the shader's parameter block layout under
// std, validating field names as layout.Build does (duplicate fields
// fatal).
func NewMaterialShader(name string, std layout.Std, fields []layout.Field, textureSlots []string) *MaterialShader {
	return &MaterialShader{
		Name:         name,
		Block:        layout.Build(std, fields),
		TextureSlots: textureSlots,
	}
}

func (s *MaterialShader) hasSlot(name string) bool {
	for _, n := range s.TextureSlots {
		if n == name {
			return true
		}
	}
	return false
}

// TexRef binds a texture and its sampling parameters to one of a
// material's texture slots (spec.md §3.4).
type TexRef struct {
	Texture *Texture
	Sampler *Sampler
	UVSet   int
}

// Material binds a MaterialShader, owns a typed uniform buffer matching
// the shader's parameter block, and owns one TexRef per declared
// texture slot (spec.md §3.4).
type Material struct {
	resource.Resource

	shader   *MaterialShader
	uniforms []byte
	textures map[string]TexRef
}

// NewMaterial creates a material bound to shader, with a zeroed uniform
// buffer and no texture slots populated.
func NewMaterial(shader *MaterialShader) *Material {
	return &Material{
		shader:   shader,
		uniforms: make([]byte, shader.Block.Size),
		textures: make(map[string]TexRef, len(shader.TextureSlots)),
	}
}

// Shader returns the material's shader.
func (m *Material) Shader() *MaterialShader { return m.shader }

// UniformBytes returns the raw uniform buffer for staged upload.
func (m *Material) UniformBytes() []byte { return m.uniforms }

// SetFloat, SetVec3, SetVec4 and SetMat4 set a named parameter's value,
// type-checked against the shader's layout block. A mismatch (unknown
// name, or a name whose declared type has a different size than the
// value being written) is fatal (spec.md §7 ContractViolation). Setting
// a parameter marks the material dirty (spec.md §3.4).
func (m *Material) SetFloat(name string, v float32) {
	off := m.checkedOffset(name, 4)
	binary.LittleEndian.PutUint32(m.uniforms[off:], math.Float32bits(v))
	m.MarkDirty()
}

func (m *Material) SetVec3(name string, v linear.V3) {
	off := m.checkedOffset(name, 12)
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(m.uniforms[off+i*4:], math.Float32bits(v[i]))
	}
	m.MarkDirty()
}

func (m *Material) SetVec4(name string, v linear.V4) {
	off := m.checkedOffset(name, 16)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(m.uniforms[off+i*4:], math.Float32bits(v[i]))
	}
	m.MarkDirty()
}

func (m *Material) SetMat4(name string, v linear.M4) {
	off := m.checkedOffset(name, 64)
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			binary.LittleEndian.PutUint32(m.uniforms[off+(col*4+row)*4:], math.Float32bits(v[col][row]))
		}
	}
	m.MarkDirty()
}

// checkedOffset looks up name in the shader's block and validates that
// the caller's value size matches the declared field's size, panicking
// (ContractViolation) on either a missing name or a size mismatch — the
// latter stands in for full GLSL-type checking, since this package only
// ever writes fixed-size scalar/vector/matrix values.
func (m *Material) checkedOffset(name string, wantSize int) int {
	v := m.shader.Block.Lookup(name) // panics on unknown name
	if v.Size != wantSize {
		panicx.Panic(panicx.ContractViolation, "material: parameter %q has size %d, value has size %d", name, v.Size, wantSize)
	}
	return v.Offset
}

// SetTexture binds ref to the named texture slot, panicking
// (ContractViolation) if slot is not declared by the material's shader
// (spec.md §7: "unknown texture slot").
func (m *Material) SetTexture(slot string, ref TexRef) {
	if !m.shader.hasSlot(slot) {
		panicx.Panic(panicx.ContractViolation, "material: unknown texture slot %q", slot)
	}
	m.textures[slot] = ref
	m.MarkDirty()
}

// Texture returns the TexRef bound to slot, or the zero TexRef if none
// has been set yet.
func (m *Material) Texture(slot string) TexRef { return m.textures[slot] }
