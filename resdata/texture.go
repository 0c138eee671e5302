// Copyright 2024 The Vesper Authors. All rights reserved.

package resdata

import (
	"github.com/vesper3d/vesper/panicx"
	"github.com/vesper3d/vesper/resource"
)

// Format is the pixel format a texture declares (spec.md §3.3: "at
// minimum RGBA8").
type Format int

const (
	RGBA8 Format = iota
	RGBA16F
)

// DataType is the CPU-side element type backing a texture's bytes
// (spec.md §3.3: "at minimum u8").
type DataType int

const (
	U8 DataType = iota
	F16
)

// ColorSpace distinguishes linear from sRGB-encoded data.
type ColorSpace int

const (
	Linear ColorSpace = iota
	SRGB
)

// formatTriple validates a (format, data type, color space) combination;
// an unknown combination is a fatal configuration error (spec.md §3.3
// and §7 Invariant). This reference implementation accepts RGBA8 with
// U8 in either color space and RGBA16F with F16 in Linear space, and
// rejects every other combination; the check
// exists so that adding a new Format/DataType/ColorSpace constant
// without updating every backend's mapping table fails loudly instead
// of silently.
func formatTriple(f Format, d DataType, c ColorSpace) {
	switch {
	case f == RGBA8 && d == U8 && (c == Linear || c == SRGB):
	case f == RGBA16F && d == F16 && c == Linear:
	default:
		panicx.Panic(panicx.Invariant, "resdata: unknown texture format triple (%v,%v,%v)", f, d, c)
	}
}

// Sampler is a CPU-side description of texture sampling state, owned
// optionally by a Texture (spec.md §3.3: "an optional sampler-resource
// is attached").
type Sampler struct {
	resource.Resource

	MinFilter, MagFilter int // backend-defined filter enums
	WrapS, WrapT         int
}

// Texture is a CPU-side image resource, either a single 2D image or a
// cube map with six packed faces (spec.md §3.3).
type Texture struct {
	resource.Resource

	format     Format
	dataType   DataType
	colorSpace ColorSpace
	width      int
	height     int
	cube       bool

	// Faces holds one entry for 2D textures, six for cube maps, in
	// order +X, -X, +Y, -Y, +Z, -Z.
	Faces   [][]byte
	Sampler *Sampler
}

// New2D creates a 2D texture of the given dimensions and format triple.
func New2D(width, height int, format Format, dataType DataType, cs ColorSpace, data []byte) *Texture {
	formatTriple(format, dataType, cs)
	return &Texture{
		format: format, dataType: dataType, colorSpace: cs,
		width: width, height: height,
		Faces: [][]byte{data},
	}
}

// NewCube creates a cube texture whose six faces share faceSize.
func NewCube(faceSize int, format Format, dataType DataType, cs ColorSpace, faces [6][]byte) *Texture {
	formatTriple(format, dataType, cs)
	t := &Texture{
		format: format, dataType: dataType, colorSpace: cs,
		width: faceSize, height: faceSize, cube: true,
		Faces: make([][]byte, 6),
	}
	for i, f := range faces {
		t.Faces[i] = f
	}
	return t
}

func (t *Texture) Format() Format         { return t.format }
func (t *Texture) DataType() DataType     { return t.dataType }
func (t *Texture) ColorSpace() ColorSpace { return t.colorSpace }
func (t *Texture) Width() int             { return t.width }
func (t *Texture) Height() int            { return t.height }
func (t *Texture) IsCube() bool           { return t.cube }

// SetData replaces face 0's bytes (2D textures only) and marks the
// resource dirty so the texture cache re-uploads it.
func (t *Texture) SetData(data []byte) {
	if t.cube {
		panicx.Panic(panicx.ContractViolation, "resdata: SetData called on a cube texture")
	}
	t.Faces[0] = data
	t.MarkDirty()
}
