// Copyright 2024 The Vesper Authors. All rights reserved.

// Package gltfload wires the gltf package (kept ambient, out of scope
// per spec.md §6) to resdata and scenegraph: it reads a glTF document's
// accessors into resdata.Geometry and replays its node hierarchy as a
// scenegraph.Node tree, one layer up from either package (spec.md's
// supplemented glTF-sourced-scenes feature). This is demo-host glue,
// not a full glTF importer: only POSITION/NORMAL/TEXCOORD_0 accessors
// and TRS (not matrix) node transforms are handled, which covers the
// common exporter output used by the pack's own GLB sample assets.
package gltfload

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/vesper3d/vesper/gltf"
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/renderscene"
	"github.com/vesper3d/vesper/resdata"
	"github.com/vesper3d/vesper/scenegraph"
)

// Document is a decoded glTF file plus its resolved binary buffers
// (one []byte per glTF.Buffers entry).
type Document struct {
	GLTF    *gltf.GLTF
	Buffers [][]byte
}

// Load reads a .gltf or .glb file from path and resolves every buffer
// it references (embedded GLB chunk, data URI, or sibling file).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var g *gltf.GLTF
	var glb []byte
	if gltf.IsGLB(bytes.NewReader(data)) {
		g, glb, err = gltf.Unpack(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gltfload: unpack GLB: %w", err)
		}
	} else {
		g, err = gltf.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gltfload: decode glTF: %w", err)
		}
	}

	dir := filepath.Dir(path)
	buffers := make([][]byte, len(g.Buffers))
	for i, b := range g.Buffers {
		switch {
		case b.URI == "" && glb != nil:
			buffers[i] = glb
		case strings.HasPrefix(b.URI, "data:"):
			idx := strings.IndexByte(b.URI, ',')
			if idx < 0 {
				return nil, fmt.Errorf("gltfload: malformed data URI on buffer %d", i)
			}
			dec, err := base64.StdEncoding.DecodeString(b.URI[idx+1:])
			if err != nil {
				return nil, fmt.Errorf("gltfload: decode data URI on buffer %d: %w", i, err)
			}
			buffers[i] = dec
		default:
			dec, err := os.ReadFile(filepath.Join(dir, b.URI))
			if err != nil {
				return nil, fmt.Errorf("gltfload: read buffer %d (%s): %w", i, b.URI, err)
			}
			buffers[i] = dec
		}
	}
	return &Document{GLTF: g, Buffers: buffers}, nil
}

// accessorComponentCount is the number of scalar components
// accessor.type implies.
func accessorComponentCount(typ string) int {
	switch typ {
	case gltf.SCALAR:
		return 1
	case gltf.VEC2:
		return 2
	case gltf.VEC3:
		return 3
	case gltf.VEC4:
		return 4
	default:
		return 0
	}
}

func componentSize(componentType int64) int {
	switch componentType {
	case gltf.BYTE, gltf.UNSIGNED_BYTE:
		return 1
	case gltf.SHORT, gltf.UNSIGNED_SHORT:
		return 2
	case gltf.UNSIGNED_INT, gltf.FLOAT:
		return 4
	default:
		return 0
	}
}

// readFloats reads accessor idx as a flat []float32, dereferencing its
// bufferView with stride/offset support. Sparse accessors and
// non-float component types are not supported by this loader.
func (d *Document) readFloats(idx int64) ([]float32, error) {
	acc := d.GLTF.Accessors[idx]
	if acc.ComponentType != gltf.FLOAT {
		return nil, fmt.Errorf("gltfload: accessor %d: unsupported component type %d", idx, acc.ComponentType)
	}
	if acc.Sparse != nil {
		return nil, fmt.Errorf("gltfload: accessor %d: sparse accessors not supported", idx)
	}
	if acc.BufferView == nil {
		return make([]float32, int(acc.Count)*accessorComponentCount(acc.Type)), nil
	}
	bv := d.GLTF.BufferViews[*acc.BufferView]
	buf := d.Buffers[bv.Buffer]
	nc := accessorComponentCount(acc.Type)
	stride := int(bv.ByteStride)
	if stride == 0 {
		stride = nc * 4
	}
	base := int(bv.ByteOffset + acc.ByteOffset)
	out := make([]float32, int(acc.Count)*nc)
	for i := 0; i < int(acc.Count); i++ {
		off := base + i*stride
		for c := 0; c < nc; c++ {
			out[i*nc+c] = littleEndianFloat32(buf[off+c*4 : off+c*4+4])
		}
	}
	return out, nil
}

// readIndices reads accessor idx as a flat []uint32, widening 8/16-bit
// index types.
func (d *Document) readIndices(idx int64) ([]uint32, error) {
	acc := d.GLTF.Accessors[idx]
	if acc.BufferView == nil {
		return nil, fmt.Errorf("gltfload: accessor %d: no bufferView", idx)
	}
	bv := d.GLTF.BufferViews[*acc.BufferView]
	buf := d.Buffers[bv.Buffer]
	sz := componentSize(acc.ComponentType)
	stride := int(bv.ByteStride)
	if stride == 0 {
		stride = sz
	}
	base := int(bv.ByteOffset + acc.ByteOffset)
	out := make([]uint32, acc.Count)
	for i := 0; i < int(acc.Count); i++ {
		off := base + i*stride
		switch acc.ComponentType {
		case gltf.UNSIGNED_BYTE:
			out[i] = uint32(buf[off])
		case gltf.UNSIGNED_SHORT:
			out[i] = uint32(buf[off]) | uint32(buf[off+1])<<8
		case gltf.UNSIGNED_INT:
			out[i] = uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
		default:
			return nil, fmt.Errorf("gltfload: accessor %d: unsupported index component type %d", idx, acc.ComponentType)
		}
	}
	return out, nil
}

func littleEndianFloat32(b []byte) float32 {
	bits := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	return math.Float32frombits(bits)
}

// geometryFromPrimitive interleaves a primitive's POSITION/NORMAL/
// TEXCOORD_0 accessors into one resdata.Geometry, in resdata's fixed
// position/normal/uv/color packing order (spec.md §3.2).
func (d *Document) geometryFromPrimitive(p gltf.Primitive) (*resdata.Geometry, error) {
	posIdx, ok := p.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("gltfload: primitive has no POSITION attribute")
	}
	pos, err := d.readFloats(posIdx)
	if err != nil {
		return nil, err
	}
	n := len(pos) / 3

	var layout resdata.Attribute = resdata.Position
	var normal, uv []float32
	if idx, ok := p.Attributes["NORMAL"]; ok {
		normal, err = d.readFloats(idx)
		if err != nil {
			return nil, err
		}
		layout |= resdata.Normal
	}
	if idx, ok := p.Attributes["TEXCOORD_0"]; ok {
		uv, err = d.readFloats(idx)
		if err != nil {
			return nil, err
		}
		layout |= resdata.UV
	}

	l := resdata.Layout{Key: layout}
	stride := l.Stride()
	vertex := make([]float32, n*stride)
	for i := 0; i < n; i++ {
		off := i * stride
		copy(vertex[off:off+3], pos[i*3:i*3+3])
		off += 3
		if layout&resdata.Normal != 0 {
			copy(vertex[off:off+3], normal[i*3:i*3+3])
			off += 3
		}
		if layout&resdata.UV != 0 {
			copy(vertex[off:off+2], uv[i*2:i*2+2])
		}
	}

	var index []uint32
	if p.Indices != nil {
		index, err = d.readIndices(*p.Indices)
		if err != nil {
			return nil, err
		}
	}
	return resdata.NewGeometry(l, vertex, index), nil
}

// BuildScene replays the glTF document's default scene (or scene 0) as
// a subtree under parent: one scenegraph.Node per glTF node, carrying
// its TRS transform and, if it references a mesh, a renderscene.Mesh
// component wrapping the mesh's first primitive (spec.md's supplemented
// feature: "glTF-sourced scenes ... populate resdata resources and
// scenegraph nodes"). Meshes with more than one primitive only load the
// first; Material is left nil so the render scene's sentinel material
// is used.
func (d *Document) BuildScene(graph *scenegraph.SceneGraph, parent *scenegraph.Node) error {
	g := d.GLTF
	sceneIdx := int64(0)
	if g.Scene != nil {
		sceneIdx = *g.Scene
	}
	if len(g.Scenes) == 0 {
		return fmt.Errorf("gltfload: document has no scenes")
	}
	scene := g.Scenes[sceneIdx]

	geoms := make(map[int64]*resdata.Geometry)
	var build func(nodeIdx int64, parent *scenegraph.Node) error
	build = func(nodeIdx int64, parent *scenegraph.Node) error {
		gn := g.Nodes[nodeIdx]
		n := scenegraph.NewNode(gn.Name)
		graph.Attach(n, parent)

		if gn.Translation != nil {
			n.SetTranslation(linear.V3{gn.Translation[0], gn.Translation[1], gn.Translation[2]})
		}
		if gn.Rotation != nil {
			r := gn.Rotation
			n.SetRotation(linear.Q{V: linear.V3{r[0], r[1], r[2]}, R: r[3]})
		}
		if gn.Scale != nil {
			n.SetScale(linear.V3{gn.Scale[0], gn.Scale[1], gn.Scale[2]})
		}

		if gn.Mesh != nil {
			mesh := g.Meshes[*gn.Mesh]
			if len(mesh.Primitives) > 0 {
				geo, ok := geoms[*gn.Mesh]
				if !ok {
					var err error
					geo, err = d.geometryFromPrimitive(mesh.Primitives[0])
					if err != nil {
						return fmt.Errorf("gltfload: mesh %d: %w", *gn.Mesh, err)
					}
					geoms[*gn.Mesh] = geo
				}
				scenegraph.AddComponent(n, renderscene.Mesh{Geometry: geo})
			}
		}

		for _, c := range gn.Children {
			if err := build(c, n); err != nil {
				return err
			}
		}
		return nil
	}

	for _, idx := range scene.Nodes {
		if err := build(idx, parent); err != nil {
			return err
		}
	}
	return nil
}
