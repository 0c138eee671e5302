// Copyright 2024 The Vesper Authors. All rights reserved.

package gltfload

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/vesper3d/vesper/gltf"
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/renderscene"
	"github.com/vesper3d/vesper/scenegraph"
)

func packFloats(vs ...float32) []byte {
	b := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func triangleDoc() *Document {
	buf := packFloats(
		0, 1, 0,
		-1, -1, 0,
		1, -1, 0,
	)
	posIdx := int64(0)
	meshIdx := int64(0)
	g := &gltf.GLTF{
		Buffers:     []gltf.Buffer{{ByteLength: int64(len(buf))}},
		BufferViews: []gltf.BufferView{{Buffer: 0, ByteLength: int64(len(buf))}},
		Accessors: []gltf.Accessor{{
			BufferView:    &posIdx,
			ComponentType: gltf.FLOAT,
			Count:         3,
			Type:          gltf.VEC3,
		}},
		Meshes: []gltf.Mesh{{
			Primitives: []gltf.Primitive{{
				Attributes: map[string]int64{"POSITION": 0},
			}},
		}},
		Nodes: []gltf.Node{{
			Name:        "tri",
			Mesh:        &meshIdx,
			Translation: &[3]float32{1, 2, 3},
		}},
		Scenes: []gltf.Scene{{Nodes: []int64{0}}},
	}
	return &Document{GLTF: g, Buffers: [][]byte{buf}}
}

func TestGeometryFromPrimitiveInterleavesPosition(t *testing.T) {
	d := triangleDoc()
	geo, err := d.geometryFromPrimitive(d.GLTF.Meshes[0].Primitives[0])
	if err != nil {
		t.Fatalf("geometryFromPrimitive: %v", err)
	}
	if geo.VertexCount() != 3 {
		t.Fatalf("VertexCount\nhave %d\nwant 3", geo.VertexCount())
	}
	got := geo.VertexBytes()
	want := []float32{0, 1, 0, -1, -1, 0, 1, -1, 0}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("vertex[%d]\nhave %v\nwant %v", i, got, want)
		}
	}
}

func TestBuildSceneAttachesMeshAndTransform(t *testing.T) {
	d := triangleDoc()
	graph := scenegraph.New()
	if err := d.BuildScene(graph, graph.Root()); err != nil {
		t.Fatalf("BuildScene: %v", err)
	}
	children := graph.Root().Children()
	if len(children) != 1 {
		t.Fatalf("root children\nhave %d\nwant 1", len(children))
	}
	n := children[0]
	if n.Name != "tri" {
		t.Fatalf("child name\nhave %q\nwant %q", n.Name, "tri")
	}
	if !scenegraph.HasComponent[renderscene.Mesh](n) {
		t.Fatal("expected node to carry a Mesh component")
	}
	tr := n.Transform().Translation()
	if tr != (linear.V3{1, 2, 3}) {
		t.Fatalf("translation\nhave %v\nwant [1 2 3]", tr)
	}
}
