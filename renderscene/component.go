// Copyright 2024 The Vesper Authors. All rights reserved.

package renderscene

import (
	"reflect"

	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/resdata"
)

// Mesh is mounted on a scenegraph.Node to make it renderable (spec.md
// §4.4 Stage 1: "ComponentMounted(Mesh)"). Material may be left nil; the
// render scene substitutes a sentinel placeholder material for it.
type Mesh struct {
	Geometry *resdata.Geometry
	Material *resdata.Material
}

// Camera is mounted on a scenegraph.Node to make it a render viewpoint
// (spec.md §4.4 Stage 1: "ComponentMounted(Camera)"). The render scene
// derives the view matrix from the node's world transform and combines
// it with Projection to build the frustum.
type Camera struct {
	Projection linear.M4
}

var (
	meshType   = reflect.TypeOf(Mesh{})
	cameraType = reflect.TypeOf(Camera{})
)
