// Copyright 2024 The Vesper Authors. All rights reserved.

package cache

import (
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/resdata"
)

// GeometryPayload is the staged snapshot of a Geometry's CPU-side bytes
// (spec.md §4.3 step 1: "snapshot its raw bytes into a freshly allocated
// staging buffer").
type GeometryPayload struct {
	Vertex []float32
	Index  []uint32
	AABB   linear.AABB
}

// GeometryUploader creates/updates/destroys the GPU-side counterpart of
// a Geometry (spec.md §4.6: create_render_geometry /
// update_render_geometry_* / destroy_render_geometry).
type GeometryUploader interface {
	UploadGeometry(g *resdata.Geometry, payload GeometryPayload)
	DeleteGeometry(g *resdata.Geometry)
}

type geometryUploaderAdapter struct {
	u GeometryUploader
}

func (a geometryUploaderAdapter) Upload(r *resdata.Geometry, payload any) {
	a.u.UploadGeometry(r, payload.(GeometryPayload))
}

func (a geometryUploaderAdapter) Delete(r *resdata.Geometry) {
	a.u.DeleteGeometry(r)
}

// GeometryCache bridges resdata.Geometry resources to their GPU-side
// counterparts.
type GeometryCache struct {
	*Cache[*resdata.Geometry]
}

// NewGeometryCache creates a geometry cache backed by uploader.
func NewGeometryCache(uploader GeometryUploader) *GeometryCache {
	snap := func(g *resdata.Geometry) any {
		vertex := make([]float32, len(g.VertexBytes()))
		copy(vertex, g.VertexBytes())
		index := make([]uint32, len(g.IndexBytes()))
		copy(index, g.IndexBytes())
		return GeometryPayload{Vertex: vertex, Index: index, AABB: g.AABB()}
	}
	return &GeometryCache{New[*resdata.Geometry](snap, geometryUploaderAdapter{uploader})}
}
