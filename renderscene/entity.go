// Copyright 2024 The Vesper Authors. All rights reserved.

package renderscene

import (
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/resdata"
	"github.com/vesper3d/vesper/scenegraph"
)

// EntityID is a dense integer identifying a row across the render
// scene's parallel columns (spec.md §3.7).
type EntityID int

// componentFlags is the per-entity component-presence bitset.
type componentFlags uint8

const (
	meshBit componentFlags = 1 << iota
	cameraBit
)

// meshData is the Mesh column's payload.
type meshData struct {
	geometry *resdata.Geometry
	material *resdata.Material
}

// cameraData is the Camera column's payload.
type cameraData struct {
	projection linear.M4
	frustum    linear.Frustum
}

// entityTable is the dense table-of-arrays keyed by EntityID, with a
// freelist for holes (spec.md §3.7), generalizing
// gviegas-neo3/engine/id.go's dataMap/dataEntry idiom into a concrete,
// worked implementation.
type entityTable struct {
	flags     []componentFlags
	transform []linear.M4
	mesh      []meshData
	camera    []cameraData
	free      []EntityID

	nodeToEntity map[*scenegraph.Node]EntityID

	meshView   []EntityID
	cameraView []EntityID
}

func newEntityTable() *entityTable {
	return &entityTable{nodeToEntity: make(map[*scenegraph.Node]EntityID)}
}

// getOrCreate returns the entity id bound to n, allocating a fresh row
// (recycled from the freelist if possible) if none exists yet.
func (t *entityTable) getOrCreate(n *scenegraph.Node) EntityID {
	if e, ok := t.nodeToEntity[n]; ok {
		return e
	}
	var e EntityID
	if k := len(t.free); k > 0 {
		e = t.free[k-1]
		t.free = t.free[:k-1]
		t.flags[e] = 0
	} else {
		e = EntityID(len(t.flags))
		t.flags = append(t.flags, 0)
		t.transform = append(t.transform, linear.M4{})
		t.mesh = append(t.mesh, meshData{})
		t.camera = append(t.camera, cameraData{})
	}
	t.nodeToEntity[n] = e
	return e
}

// lookup returns the entity id bound to n, if any.
func (t *entityTable) lookup(n *scenegraph.Node) (EntityID, bool) {
	e, ok := t.nodeToEntity[n]
	return e, ok
}

// recycle returns e to the freelist and drops n's binding once all of
// its component bits have cleared (spec.md §4.4: "if all bits cleared,
// recycle entity id").
func (t *entityTable) recycle(n *scenegraph.Node, e EntityID) {
	if t.flags[e] != 0 {
		return
	}
	delete(t.nodeToEntity, n)
	t.free = append(t.free, e)
}

func removeFromView(view []EntityID, e EntityID) []EntityID {
	for i, v := range view {
		if v == e {
			return append(view[:i], view[i+1:]...)
		}
	}
	return view
}
