// Copyright 2024 The Vesper Authors. All rights reserved.

// Package renderscene implements the archetype-style entity projection
// of the scene graph (spec.md §3.7/§3.8/§4.4), grounded in idiom on
// gviegas-neo3/engine/id.go's dataMap/dataEntry dense-array pattern
// (generalized here into a concrete, fully worked freelist-backed
// table instead of the teacher's unfinished declaration) and on
// original_source/zephyr/renderer/src/render_scene.cpp for the exact
// Stage 1/Stage 2 patch-consumption algorithm.
package renderscene

import (
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/resdata"
)

// RenderBundleKey is the minimum state that forces a pipeline or vertex
// array switch (spec.md §3.8).
type RenderBundleKey struct {
	UsesIBO           bool
	GeometryLayoutKey uint32
}

// RenderBundleItem is one draw's contribution to a bundle (spec.md
// §3.7/§3.8).
type RenderBundleItem struct {
	LocalToWorld linear.M4
	Geometry     *resdata.Geometry
	Material     *resdata.Material
	EntityID     EntityID
}

// bundleLocation records where an entity's item currently lives within
// the bundles map, so removal can run in O(1) via swap-with-last.
type bundleLocation struct {
	key   RenderBundleKey
	index int
}

// bundles is the append-/swap-remove-managed collection of render
// bundles, plus the entity→location map that makes removal O(1)
// (spec.md §3.7).
type bundles struct {
	items map[RenderBundleKey][]RenderBundleItem
	loc   map[EntityID]bundleLocation
}

func newBundles() *bundles {
	return &bundles{
		items: make(map[RenderBundleKey][]RenderBundleItem),
		loc:   make(map[EntityID]bundleLocation),
	}
}

// insert appends item to the bundle identified by key, recording its
// location for O(1) future removal.
func (b *bundles) insert(key RenderBundleKey, item RenderBundleItem) {
	b.items[key] = append(b.items[key], item)
	b.loc[item.EntityID] = bundleLocation{key: key, index: len(b.items[key]) - 1}
}

// remove deletes the item belonging to e via swap-with-last, fixing up
// the swapped element's recorded location (spec.md §4.4 Stage 2:
// "MeshRemoved(e): locate the item, swap with the bundle's last
// element ..., pop").
func (b *bundles) remove(e EntityID) {
	l, ok := b.loc[e]
	if !ok {
		return
	}
	list := b.items[l.key]
	last := len(list) - 1
	if l.index != last {
		list[l.index] = list[last]
		b.loc[list[l.index].EntityID] = bundleLocation{key: l.key, index: l.index}
	}
	b.items[l.key] = list[:last]
	delete(b.loc, e)
}

// setTransform overwrites the local_to_world field of e's item in
// place, a no-op if e has no recorded mesh item (spec.md §4.4 Stage 2:
// "TransformChanged(e): ... no-op if the entity has no mesh").
func (b *bundles) setTransform(e EntityID, world linear.M4) {
	l, ok := b.loc[e]
	if !ok {
		return
	}
	b.items[l.key][l.index].LocalToWorld = world
}

// Snapshot returns the current bundles map for consumption by a render
// backend (spec.md §4.4 Stage 2 step 3: "Expose bundles map to the
// backend"). The returned map must not be retained past the frame.
func (b *bundles) Snapshot() map[RenderBundleKey][]RenderBundleItem {
	return b.items
}
