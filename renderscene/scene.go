// Copyright 2024 The Vesper Authors. All rights reserved.

package renderscene

import (
	"context"
	"reflect"

	"github.com/vesper3d/vesper/cache"
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/panicx"
	"github.com/vesper3d/vesper/resdata"
	"github.com/vesper3d/vesper/scenegraph"
)

// internalKind discriminates the render scene's own patch buffer
// (spec.md §4.4 Stage 1: "emit internal MeshMounted(entity) to the
// render-scene patch buffer").
type internalKind int

const (
	meshMounted internalKind = iota
	meshRemoved
	transformChanged
)

type internalPatch struct {
	kind   internalKind
	entity EntityID
}

// RenderScene keeps a dense entity projection of a scene graph
// consistent with the graph's patch log (spec.md §3.7/§4.4).
type RenderScene struct {
	graph   *scenegraph.SceneGraph
	rebuild bool

	entities *entityTable
	bundles  *bundles

	geomCache *cache.GeometryCache
	matCache  *cache.MaterialCache

	sentinelMaterial *resdata.Material

	internal []internalPatch
}

// New creates an empty render scene bound to the given geometry and
// material caches, used to acquire/release GPU-side resources as mesh
// components mount and unmount. sentinel is substituted whenever a
// Mesh component's Material is nil (spec.md §4.4 Stage 1).
func New(geomCache *cache.GeometryCache, matCache *cache.MaterialCache, sentinel *resdata.Material) *RenderScene {
	return &RenderScene{
		entities:         newEntityTable(),
		bundles:          newBundles(),
		geomCache:        geomCache,
		matCache:         matCache,
		sentinelMaterial: sentinel,
	}
}

// SetSceneGraph rebinds the render scene to g. If g differs from the
// currently bound graph, all state is cleared and a full rebuild is
// flagged for the next Stage1 call (spec.md §4.4: "set_scene_graph(g)").
func (s *RenderScene) SetSceneGraph(g *scenegraph.SceneGraph) {
	if g == s.graph {
		return
	}
	s.graph = g
	s.entities = newEntityTable()
	s.bundles = newBundles()
	s.internal = nil
	s.rebuild = true
}

// Stage1 runs the game-thread half of one frame: either a full rebuild
// (equivalent mount patches replayed in pre-order) or incremental
// consumption of the scene graph's patch log, then queues cache tasks
// for the render thread (spec.md §4.4 Stage 1).
func (s *RenderScene) Stage1() {
	if s.graph == nil {
		panicx.Panic(panicx.ContractViolation, "renderscene: Stage1 called with no scene graph bound")
	}
	if s.rebuild {
		// Discard any patches accumulated before this first Stage1 call
		// (e.g. from Attach/AddComponent while the graph wasn't yet
		// bound) — rebuildFromGraph derives state directly from the
		// graph's current shape, so replaying that backlog afterwards
		// would double-apply it.
		s.graph.DrainPatches()
		s.rebuildFromGraph()
		s.rebuild = false
	} else {
		for _, p := range s.graph.DrainPatches() {
			s.applyPatch(p)
		}
	}
	s.geomCache.QueueTasks()
	s.matCache.QueueTasks()
}

// rebuildFromGraph performs a pre-order traversal of the root, applying
// the equivalent of NodeMounted for every world-visible node (spec.md
// §4.4 Stage 1 step 1).
func (s *RenderScene) rebuildFromGraph() {
	var walk func(n *scenegraph.Node)
	walk = func(n *scenegraph.Node) {
		if n.WorldVisible() {
			s.applyPatch(scenegraph.Patch{Kind: scenegraph.NodeMounted, Node: n})
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(s.graph.Root())
}

// applyPatch replays one scene patch against the entity table and
// bundle state, per the case analysis of spec.md §4.4 Stage 1 step 3.
func (s *RenderScene) applyPatch(p scenegraph.Patch) {
	switch p.Kind {
	case scenegraph.NodeMounted:
		for _, t := range p.Node.Components() {
			s.applyComponentMounted(p.Node, t)
		}
		s.applyTransformChanged(p.Node)

	case scenegraph.NodeRemoved:
		if e, ok := s.entities.lookup(p.Node); ok {
			if s.entities.flags[e]&meshBit != 0 {
				s.componentRemovedMesh(p.Node, e)
			}
			if s.entities.flags[e]&cameraBit != 0 {
				s.componentRemovedCamera(p.Node, e)
			}
		}

	case scenegraph.ComponentMounted:
		s.applyComponentMounted(p.Node, p.Component)

	case scenegraph.ComponentRemoved:
		e, ok := s.entities.lookup(p.Node)
		if !ok {
			return
		}
		switch p.Component {
		case meshType:
			s.componentRemovedMesh(p.Node, e)
		case cameraType:
			s.componentRemovedCamera(p.Node, e)
		}

	case scenegraph.NodeTransformChanged:
		s.applyTransformChanged(p.Node)
	}
}

// applyComponentMounted implements spec.md §4.4 Stage 1's
// ComponentMounted(Mesh)/ComponentMounted(Camera) cases for component
// type t found on n.
func (s *RenderScene) applyComponentMounted(n *scenegraph.Node, t reflect.Type) {
	switch t {
	case meshType:
		mesh, _ := scenegraph.GetComponent[Mesh](n)
		e := s.entities.getOrCreate(n)
		mat := mesh.Material
		if mat == nil {
			mat = s.sentinelMaterial
		}
		s.entities.mesh[e] = meshData{geometry: mesh.Geometry, material: mat}
		s.entities.flags[e] |= meshBit
		// A bare ComponentMounted(Mesh) patch (mesh added to a node that
		// was already mounted) has no following NodeTransformChanged to
		// seed this entity's Transform column, unlike a full rebuild's
		// NodeMounted->applyTransformChanged trailer — copy the node's
		// current world matrix here so incremental and rebuild agree.
		s.entities.transform[e] = n.Transform().World()
		s.entities.meshView = append(s.entities.meshView, e)
		if mesh.Geometry != nil {
			s.geomCache.Acquire(mesh.Geometry)
		}
		s.matCache.Acquire(mat)
		s.internal = append(s.internal, internalPatch{kind: meshMounted, entity: e})

	case cameraType:
		cam, _ := scenegraph.GetComponent[Camera](n)
		e := s.entities.getOrCreate(n)
		s.entities.camera[e] = s.buildCamera(n, cam)
		s.entities.flags[e] |= cameraBit
		s.entities.cameraView = append(s.entities.cameraView, e)
	}
}

// buildCamera derives the view matrix from n's world transform and
// combines it with cam.Projection to build the frustum (spec.md §4.4:
// "populate Camera column with projection + frustum").
func (s *RenderScene) buildCamera(n *scenegraph.Node, cam Camera) cameraData {
	world := n.Transform().World()
	var view linear.M4
	view.Invert(&world)
	var viewProj linear.M4
	viewProj.Mul(&cam.Projection, &view)
	return cameraData{
		projection: cam.Projection,
		frustum:    linear.FrustumFromMatrix(&viewProj),
	}
}

func (s *RenderScene) componentRemovedMesh(n *scenegraph.Node, e EntityID) {
	m := s.entities.mesh[e]
	s.entities.flags[e] &^= meshBit
	s.entities.meshView = removeFromView(s.entities.meshView, e)
	s.entities.mesh[e] = meshData{}
	if m.geometry != nil {
		s.geomCache.Release(m.geometry)
	}
	if m.material != nil {
		s.matCache.Release(m.material)
	}
	s.internal = append(s.internal, internalPatch{kind: meshRemoved, entity: e})
	s.entities.recycle(n, e)
}

func (s *RenderScene) componentRemovedCamera(n *scenegraph.Node, e EntityID) {
	s.entities.flags[e] &^= cameraBit
	s.entities.cameraView = removeFromView(s.entities.cameraView, e)
	s.entities.camera[e] = cameraData{}
	s.entities.recycle(n, e)
}

// applyTransformChanged copies n's world matrix into its entity's
// Transform column, if n has one, and emits an internal
// TransformChanged (spec.md §4.4 Stage 1: "NodeTransformChanged: if the
// node has an entity, copy world matrix; emit TransformChanged(entity)").
func (s *RenderScene) applyTransformChanged(n *scenegraph.Node) {
	e, ok := s.entities.lookup(n)
	if !ok {
		return
	}
	s.entities.transform[e] = n.Transform().World()
	s.internal = append(s.internal, internalPatch{kind: transformChanged, entity: e})
}

// Stage2 runs the render-thread half of one frame: it first processes
// the geometry, texture and material cache queues, in that order,
// then drains the render scene's internal patch buffer into the bundles
// map (spec.md §4.4 Stage 2).
func (s *RenderScene) Stage2(ctx context.Context, textures *cache.TextureCache) error {
	if err := s.geomCache.ProcessQueued(ctx); err != nil {
		return err
	}
	if err := textures.ProcessQueued(ctx); err != nil {
		return err
	}
	if err := s.matCache.ProcessQueued(ctx); err != nil {
		return err
	}

	patches := s.internal
	s.internal = nil
	for _, p := range patches {
		switch p.kind {
		case meshMounted:
			m := s.entities.mesh[p.entity]
			var key RenderBundleKey
			if m.geometry != nil {
				key = RenderBundleKey{UsesIBO: m.geometry.UsesIBO(), GeometryLayoutKey: uint32(m.geometry.Layout().Key)}
			}
			s.bundles.insert(key, RenderBundleItem{
				LocalToWorld: s.entities.transform[p.entity],
				Geometry:     m.geometry,
				Material:     m.material,
				EntityID:     p.entity,
			})
		case meshRemoved:
			s.bundles.remove(p.entity)
		case transformChanged:
			s.bundles.setTransform(p.entity, s.entities.transform[p.entity])
		}
	}
	return nil
}

// Bundles exposes the current render bundles map to a render backend
// (spec.md §4.4 Stage 2 step 3).
func (s *RenderScene) Bundles() map[RenderBundleKey][]RenderBundleItem {
	return s.bundles.Snapshot()
}

// FrameCamera is the data a render backend needs to draw one frame: the
// camera's projection matrix and its six world-space frustum planes. The
// view matrix is not carried separately; it is folded into the frustum.
type FrameCamera struct {
	Projection linear.M4
	Frustum    linear.Frustum
}

// SelectCamera derives the current render camera from the first entity
// in the camera view. An empty camera view is a fatal misconfiguration
// for this frame (spec.md §4.4: "if empty, it is a fatal
// misconfiguration for this frame").
func (s *RenderScene) SelectCamera() FrameCamera {
	if len(s.entities.cameraView) == 0 {
		panicx.Panic(panicx.ContractViolation, "renderscene: no camera entity for this frame")
	}
	e := s.entities.cameraView[0]
	c := s.entities.camera[e]
	return FrameCamera{Projection: c.projection, Frustum: c.frustum}
}
