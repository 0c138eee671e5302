// Copyright 2024 The Vesper Authors. All rights reserved.

package scenegraph

import (
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/panicx"
)

// SceneGraph owns a distinguished root node and maintains the patch log
// and dirty-transform queue described by spec.md §3.5.
type SceneGraph struct {
	root *Node

	patches []Patch
	dirty   []*Node
}

// New creates a SceneGraph whose root is visible and attached to the
// graph from the start (so that any node later attached under it, or
// under one of its descendants, is automatically considered part of
// this graph — mirroring original_source's SceneGraph owning the root
// SceneNode outright).
func New() *SceneGraph {
	g := &SceneGraph{root: NewNode("root")}
	g.root.graph = g
	return g
}

// Root returns the graph's distinguished root node.
func (g *SceneGraph) Root() *Node { return g.root }

// DrainPatches returns the patches accumulated since the last call and
// clears the log, matching spec.md §3.5's "patch log ... consumed each
// frame" / §4.4 Stage 1's "consume the scene graph's patch log in
// order." Patches are returned in emission (FIFO) order.
func (g *SceneGraph) DrainPatches() []Patch {
	p := g.patches
	g.patches = nil
	return p
}

func (g *SceneGraph) emit(p Patch) { g.patches = append(g.patches, p) }

func (g *SceneGraph) queueDirty(n *Node) {
	g.dirty = append(g.dirty, n)
}

// Attach makes child a new immediate descendant of parent. If child was
// already attached elsewhere, it is first detached (emitting NodeRemoved
// for its previously-world-visible descendants). parent must belong to
// this graph or be unattached; attaching under a node that is not part
// of this graph does not join child to this graph (spec.md §4.2: graph
// membership is inherited from the parent's own membership, not forced).
func (g *SceneGraph) Attach(child, parent *Node) {
	if parent == nil {
		panicx.Panic(panicx.ContractViolation, "scenegraph: Attach with nil parent")
	}
	if child.parent != nil {
		g.Detach(child)
	}
	parent.children = append(parent.children, child)
	child.parent = parent

	if parent.graph == nil {
		return
	}
	parentWorldVisible := parent.worldVisible
	g.propagateGraph(child, parent.graph, parentWorldVisible, true)
}

// propagateGraph walks n's subtree in pre-order, assigning graph
// membership and recomputing the world-visibility cache. When emitMount
// is true it emits NodeMounted for every node whose world visibility
// ends up true, preserving the spec's pre-order, ancestors-first
// ordering.
func (g *SceneGraph) propagateGraph(n *Node, graph *SceneGraph, parentWorldVisible bool, emitMount bool) {
	n.graph = graph
	n.worldVisible = n.localVisible && parentWorldVisible
	if emitMount && n.worldVisible {
		g.emit(Patch{Kind: NodeMounted, Node: n})
	}
	for _, c := range n.children {
		g.propagateGraph(c, graph, n.worldVisible, emitMount)
	}
}

// Detach removes node from its parent. It must currently have a parent.
// NodeRemoved is emitted for node and every world-visible descendant,
// in pre-order, before the node is unlinked; the dirty-transform queue
// is purged of affected nodes (spec.md §4.2).
func (g *SceneGraph) Detach(node *Node) {
	if node.parent == nil {
		panicx.Panic(panicx.ContractViolation, "scenegraph: Detach on a node with no parent")
	}
	if node.graph != nil {
		g.emitRemovedSubtree(node)
		g.purgeDirty(node)
	}

	siblings := node.parent.children
	for i, s := range siblings {
		if s == node {
			node.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	node.parent = nil
	g.clearGraphSubtree(node)
}

func (g *SceneGraph) emitRemovedSubtree(n *Node) {
	if n.worldVisible {
		g.emit(Patch{Kind: NodeRemoved, Node: n})
	}
	for _, c := range n.children {
		g.emitRemovedSubtree(c)
	}
}

func (g *SceneGraph) clearGraphSubtree(n *Node) {
	n.graph = nil
	n.worldVisible = false
	for _, c := range n.children {
		g.clearGraphSubtree(c)
	}
}

func (g *SceneGraph) purgeDirty(n *Node) {
	filtered := g.dirty[:0]
	removed := make(map[*Node]bool)
	g.collectSubtree(n, removed)
	for _, d := range g.dirty {
		if !removed[d] {
			filtered = append(filtered, d)
		} else {
			d.dirty = false
		}
	}
	g.dirty = filtered
}

func (g *SceneGraph) collectSubtree(n *Node, out map[*Node]bool) {
	out[n] = true
	for _, c := range n.children {
		g.collectSubtree(c, out)
	}
}

// SetVisible sets node's local visibility flag. If this changes node's
// world visibility (bounded by the parent's own world visibility — a
// node under an invisible ancestor has no cascade to emit, spec.md
// Property 3), NodeMounted/NodeRemoved patches are emitted for node and
// every descendant whose world visibility consequently flips, in
// pre-order.
func (g *SceneGraph) SetVisible(node *Node, visible bool) {
	if node.localVisible == visible {
		return
	}
	node.localVisible = visible

	parentWorldVisible := true
	if node.parent != nil {
		parentWorldVisible = node.parent.worldVisible
	}
	if !parentWorldVisible || node.graph == nil {
		// Ancestor chain (or lack of graph) already forces world
		// visibility false; flipping the local flag changes nothing
		// observable, per Property 3.
		node.worldVisible = visible && parentWorldVisible
		return
	}
	g.cascadeVisibility(node, parentWorldVisible)
}

func (g *SceneGraph) cascadeVisibility(n *Node, parentWorldVisible bool) {
	newWV := n.localVisible && parentWorldVisible
	if newWV != n.worldVisible {
		n.worldVisible = newWV
		if newWV {
			g.emit(Patch{Kind: NodeMounted, Node: n})
		} else {
			g.emit(Patch{Kind: NodeRemoved, Node: n})
		}
	}
	for _, c := range n.children {
		g.cascadeVisibility(c, n.worldVisible)
	}
}

// UpdateTransforms recomputes local = TRS and world = parent_world *
// local for every node reachable from the root whose local matrix was
// mutated since the last call, or whose ancestor's world matrix
// changed, in tree order; it then emits NodeTransformChanged for each
// world-visible node that was recomputed (spec.md §4.2). The traversal
// itself follows gviegas-neo3/node/node.go's Graph.Update: an explicit
// stack in place of recursion, carrying (node, parentWorld,
// ancestorChanged) triples.
func (g *SceneGraph) UpdateTransforms() {
	type frame struct {
		n               *Node
		parentWorld     linear.M4
		ancestorChanged bool
	}
	var id linear.M4
	id.I()
	stack := []frame{{n: g.root, parentWorld: id, ancestorChanged: false}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		changed := f.n.dirty || f.ancestorChanged
		if changed {
			if f.n.dirty {
				f.n.transform.updateLocal()
				f.n.dirty = false
			}
			f.n.transform.world.Mul(&f.parentWorld, &f.n.transform.local)
			if f.n.worldVisible {
				g.emit(Patch{Kind: NodeTransformChanged, Node: f.n})
			}
		}
		for _, c := range f.n.children {
			stack = append(stack, frame{n: c, parentWorld: f.n.transform.world, ancestorChanged: changed})
		}
	}
	g.dirty = g.dirty[:0]
}
