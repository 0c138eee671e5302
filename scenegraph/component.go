// Copyright 2024 The Vesper Authors. All rights reserved.

package scenegraph

import "github.com/vesper3d/vesper/panicx"

// AddComponent mounts component c of type T on n. At most one
// component per type is allowed; mounting a second is fatal (spec.md
// §7 Invariant: "duplicate component"). A ComponentMounted patch is
// emitted iff n is currently world-visible (spec.md §4.2).
func AddComponent[T any](n *Node, c T) {
	t := componentType[T]()
	if _, exists := n.components[t]; exists {
		panicx.Panic(panicx.Invariant, "scenegraph: duplicate component %v on node %q", t, n.Name)
	}
	n.components[t] = c
	if n.graph != nil && n.worldVisible {
		n.graph.emit(Patch{Kind: ComponentMounted, Node: n, Component: t})
	}
}

// RemoveComponent unmounts the component of type T from n. Removing an
// absent component is fatal. A ComponentRemoved patch is emitted iff n
// is currently world-visible.
func RemoveComponent[T any](n *Node) {
	t := componentType[T]()
	if _, exists := n.components[t]; !exists {
		panicx.Panic(panicx.Invariant, "scenegraph: removing absent component %v from node %q", t, n.Name)
	}
	delete(n.components, t)
	if n.graph != nil && n.worldVisible {
		n.graph.emit(Patch{Kind: ComponentRemoved, Node: n, Component: t})
	}
}
