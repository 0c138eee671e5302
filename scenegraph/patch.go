// Copyright 2024 The Vesper Authors. All rights reserved.

package scenegraph

import "reflect"

// PatchKind discriminates the variants of ScenePatch (spec.md §3.6).
type PatchKind int

const (
	NodeMounted PatchKind = iota
	NodeRemoved
	ComponentMounted
	ComponentRemoved
	NodeTransformChanged
)

func (k PatchKind) String() string {
	switch k {
	case NodeMounted:
		return "NodeMounted"
	case NodeRemoved:
		return "NodeRemoved"
	case ComponentMounted:
		return "ComponentMounted"
	case ComponentRemoved:
		return "ComponentRemoved"
	case NodeTransformChanged:
		return "NodeTransformChanged"
	default:
		return "unknown"
	}
}

// Patch is one entry of the scene graph's patch log: a discriminated
// value over the variants in spec.md §3.6. Component is only set for
// ComponentMounted/ComponentRemoved.
type Patch struct {
	Kind      PatchKind
	Node      *Node
	Component reflect.Type
}
