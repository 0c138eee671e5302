// Copyright 2024 The Vesper Authors. All rights reserved.

package scenegraph

import "github.com/vesper3d/vesper/linear"

// Transform owns a node's translation/rotation/scale and its cached
// local and world matrices (spec.md §3.5). Reading Local/World never
// recomputes; UpdateTransforms (graph.go) is what keeps them current,
// following node/node.go's Update() stack-based propagation pattern
// from the teacher repo, generalized from a dense array to the
// pointer-based SceneNode tree used here.
type Transform struct {
	translation linear.V3
	rotation    linear.Q
	scale       linear.V3
	local       linear.M4
	world       linear.M4
}

func newTransform() Transform {
	t := Transform{rotation: linear.QI(), scale: linear.V3{1, 1, 1}}
	t.local.I()
	t.world.I()
	return t
}

// Translation, Rotation and Scale return the transform's current
// components.
func (t *Transform) Translation() linear.V3 { return t.translation }
func (t *Transform) Rotation() linear.Q     { return t.rotation }
func (t *Transform) Scale() linear.V3       { return t.scale }

// Local and World return the transform's cached matrices, valid as of
// the last UpdateTransforms call that covered this node.
func (t *Transform) Local() linear.M4 { return t.local }
func (t *Transform) World() linear.M4 { return t.world }

func (t *Transform) updateLocal() {
	t.local = linear.ComposeTRS(&t.translation, &t.rotation, &t.scale)
}
