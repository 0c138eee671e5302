// Copyright 2024 The Vesper Authors. All rights reserved.

package linear

import "github.com/chewxy/math32"

// ComposeTRS sets m to the local transform matrix for the given
// translation, unit-quaternion rotation and non-uniform scale, i.e.
// m = T * R * S (spec.md §3.5: "local = TRS").
func ComposeTRS(translation *V3, rotation *Q, scale *V3) M4 {
	var r M4
	rotation.Mat(&r)
	var m M4
	for i := 0; i < 3; i++ {
		m[0][i] = r[0][i] * scale[0]
		m[1][i] = r[1][i] * scale[1]
		m[2][i] = r[2][i] * scale[2]
	}
	m[0][3], m[1][3], m[2][3] = 0, 0, 0
	m[3] = V4{translation[0], translation[1], translation[2], 1}
	return m
}

// Perspective returns a right-handed perspective projection matrix with
// the given vertical field of view (radians), aspect ratio and near/far
// planes, suitable for populating RenderCamera.Projection.
func Perspective(fovy, aspect, near, far float32) M4 {
	f := 1 / math32.Tan(fovy/2)
	var m M4
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = (far + near) / (near - far)
	m[2][3] = -1
	m[3][2] = (2 * far * near) / (near - far)
	return m
}
