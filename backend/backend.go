// Copyright 2024 The Vesper Authors. All rights reserved.

// Package backend declares the render backend contract (spec.md §4.6):
// the bit-exact set of operations a backend must implement, kept
// deliberately separate from gviegas-neo3's lower-level driver package
// (which models a single GPU API binding) so that the core can be
// retargeted without touching render scene or render engine code.
// Grounded on original_source/zephyr/renderer/include/zephyr/renderer/
// backend/render_backend.hpp.
package backend

import (
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/renderscene"
)

// GeometryHandle identifies a backend-resident geometry allocation.
type GeometryHandle int

// TextureHandle identifies a backend-resident texture allocation.
type TextureHandle int

// Backend is the abstract interface a render backend must implement.
// Every method except InitializeContext/DestroyContext is called from
// the render thread only (spec.md §4.6).
type Backend interface {
	// InitializeContext and DestroyContext do not run on the render
	// thread: the host calls InitializeContext before building the
	// render engine, and renderengine.Engine.Shutdown calls
	// DestroyContext on the game thread after the render thread has
	// exited. DestroyContext is safe to call more than once.
	InitializeContext() error
	DestroyContext()

	CreateRenderGeometry(layoutKey uint32, nVertices, nIndices int) GeometryHandle
	UpdateRenderGeometryVertices(h GeometryHandle, vertex []float32)
	UpdateRenderGeometryIndices(h GeometryHandle, index []uint32)
	UpdateRenderGeometryAABB(h GeometryHandle, box linear.AABB)
	DestroyRenderGeometry(h GeometryHandle)

	CreateRenderTexture(width, height int) TextureHandle
	UpdateRenderTextureData(h TextureHandle, faces [][]byte)
	DestroyRenderTexture(h TextureHandle)

	// Render records and submits one frame's draws for the given
	// camera and bundles (spec.md §4.6's GPU-driven culling + indirect
	// multi-draw algorithm).
	Render(camera renderscene.FrameCamera, bundles map[renderscene.RenderBundleKey][]renderscene.RenderBundleItem)

	// SwapBuffers presents; it must acquire the next swapchain image on
	// entry of the following frame.
	SwapBuffers()
}
