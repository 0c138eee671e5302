// Copyright 2024 The Vesper Authors. All rights reserved.

package reference

import (
	"github.com/vesper3d/vesper/backend"
	"github.com/vesper3d/vesper/cache"
	"github.com/vesper3d/vesper/driver"
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/resdata"
)

// nframe is the number of frame-in-flight command buffers the
// reference backend keeps, mirroring engine/renderer.go's NFrame
// double/triple-buffering constant.
const nframe = 2

// Reference is the reference implementation of backend.Backend
// (spec.md §4.6), grounded on gviegas-neo3's driver-backed engine
// package but built against the generalized resdata/cache/renderscene
// types instead of the teacher's fixed Mesh/Material/Light model.
//
// It also implements cache.GeometryUploader, cache.TextureUploader,
// cache.MaterialUploader and cache.SamplerUploader directly, so the
// same value can be passed to cache.NewGeometryCache/NewTextureCache/
// NewMaterialCache/NewSamplerCache: the backend is both the render
// engine's draw target and the caches' upload destination.
type Reference struct {
	drv driver.Driver
	gpu driver.GPU

	geom *geometryStore
	tex  *textureStore
	mat  *materialStore
	splr *samplerStore

	geomHandles map[*resdata.Geometry]backend.GeometryHandle
	texHandles  map[*resdata.Texture]backend.TextureHandle

	frame   int
	frameCB [nframe]driver.CmdBuffer

	target   *Target
	pipeline driver.Pipeline
	clear    []driver.ClearValue

	lastDrawList []drawItem
}

// New opens the first registered driver whose name contains
// driverName (the empty string matches any driver) and returns a
// Reference bound to it. Call InitializeContext before using it as a
// backend.Backend.
func New(driverName string) (*Reference, error) {
	drv, gpu, err := openDriver(driverName)
	if err != nil {
		return nil, err
	}
	return &Reference{
		drv:         drv,
		gpu:         gpu,
		geomHandles: make(map[*resdata.Geometry]backend.GeometryHandle),
		texHandles:  make(map[*resdata.Texture]backend.TextureHandle),
	}, nil
}

// InitializeContext implements backend.Backend.
func (r *Reference) InitializeContext() error {
	r.geom = newGeometryStore(r.gpu)
	r.tex = newTextureStore(r.gpu)
	r.mat = newMaterialStore(r.gpu)
	r.splr = newSamplerStore(r.gpu)
	for i := range r.frameCB {
		cb, err := r.gpu.NewCmdBuffer()
		if err != nil {
			r.DestroyContext()
			return err
		}
		r.frameCB[i] = cb
	}
	return nil
}

// DestroyContext implements backend.Backend.
func (r *Reference) DestroyContext() {
	if r.geom != nil {
		r.geom.free()
		r.geom = nil
	}
	if r.tex != nil {
		r.tex.free()
		r.tex = nil
	}
	if r.mat != nil {
		r.mat.free()
		r.mat = nil
	}
	if r.splr != nil {
		r.splr.free()
		r.splr = nil
	}
	for i, cb := range r.frameCB {
		if cb != nil {
			cb.Destroy()
			r.frameCB[i] = nil
		}
	}
	r.drv.Close()
}

// SetTarget wires the render target and pipeline Render records draws
// into (spec.md §6: pipeline/shader setup is a concrete GPU API binding
// concern, left to the caller — see target.go and DESIGN.md). Until
// this is called, Render still runs the CPU draw-list builder but
// performs no GPU submission.
func (r *Reference) SetTarget(target *Target, pipeline driver.Pipeline, clear []driver.ClearValue) {
	r.target, r.pipeline, r.clear = target, pipeline, clear
}

// CreateRenderGeometry implements backend.Backend.
func (r *Reference) CreateRenderGeometry(layoutKey uint32, nVertices, nIndices int) backend.GeometryHandle {
	return r.geom.create(layoutKey, nVertices, nIndices)
}

// UpdateRenderGeometryVertices implements backend.Backend.
func (r *Reference) UpdateRenderGeometryVertices(h backend.GeometryHandle, vertex []float32) {
	r.geom.updateVertices(h, vertex)
}

// UpdateRenderGeometryIndices implements backend.Backend.
func (r *Reference) UpdateRenderGeometryIndices(h backend.GeometryHandle, index []uint32) {
	r.geom.updateIndices(h, index)
}

// UpdateRenderGeometryAABB implements backend.Backend.
func (r *Reference) UpdateRenderGeometryAABB(h backend.GeometryHandle, box linear.AABB) {
	r.geom.updateAABB(h, box)
}

// DestroyRenderGeometry implements backend.Backend.
func (r *Reference) DestroyRenderGeometry(h backend.GeometryHandle) {
	r.geom.destroy(h)
}

// CreateRenderTexture implements backend.Backend.
func (r *Reference) CreateRenderTexture(width, height int) backend.TextureHandle {
	return r.tex.create(width, height)
}

// UpdateRenderTextureData implements backend.Backend.
func (r *Reference) UpdateRenderTextureData(h backend.TextureHandle, faces [][]byte) {
	r.tex.update(h, faces)
}

// DestroyRenderTexture implements backend.Backend.
func (r *Reference) DestroyRenderTexture(h backend.TextureHandle) {
	r.tex.destroy(h)
}

// UploadGeometry implements cache.GeometryUploader, bridging a
// resdata.Geometry's staged bytes to a backend.GeometryHandle,
// creating it on first upload (spec.md §4.3 step 1/§4.6).
func (r *Reference) UploadGeometry(g *resdata.Geometry, payload cache.GeometryPayload) {
	h, ok := r.geomHandles[g]
	if !ok {
		h = r.CreateRenderGeometry(uint32(g.Layout().Key), g.VertexCount(), len(payload.Index))
		r.geomHandles[g] = h
	}
	r.UpdateRenderGeometryVertices(h, payload.Vertex)
	if len(payload.Index) > 0 {
		r.UpdateRenderGeometryIndices(h, payload.Index)
	}
	r.UpdateRenderGeometryAABB(h, payload.AABB)
}

// DeleteGeometry implements cache.GeometryUploader.
func (r *Reference) DeleteGeometry(g *resdata.Geometry) {
	if h, ok := r.geomHandles[g]; ok {
		r.DestroyRenderGeometry(h)
		delete(r.geomHandles, g)
	}
}

// UploadTexture implements cache.TextureUploader.
func (r *Reference) UploadTexture(t *resdata.Texture, payload cache.TexturePayload) {
	h, ok := r.texHandles[t]
	if !ok {
		if payload.Cube {
			h = r.tex.createCube(payload.Width)
		} else {
			h = r.CreateRenderTexture(payload.Width, payload.Height)
		}
		r.texHandles[t] = h
	}
	r.UpdateRenderTextureData(h, payload.Faces)
}

// DeleteTexture implements cache.TextureUploader.
func (r *Reference) DeleteTexture(t *resdata.Texture) {
	if h, ok := r.texHandles[t]; ok {
		r.DestroyRenderTexture(h)
		delete(r.texHandles, t)
	}
}

// UploadMaterial implements cache.MaterialUploader by delegating to
// the material uniform-buffer store.
func (r *Reference) UploadMaterial(m *resdata.Material, payload cache.MaterialPayload) {
	r.mat.UploadMaterial(m, payload)
}

// DeleteMaterial implements cache.MaterialUploader.
func (r *Reference) DeleteMaterial(m *resdata.Material) { r.mat.DeleteMaterial(m) }

// UploadSampler implements cache.SamplerUploader by delegating to the
// sampler store.
func (r *Reference) UploadSampler(s *resdata.Sampler, payload cache.SamplerPayload) {
	r.splr.UploadSampler(s, payload)
}

// DeleteSampler implements cache.SamplerUploader.
func (r *Reference) DeleteSampler(s *resdata.Sampler) { r.splr.DeleteSampler(s) }

var _ backend.Backend = (*Reference)(nil)
