// Copyright 2024 The Vesper Authors. All rights reserved.

package cache

import "github.com/vesper3d/vesper/resdata"

// MaterialPayload is the staged snapshot of a Material's uniform
// buffer bytes (spec.md §4.3).
type MaterialPayload struct {
	Uniforms []byte
}

// MaterialUploader creates/updates/destroys the GPU-side uniform buffer
// backing a Material.
type MaterialUploader interface {
	UploadMaterial(m *resdata.Material, payload MaterialPayload)
	DeleteMaterial(m *resdata.Material)
}

type materialUploaderAdapter struct {
	u MaterialUploader
}

func (a materialUploaderAdapter) Upload(r *resdata.Material, payload any) {
	a.u.UploadMaterial(r, payload.(MaterialPayload))
}

func (a materialUploaderAdapter) Delete(r *resdata.Material) {
	a.u.DeleteMaterial(r)
}

// MaterialCache bridges resdata.Material resources to their GPU-side
// uniform buffers. Its bound textures are acquired/released through a
// TextureCache rather than uploaded by MaterialCache itself (spec.md
// §4.4 Stage 2 step 1: "material cache processes via texture cache") —
// the render engine drives MaterialCache.ProcessQueued immediately
// after the texture cache's, so a material's texture dependencies are
// always current by the time its own uniform buffer is applied.
type MaterialCache struct {
	*Cache[*resdata.Material]
	textures *TextureCache
}

// NewMaterialCache creates a material cache backed by uploader, bound
// to the textures cache that mediates its texture-slot references.
func NewMaterialCache(uploader MaterialUploader, textures *TextureCache) *MaterialCache {
	snap := func(m *resdata.Material) any {
		b := make([]byte, len(m.UniformBytes()))
		copy(b, m.UniformBytes())
		return MaterialPayload{Uniforms: b}
	}
	return &MaterialCache{
		Cache:    New[*resdata.Material](snap, materialUploaderAdapter{uploader}),
		textures: textures,
	}
}

// AcquireTextures acquires every non-nil texture referenced by m's
// texture slots, keeping them resident for as long as m is in use.
func (c *MaterialCache) AcquireTextures(m *resdata.Material, slots []string) {
	for _, slot := range slots {
		if ref := m.Texture(slot); ref.Texture != nil {
			c.textures.Acquire(ref.Texture)
		}
	}
}

// ReleaseTextures is the inverse of AcquireTextures.
func (c *MaterialCache) ReleaseTextures(m *resdata.Material, slots []string) {
	for _, slot := range slots {
		if ref := m.Texture(slot); ref.Texture != nil {
			c.textures.Release(ref.Texture)
		}
	}
}
