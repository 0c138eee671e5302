// Copyright 2024 The Vesper Authors. All rights reserved.

package cache

import "github.com/vesper3d/vesper/resdata"

// TexturePayload is the staged snapshot of a Texture's CPU-side face
// data (spec.md §4.3).
type TexturePayload struct {
	Format     resdata.Format
	DataType   resdata.DataType
	ColorSpace resdata.ColorSpace
	Width      int
	Height     int
	Cube       bool
	Faces      [][]byte
}

// TextureUploader creates/updates/destroys the GPU-side counterpart of
// a Texture (spec.md §4.6: create_render_texture /
// update_render_texture_data / destroy_render_texture).
type TextureUploader interface {
	UploadTexture(t *resdata.Texture, payload TexturePayload)
	DeleteTexture(t *resdata.Texture)
}

type textureUploaderAdapter struct {
	u TextureUploader
}

func (a textureUploaderAdapter) Upload(r *resdata.Texture, payload any) {
	a.u.UploadTexture(r, payload.(TexturePayload))
}

func (a textureUploaderAdapter) Delete(r *resdata.Texture) {
	a.u.DeleteTexture(r)
}

// TextureCache bridges resdata.Texture resources to their GPU-side
// counterparts.
type TextureCache struct {
	*Cache[*resdata.Texture]
}

// NewTextureCache creates a texture cache backed by uploader.
func NewTextureCache(uploader TextureUploader) *TextureCache {
	snap := func(t *resdata.Texture) any {
		faces := make([][]byte, len(t.Faces))
		for i, f := range t.Faces {
			b := make([]byte, len(f))
			copy(b, f)
			faces[i] = b
		}
		return TexturePayload{
			Format: t.Format(), DataType: t.DataType(), ColorSpace: t.ColorSpace(),
			Width: t.Width(), Height: t.Height(), Cube: t.IsCube(),
			Faces: faces,
		}
	}
	return &TextureCache{New[*resdata.Texture](snap, textureUploaderAdapter{uploader})}
}

// SamplerPayload is the staged snapshot of a Sampler's CPU-side state.
type SamplerPayload struct {
	MinFilter, MagFilter int
	WrapS, WrapT         int
}

// SamplerUploader creates/updates/destroys the GPU-side counterpart of
// a Sampler.
type SamplerUploader interface {
	UploadSampler(s *resdata.Sampler, payload SamplerPayload)
	DeleteSampler(s *resdata.Sampler)
}

type samplerUploaderAdapter struct {
	u SamplerUploader
}

func (a samplerUploaderAdapter) Upload(r *resdata.Sampler, payload any) {
	a.u.UploadSampler(r, payload.(SamplerPayload))
}

func (a samplerUploaderAdapter) Delete(r *resdata.Sampler) {
	a.u.DeleteSampler(r)
}

// SamplerCache bridges resdata.Sampler resources to their GPU-side
// counterparts.
type SamplerCache struct {
	*Cache[*resdata.Sampler]
}

// NewSamplerCache creates a sampler cache backed by uploader.
func NewSamplerCache(uploader SamplerUploader) *SamplerCache {
	snap := func(s *resdata.Sampler) any {
		return SamplerPayload{
			MinFilter: s.MinFilter, MagFilter: s.MagFilter,
			WrapS: s.WrapS, WrapT: s.WrapT,
		}
	}
	return &SamplerCache{New[*resdata.Sampler](snap, samplerUploaderAdapter{uploader})}
}
