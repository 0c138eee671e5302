// Copyright 2024 The Vesper Authors. All rights reserved.

package cache

import "github.com/vesper3d/vesper/resdata"

// SkinPayload is the staged snapshot of a Skin's joint/inverse-bind
// matrices, packed for upload into a per-instance joint-matrix buffer.
type SkinPayload struct {
	Joint       [][4][4]float32
	InverseBind [][4][4]float32
	ParentIndex []int
	OriginalIdx []int
}

// SkinUploader creates/updates/destroys the GPU-side joint-matrix
// buffer backing a Skin.
type SkinUploader interface {
	UploadSkin(s *resdata.Skin, payload SkinPayload)
	DeleteSkin(s *resdata.Skin)
}

type skinUploaderAdapter struct {
	u SkinUploader
}

func (a skinUploaderAdapter) Upload(r *resdata.Skin, payload any) {
	a.u.UploadSkin(r, payload.(SkinPayload))
}

func (a skinUploaderAdapter) Delete(r *resdata.Skin) {
	a.u.DeleteSkin(r)
}

// SkinCache bridges resdata.Skin resources to their GPU-side joint
// buffers, on the same generic cache.Cache used for geometry, texture,
// material and sampler — spec.md's common cache contract (§4.3)
// generalizes cleanly to the supplemented skinning feature.
type SkinCache struct {
	*Cache[*resdata.Skin]
}

// NewSkinCache creates a skin cache backed by uploader.
func NewSkinCache(uploader SkinUploader) *SkinCache {
	snap := func(s *resdata.Skin) any {
		n := s.Len()
		p := SkinPayload{
			Joint:       make([][4][4]float32, n),
			InverseBind: make([][4][4]float32, n),
			ParentIndex: make([]int, n),
			OriginalIdx: make([]int, n),
		}
		for i := 0; i < n; i++ {
			jm, ibm := s.JointMatrix(i), s.InverseBindMatrix(i)
			for col := 0; col < 4; col++ {
				for row := 0; row < 4; row++ {
					p.Joint[i][col][row] = jm[col][row]
					p.InverseBind[i][col][row] = ibm[col][row]
				}
			}
			p.ParentIndex[i] = s.ParentIndex(i)
			p.OriginalIdx[i] = s.OriginalIndex(i)
		}
		return p
	}
	return &SkinCache{New[*resdata.Skin](snap, skinUploaderAdapter{uploader})}
}
