// Copyright 2024 The Vesper Authors. All rights reserved.

package reference

import (
	"github.com/vesper3d/vesper/cache"
	"github.com/vesper3d/vesper/driver"
	"github.com/vesper3d/vesper/resdata"
)

// materialStore owns one host-visible uniform driver.Buffer per
// resdata.Material, sized exactly to that material's uniform block
// (materials are created once and rarely resized, unlike geometry's
// vertex/index streams, so this skips dynarray's range allocator in
// favor of one buffer per resource — grounded on the same
// host-visible-Buffer.Bytes() write idiom as bufferPool, minus the
// growth bookkeeping it doesn't need).
type materialStore struct {
	gpu  driver.GPU
	bufs map[*resdata.Material]driver.Buffer
}

func newMaterialStore(gpu driver.GPU) *materialStore {
	return &materialStore{gpu: gpu, bufs: make(map[*resdata.Material]driver.Buffer)}
}

// UploadMaterial implements cache.MaterialUploader.
func (s *materialStore) UploadMaterial(m *resdata.Material, payload cache.MaterialPayload) {
	buf, ok := s.bufs[m]
	if !ok || int64(len(payload.Uniforms)) > buf.Cap() {
		if ok {
			buf.Destroy()
		}
		var err error
		buf, err = s.gpu.NewBuffer(int64(len(payload.Uniforms)), true, driver.UShaderConst)
		if err != nil {
			return
		}
		s.bufs[m] = buf
	}
	copy(buf.Bytes(), payload.Uniforms)
}

// DeleteMaterial implements cache.MaterialUploader.
func (s *materialStore) DeleteMaterial(m *resdata.Material) {
	if buf, ok := s.bufs[m]; ok {
		buf.Destroy()
		delete(s.bufs, m)
	}
}

func (s *materialStore) free() {
	for _, buf := range s.bufs {
		buf.Destroy()
	}
}
