// Copyright 2024 The Vesper Authors. All rights reserved.

package reference

import (
	"github.com/vesper3d/vesper/cache"
	"github.com/vesper3d/vesper/driver"
	"github.com/vesper3d/vesper/resdata"
)

// samplerStore owns one driver.Sampler per resdata.Sampler. resdata's
// MinFilter/MagFilter/WrapS/WrapT are declared backend-defined ints
// (spec.md §3.3); this backend interprets them as driver.Filter/
// driver.AddrMode ordinals directly, since both enumerations are small
// and dense and this is the only backend in the module.
type samplerStore struct {
	gpu      driver.GPU
	samplers map[*resdata.Sampler]driver.Sampler
}

func newSamplerStore(gpu driver.GPU) *samplerStore {
	return &samplerStore{gpu: gpu, samplers: make(map[*resdata.Sampler]driver.Sampler)}
}

// UploadSampler implements cache.SamplerUploader.
func (s *samplerStore) UploadSampler(r *resdata.Sampler, payload cache.SamplerPayload) {
	if old, ok := s.samplers[r]; ok {
		old.Destroy()
	}
	splr, err := s.gpu.NewSampler(&driver.Sampling{
		Min:    driver.Filter(payload.MinFilter),
		Mag:    driver.Filter(payload.MagFilter),
		Mipmap: driver.FNoMipmap,
		AddrU:  driver.AddrMode(payload.WrapS),
		AddrV:  driver.AddrMode(payload.WrapT),
		AddrW:  driver.AClamp,
		MaxLOD: 0,
	})
	if err != nil {
		return
	}
	s.samplers[r] = splr
}

// DeleteSampler implements cache.SamplerUploader.
func (s *samplerStore) DeleteSampler(r *resdata.Sampler) {
	if splr, ok := s.samplers[r]; ok {
		splr.Destroy()
		delete(s.samplers, r)
	}
}

func (s *samplerStore) free() {
	for _, splr := range s.samplers {
		splr.Destroy()
	}
}
