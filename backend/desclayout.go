// Copyright 2024 The Vesper Authors. All rights reserved.

package backend

import "github.com/vesper3d/vesper/driver"

// Descriptor-table wiring (supplemented feature, see SPEC_FULL.md §3):
// the fixed set of driver.DescHeap shapes a reference backend needs,
// generalized from gviegas-neo3/engine/internal/shader/desc.go's
// hardcoded frame/drawable/material heaps to an arbitrary number of
// material texture slots, since resdata.MaterialShader declares its
// slot list at runtime rather than compile time.

func constantDescriptor(nr int) driver.Descriptor {
	return driver.Descriptor{Type: driver.DConstant, Stages: driver.SVertex | driver.SFragment, Nr: nr, Len: 1}
}

func textureDescriptor(nr int) driver.Descriptor {
	return driver.Descriptor{Type: driver.DTexture, Stages: driver.SFragment, Nr: nr, Len: 1}
}

func samplerDescriptor(nr int) driver.Descriptor {
	return driver.Descriptor{Type: driver.DSampler, Stages: driver.SFragment, Nr: nr, Len: 1}
}

// NewFrameDescHeap creates the per-frame descriptor heap: one constant
// buffer carrying the std140 RenderCamera block (projection, view,
// frustum planes).
func NewFrameDescHeap(gpu driver.GPU) (driver.DescHeap, error) {
	return gpu.NewDescHeap([]driver.Descriptor{constantDescriptor(0)})
}

// NewDrawableDescHeap creates the per-drawable descriptor heap: one
// constant buffer carrying a render bundle item's local_to_world
// matrix.
func NewDrawableDescHeap(gpu driver.GPU) (driver.DescHeap, error) {
	return gpu.NewDescHeap([]driver.Descriptor{constantDescriptor(0)})
}

// NewMaterialDescHeap creates a material descriptor heap sized for a
// shader with nTextureSlots declared texture slots: one constant
// descriptor for the material's std140 uniform block (nr 0), then one
// texture/sampler descriptor pair per slot, in declaration order.
func NewMaterialDescHeap(gpu driver.GPU, nTextureSlots int) (driver.DescHeap, error) {
	descs := make([]driver.Descriptor, 0, 1+2*nTextureSlots)
	descs = append(descs, constantDescriptor(0))
	for i := 0; i < nTextureSlots; i++ {
		descs = append(descs, textureDescriptor(1+i*2), samplerDescriptor(2+i*2))
	}
	return gpu.NewDescHeap(descs)
}

// NewSkinDescHeap creates the per-skin descriptor heap: one constant
// buffer carrying the joint matrix array (supplemented skinning
// feature).
func NewSkinDescHeap(gpu driver.GPU) (driver.DescHeap, error) {
	return gpu.NewDescHeap([]driver.Descriptor{constantDescriptor(0)})
}
