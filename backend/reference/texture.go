// Copyright 2024 The Vesper Authors. All rights reserved.

package reference

import (
	"github.com/vesper3d/vesper/backend"
	"github.com/vesper3d/vesper/driver"
	"github.com/vesper3d/vesper/panicx"
)

// texEntry is the bookkeeping the reference backend keeps per
// backend.TextureHandle.
type texEntry struct {
	img    driver.Image
	views  []driver.ImageView
	width  int
	height int
	cube   bool
}

// textureStore owns every backend.TextureHandle's driver.Image/
// driver.ImageView pair, plus the single staging buffer and command
// buffer used to move CPU bytes onto the GPU (spec.md §4.6: texture
// upload), grounded on engine/staging.go's stagingBuffer.copyToView,
// simplified to one synchronous copy per call instead of a pooled,
// batched staging ring.
type textureStore struct {
	gpu     driver.GPU
	cb      driver.CmdBuffer
	entries map[backend.TextureHandle]*texEntry
	next    backend.TextureHandle
}

func newTextureStore(gpu driver.GPU) *textureStore {
	cb, err := gpu.NewCmdBuffer()
	if err != nil {
		panicx.Panic(panicx.Invariant, "reference: failed to create staging command buffer: %v", err)
	}
	return &textureStore{gpu: gpu, cb: cb, entries: make(map[backend.TextureHandle]*texEntry)}
}

// textureFormat is the fixed GPU pixel format every reference-backend
// texture uses. backend.Backend's contract (spec.md §4.6) does not
// thread resdata.Format/DataType/ColorSpace through CreateRenderTexture,
// so a single uncompressed 8-bit RGBA unorm (non-sRGB) format is picked here;
// color-managed formats are a resdata-level (CPU-side) concern, not a
// reference-backend one.
const textureFormat = driver.RGBA8un

func (s *textureStore) create(width, height int) backend.TextureHandle {
	img, err := s.gpu.NewImage(textureFormat, driver.Dim3D{Width: width, Height: height, Depth: 1}, 1, 1, 1, driver.UShaderSample)
	if err != nil {
		panicx.Panic(panicx.Invariant, "reference: failed to create texture image: %v", err)
	}
	view, err := img.NewView(driver.IView2D, 0, 1, 0, 1)
	if err != nil {
		img.Destroy()
		panicx.Panic(panicx.Invariant, "reference: failed to create texture view: %v", err)
	}
	e := &texEntry{img: img, views: []driver.ImageView{view}, width: width, height: height}
	h := s.next
	s.next++
	s.entries[h] = e
	return h
}

// createCube mirrors create for a six-face cube texture. It is used by
// Reference.UploadTexture on the first upload of a texture whose
// payload is marked Cube (resdata.Texture.IsCube), since
// CreateRenderTexture's signature is shape-agnostic.
func (s *textureStore) createCube(size int) backend.TextureHandle {
	img, err := s.gpu.NewImage(textureFormat, driver.Dim3D{Width: size, Height: size, Depth: 1}, 6, 1, 1, driver.UShaderSample)
	if err != nil {
		panicx.Panic(panicx.Invariant, "reference: failed to create cube texture image: %v", err)
	}
	view, err := img.NewView(driver.IViewCube, 0, 6, 0, 1)
	if err != nil {
		img.Destroy()
		panicx.Panic(panicx.Invariant, "reference: failed to create cube texture view: %v", err)
	}
	e := &texEntry{img: img, views: []driver.ImageView{view}, width: size, height: size, cube: true}
	h := s.next
	s.next++
	s.entries[h] = e
	return h
}

// update stages faces into the GPU image and commits synchronously.
// faces holds one []byte per array layer (length 1 for a plain 2D
// texture, 6 for a cube map), tightly packed, matching
// resdata.Texture's own face byte layout.
func (s *textureStore) update(h backend.TextureHandle, faces [][]byte) {
	e, ok := s.entries[h]
	if !ok {
		panicx.Panic(panicx.ContractViolation, "reference: UpdateRenderTextureData on unknown texture handle %d", h)
	}

	total := 0
	for _, f := range faces {
		total += len(f)
	}
	staging, err := s.gpu.NewBuffer(int64(total), true, driver.UGeneric)
	if err != nil {
		panicx.Panic(panicx.Invariant, "reference: failed to allocate staging buffer: %v", err)
	}
	defer staging.Destroy()
	buf := staging.Bytes()
	off := int64(0)
	type pending struct {
		layer int
		off   int64
		size  int64
	}
	var copies []pending
	for i, f := range faces {
		copy(buf[off:], f)
		copies = append(copies, pending{layer: i, off: off, size: int64(len(f))})
		off += int64(len(f))
	}

	if err := s.cb.Begin(); err != nil {
		panicx.Panic(panicx.Invariant, "reference: failed to begin staging command buffer: %v", err)
	}
	s.cb.Transition([]driver.Transition{{
		Barrier:      driver.Barrier{SyncBefore: driver.SNone, SyncAfter: driver.SCopy, AccessBefore: driver.ANone, AccessAfter: driver.ACopyWrite},
		LayoutBefore: driver.LUndefined,
		LayoutAfter:  driver.LCopyDst,
		Img:          e.img,
		Layer:        0,
		Layers:       len(faces),
		Level:        0,
		Levels:       1,
	}})
	s.cb.BeginBlit(false)
	for _, c := range copies {
		s.cb.CopyBufToImg(&driver.BufImgCopy{
			Buf:    staging,
			BufOff: c.off,
			Stride: [2]int64{int64(e.width), int64(e.height)},
			Img:    e.img,
			ImgOff: driver.Off3D{},
			Layer:  c.layer,
			Level:  0,
			Size:   driver.Dim3D{Width: e.width, Height: e.height, Depth: 1},
		})
	}
	s.cb.EndBlit()
	s.cb.Transition([]driver.Transition{{
		Barrier:      driver.Barrier{SyncBefore: driver.SCopy, SyncAfter: driver.SFragmentShading, AccessBefore: driver.ACopyWrite, AccessAfter: driver.AShaderRead},
		LayoutBefore: driver.LCopyDst,
		LayoutAfter:  driver.LShaderRead,
		Img:          e.img,
		Layer:        0,
		Layers:       len(faces),
		Level:        0,
		Levels:       1,
	}})
	if err := s.cb.End(); err != nil {
		panicx.Panic(panicx.Invariant, "reference: failed to end staging command buffer: %v", err)
	}

	ch := make(chan error, 1)
	s.gpu.Commit([]driver.CmdBuffer{s.cb}, ch)
	if err := <-ch; err != nil {
		panicx.Panic(panicx.Invariant, "reference: staging upload failed: %v", err)
	}
	if err := s.cb.Reset(); err != nil {
		panicx.Panic(panicx.Invariant, "reference: failed to reset staging command buffer: %v", err)
	}
}

func (s *textureStore) destroy(h backend.TextureHandle) {
	e, ok := s.entries[h]
	if !ok {
		return
	}
	for _, v := range e.views {
		v.Destroy()
	}
	e.img.Destroy()
	delete(s.entries, h)
}

func (s *textureStore) free() {
	for h := range s.entries {
		s.destroy(h)
	}
	s.cb.Destroy()
}
