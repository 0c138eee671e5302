// Copyright 2024 The Vesper Authors. All rights reserved.

package reference

import (
	"encoding/binary"
	"math"

	"github.com/vesper3d/vesper/backend"
	"github.com/vesper3d/vesper/driver"
	"github.com/vesper3d/vesper/dynarray"
	"github.com/vesper3d/vesper/linear"
	"github.com/vesper3d/vesper/panicx"
)

// bufferPool is one dynarray.Array-managed, host-visible driver.Buffer
// of fixed per-element byte stride (spec.md §3.9/§4.6: "GPU-resident
// dynamic array allocator"). It implements dynarray.Grower by
// allocating a bigger buffer and copying the old bytes directly through
// Buffer.Bytes(), following engine/storage.go's meshBuffer, which
// likewise keeps its backing buffer host-visible rather than staging
// growth copies through the GPU.
type bufferPool struct {
	gpu   driver.GPU
	usage driver.Usage
	buf   driver.Buffer
	arr   *dynarray.Array
}

func newBufferPool(gpu driver.GPU, stride int, usage driver.Usage) *bufferPool {
	p := &bufferPool{gpu: gpu, usage: usage}
	p.arr = dynarray.New(stride, 0, p)
	return p
}

// Grow implements dynarray.Grower.
func (p *bufferPool) Grow(oldCapacity, newCapacity int) {
	stride := p.arr.Stride()
	buf, err := p.gpu.NewBuffer(int64(newCapacity*stride), true, p.usage)
	if err != nil {
		panicx.Panic(panicx.Invariant, "reference: failed to grow GPU buffer: %v", err)
	}
	if p.buf != nil {
		copy(buf.Bytes(), p.buf.Bytes()[:oldCapacity*stride])
		p.buf.Destroy()
	}
	p.buf = buf
}

func (p *bufferPool) writeAt(base, count int, data []byte) {
	p.arr.CheckWrite(base, count)
	off := p.arr.ByteOffset(base)
	copy(p.buf.Bytes()[off:], data)
}

func (p *bufferPool) destroy() {
	if p.buf != nil {
		p.buf.Destroy()
		p.buf = nil
	}
}

// geomEntry is the bookkeeping the reference backend keeps per
// backend.GeometryHandle.
type geomEntry struct {
	vbo           *bufferPool
	vStride       int // float32 components per vertex
	vBase, vCount int
	iBase, iCount int
	aabb          linear.AABB
}

// geometryStore owns every vertex-buffer pool (keyed by byte stride, one
// pool per distinct geometry layout) and the single shared index-buffer
// pool, plus the per-handle bookkeeping table.
type geometryStore struct {
	gpu     driver.GPU
	vbos    map[int]*bufferPool // keyed by vertex byte stride
	ibo     *bufferPool
	entries map[backend.GeometryHandle]*geomEntry
	next    backend.GeometryHandle
}

func newGeometryStore(gpu driver.GPU) *geometryStore {
	return &geometryStore{
		gpu:     gpu,
		vbos:    make(map[int]*bufferPool),
		ibo:     newBufferPool(gpu, 4, driver.UIndexData),
		entries: make(map[backend.GeometryHandle]*geomEntry),
	}
}

func (s *geometryStore) vboFor(stride int) *bufferPool {
	byteStride := stride * 4
	p, ok := s.vbos[byteStride]
	if !ok {
		p = newBufferPool(s.gpu, byteStride, driver.UVertexData)
		s.vbos[byteStride] = p
	}
	return p
}

// layoutStride returns the float32-component stride implied by a
// geometry layout key, mirroring resdata.Layout.Stride without an
// import cycle (resdata is a leaf package; importing it here is safe,
// but the bit math is small enough to keep local to avoid coupling the
// backend's wire format to resdata's attribute ordering).
func layoutStride(layoutKey uint32) int {
	const (
		position = 1 << iota
		normal
		uv
		color
	)
	n := 0
	if layoutKey&position != 0 {
		n += 3
	}
	if layoutKey&normal != 0 {
		n += 3
	}
	if layoutKey&uv != 0 {
		n += 2
	}
	if layoutKey&color != 0 {
		n += 4
	}
	return n
}

func (s *geometryStore) create(layoutKey uint32, nVertices, nIndices int) backend.GeometryHandle {
	stride := layoutStride(layoutKey)
	vbo := s.vboFor(stride)
	e := &geomEntry{vbo: vbo, vStride: stride}
	e.vBase = vbo.arr.Allocate(nVertices)
	e.vCount = nVertices
	if nIndices > 0 {
		e.iBase = s.ibo.arr.Allocate(nIndices)
		e.iCount = nIndices
	}
	h := s.next
	s.next++
	s.entries[h] = e
	return h
}

func float32Bytes(v []float32) []byte {
	b := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}

func uint32Bytes(v []uint32) []byte {
	b := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[i*4:], x)
	}
	return b
}

func (s *geometryStore) updateVertices(h backend.GeometryHandle, vertex []float32) {
	e := s.entries[h]
	e.vbo.writeAt(e.vBase, e.vCount, float32Bytes(vertex))
}

func (s *geometryStore) updateIndices(h backend.GeometryHandle, index []uint32) {
	e := s.entries[h]
	if e.iCount == 0 {
		panicx.Panic(panicx.ContractViolation, "reference: geometry %d was not created with an index buffer", h)
	}
	s.ibo.writeAt(e.iBase, e.iCount, uint32Bytes(index))
}

func (s *geometryStore) updateAABB(h backend.GeometryHandle, box linear.AABB) {
	s.entries[h].aabb = box
}

func (s *geometryStore) destroy(h backend.GeometryHandle) {
	e, ok := s.entries[h]
	if !ok {
		return
	}
	e.vbo.arr.Release(dynarray.Range{Base: e.vBase, Count: e.vCount})
	if e.iCount > 0 {
		s.ibo.arr.Release(dynarray.Range{Base: e.iBase, Count: e.iCount})
	}
	delete(s.entries, h)
}

func (s *geometryStore) free() {
	for _, p := range s.vbos {
		p.destroy()
	}
	s.ibo.destroy()
}
