// Copyright 2024 The Vesper Authors. All rights reserved.

// Package dynarray implements the dynamic GPU array allocator of
// spec.md §3.9/§4.6, grounded on original_source/zephyr/renderer/src/
// backend/opengl/dynamic_gpu_array.{hpp,cpp}. It is a first-fit
// allocator over an explicit free-range list, growing by a fixed
// capacity increment and coalescing adjacent ranges on release. The
// GPU buffer itself is supplied by the backend through the Grower
// interface; this package only manages the element-range bookkeeping.
package dynarray

import (
	"sort"

	"github.com/vesper3d/vesper/panicx"
)

// CapacityIncrement is the fixed element-count increment the array
// grows by when no free range satisfies a request (spec.md §3.9:
// "grows by a fixed 16384-element capacity increment").
const CapacityIncrement = 16384

// Range is a half-open range of elements [Base, Base+Count).
type Range struct {
	Base  int
	Count int
}

// Grower is implemented by the backend's concrete GPU buffer: Grow must
// resize the backing store to newCapacity elements, preserving the
// first oldCapacity elements (a GPU-to-GPU copy in a real backend).
type Grower interface {
	Grow(oldCapacity, newCapacity int)
}

// Array tracks allocated/free element ranges for one fixed-stride GPU
// buffer. The zero value is an empty array with zero capacity; use New
// to start with a non-zero capacity.
type Array struct {
	stride   int
	capacity int
	free     []Range // sorted by Base, no two adjacent
	grower   Grower
}

// New returns an Array with the given per-element byte stride and
// initial capacity (in elements), backed by g for growth.
func New(stride, initialCapacity int, g Grower) *Array {
	a := &Array{stride: stride, grower: g}
	if initialCapacity > 0 {
		a.capacity = initialCapacity
		a.free = []Range{{Base: 0, Count: initialCapacity}}
	}
	return a
}

// Stride returns the fixed per-element byte stride.
func (a *Array) Stride() int { return a.stride }

// Capacity returns the current element capacity of the backing buffer.
func (a *Array) Capacity() int { return a.capacity }

// FreeRanges returns a copy of the current free list, sorted by base
// element, for inspection (tests, Property 7).
func (a *Array) FreeRanges() []Range {
	out := make([]Range, len(a.free))
	copy(out, a.free)
	return out
}

// lastFreeCount returns the element count of the free list's last
// range when that range ends at the current capacity (so the grown
// tail merges with it), or 0 if the free list is empty or its last
// range is not at the tail. original_source's
// AllocateRange calls m_free_buffer_ranges.back() unconditionally in
// its grow-required-capacity formula, which is undefined behavior in
// C++ when the free list is empty (e.g. a pool allocated exactly full);
// this function is the defensive Go equivalent, and treating the
// missing range as count 0 reproduces Scenario S4's numbers exactly.
func (a *Array) lastFreeCount() int {
	if len(a.free) == 0 {
		return 0
	}
	last := a.free[len(a.free)-1]
	if last.Base+last.Count != a.capacity {
		return 0
	}
	return last.Count
}

// Allocate reserves n contiguous elements and returns their base
// element. It picks the first free range that fits (first-fit); if
// none does, it grows the backing buffer by a multiple of
// CapacityIncrement sufficient to satisfy the request, then retries.
func (a *Array) Allocate(n int) int {
	if n <= 0 {
		panicx.Panic(panicx.ContractViolation, "dynarray: allocate of non-positive count %d", n)
	}
	if base, ok := a.tryAllocate(n); ok {
		return base
	}
	a.grow(n)
	base, ok := a.tryAllocate(n)
	if !ok {
		panicx.Unreachable()
	}
	return base
}

func (a *Array) tryAllocate(n int) (int, bool) {
	for i, r := range a.free {
		if r.Count >= n {
			base := r.Base
			if r.Count == n {
				a.free = append(a.free[:i], a.free[i+1:]...)
			} else {
				a.free[i] = Range{Base: r.Base + n, Count: r.Count - n}
			}
			return base, true
		}
	}
	return 0, false
}

func (a *Array) grow(n int) {
	required := a.capacity + n - a.lastFreeCount()
	if required < 0 {
		required = 0
	}
	rounded := ((required + CapacityIncrement - 1) / CapacityIncrement) * CapacityIncrement
	if rounded <= a.capacity {
		rounded = a.capacity + CapacityIncrement
	}
	oldCapacity := a.capacity
	if a.grower != nil {
		a.grower.Grow(oldCapacity, rounded)
	}
	added := Range{Base: oldCapacity, Count: rounded - oldCapacity}
	a.capacity = rounded
	a.insertFree(added)
}

// Release returns the range back to the free list, coalescing with its
// right neighbor then its left neighbor (spec.md §3.9: "release
// coalesces with left/right neighbors", in that order per
// original_source's ReleaseRange).
func (a *Array) Release(r Range) {
	a.insertFree(r)
}

func (a *Array) insertFree(r Range) {
	i := sort.Search(len(a.free), func(i int) bool { return a.free[i].Base >= r.Base })
	a.free = append(a.free, Range{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = r

	// Coalesce with right neighbor.
	if i+1 < len(a.free) && a.free[i].Base+a.free[i].Count == a.free[i+1].Base {
		a.free[i].Count += a.free[i+1].Count
		a.free = append(a.free[:i+1], a.free[i+2:]...)
	}
	// Coalesce with left neighbor.
	if i > 0 && a.free[i-1].Base+a.free[i-1].Count == a.free[i].Base {
		a.free[i-1].Count += a.free[i].Count
		a.free = append(a.free[:i], a.free[i+1:]...)
	}
}

// ByteOffset returns the byte offset of element base within the
// backing buffer, given the array's fixed stride.
func (a *Array) ByteOffset(base int) int { return base * a.stride }

// CheckWrite validates that writing count elements starting at base
// stays within the buffer's current capacity, panicking (Protocol)
// otherwise (spec.md §7: "out-of-bounds dynamic-GPU-array write").
func (a *Array) CheckWrite(base, count int) {
	if base < 0 || count < 0 || base+count > a.capacity {
		panicx.Panic(panicx.Protocol, "dynarray: out-of-range write base=%d count=%d capacity=%d", base, count, a.capacity)
	}
}
