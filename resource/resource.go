// Copyright 2024 The Vesper Authors. All rights reserved.

// Package resource implements the Resource primitive common to every
// CPU-side cacheable artifact in the engine (spec.md §3.1/§4.1):
// geometries, textures, materials, samplers and skins all embed a
// Resource to obtain a version counter, identity, and a pre-destruct
// notification used by the caches in package cache.
//
// Grounded on original_source/zephyr/renderer/include/zephyr/renderer/
// resource.hpp (version counter) and zephyr/common/include/zephyr/
// event.hpp (the subscription mechanism, via package event).
package resource

import (
	"math"
	"sync/atomic"

	"github.com/vesper3d/vesper/event"
	"github.com/vesper3d/vesper/panicx"
)

// Resource is embedded by every cacheable CPU-side artifact. The zero
// value is ready to use. Resource must not be copied after first use;
// embedders should be referenced through a pointer, matching the
// non-copyable/non-movable contract of spec.md §3.1.
type Resource struct {
	_ noCopy

	version atomic.Uint64
	destr   event.Void
}

// noCopy makes `go vet` flag accidental copies of a Resource.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// CurrentVersion returns the resource's version counter.
func (r *Resource) CurrentVersion() uint64 { return r.version.Load() }

// MarkDirty increments the version counter by exactly one. It panics
// (spec.md §7, Overflow) if the counter is already at its maximum value.
func (r *Resource) MarkDirty() {
	for {
		v := r.version.Load()
		if v == math.MaxUint64 {
			panicx.Panic(panicx.Overflow, "resource: version counter overflow")
		}
		if r.version.CompareAndSwap(v, v+1) {
			return
		}
	}
}

// OnBeforeDestruct returns the subscription list that caches use to
// schedule GPU eviction. Subscribe before releasing the last reference;
// Destruct below invokes every subscriber exactly once.
func (r *Resource) OnBeforeDestruct() *event.Void { return &r.destr }

// Destruct fires every pre-destruct subscriber exactly once, in
// subscription order, then clears the subscription list so that the
// subscription ids become invalid (matching the C++ source's
// under-the-destructor semantics). Embedders call this from their own
// Free/Release method, once, when the last external reference is
// dropped; calling it more than once is a caller bug and is not
// defended against, matching the single-ownership assumption spec.md
// §3.1 states ("non-copyable and non-movable once referenced").
func (r *Resource) Destruct() {
	r.destr.Emit(struct{}{})
	r.destr = event.Void{}
}
