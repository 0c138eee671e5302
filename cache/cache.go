// Copyright 2024 The Vesper Authors. All rights reserved.

// Package cache implements the generic ref-counted, version-tracked
// bridge between CPU-side resdata resources and their GPU-side
// counterparts (spec.md §4.3), grounded on
// original_source/zephyr/renderer/include/zephyr/renderer/engine/
// texture_cache.hpp's per-cache state-table design and on
// gviegas-neo3/engine/storage.go's mutex-guarded map idiom.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vesper3d/vesper/event"
	"github.com/vesper3d/vesper/panicx"
)

// Resource is the minimal contract a cacheable CPU-side resource must
// satisfy (spec.md §4.1).
type Resource interface {
	comparable
	CurrentVersion() uint64
	OnBeforeDestruct() *event.Void
}

// state is a cache's per-resource bookkeeping entry (spec.md §4.3).
type state struct {
	uploaded    bool
	version     uint64
	refCount    int
	destructSub event.SubID
}

// Snapshotter copies a resource's CPU-side bytes into an opaque payload
// suitable for staged upload. Called on the game thread.
type Snapshotter[R Resource] func(r R) any

// Uploader applies staged payloads and deletions to GPU-side state.
// Called on the render thread.
type Uploader[R Resource] interface {
	Upload(r R, payload any)
	Delete(r R)
}

type uploadTask[R Resource] struct {
	resource R
	payload  any
}

type deleteTask[R Resource] struct {
	resource R
}

// Cache is a generic geometry/texture/material/sampler/skin cache
// implementing the common contract of spec.md §4.3: a state table keyed
// by resource identity, a used set, an upload task queue, and a
// two-frame delete-task ring.
type Cache[R Resource] struct {
	mu sync.Mutex

	state map[R]*state
	used  map[R]struct{}

	uploads []uploadTask[R]
	// deletes[0] is the next-frame list (being filled by destruct
	// callbacks right now); deletes[1] is this-frame's list (rotated
	// into place by QueueTasks, consumed by ProcessQueued).
	deletes [2][]deleteTask[R]

	snapshot Snapshotter[R]
	uploader Uploader[R]
}

// New creates an empty cache. snapshot copies a resource's bytes for
// staging; uploader applies staged uploads/deletes on the render
// thread.
func New[R Resource](snapshot Snapshotter[R], uploader Uploader[R]) *Cache[R] {
	return &Cache[R]{
		state:    make(map[R]*state),
		used:     make(map[R]struct{}),
		snapshot: snapshot,
		uploader: uploader,
	}
}

// Acquire increments r's reference count (game thread). A 0→1
// transition inserts r into the used set and subscribes to its
// pre-destruct event: when the resource is destructed, a delete task is
// pushed onto the next-frame list and r's state entry is erased
// (spec.md §4.3).
func (c *Cache[R]) Acquire(r R) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.state[r]
	if !ok {
		st = &state{}
		c.state[r] = st
	}
	st.refCount++
	if st.refCount == 1 {
		c.used[r] = struct{}{}
		st.destructSub = r.OnBeforeDestruct().Subscribe(func(struct{}) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.deletes[0] = append(c.deletes[0], deleteTask[R]{resource: r})
			delete(c.state, r)
			delete(c.used, r)
		})
	}
}

// Release decrements r's reference count (game thread). A 1→0
// transition removes r from the used set. Releasing a resource with no
// outstanding acquisitions is a ref-count underflow, which is fatal
// (spec.md §7 Invariant).
func (c *Cache[R]) Release(r R) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.state[r]
	if !ok || st.refCount == 0 {
		panicx.Panic(panicx.Invariant, "cache: ref-count underflow")
	}
	st.refCount--
	if st.refCount == 0 {
		delete(c.used, r)
	}
}

// QueueTasks snapshots every used resource whose version has changed
// (or that has never been uploaded) into a freshly staged payload, and
// rotates the delete-task lists (spec.md §4.3: "game thread, end of
// Stage 1").
func (c *Cache[R]) QueueTasks() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for r := range c.used {
		st := c.state[r]
		v := r.CurrentVersion()
		if !st.uploaded || st.version != v {
			c.uploads = append(c.uploads, uploadTask[R]{resource: r, payload: c.snapshot(r)})
			st.uploaded = true
			st.version = v
		}
	}
	c.deletes[1], c.deletes[0] = c.deletes[0], nil
}

// ProcessQueued runs the render-thread Stage 2 execution order (spec.md
// §4.3): process delete tasks, then process upload tasks. Uploader
// implementations (e.g. backend/reference) mutate shared, unguarded
// state keyed by resource identity, so tasks within each phase are
// applied on a single goroutine via errgroup.SetLimit(1) rather than
// fanned out freely — concurrent map writes there would be a runtime
// fatal, not just a race.
func (c *Cache[R]) ProcessQueued(ctx context.Context) error {
	c.mu.Lock()
	deletes := c.deletes[1]
	c.deletes[1] = nil
	uploads := c.uploads
	c.uploads = nil
	c.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(1)
	for _, d := range deletes {
		d := d
		g.Go(func() error {
			c.uploader.Delete(d.resource)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	g, _ = errgroup.WithContext(ctx)
	g.SetLimit(1)
	for _, u := range uploads {
		u := u
		g.Go(func() error {
			c.uploader.Upload(u.resource, u.payload)
			return nil
		})
	}
	return g.Wait()
}

// Len reports the number of resources currently tracked (used or
// awaiting destruct-driven cleanup), for diagnostics and tests.
func (c *Cache[R]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.state)
}

// UsedLen reports the number of currently referenced resources.
func (c *Cache[R]) UsedLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.used)
}
