// Copyright 2024 The Vesper Authors. All rights reserved.

// Package renderengine owns the render thread and drives the
// double-semaphore producer/consumer handoff between the game thread
// and it (spec.md §4.5), grounded on original_source/zephyr/renderer/
// src/render_engine.cpp, with the channel-as-semaphore idiom following
// gviegas-neo3/engine/renderer.go's use of a buffered chan for
// thread-to-thread handoff.
package renderengine

// binarySemaphore is a classic Go binary semaphore: a channel of
// capacity 1, where a full channel represents an available permit.
// initial sets the starting permit count (0 or 1).
type binarySemaphore chan struct{}

func newBinarySemaphore(initial int) binarySemaphore {
	s := make(binarySemaphore, 1)
	if initial > 0 {
		s <- struct{}{}
	}
	return s
}

// acquire blocks until a permit is available, then consumes it.
func (s binarySemaphore) acquire() { <-s }

// release makes one permit available, non-blocking (the channel's
// capacity of 1 matches the binary semaphore's at-most-one-permit
// contract; callers must not release without a matching prior acquire
// path, exactly as the spec's semaphore pair is used).
func (s binarySemaphore) release() {
	select {
	case s <- struct{}{}:
	default:
	}
}
