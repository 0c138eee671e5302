// Copyright 2024 The Vesper Authors. All rights reserved.

// Package event implements a minimal one-shot-friendly multicast,
// grounded on original_source's zephyr::Event<Args...>. It backs the
// resource package's pre-destruct notification (spec.md §3.1/§4.1).
package event

import (
	"sync"

	"github.com/vesper3d/vesper/panicx"
)

// SubID identifies a subscription returned by [Event.Subscribe].
type SubID uint64

// Event is a multicast of handlers taking a single argument of type T.
// The zero value is ready to use. Event is safe for concurrent use.
type Event[T any] struct {
	mu     sync.Mutex
	nextID SubID
	subs   []subscription[T]
}

type subscription[T any] struct {
	id      SubID
	handler func(T)
}

// Subscribe registers handler and returns an id that can later be
// passed to [Event.Unsubscribe].
func (e *Event[T]) Subscribe(handler func(T)) SubID {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.nextID == ^SubID(0) {
		panicx.Panic(panicx.Overflow, "event: reached the maximum number of subscriptions")
	}
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription[T]{id: id, handler: handler})
	return id
}

// Unsubscribe removes the subscription identified by id, if present.
func (e *Event[T]) Unsubscribe(id SubID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

// Emit invokes every currently subscribed handler with arg, in
// subscription order. Emit does not itself clear subscriptions; callers
// that model a one-shot event (such as a pre-destruct notification)
// must do so explicitly, typically by discarding the Event afterwards.
func (e *Event[T]) Emit(arg T) {
	e.mu.Lock()
	subs := make([]subscription[T], len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()
	for _, s := range subs {
		s.handler(arg)
	}
}

// Len reports the number of active subscriptions.
func (e *Event[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

// Void is an Event carrying no payload, for call sites that only need
// notification of occurrence (the common case for pre-destruct hooks).
type Void = Event[struct{}]
