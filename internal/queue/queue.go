// Package queue provides the lock-free transport between the capture
// callback and the replay thread.
package queue

import "sync/atomic"

// DefaultCapacity bounds queue memory; saturated publishes drop the
// newest sample rather than block the capture callback.
const DefaultCapacity = 32

// Ring is a bounded single-producer/single-consumer ring buffer.
//
// Exactly one goroutine may call Publish and exactly one may call
// Consume. The producer writes the slot payload before storing the
// advanced tail index; the consumer loads the tail index before reading
// the payload. Go's sync/atomic loads and stores are sequentially
// consistent, which covers the release/acquire pairing the slot
// handoff requires.
//
// One slot is always kept empty so head == tail means empty and
// (tail+1) % capacity == head means full with only two indices.
type Ring[T any] struct {
	slots []T

	// head and tail sit on separate cache lines to keep the producer
	// and consumer from invalidating each other's line on every event.
	head atomic.Uint32
	_    [60]byte
	tail atomic.Uint32
	_    [60]byte
}

// New creates a ring holding at most capacity-1 items. Capacities
// below 2 are raised to DefaultCapacity.
func New[T any](capacity int) *Ring[T] {
	if capacity < 2 {
		capacity = DefaultCapacity
	}
	return &Ring[T]{slots: make([]T, capacity)}
}

// Publish makes v visible to the consumer in FIFO order. It returns
// false without side effects when the ring is full. Producer-side only.
func (r *Ring[T]) Publish(v T) bool {
	tail := r.tail.Load()
	next := (tail + 1) % uint32(len(r.slots))
	if next == r.head.Load() {
		return false
	}
	r.slots[tail] = v
	r.tail.Store(next)
	return true
}

// Consume removes and returns the oldest unconsumed item. The second
// result is false when the ring is empty. Consumer-side only.
func (r *Ring[T]) Consume() (T, bool) {
	head := r.head.Load()
	if head == r.tail.Load() {
		var zero T
		return zero, false
	}
	v := r.slots[head]
	r.head.Store((head + 1) % uint32(len(r.slots)))
	return v, true
}

// Empty reports whether the ring currently holds no items. Advisory
// under concurrent use: the answer can be stale by the time it returns.
func (r *Ring[T]) Empty() bool {
	return r.head.Load() == r.tail.Load()
}

// Cap returns the number of items the ring can hold at once.
func (r *Ring[T]) Cap() int {
	return len(r.slots) - 1
}
