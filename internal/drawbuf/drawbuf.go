// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package drawbuf hands snapshots from a producing goroutine to a consuming
// one through three slots.
//
// The producer fills a snapshot it owns and publishes it; the consumer
// takes the newest published snapshot at the start of each tick. Neither
// side waits for the other. When nothing new was published the consumer
// keeps the snapshot it already holds, so a slow producer makes the
// consumer repeat content rather than skip it.
//
// Slots are only ever swapped under the buffer's mutex; values are never
// copied or mutated inside it.
package drawbuf

import "sync"

// Slot names the three roles of Buffer.
type Slot int

const (
	// Active is owned by the consumer between Consume calls.
	Active Slot = iota

	// Pending holds the newest published snapshot not yet consumed.
	Pending

	// Staging receives the next snapshot before it is published.
	Staging

	slotCount
)

// String returns the slot's role name.
func (s Slot) String() string {
	switch s {
	case Active:
		return "active"
	case Pending:
		return "pending"
	case Staging:
		return "staging"
	default:
		return "unknown"
	}
}

type slot[T any] struct {
	value T
	valid bool
}

// Buffer is a triple buffer of T. The zero value is ready to use and has no
// valid slot.
//
// Values should be independently owned snapshots: once published, the
// producer must not modify them, and a value returned by Consume stays
// valid for the consumer until its next Consume call.
type Buffer[T any] struct {
	mu    sync.Mutex
	slots [slotCount]slot[T]
}

// Publish stores v in the staging slot, marks it valid and swaps it with
// the pending slot. A pending snapshot the consumer never took ends up in
// staging and is dropped.
func (b *Buffer[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.slots[Staging] = slot[T]{value: v, valid: true}
	b.swap(Staging, Pending)
	b.slots[Staging] = slot[T]{}
}

// Consume moves a valid pending snapshot into the active slot and returns
// the active slot. If nothing was published since the last call the active
// slot is returned unchanged. ok is false until a snapshot has been
// published.
func (b *Buffer[T]) Consume() (v T, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.slots[Pending].valid {
		b.swap(Pending, Active)
		b.slots[Pending] = slot[T]{}
	}
	a := b.slots[Active]
	return a.value, a.valid
}

// Reset drops every snapshot.
func (b *Buffer[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.slots = [slotCount]slot[T]{}
}

// Valid reports whether slot s holds a valid snapshot.
func (b *Buffer[T]) Valid(s Slot) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.slots[s].valid
}

func (b *Buffer[T]) swap(x, y Slot) {
	b.slots[x], b.slots[y] = b.slots[y], b.slots[x]
}
