// Package mailbox provides a single slot channel: publishing overwrites the
// held value and peeking never consumes it.
package mailbox

import "sync"

// Mailbox holds at most one value of type T. The zero value is an empty
// mailbox ready to use.
type Mailbox[T any] struct {
	lock  sync.RWMutex
	value T
	full  bool
	seq   uint64
}

// New returns an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{}
}

// Publish replaces the held value. It never blocks on readers.
func (m *Mailbox[T]) Publish(v T) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.value = v
	m.full = true
	m.seq++
}

// Peek returns the held value without removing it. ok is false until the
// first Publish, or after Clear.
func (m *Mailbox[T]) Peek() (v T, ok bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.value, m.full
}

// Seq returns the number of values published so far.
func (m *Mailbox[T]) Seq() uint64 {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.seq
}

// Clear drains the slot.
func (m *Mailbox[T]) Clear() {
	m.lock.Lock()
	defer m.lock.Unlock()
	var zero T
	m.value = zero
	m.full = false
}
