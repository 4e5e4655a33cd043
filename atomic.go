package hotstream

import (
	"sync"
)

// Atomic is a mutex-guarded value of an arbitrary state type, suitable
// for the shared cross-subscription state of multi-input combinators.
//
// The zero Atomic holds the zero value of S and is ready for use.
type Atomic[S any] struct {
	value S
	mu    sync.Mutex
}

// NewAtomic returns an [Atomic] holding initial.
func NewAtomic[S any](initial S) *Atomic[S] {
	return &Atomic[S]{value: initial}
}

// Load returns a snapshot of the held value.
func (x *Atomic[S]) Load() S {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.value
}

// Modify atomically replaces the held value with fn(old), returning the
// previous value. The fn runs under the cell's lock, and must not
// re-enter the cell.
func (x *Atomic[S]) Modify(fn func(old S) S) (old S) {
	x.mu.Lock()
	defer x.mu.Unlock()
	old = x.value
	x.value = fn(old)
	return old
}

// Store replaces the held value; sugar for a [Atomic.Modify] that
// ignores the previous value.
func (x *Atomic[S]) Store(value S) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.value = value
}
