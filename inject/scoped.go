package inject

import (
	"sync"
	"sync/atomic"
)

// Scoped caches the value of a scoped binding on a graph instance.
//
// The zero value is ready to use. Generated code first calls Load, builds the dependencies
// of the value without holding any lock, then calls Store with the constructor call only.
type Scoped[T any] struct {
	mu    sync.Mutex
	done  atomic.Bool
	value T
}

// Load returns the cached value, if it was already published.
func (s *Scoped[T]) Load() (T, bool) {
	if s.done.Load() {
		return s.value, true
	}
	var zero T
	return zero, false
}

// Store calls build unless another caller already published a value, and returns the published value.
// When build panics nothing is published, the next caller tries again.
func (s *Scoped[T]) Store(build func() T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	// now that we have the lock, check if the value was built while we were waiting
	if s.done.Load() {
		return s.value
	}

	s.value = build()
	s.done.Store(true)
	return s.value
}
