// Package prefs is a small observable value: readers take snapshots,
// writers replace the value, and subscribers are told that it changed.
package prefs

import (
	"sync"
)

// Store holds a value of type T and notifies subscribers on every Set.
type Store[T any] struct {
	mu        sync.RWMutex
	value     T
	nextID    uint64
	listeners map[uint64]func()
	order     []uint64
}

// New returns a store holding initial.
func New[T any](initial T) *Store[T] {
	return &Store[T]{
		value:     initial,
		listeners: make(map[uint64]func()),
	}
}

// Snapshot returns the current value.
func (s *Store[T]) Snapshot() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and calls every subscriber registered before the call.
func (s *Store[T]) Set(value T) {
	s.Update(func(T) T { return value })
}

// Update applies fn to the current value under the write lock, then notifies.
func (s *Store[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	s.value = fn(s.value)
	next := s.value
	listeners := make([]func(), 0, len(s.order))
	for _, id := range s.order {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l()
	}
	return next
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is safe to call more than once.
func (s *Store[T]) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers returns the number of active subscribers.
func (s *Store[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}
