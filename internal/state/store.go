// Package state provides small in-memory keyed stores. All per-user and
// per-guild mutable state in the bot lives in these stores so that
// read-modify-write sequences for one key never interleave.
package state

import "sync"

// Store is a thread-safe map whose values are mutated under a per-key lock.
// Concurrent operations on different keys proceed independently; operations
// on the same key are serialized.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]*entry[V]
}

type entry[V any] struct {
	mu    sync.Mutex
	value V
	live  bool
	// dead marks an entry detached from the map by a delete. Goroutines
	// that were already queued on mu must not use it; they retry against
	// the map so same-key work stays serialized on the live entry.
	dead bool
}

// NewStore creates an empty Store.
func NewStore[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		entries: make(map[K]*entry[V]),
	}
}

// Get returns the current value for key and whether it exists.
func (s *Store[K, V]) Get(key K) (V, bool) {
	for {
		s.mu.RLock()
		e, exists := s.entries[key]
		s.mu.RUnlock()

		if !exists {
			var zero V
			return zero, false
		}

		e.mu.Lock()
		if e.dead {
			e.mu.Unlock()
			continue
		}
		value, live := e.value, e.live
		e.mu.Unlock()

		if !live {
			var zero V
			return zero, false
		}
		return value, true
	}
}

// Set stores value under key, creating the entry if needed.
func (s *Store[K, V]) Set(key K, value V) {
	e := s.lockEntry(key)
	e.value = value
	e.live = true
	e.mu.Unlock()
}

// Delete removes the value for key. The entry itself is dropped so the map
// does not grow without bound.
func (s *Store[K, V]) Delete(key K) {
	e := s.lockEntry(key)
	defer e.mu.Unlock()
	s.detach(key, e)
}

// Do runs fn under key's lock. fn receives the current value (zero if
// absent) and whether it existed, and returns the value to keep plus a flag;
// returning keep=false deletes the entry. No other goroutine can observe or
// mutate the key's value while fn runs.
func (s *Store[K, V]) Do(key K, fn func(value V, exists bool) (V, bool)) {
	e := s.lockEntry(key)
	defer e.mu.Unlock()

	next, keep := fn(e.value, e.live)
	if keep {
		e.value = next
		e.live = true
		return
	}
	s.detach(key, e)
}

// lockEntry returns the map's current entry for key with its lock held. A
// goroutine that was queued on an entry a delete detached in the meantime
// finds it dead and retries, landing on whatever entry now owns the key.
func (s *Store[K, V]) lockEntry(key K) *entry[V] {
	for {
		e := s.acquire(key)
		e.mu.Lock()
		if !e.dead {
			return e
		}
		e.mu.Unlock()
	}
}

// detach removes e from the map and marks it dead. Caller must hold e.mu.
func (s *Store[K, V]) detach(key K, e *entry[V]) {
	var zero V
	e.value = zero
	e.live = false
	e.dead = true

	s.mu.Lock()
	// Only remove the entry if it is still ours; a concurrent acquire may
	// have replaced it after a previous delete.
	if current, exists := s.entries[key]; exists && current == e {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

// Len reports the number of live entries.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// acquire returns the entry for key, creating it if missing.
func (s *Store[K, V]) acquire(key K) *entry[V] {
	s.mu.RLock()
	e, exists := s.entries[key]
	s.mu.RUnlock()
	if exists {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists = s.entries[key]; exists {
		return e
	}
	e = &entry[V]{}
	s.entries[key] = e
	return e
}
