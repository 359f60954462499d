package state

import (
	"sync"
	"time"
)

// TTLMap provides a thread-safe map with expiring entries. Used for caches
// whose staleness is acceptable, such as per-guild role snapshots.
type TTLMap[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]ttlEntry[V]
	ttl  time.Duration
}

type ttlEntry[V any] struct {
	value    V
	deadline time.Time
}

// NewTTLMap creates a new TTLMap with the specified TTL duration.
func NewTTLMap[K comparable, V any](ttl time.Duration) *TTLMap[K, V] {
	m := &TTLMap[K, V]{
		data: make(map[K]ttlEntry[V]),
		ttl:  ttl,
	}

	go m.cleanup()

	return m
}

// Get retrieves a value from the map.
// Returns the value and whether it exists/is valid.
func (m *TTLMap[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, exists := m.data[key]
	if !exists || time.Now().After(e.deadline) {
		var zero V
		return zero, false
	}

	return e.value, true
}

// Set adds or updates a value in the map.
func (m *TTLMap[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = ttlEntry[V]{value: value, deadline: time.Now().Add(m.ttl)}
}

// Delete removes a key from the map.
func (m *TTLMap[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
}

// cleanup periodically removes expired entries.
func (m *TTLMap[K, V]) cleanup() {
	ticker := time.NewTicker(m.ttl)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		now := time.Now()
		for key, e := range m.data {
			if now.After(e.deadline) {
				delete(m.data, key)
			}
		}
		m.mu.Unlock()
	}
}
