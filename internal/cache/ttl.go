// Package cache provides small in-process TTL stores used to reduce load on
// the upstream stats provider. Entries expire lazily on read; refresh is a
// plain overwrite, so concurrent refreshes of the same key race benignly.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Store is a TTL-bounded key/value cache with an injectable clock.
type Store[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry[V]
}

// New creates a store whose entries expire ttl after being set. A nil clock
// defaults to time.Now.
func New[V any](ttl time.Duration, now func() time.Time) *Store[V] {
	if now == nil {
		now = time.Now
	}
	return &Store[V]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key, or false if absent or expired.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || s.now().Sub(e.fetchedAt) > s.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, restarting its TTL.
func (s *Store[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[V]{value: value, fetchedAt: s.now()}
}

// Invalidate drops the entry for key if present.
func (s *Store[V]) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len returns the number of entries, expired ones included.
func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
