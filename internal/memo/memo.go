// Package memo provides memo caches for pure functions.
//
// A Store maps keys to previously computed results. Entries are write-once:
// LoadOrStore never replaces a value that is already present, so a Store can
// only ever hold the first value computed for a key. Stores never evict.
//
// Two implementations are provided. Map is the cheap single-threaded variant.
// Shared is safe for concurrent use and gives atomic insert-if-absent
// semantics, so concurrent callers may compute the same entry twice but can
// never observe two different values for it.
package memo

import (
	"sync"
	"sync/atomic"
)

// Store is a write-once memo table.
type Store[K comparable, V any] interface {
	// Load returns the value stored for key, if any.
	Load(key K) (V, bool)
	// LoadOrStore returns the existing value for key if present. Otherwise it
	// stores value and returns it. loaded reports whether the value was
	// already present.
	LoadOrStore(key K, value V) (actual V, loaded bool)
	// Len returns the number of stored entries.
	Len() int
	// Stats returns a snapshot of the lookup counters.
	Stats() Stats
}

// Stats summarizes how effective a Store has been.
type Stats struct {
	Hits    uint64 // Load calls that found an entry
	Misses  uint64 // Load calls that did not
	Entries int
}

// HitRatio returns Hits / (Hits + Misses), or 0 when nothing was looked up.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Map is a single-threaded Store backed by a Go map.
// It must not be used from more than one goroutine at a time.
type Map[K comparable, V any] struct {
	entries map[K]V
	hits    uint64
	misses  uint64
}

// NewMap returns an empty Map.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{entries: make(map[K]V)}
}

// Load implements Store.
func (m *Map[K, V]) Load(key K) (V, bool) {
	v, ok := m.entries[key]
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	return v, ok
}

// LoadOrStore implements Store.
func (m *Map[K, V]) LoadOrStore(key K, value V) (V, bool) {
	if existing, ok := m.entries[key]; ok {
		return existing, true
	}
	m.entries[key] = value
	return value, false
}

// Len implements Store.
func (m *Map[K, V]) Len() int { return len(m.entries) }

// Stats implements Store.
func (m *Map[K, V]) Stats() Stats {
	return Stats{Hits: m.hits, Misses: m.misses, Entries: len(m.entries)}
}

// Shared is a Store that is safe for concurrent use.
type Shared[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewShared returns an empty Shared store.
func NewShared[K comparable, V any]() *Shared[K, V] {
	return &Shared[K, V]{entries: make(map[K]V)}
}

// Load implements Store.
func (s *Shared[K, V]) Load(key K) (V, bool) {
	s.mu.RLock()
	v, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return v, ok
}

// LoadOrStore implements Store. The check and the insert happen under one
// write lock.
func (s *Shared[K, V]) LoadOrStore(key K, value V) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.entries[key]; ok {
		return existing, true
	}
	s.entries[key] = value
	return value, false
}

// Len implements Store.
func (s *Shared[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats implements Store.
func (s *Shared[K, V]) Stats() Stats {
	return Stats{Hits: s.hits.Load(), Misses: s.misses.Load(), Entries: s.Len()}
}

var (
	_ Store[int, int] = (*Map[int, int])(nil)
	_ Store[int, int] = (*Shared[int, int])(nil)
)
