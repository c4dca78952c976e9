// Package store provides the property stores the loader merges resolved
// properties into. The in-memory store backs the CLI's stdout output; the
// Redis, Memcached, Postgres and MongoDB stores publish properties to shared
// backends for other processes to consume.
package store

import (
	"sync"

	"github.com/animalet/properties-go/internal/snapshot"
	"github.com/animalet/properties-go/pkg/properties"
)

// Store receives fully resolved properties.
type Store interface {
	// Merge writes all entries of m into the store, overwriting existing
	// keys. Entries not present in m are left untouched.
	Merge(m properties.Map) error

	// Name returns a human-readable name for this store (for logging/debugging)
	Name() string
}

// Memory is a thread-safe in-memory Store.
type Memory struct {
	mu     sync.RWMutex
	values properties.Map
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: properties.Map{}}
}

// Merge writes all entries of m into the store.
func (s *Memory) Merge(m properties.Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values.Merge(m)
	return nil
}

// Name returns the store name
func (s *Memory) Name() string {
	return "Memory"
}

// Get retrieves a single property.
func (s *Memory) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Snapshot returns an independent copy of the stored properties.
func (s *Memory) Snapshot() properties.Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot.StringMap(s.values)
}
