// Package memorystore implements ports.SchemaStore in memory.
package memorystore

import (
	"context"
	"sort"
	"sync"

	"github.com/oneconfig/oneconfig/pkg/ports"
)

// Store implements ports.SchemaStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save persists the schema source in memory.
func (s *Store) Save(ctx context.Context, name string, src []byte) error {
	// Copy so the caller can't mutate stored bytes afterwards.
	cp := make([]byte, len(src))
	copy(cp, src)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = cp
	return nil
}

// Load retrieves the schema source from memory.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.data[name]
	if !ok {
		return nil, ports.ErrSchemaNotFound
	}
	cp := make([]byte, len(src))
	copy(cp, src)
	return cp, nil
}

// Delete removes the schema from memory.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[name]; !ok {
		return ports.ErrSchemaNotFound
	}
	delete(s.data, name)
	return nil
}

// List returns all stored schema names in lexicographic order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
