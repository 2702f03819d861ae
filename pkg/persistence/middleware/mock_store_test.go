package middleware_test

import (
	"context"
	"sort"
	"sync"

	"github.com/oneconfig/oneconfig/pkg/ports"
)

// mockStore is an in-memory SchemaStore used to observe exactly what
// the middleware under test hands to the layer below it.
type mockStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte)}
}

func (m *mockStore) Save(_ context.Context, name string, src []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = append([]byte(nil), src...)
	return nil
}

func (m *mockStore) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.data[name]
	if !ok {
		return nil, ports.ErrSchemaNotFound
	}
	return append([]byte(nil), src...), nil
}

func (m *mockStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[name]; !ok {
		return ports.ErrSchemaNotFound
	}
	delete(m.data, name)
	return nil
}

func (m *mockStore) List(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// raw returns the bytes exactly as the mock stored them, bypassing any
// middleware in front of it.
func (m *mockStore) raw(name string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[name]
}
