package ports_test

import (
	"context"
	"sort"
	"testing"

	"github.com/oneconfig/oneconfig/pkg/ports"
)

// mockStore is a minimal in-memory SchemaStore used to exercise the
// contract suite itself. Real adapters run the same suite.
type mockStore struct {
	data map[string][]byte
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string][]byte)}
}

func (m *mockStore) Save(ctx context.Context, name string, src []byte) error {
	cp := make([]byte, len(src))
	copy(cp, src)
	m.data[name] = cp
	return nil
}

func (m *mockStore) Load(ctx context.Context, name string) ([]byte, error) {
	src, ok := m.data[name]
	if !ok {
		return nil, ports.ErrSchemaNotFound
	}
	return src, nil
}

func (m *mockStore) Delete(ctx context.Context, name string) error {
	if _, ok := m.data[name]; !ok {
		return ports.ErrSchemaNotFound
	}
	delete(m.data, name)
	return nil
}

func (m *mockStore) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func TestSchemaStore_Contract(t *testing.T) {
	ports.RunSchemaStoreContract(t, newMockStore())
}
