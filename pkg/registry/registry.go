// Package registry manages named schemas backed by a SchemaStore.
//
// The registry is the write path for schemas: Save compiles the source
// before persisting it, so the store never holds a schema that does not
// compile. Reads are served from a per-process cache of compiled rule
// trees, filled lazily and invalidated by Save and Delete on the same
// instance. When several instances share one store, an instance picks
// up a replaced schema on its next cache miss.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oneconfig/oneconfig/internal/keylock"
	"github.com/oneconfig/oneconfig/internal/logging"
	"github.com/oneconfig/oneconfig/pkg/adapters/yamldoc"
	"github.com/oneconfig/oneconfig/pkg/document"
	"github.com/oneconfig/oneconfig/pkg/ports"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

// ErrInvalidSchema wraps parse and compile failures from Save, so
// callers can tell a bad schema apart from a failing store.
var ErrInvalidSchema = errors.New("invalid schema")

// Registry keeps named schemas in a store and caches their compiled form.
type Registry struct {
	store  ports.SchemaStore
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]schema.Node

	// names serializes store writes and cache updates per schema, so a
	// pair of concurrent Saves cannot leave the cache holding one
	// version while the store holds the other.
	names *keylock.Locker
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger replaces the default no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a registry over the given store.
func New(store ports.SchemaStore, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		logger: logging.NewNop(),
		cache:  make(map[string]schema.Node),
		names:  keylock.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save compiles src, which must be a YAML schema document, and persists
// it under name. A source that fails to compile is rejected before it
// reaches the store.
func (r *Registry) Save(ctx context.Context, name string, src []byte) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidSchema)
	}
	doc, err := yamldoc.Decode(src)
	if err != nil {
		return fmt.Errorf("%w: failed to parse schema %q: %w", ErrInvalidSchema, name, err)
	}
	node, err := schema.Compile(doc)
	if err != nil {
		return fmt.Errorf("%w: failed to compile schema %q: %w", ErrInvalidSchema, name, err)
	}

	err = r.names.Do(name, func() error {
		if err := r.store.Save(ctx, name, src); err != nil {
			return fmt.Errorf("failed to save schema %q: %w", name, err)
		}
		r.mu.Lock()
		r.cache[name] = node
		r.mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("schema saved", "schema", name, "bytes", len(src))
	return nil
}

// Schema returns the compiled rule tree for name, loading and compiling
// it on the first request.
func (r *Registry) Schema(ctx context.Context, name string) (schema.Node, error) {
	r.mu.RLock()
	node, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return node, nil
	}

	err := r.names.Do(name, func() error {
		// Another request may have filled the cache while this one
		// waited for the lock.
		r.mu.RLock()
		cached, ok := r.cache[name]
		r.mu.RUnlock()
		if ok {
			node = cached
			return nil
		}

		src, err := r.store.Load(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to load schema %q: %w", name, err)
		}
		doc, err := yamldoc.Decode(src)
		if err != nil {
			return fmt.Errorf("failed to parse stored schema %q: %w", name, err)
		}
		node, err = schema.Compile(doc)
		if err != nil {
			return fmt.Errorf("failed to compile stored schema %q: %w", name, err)
		}

		r.mu.Lock()
		r.cache[name] = node
		r.mu.Unlock()

		r.logger.Debug("schema compiled", "schema", name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// Source returns the stored source bytes for name. It reads through to
// the store so the caller sees exactly what is persisted.
func (r *Registry) Source(ctx context.Context, name string) ([]byte, error) {
	return r.store.Load(ctx, name)
}

// Delete removes the schema from the store and evicts its cache entry.
func (r *Registry) Delete(ctx context.Context, name string) error {
	err := r.names.Do(name, func() error {
		err := r.store.Delete(ctx, name)
		if err != nil && !errors.Is(err, ports.ErrSchemaNotFound) {
			return err
		}
		// Evict even when the store had nothing; the cache must never
		// outlive the stored source.
		r.mu.Lock()
		delete(r.cache, name)
		r.mu.Unlock()
		return err
	})
	if err == nil {
		r.logger.Debug("schema deleted", "schema", name)
	}
	return err
}

// List returns the names of all stored schemas in lexicographic order.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	return r.store.List(ctx)
}

// Validate checks doc against the named schema.
func (r *Registry) Validate(ctx context.Context, name string, doc document.Value, opts ...schema.Option) (*schema.Result, error) {
	node, err := r.Schema(ctx, name)
	if err != nil {
		return nil, err
	}
	return schema.Validate(node, doc, opts...), nil
}
