package ports

import (
	"context"
	"errors"
)

// ErrSchemaNotFound is returned when a schema name cannot be found in the store.
var ErrSchemaNotFound = errors.New("schema not found")

// SchemaStore defines the interface for persisting schema sources.
// Stores hold the raw source bytes, not compiled rule trees; compilation
// stays with the caller so every backend remains a plain byte store.
type SchemaStore interface {
	// Save persists the schema source under the given name, replacing any
	// previous version.
	Save(ctx context.Context, name string, src []byte) error

	// Load retrieves the schema source for a given name.
	// Returns ErrSchemaNotFound if the schema does not exist.
	Load(ctx context.Context, name string) ([]byte, error)

	// Delete removes the schema for a given name.
	// Returns ErrSchemaNotFound if the schema does not exist.
	Delete(ctx context.Context, name string) error

	// List returns all stored schema names in lexicographic order.
	List(ctx context.Context) ([]string, error)
}
