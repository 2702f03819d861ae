// Package filestore implements ports.SchemaStore on the local filesystem.
package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oneconfig/oneconfig/pkg/ports"
)

const ext = ".yaml"

// Store implements ports.SchemaStore using the local filesystem.
// It stores schema sources as YAML files in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".oneconfig/schemas".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".oneconfig", "schemas")
	}
	return &Store{BasePath: basePath}
}

// validName rejects names that would escape the base directory. Schema
// names arrive from CLI flags and HTTP paths, so they are untrusted.
func validName(name string) error {
	if name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") || name != filepath.Base(name) {
		return fmt.Errorf("invalid schema name %q", name)
	}
	return nil
}

// Save persists the schema source to a YAML file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it
// to the destination.
func (s *Store) Save(ctx context.Context, name string, src []byte) error {
	if err := validName(name); err != nil {
		return err
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure schema directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, name+ext)

	// The temp file lives in the same directory so the rename stays on one
	// filesystem, which is what makes it atomic.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+name+"-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(src); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists, so clear it first. The
	// tiny delete-then-rename window beats serving a partially written file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing schema file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}
	return nil
}

// Load retrieves the schema source from its YAML file.
func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, name+ext))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrSchemaNotFound
		}
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return data, nil
}

// Delete removes the schema file.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.BasePath, name+ext))
	if err != nil {
		if os.IsNotExist(err) {
			return ports.ErrSchemaNotFound
		}
		return fmt.Errorf("failed to delete schema file: %w", err)
	}
	return nil
}

// List returns all stored schema names in lexicographic order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ext {
			continue
		}
		if strings.HasPrefix(entry.Name(), "tmp-") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}
