// Package middleware provides composable wrappers for ports.SchemaStore.
//
// A Middleware takes a store and returns a store, so cross-cutting
// concerns (encryption at rest, operation logging) stack without the
// adapters knowing about each other:
//
//	store := filestore.New(dir)
//	wrapped := middleware.NewEncryptionMiddleware(cfg)(store)
//	wrapped = middleware.NewLoggingMiddleware(logger)(wrapped)
package middleware

import (
	"github.com/oneconfig/oneconfig/pkg/ports"
)

// Middleware wraps a SchemaStore with additional behavior.
type Middleware func(ports.SchemaStore) ports.SchemaStore
