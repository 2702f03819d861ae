// Package cli holds the shared plumbing behind the oneconfig commands:
// store construction, flag parsing helpers and the multi-document
// validation loop.
package cli

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/oneconfig/oneconfig/pkg/adapters/filestore"
	"github.com/oneconfig/oneconfig/pkg/adapters/memorystore"
	"github.com/oneconfig/oneconfig/pkg/adapters/redisstore"
	"github.com/oneconfig/oneconfig/pkg/persistence/middleware"
	"github.com/oneconfig/oneconfig/pkg/ports"
)

// Encryption keys travel through the environment, not flags, so they stay
// out of shell history and process listings.
const (
	EnvEncryptionKey          = "ONECONFIG_ENCRYPTION_KEY"
	EnvEncryptionFallbackKeys = "ONECONFIG_ENCRYPTION_FALLBACK_KEYS"
)

// DefaultStoreDir is where the file store keeps schemas unless --dir says
// otherwise.
const DefaultStoreDir = ".oneconfig/schemas"

// StoreOptions carries the store selection flags shared by the serve and
// schema commands.
type StoreOptions struct {
	Store         string // "memory", "file" or "redis"
	Dir           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// BuildStore initializes a schema store with standard CLI conventions.
// The returned cleanup releases backend connections and is safe to call
// even when it has nothing to do.
func BuildStore(opts StoreOptions, logger *slog.Logger) (ports.SchemaStore, func() error, error) {
	cleanup := func() error { return nil }

	// 1. Backend
	var store ports.SchemaStore
	switch opts.Store {
	case "", "memory":
		store = memorystore.NewStore()
	case "file":
		dir := opts.Dir
		if dir == "" {
			dir = DefaultStoreDir
		}
		store = filestore.New(dir)
	case "redis":
		if opts.RedisAddr == "" {
			return nil, nil, errors.New("--redis-addr is required when --store is redis")
		}
		rs := redisstore.New(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		store = rs
		cleanup = rs.Close
	default:
		return nil, nil, fmt.Errorf("unknown store %q (expected memory, file or redis)", opts.Store)
	}

	// 2. Encryption at rest, when the environment provides a key
	enc, err := encryptionFromEnv()
	if err != nil {
		return nil, nil, err
	}
	if enc != nil {
		store = middleware.NewEncryptionMiddleware(*enc)(store)
		logger.Info("Schema encryption enabled", "fallback_keys", len(enc.FallbackKeys))
	}

	// 3. Operation logging (outermost, so it logs plaintext sizes)
	store = middleware.NewLoggingMiddleware(logger)(store)

	return store, cleanup, nil
}

// encryptionFromEnv reads the AES keys from the environment. A missing
// active key means encryption stays off; a malformed one is an error.
func encryptionFromEnv() (*middleware.EncryptionConfig, error) {
	raw := os.Getenv(EnvEncryptionKey)
	if raw == "" {
		return nil, nil
	}
	active, err := decodeKey(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvEncryptionKey, err)
	}
	cfg := &middleware.EncryptionConfig{ActiveKey: active}
	if fallbacks := os.Getenv(EnvEncryptionFallbackKeys); fallbacks != "" {
		for _, part := range strings.Split(fallbacks, ",") {
			key, err := decodeKey(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", EnvEncryptionFallbackKeys, err)
			}
			cfg.FallbackKeys = append(cfg.FallbackKeys, key)
		}
	}
	return cfg, nil
}

// decodeKey decodes a base64 AES-256 key. The middleware panics on short
// keys, so the size is checked here where it can still become an error.
func decodeKey(raw string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("key is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
