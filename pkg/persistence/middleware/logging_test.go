package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneconfig/oneconfig/pkg/persistence/middleware"
	"github.com/oneconfig/oneconfig/pkg/ports"
)

func newTestLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: level}))
	return logger, buf
}

func TestLoggingMiddleware_RecordsOperations(t *testing.T) {
	logger, buf := newTestLogger(slog.LevelDebug)
	store := middleware.NewLoggingMiddleware(logger)(newMockStore())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "server", []byte(schemaSource)))
	_, err := store.Load(ctx, "server")
	require.NoError(t, err)
	_, err = store.List(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "server"))

	out := buf.String()
	assert.Contains(t, out, "store save")
	assert.Contains(t, out, "store load")
	assert.Contains(t, out, "store list")
	assert.Contains(t, out, "store delete")
	assert.Contains(t, out, "schema=server")
	assert.NotContains(t, out, "!string", "schema sources must not be logged")
}

func TestLoggingMiddleware_MissLogsAtDebug(t *testing.T) {
	logger, buf := newTestLogger(slog.LevelInfo)
	store := middleware.NewLoggingMiddleware(logger)(newMockStore())

	_, err := store.Load(context.Background(), "absent")
	require.ErrorIs(t, err, ports.ErrSchemaNotFound)
	assert.Empty(t, buf.String(), "a routine miss must not log at error level")
}

type failingStore struct {
	ports.SchemaStore
}

func (f *failingStore) Save(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestLoggingMiddleware_FailureLogsError(t *testing.T) {
	logger, buf := newTestLogger(slog.LevelInfo)
	store := middleware.NewLoggingMiddleware(logger)(&failingStore{SchemaStore: newMockStore()})

	err := store.Save(context.Background(), "server", []byte(schemaSource))
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "store save failed")
	assert.Contains(t, out, "disk full")
}
