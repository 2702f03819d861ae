package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oneconfig/oneconfig/pkg/ports"
)

// NewLoggingMiddleware returns a Middleware that records every store
// operation on the given logger. Successful operations log at Debug,
// failures at Error. Schema sources are never logged, only their size.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.SchemaStore) ports.SchemaStore {
		return &loggingStore{next: next, logger: logger}
	}
}

type loggingStore struct {
	next   ports.SchemaStore
	logger *slog.Logger
}

func (s *loggingStore) Save(ctx context.Context, name string, src []byte) error {
	start := time.Now()
	err := s.next.Save(ctx, name, src)
	s.log(ctx, "save", start, err, slog.String("schema", name), slog.Int("bytes", len(src)))
	return err
}

func (s *loggingStore) Load(ctx context.Context, name string) ([]byte, error) {
	start := time.Now()
	src, err := s.next.Load(ctx, name)
	s.log(ctx, "load", start, err, slog.String("schema", name), slog.Int("bytes", len(src)))
	return src, err
}

func (s *loggingStore) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.next.Delete(ctx, name)
	s.log(ctx, "delete", start, err, slog.String("schema", name))
	return err
}

func (s *loggingStore) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := s.next.List(ctx)
	s.log(ctx, "list", start, err, slog.Int("count", len(names)))
	return names, err
}

func (s *loggingStore) log(ctx context.Context, op string, start time.Time, err error, attrs ...slog.Attr) {
	attrs = append(attrs, slog.Duration("elapsed", time.Since(start)))
	if err == nil {
		s.logger.LogAttrs(ctx, slog.LevelDebug, "store "+op, attrs...)
		return
	}
	// A missing schema is a routine miss, not a failure.
	level := slog.LevelError
	if errors.Is(err, ports.ErrSchemaNotFound) {
		level = slog.LevelDebug
	}
	attrs = append(attrs, slog.Any("error", err))
	s.logger.LogAttrs(ctx, level, "store "+op+" failed", attrs...)
}
