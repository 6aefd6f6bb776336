package logger

import (
	"context"
	"log/slog"
)

type scopedKey struct{}

// With stores a logger carrying fields on ctx. Later calls stack on top of it,
// so trace_id set by the edge middleware is still there when user_id is added.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, scopedKey{}, From(ctx).With(fields...))
}

// From returns the request-scoped logger or the process logger.
func From(ctx context.Context) *slog.Logger {
	return FromOr(ctx, LoggerWrapper())
}

// FromOr returns the request-scoped logger or fallback when none was stored.
func FromOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(scopedKey{}).(*slog.Logger); ok {
		return l
	}
	return fallback
}
