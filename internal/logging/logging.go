// Package logging threads a request scoped slog.Logger through context so
// booking and selection log lines share the request attributes.
package logging

import (
	"context"
	"log/slog"
)

// loggerKey is the private context key for the request logger.
type loggerKey struct{}

// ContextWithLogger derives a context carrying the given logger. A nil
// context or logger is returned unchanged so call sites need no guards.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached by ContextWithLogger, or nil when
// the context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return nil
}
