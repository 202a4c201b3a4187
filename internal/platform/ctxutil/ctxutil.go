// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil reads and writes the per-request values that middleware
// attaches to a [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/roots/internal/platform/ctxkey"
	"github.com/taibuivan/roots/internal/platform/sec"
)

func lookup[T any](ctx context.Context, key any) (T, bool) {
	value, ok := ctx.Value(key).(T)
	return value, ok
}

// # Request Tracing

// WithRequestID attaches the correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.RequestID, id)
}

// GetRequestID returns the correlation ID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := lookup[string](ctx, ctxkey.RequestID)
	return id
}

// # Structured Logging

// WithLogger attaches a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.Logger, logger)
}

// GetLogger returns the request-scoped logger, falling back to [slog.Default].
// Services log through it so every line carries the request ID.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := lookup[*slog.Logger](ctx, ctxkey.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// # Identity

// WithCaller attaches the resolved caller.
// Only the HTTP layer reads it back; services receive the caller as a parameter.
func WithCaller(ctx context.Context, caller *sec.Caller) context.Context {
	return context.WithValue(ctx, ctxkey.Caller, caller)
}

// GetCaller returns the resolved caller, or nil for anonymous requests.
func GetCaller(ctx context.Context) *sec.Caller {
	caller, _ := lookup[*sec.Caller](ctx, ctxkey.Caller)
	return caller
}
