// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the context keys for per-request values.
// Each key has its own empty struct type, so it can only be produced here.
package ctxkey

type (
	requestIDKey struct{}
	callerKey    struct{}
	loggerKey    struct{}
)

var (
	// RequestID carries the X-Request-ID correlation value.
	RequestID = requestIDKey{}

	// Caller carries the resolved [sec.Caller] of an authenticated request.
	Caller = callerKey{}

	// Logger carries the request-scoped [*log/slog.Logger].
	Logger = loggerKey{}
)
