// Copyright (c) 2026 Roots. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/roots/internal/platform/ctxutil"
	"github.com/taibuivan/roots/internal/platform/sec"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "0190a6c0-0000-7000-8000-00000000aaaa")
	assert.Equal(t, "0190a6c0-0000-7000-8000-00000000aaaa", ctxutil.GetRequestID(ctx))
}

func TestLogger(t *testing.T) {
	ctx := context.Background()
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, logger, ctxutil.GetLogger(ctxutil.WithLogger(ctx, logger)))

	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctxutil.WithLogger(ctx, nil)))
}

func TestCaller(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetCaller(ctx))

	personID := "0190a6c0-0000-7000-8000-000000000001"
	ctx = ctxutil.WithCaller(ctx, &sec.Caller{
		UserID:   "0190a6c0-0000-7000-8000-0000000000f1",
		Role:     sec.RoleEditor,
		Status:   sec.StatusActive,
		PersonID: &personID,
	})

	caller := ctxutil.GetCaller(ctx)
	require.NotNil(t, caller)
	assert.Equal(t, sec.RoleEditor, caller.Role)
	assert.Equal(t, personID, *caller.PersonID)
}

func TestKeysDoNotCollide(t *testing.T) {
	ctx := context.WithValue(context.Background(), "request_id", "plain-string-key")
	assert.Empty(t, ctxutil.GetRequestID(ctx))
}
