// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campusdir/internal/platform/ctxutil"
	"github.com/taibuivan/campusdir/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "test-request-id")
	assert.Equal(t, "test-request-id", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Falls back to the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Claims verifies that verified claims travel through the context.
*/
func TestContext_Claims(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetClaims(ctx))
	assert.Empty(t, ctxutil.GetAccountID(ctx))

	ctx = ctxutil.WithClaims(ctx, &sec.AuthClaims{AccountID: "acc-123", Name: "Oxford"})

	claims := ctxutil.GetClaims(ctx)
	require.NotNil(t, claims)
	assert.Equal(t, "Oxford", claims.Name)
	assert.Equal(t, "acc-123", ctxutil.GetAccountID(ctx))
}
