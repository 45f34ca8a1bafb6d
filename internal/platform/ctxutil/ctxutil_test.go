// Copyright (c) 2026 PrepDeck. All rights reserved.

package ctxutil

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepdeck/prepdeck/internal/platform/sec"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	assert.Equal(t, "req-42", GetRequestID(ctx))

	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGetLoggerFallsBackToDefault(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), logger)

	assert.Same(t, logger, GetLogger(ctx))
	assert.NotNil(t, GetLogger(context.Background()))
}

func TestAuthUserNilForAnonymous(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "user-1"}
	ctx := WithAuthUser(context.Background(), claims)

	assert.Same(t, claims, GetAuthUser(ctx))
	assert.Nil(t, GetAuthUser(context.Background()))
}
