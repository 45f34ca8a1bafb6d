// Copyright (c) 2026 PrepDeck. All rights reserved.

/*
Package ctxutil reads and writes the request-scoped values PrepDeck carries
through [context.Context]: the request ID, the request logger, and the
resolved identity.

Both transport entry points populate these — the HTTP middleware chain per
request, and the websocket upgrade once per connection — so domain code can
stay agnostic of which surface a call arrived on.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/prepdeck/prepdeck/internal/platform/ctxkey"
	"github.com/prepdeck/prepdeck/internal/platform/sec"
)

// # Request Tracing

// WithRequestID attaches the request ID assigned by the RequestID middleware.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the request ID, or an empty string when the context
// never passed through the middleware chain.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger attaches a request-scoped logger, typically pre-tagged with the
// request ID.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request-scoped logger, falling back to the process
// default so callers never need a nil check.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithAuthUser attaches the claims resolved from a verified bearer token.
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUser, user)
}

// GetAuthUser returns the verified [*sec.AuthClaims], or nil for an
// anonymous request.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}
