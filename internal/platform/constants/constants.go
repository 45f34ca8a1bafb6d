// Copyright (c) 2026 PrepDeck. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Window lengths and admission caps per client IP.
  - Security: JWT issuers and header names.
  - Realtime: Buffer sizes and deadlines for the interview-room channel.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "prepdeck-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitWindow is the fixed admission window per client IP.
	DefaultRateLimitWindow = 15 * time.Minute

	// DefaultRateLimitMaxProduction caps requests per window in production.
	DefaultRateLimitMaxProduction = 100

	// DefaultRateLimitMaxDevelopment is looser: dashboard polling and realtime
	// handshakes inflate request counts during local development.
	DefaultRateLimitMaxDevelopment = 1000

	// RateLimitCleanupInterval is how often expired IP windows are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs.
	AuthIssuer = "prepdeck.app"

	// HealthPath is exempt from rate limiting so liveness probes are never throttled.
	HealthPath = "/api/health"
)

// # Realtime Channel

const (
	// RealtimeSendBuffer is the per-connection outbound queue length. A member
	// that cannot drain this buffer has further events dropped (best-effort).
	RealtimeSendBuffer = 64

	// RealtimeWriteWait is the deadline for a single websocket write.
	RealtimeWriteWait = 10 * time.Second

	// RealtimePongWait is how long a connection may stay silent before it is
	// considered dead. Pings are sent at a fraction of this interval.
	RealtimePongWait = 60 * time.Second

	// RealtimePingPeriod must be shorter than RealtimePongWait.
	RealtimePingPeriod = 54 * time.Second

	// RealtimeMaxMessageSize bounds a single inbound frame (code payloads).
	RealtimeMaxMessageSize = 1 << 20

	// RealtimeEventRPS throttles inbound events per connection. Code edits
	// arrive in keystroke bursts, so the sustained rate is generous.
	RealtimeEventRPS = 20.0

	// RealtimeEventBurst is the inbound token-bucket burst per connection.
	RealtimeEventBurst = 60
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"

	// Standard draft rate-limit response headers.
	HeaderRateLimitLimit     = "RateLimit-Limit"
	HeaderRateLimitRemaining = "RateLimit-Remaining"
	HeaderRateLimitReset     = "RateLimit-Reset"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldPath    = "path"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixRevokedToken = "auth:revoked_token:"
	RedisPrefixRateWindow   = "ratelimit:window:"
	RedisChannelRoomEvents  = "realtime:rooms"
)
