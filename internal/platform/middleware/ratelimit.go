// Copyright (c) 2026 PrepDeck. All rights reserved.

package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
	"github.com/prepdeck/prepdeck/internal/platform/constants"
	"github.com/prepdeck/prepdeck/internal/platform/ctxutil"
	"github.com/prepdeck/prepdeck/internal/platform/respond"
)

// # Rate-Window Admission

// WindowCounter is the storage contract for the fixed-window rate limiter.
//
// A single-process deployment uses [MemoryCounter]; a multi-instance
// deployment swaps in [RedisCounter] so all processes share one window per
// client IP.
type WindowCounter interface {
	// Incr increments the counter for key within the current window and
	// returns the new count along with the time remaining until the window
	// resets.
	Incr(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// MemoryCounter is a process-local fixed-window counter keyed by client IP.
//
// State is owned by this object — no package-level maps. Mutation happens
// under a single mutex; the background sweeper drops windows that have
// expired so idle IPs do not accumulate.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
}

type memoryWindow struct {
	count   int64
	resetAt time.Time
}

// NewMemoryCounter creates the counter and starts its cleanup routine, which
// stops when ctx is cancelled.
func NewMemoryCounter(ctx context.Context) *MemoryCounter {
	counter := &MemoryCounter{windows: make(map[string]*memoryWindow)}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				counter.sweep(time.Now())
			case <-ctx.Done():
				return
			}
		}
	}()

	return counter
}

// Incr implements [WindowCounter].
func (counter *MemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := time.Now()

	counter.mu.Lock()
	defer counter.mu.Unlock()

	entry, found := counter.windows[key]
	if !found || !entry.resetAt.After(now) {
		// First request of a fresh window, or the previous window expired.
		entry = &memoryWindow{resetAt: now.Add(window)}
		counter.windows[key] = entry
	}

	entry.count++
	return entry.count, entry.resetAt.Sub(now), nil
}

// sweep removes windows that reset before now.
func (counter *MemoryCounter) sweep(now time.Time) {
	counter.mu.Lock()
	defer counter.mu.Unlock()

	for key, entry := range counter.windows {
		if !entry.resetAt.After(now) {
			delete(counter.windows, key)
		}
	}
}

// RedisCounter shares rate windows across processes using INCR + EXPIRE.
type RedisCounter struct {
	client *redis.Client
}

// NewRedisCounter creates a Redis-backed [WindowCounter].
func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{client: client}
}

// Incr implements [WindowCounter]. The key's TTL is set only when the key is
// created, so the window boundary is fixed from the first request.
func (counter *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	redisKey := constants.RedisPrefixRateWindow + key

	count, err := counter.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, 0, err
	}

	if count == 1 {
		if err := counter.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return 0, 0, err
		}
		return count, window, nil
	}

	resetIn, err := counter.client.TTL(ctx, redisKey).Result()
	if err != nil || resetIn < 0 {
		resetIn = window
	}
	return count, resetIn, nil
}

// RateLimit admits at most maxRequests per client IP within each fixed
// window, responding 429 with the standard RateLimit-* headers once the cap
// is exceeded.
//
// The health-check path is exempt so liveness probes are never throttled.
// Counter errors fail open: losing rate limiting briefly is preferable to
// rejecting all traffic when the counter store is degraded.
func RateLimit(counter WindowCounter, maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			if request.URL.Path == constants.HealthPath {
				next.ServeHTTP(writer, request)
				return
			}

			clientIP := RealIP(request)

			count, resetIn, err := counter.Incr(request.Context(), clientIP, window)
			if err != nil {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(),
					"rate_limit_counter_unavailable", "error", err)
				next.ServeHTTP(writer, request)
				return
			}

			remaining := int64(maxRequests) - count
			if remaining < 0 {
				remaining = 0
			}
			resetSeconds := int(resetIn.Round(time.Second).Seconds())

			header := writer.Header()
			header.Set(constants.HeaderRateLimitLimit, strconv.Itoa(maxRequests))
			header.Set(constants.HeaderRateLimitRemaining, strconv.FormatInt(remaining, 10))
			header.Set(constants.HeaderRateLimitReset, strconv.Itoa(resetSeconds))

			if count > int64(maxRequests) {
				header.Set(constants.HeaderRetryAfter, strconv.Itoa(resetSeconds))
				respond.Error(writer, request, apperr.RateLimited())
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
