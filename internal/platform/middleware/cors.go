// Copyright (c) 2026 PrepDeck. All rights reserved.

package middleware

import (
	"net/http"
	"regexp"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
	"github.com/prepdeck/prepdeck/internal/platform/constants"
	"github.com/prepdeck/prepdeck/internal/platform/respond"
)

// # Cross-Origin Admission

// localOrigin matches localhost and loopback origins on any port. These are
// admitted automatically outside production so frontend dev servers work
// without configuration.
var localOrigin = regexp.MustCompile(`^https?://(localhost|127\.0\.0\.1)(:\d+)?$`)

// OriginPolicy decides which browser origins may reach the API.
//
// It is shared between the HTTP CORS middleware and the websocket upgrade
// check so both entry points enforce the same admission rules.
type OriginPolicy struct {
	allowed    map[string]struct{}
	production bool
}

// CORSConfig defines the configuration surface needed by the origin policy.
type CORSConfig interface {
	IsProduction() bool
	AllowedOrigins() []string
}

// NewOriginPolicy builds the policy from the application configuration.
func NewOriginPolicy(cfg CORSConfig) *OriginPolicy {
	allowed := make(map[string]struct{})
	for _, origin := range cfg.AllowedOrigins() {
		allowed[origin] = struct{}{}
	}
	return &OriginPolicy{allowed: allowed, production: cfg.IsProduction()}
}

// IsAllowed reports whether a request with the given Origin header may proceed.
//
// Rules, in order:
//  1. No Origin (curl, mobile apps, server-to-server) is always admitted.
//  2. Origins on the configured allow-list are admitted.
//  3. Outside production, localhost and 127.0.0.1 on any port are admitted.
func (policy *OriginPolicy) IsAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	if _, ok := policy.allowed[origin]; ok {
		return true
	}
	if !policy.production && localOrigin.MatchString(origin) {
		return true
	}
	return false
}

// CORS enforces the origin admission policy and injects the standard
// cross-origin headers for admitted browser requests.
//
// Rejection happens before authentication: a disallowed origin never reaches
// the credential check or any business logic.
func CORS(policy *OriginPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			origin := request.Header.Get(constants.HeaderOrigin)

			// 1. Admission decision
			if !policy.IsAllowed(origin) {
				respond.Error(writer, request, apperr.OriginRejected(origin))
				return
			}

			// 2. Inject standard CORS headers for browser clients
			if origin != "" {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				header.Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, X-Request-ID")
				header.Set("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", "300")
			}

			// 3. Handle pre-flight requests (OPTIONS)
			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
