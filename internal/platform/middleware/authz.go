// Copyright (c) 2026 PrepDeck. All rights reserved.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
	"github.com/prepdeck/prepdeck/internal/platform/ctxutil"
	"github.com/prepdeck/prepdeck/internal/platform/respond"
	"github.com/prepdeck/prepdeck/internal/platform/sec"
)

// TokenVerifier defines the interface needed to resolve bearer credentials.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the auth service
// implementation (JWT verification plus the revocation check), allowing us
// to inject fakes during unit testing.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the bearer credential from the
// Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, the request proceeds as anonymous (public routes work).
//  3. If present, resolve the credential via [TokenVerifier].
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Credential Resolution ──────────────────────────────────────
			claims, err := verifier.VerifyToken(request.Context(), parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the
// required role. It implies [RequireAuth].
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !sec.UserRole(claims.Role).AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequirePlan blocks requests unless the authenticated user holds an active
// subscription at or above the target tier. It implies [RequireAuth].
func RequirePlan(plan sec.SubscriptionPlan) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())

			if claims == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			userPlan := sec.SubscriptionPlan(claims.Plan)
			if !claims.PlanActive || !userPlan.AtLeast(plan) {
				respond.Error(writer, request, apperr.Forbidden("This feature requires an active "+string(plan)+" subscription"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
