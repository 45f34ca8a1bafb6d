// Copyright (c) 2026 PrepDeck. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/prepdeck/prepdeck/internal/ai"
	"github.com/prepdeck/prepdeck/internal/execution"
	"github.com/prepdeck/prepdeck/internal/interview"
	"github.com/prepdeck/prepdeck/internal/platform/config"
	"github.com/prepdeck/prepdeck/internal/platform/constants"
	"github.com/prepdeck/prepdeck/internal/platform/middleware"
	"github.com/prepdeck/prepdeck/internal/platform/sec"
	"github.com/prepdeck/prepdeck/internal/progress"
	"github.com/prepdeck/prepdeck/internal/question"
	"github.com/prepdeck/prepdeck/internal/users/account"
	"github.com/prepdeck/prepdeck/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// RealtimeHandler is the realtime surface: the websocket upgrade plus the
// room introspection routes. *realtime.Handler implements it; the seam
// exists so router composition can be tested without a live hub.
type RealtimeHandler interface {
	ServeWS(http.ResponseWriter, *http.Request)
	Routes() chi.Router
}

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Health is the /api/health handler — exempt from rate limiting.
	Health http.HandlerFunc

	// Auth handles the authentication lifecycle (register, login, logout, me).
	Auth *auth.Handler

	// Account handles profile reads and updates.
	Account *account.Handler

	// Interview manages practice sessions and participant sets.
	Interview *interview.Handler

	// Progress records practice outcomes.
	Progress *progress.Handler

	// Question serves the question banks (answer-stripped member reads) and
	// the admin CRUD.
	Question *question.Handler

	// AI is the subscription-gated generation surface.
	AI *ai.Handler

	// Execution runs coding-question submissions.
	Execution *execution.Handler

	// Realtime owns the websocket upgrade and room introspection.
	Realtime RealtimeHandler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Admission order: origin policy and the rate window run before any
// credential or business logic; the health endpoint sits outside the
// rate-limited group so probes are never throttled.
func NewServer(cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, policy *middleware.OriginPolicy, counter middleware.WindowCounter, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(policy))
	r.Use(middleware.Authenticate(verifier))
	r.Use(chimw.CleanPath)

	// # Application API
	r.Route("/api", func(apiRouter chi.Router) {
		// The request deadline applies to the HTTP surface only. The
		// websocket endpoint below must not inherit it: a realtime
		// connection outlives any per-request timeout.
		apiRouter.Use(chimw.Timeout(constants.GlobalRequestTimeout))

		// Health stays outside the rate-limited group; the limiter also
		// exempts the path itself.
		apiRouter.Get("/health", h.Health)

		apiRouter.Group(func(limited chi.Router) {
			limited.Use(middleware.RateLimit(counter, cfg.RateLimitMaxRequests(), cfg.RateLimitWindow))

			limited.Route("/v1", func(v1 chi.Router) {
				v1.Mount("/auth", h.Auth.Routes())

				// Authenticated surface. Question-bank reads live here:
				// bank content is member-only.
				v1.Group(func(authed chi.Router) {
					authed.Use(middleware.RequireAuth)
					authed.Mount("/users", h.Account.Routes())
					authed.Mount("/questions", h.Question.Routes())
					authed.Mount("/interviews", h.Interview.Routes())
					authed.Mount("/progress", h.Progress.Routes())
					authed.Mount("/execute", h.Execution.Routes())
					authed.Mount("/realtime", h.Realtime.Routes())
				})

				// Paid surface
				v1.Group(func(paid chi.Router) {
					paid.Use(middleware.RequireAuth)
					paid.Use(middleware.RequirePlan(sec.PlanPremium))
					paid.Mount("/ai", h.AI.Routes())
				})

				// Admin surface
				v1.Group(func(admin chi.Router) {
					admin.Use(middleware.RequireAuth)
					admin.Use(middleware.RequireRole(sec.RoleAdmin))
					admin.Mount("/admin/questions", h.Question.AdminRoutes())
					admin.Mount("/admin/users", h.Account.AdminRoutes())
				})
			})
		})
	})

	// # Realtime Channel
	// The upgrade endpoint performs its own origin and credential checks
	// and sits outside the rate-limited group.
	r.Get("/ws", h.Realtime.ServeWS)

	// Structured 404 for everything else.
	r.NotFound(middleware.NotFound())

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
