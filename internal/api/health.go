// Copyright (c) 2026 PrepDeck. All rights reserved.

// Health check handler for liveness probes and the client's reachability
// check. Exempt from rate limiting.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prepdeck/prepdeck/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	environment  string
	logger       *slog.Logger
}

// NewHealthHandler creates the GET /api/health http.HandlerFunc.
func NewHealthHandler(deps HealthDependencies, environment string, logger *slog.Logger) http.HandlerFunc {
	handler := &healthHandler{dependencies: deps, environment: environment, logger: logger}
	return handler.health
}

// health handles GET /api/health.
//
// The process being alive yields "ok"; a degraded dependency downgrades the
// status to "degraded" with a 503 so orchestrators stop routing to this
// instance, while the body still names the failing dependency.
func (handler *healthHandler) health(writer http.ResponseWriter, request *http.Request) {
	type checkResult struct {
		Name  string `json:"name"`
		IsOK  bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	results := make([]checkResult, 0, 2)
	isSystemReady := true

	if handler.dependencies.CheckDatabase != nil {
		result := checkResult{Name: "postgres", IsOK: true}
		if err := handler.dependencies.CheckDatabase(); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("health_check_failed", slog.String("dependency", "postgres"), slog.Any("error", err))
		}
		results = append(results, result)
	}

	if handler.dependencies.CheckCache != nil {
		result := checkResult{Name: "redis", IsOK: true}
		if err := handler.dependencies.CheckCache(); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("health_check_failed", slog.String("dependency", "redis"), slog.Any("error", err))
		}
		results = append(results, result)
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !isSystemReady {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, map[string]any{
		"status":      status,
		"environment": handler.environment,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"checks":      results,
	})
}
