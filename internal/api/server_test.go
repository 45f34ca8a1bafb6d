// Copyright (c) 2026 PrepDeck. All rights reserved.

package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck/internal/ai"
	"github.com/prepdeck/prepdeck/internal/execution"
	"github.com/prepdeck/prepdeck/internal/interview"
	"github.com/prepdeck/prepdeck/internal/platform/apperr"
	"github.com/prepdeck/prepdeck/internal/platform/config"
	"github.com/prepdeck/prepdeck/internal/platform/middleware"
	"github.com/prepdeck/prepdeck/internal/platform/sec"
	"github.com/prepdeck/prepdeck/internal/progress"
	"github.com/prepdeck/prepdeck/internal/question"
	"github.com/prepdeck/prepdeck/internal/users/account"
	"github.com/prepdeck/prepdeck/internal/users/auth"
)

type verifierStub struct{}

func (verifierStub) VerifyToken(context.Context, string) (*sec.AuthClaims, error) {
	return &sec.AuthClaims{UserID: "user-1", Role: string(sec.RoleMember)}, nil
}

// realtimeStub records whether the upgrade request carried a deadline.
type realtimeStub struct {
	sawDeadline bool
}

func (s *realtimeStub) ServeWS(writer http.ResponseWriter, request *http.Request) {
	_, s.sawDeadline = request.Context().Deadline()
	writer.WriteHeader(http.StatusOK)
}

func (s *realtimeStub) Routes() chi.Router { return chi.NewRouter() }

type emptyQuestionRepo struct{}

func (emptyQuestionRepo) Create(context.Context, *question.Question) error { return nil }
func (emptyQuestionRepo) GetBySlug(context.Context, question.Bank, string) (*question.Question, error) {
	return nil, apperr.NotFound("Question not found")
}
func (emptyQuestionRepo) ListByBank(context.Context, question.Bank, int, int) ([]*question.Question, int, error) {
	return nil, 0, nil
}
func (emptyQuestionRepo) Update(context.Context, *question.Question) error { return nil }
func (emptyQuestionRepo) Delete(context.Context, string) error             { return nil }

func newTestServer(t *testing.T, realtimeHandler RealtimeHandler, health http.HandlerFunc) *Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:      "0",
		Environment:     "development",
		RateLimitWindow: time.Minute,
		RateLimitMax:    1000,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if health == nil {
		health = func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusOK)
		}
	}

	return NewServer(cfg, log, verifierStub{}, middleware.NewOriginPolicy(cfg), middleware.NewMemoryCounter(ctx), Handlers{
		Health:    health,
		Auth:      auth.NewHandler(nil),
		Account:   account.NewHandler(nil),
		Interview: interview.NewHandler(nil),
		Progress:  progress.NewHandler(nil),
		Question:  question.NewHandler(question.NewService(emptyQuestionRepo{}, log)),
		AI:        ai.NewHandler(ai.Unconfigured{}, ai.Unconfigured{}),
		Execution: execution.NewHandler(execution.Unconfigured{}),
		Realtime:  realtimeHandler,
	})
}

func TestWebsocketEndpointCarriesNoRequestDeadline(t *testing.T) {
	rt := &realtimeStub{}
	server := newTestServer(t, rt, nil)

	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ws", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, rt.sawDeadline, "a realtime connection must outlive the per-request timeout")
}

func TestAPIRequestsCarryDeadline(t *testing.T) {
	var sawDeadline bool
	health := func(writer http.ResponseWriter, request *http.Request) {
		_, sawDeadline = request.Context().Deadline()
		writer.WriteHeader(http.StatusOK)
	}
	server := newTestServer(t, &realtimeStub{}, health)

	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, sawDeadline, "HTTP requests must carry the global timeout")
}

func TestQuestionBanksRequireAuthentication(t *testing.T) {
	server := newTestServer(t, &realtimeStub{}, nil)

	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/questions/mcq", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/api/v1/questions/mcq", nil)
	request.Header.Set("Authorization", "Bearer tok")
	recorder = httptest.NewRecorder()
	server.router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestExecuteRequiresAuthentication(t *testing.T) {
	server := newTestServer(t, &realtimeStub{}, nil)

	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/execute", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
