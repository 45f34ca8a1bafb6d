// Copyright (c) 2026 PrepDeck. All rights reserved.

package execution

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	result *RunResult
	err    error
	last   RunRequest
}

func (f *fakeRunner) Run(_ context.Context, req RunRequest) (*RunResult, error) {
	f.last = req
	return f.result, f.err
}

func postRun(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)
	return recorder
}

func TestRunUnconfiguredReportsUnavailable(t *testing.T) {
	handler := NewHandler(Unconfigured{})

	recorder := postRun(t, handler, `{"language":"go","source":"package main"}`)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "not configured")
}

func TestRunValidatesSubmission(t *testing.T) {
	handler := NewHandler(Unconfigured{})

	recorder := postRun(t, handler, `{"language":"","source":""}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRunReturnsRunnerResult(t *testing.T) {
	runner := &fakeRunner{result: &RunResult{Stdout: "42\n", ExitCode: 0, DurationMS: 17}}
	handler := NewHandler(runner)

	recorder := postRun(t, handler, `{"language":"python","source":"print(42)","stdin":""}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"stdout":"42\n"`)
	assert.Equal(t, "python", runner.last.Language)
}
