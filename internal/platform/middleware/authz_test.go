// Copyright (c) 2026 PrepDeck. All rights reserved.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck/internal/platform/ctxutil"
	"github.com/prepdeck/prepdeck/internal/platform/sec"
)

type verifierStub struct {
	claims *sec.AuthClaims
	err    error
}

func (v verifierStub) VerifyToken(context.Context, string) (*sec.AuthClaims, error) {
	return v.claims, v.err
}

func claimsCapture(captured **sec.AuthClaims) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*captured = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatePassesAnonymousThrough(t *testing.T) {
	var captured *sec.AuthClaims
	handler := Authenticate(verifierStub{err: errors.New("must not be called")})(claimsCapture(&captured))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/questions/mcq", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, captured)
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	handler := Authenticate(verifierStub{})(claimsCapture(new(*sec.AuthClaims)))

	for _, header := range []string{"tok-only", "Basic dXNlcg==", "Bearer one two"} {
		request := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		request.Header.Set("Authorization", header)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code, "header %q", header)
	}
}

func TestAuthenticateRejectsInvalidToken(t *testing.T) {
	handler := Authenticate(verifierStub{err: errors.New("signature mismatch")})(claimsCapture(new(*sec.AuthClaims)))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	request.Header.Set("Authorization", "Bearer bad-token")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestAuthenticateInjectsClaims(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "user-1", Role: string(sec.RoleMember)}
	var captured *sec.AuthClaims
	handler := Authenticate(verifierStub{claims: claims})(claimsCapture(&captured))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	request.Header.Set("Authorization", "Bearer good-token")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "user-1", captured.UserID)
}

func requestWithClaims(claims *sec.AuthClaims) *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	return request
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(okHandler())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, requestWithClaims(nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, requestWithClaims(&sec.AuthClaims{UserID: "user-1"}))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(sec.RoleAdmin)(okHandler())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, requestWithClaims(nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, requestWithClaims(&sec.AuthClaims{UserID: "user-1", Role: string(sec.RoleMember)}))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, requestWithClaims(&sec.AuthClaims{UserID: "user-2", Role: string(sec.RoleAdmin)}))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequirePlan(t *testing.T) {
	handler := RequirePlan(sec.PlanPremium)(okHandler())

	tests := []struct {
		name   string
		claims *sec.AuthClaims
		want   int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"free active", &sec.AuthClaims{Plan: string(sec.PlanFree), PlanActive: true}, http.StatusForbidden},
		{"premium inactive", &sec.AuthClaims{Plan: string(sec.PlanPremium), PlanActive: false}, http.StatusForbidden},
		{"premium active", &sec.AuthClaims{Plan: string(sec.PlanPremium), PlanActive: true}, http.StatusOK},
		{"pro active outranks premium", &sec.AuthClaims{Plan: string(sec.PlanPro), PlanActive: true}, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, requestWithClaims(tc.claims))
			assert.Equal(t, tc.want, recorder.Code)
		})
	}
}
