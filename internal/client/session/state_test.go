// Copyright (c) 2026 PrepDeck. All rights reserved.

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prepdeck/prepdeck/internal/client/api"
)

func subscribedUser(plan string, active bool) *api.User {
	return &api.User{
		ID:   "user-1",
		Name: "Dana",
		Subscription: api.Subscription{
			Plan:     plan,
			IsActive: active,
		},
	}
}

func TestReduceVerifyWalksThroughAuthenticated(t *testing.T) {
	state := Initial()
	assert.Equal(t, PhaseAnonymous, state.Phase)
	assert.False(t, state.IsAuthenticated())

	state = Reduce(state, verifyStarted{})
	assert.Equal(t, PhaseVerifying, state.Phase)
	assert.True(t, state.Loading)
	assert.Empty(t, state.Err)

	user := subscribedUser("free", false)
	state = Reduce(state, verifySucceeded{user: user, token: "tok-1"})
	assert.Equal(t, PhaseAuthenticated, state.Phase)
	assert.False(t, state.Loading)
	assert.True(t, state.IsAuthenticated())
	assert.Equal(t, "tok-1", state.Token)
	assert.Same(t, user, state.User)
}

func TestReduceFailureLeavesNoPartialCredential(t *testing.T) {
	state := Reduce(Reduce(Initial(), verifyStarted{}), verifyFailed{message: "Invalid login credentials"})

	assert.Equal(t, PhaseError, state.Phase)
	assert.Equal(t, "Invalid login credentials", state.Err)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
	assert.False(t, state.Loading)
	assert.False(t, state.IsAuthenticated())
}

func TestReduceLoggedOutAlwaysClears(t *testing.T) {
	authed := Reduce(Initial(), verifySucceeded{user: subscribedUser("pro", true), token: "tok-2"})

	state := Reduce(authed, loggedOut{})
	assert.Equal(t, PhaseAnonymous, state.Phase)
	assert.Nil(t, state.User)
	assert.Empty(t, state.Token)
}

func TestReduceUserPatchedRequiresAuthenticated(t *testing.T) {
	patched := subscribedUser("free", false)
	patched.Name = "Dana Q"

	state := Reduce(Initial(), userPatched{user: patched})
	assert.Nil(t, state.User, "anonymous session must ignore profile patches")

	authed := Reduce(Initial(), verifySucceeded{user: subscribedUser("free", false), token: "tok-3"})
	state = Reduce(authed, userPatched{user: patched})
	assert.Equal(t, "Dana Q", state.User.Name)
	assert.Equal(t, "tok-3", state.Token, "token must survive a profile patch")
}

func TestReduceErrorClearedOnlyTouchesError(t *testing.T) {
	errored := Reduce(Initial(), verifyFailed{message: "nope"})

	state := Reduce(errored, errorCleared{})
	assert.Empty(t, state.Err)
	assert.Equal(t, PhaseAnonymous, state.Phase)

	authed := Reduce(Initial(), verifySucceeded{user: subscribedUser("premium", true), token: "tok-4"})
	state = Reduce(authed, errorCleared{})
	assert.Equal(t, PhaseAuthenticated, state.Phase)
	assert.True(t, state.IsAuthenticated())
}

func TestHasSubscription(t *testing.T) {
	authenticated := func(plan string, active bool) State {
		return Reduce(Initial(), verifySucceeded{user: subscribedUser(plan, active), token: "tok"})
	}

	tests := []struct {
		name  string
		state State
		tier  string
		want  bool
	}{
		{"unauthenticated never qualifies", Initial(), "pro", false},
		{"free active does not reach pro", authenticated("free", true), "pro", false},
		{"pro active reaches pro", authenticated("pro", true), "pro", true},
		{"pro inactive does not qualify", authenticated("pro", false), "pro", false},
		{"pro active reaches premium", authenticated("pro", true), "premium", true},
		{"premium active does not reach pro", authenticated("premium", true), "pro", false},
		{"unknown tier ranks as free", authenticated("legacy", true), "free", true},
		{"unknown tier does not reach premium", authenticated("legacy", true), "premium", false},
		{"free active reaches free", authenticated("free", true), "free", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.state.HasSubscription(tc.tier))
		})
	}
}
