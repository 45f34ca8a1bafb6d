// Copyright (c) 2026 PrepDeck. All rights reserved.

// Package session drives the client's authentication lifecycle as a pure
// state machine layered under a thin service. The reducer owns every
// transition; the service performs the remote calls and feeds the outcomes
// back in as events, so the lifecycle is testable without any network.
package session

import (
	"github.com/prepdeck/prepdeck/internal/client/api"
)

// Phase names the client's authentication phase.
type Phase string

const (
	PhaseAnonymous     Phase = "anonymous"
	PhaseVerifying     Phase = "verifying"
	PhaseAuthenticated Phase = "authenticated"
	PhaseError         Phase = "error"
)

// State is the client's session identity. Outside of PhaseVerifying, User
// and Token are either both set or both empty.
type State struct {
	Phase   Phase
	User    *api.User
	Token   string
	Loading bool
	Err     string
}

// Initial is the idle pre-bootstrap state.
func Initial() State {
	return State{Phase: PhaseAnonymous}
}

// Event is a session transition input. Implementations are the verb*
// types below; the reducer switches on the concrete type.
type Event interface{ sessionEvent() }

type verifyStarted struct{}

type verifySucceeded struct {
	user  *api.User
	token string
}

type verifyFailed struct{ message string }

type loggedOut struct{}

type userPatched struct{ user *api.User }

type errorCleared struct{}

func (verifyStarted) sessionEvent()   {}
func (verifySucceeded) sessionEvent() {}
func (verifyFailed) sessionEvent()    {}
func (loggedOut) sessionEvent()       {}
func (userPatched) sessionEvent()     {}
func (errorCleared) sessionEvent()    {}

// Reduce applies one event to a state and returns the next state. It is
// pure; no field of the input is mutated.
func Reduce(state State, event Event) State {
	switch ev := event.(type) {
	case verifyStarted:
		return State{Phase: PhaseVerifying, Loading: true}
	case verifySucceeded:
		return State{Phase: PhaseAuthenticated, User: ev.user, Token: ev.token}
	case verifyFailed:
		return State{Phase: PhaseError, Err: ev.message}
	case loggedOut:
		return State{Phase: PhaseAnonymous}
	case userPatched:
		if state.Phase != PhaseAuthenticated {
			return state
		}
		next := state
		next.User = ev.user
		return next
	case errorCleared:
		next := state
		next.Err = ""
		if next.Phase == PhaseError {
			next.Phase = PhaseAnonymous
		}
		return next
	default:
		return state
	}
}

// IsAuthenticated reports whether both an identity and a credential are
// held.
func (s State) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// planRank orders subscription tiers. Unknown tiers rank as the lowest
// tier, matching the server's plan ranking.
func planRank(plan string) int {
	switch plan {
	case "premium":
		return 1
	case "pro":
		return 2
	default:
		return 0
	}
}

// HasSubscription reports whether the session holds an active subscription
// at or above the required tier. Unauthenticated sessions never qualify.
func (s State) HasSubscription(tier string) bool {
	if !s.IsAuthenticated() {
		return false
	}
	if !s.User.Subscription.IsActive {
		return false
	}
	return planRank(s.User.Subscription.Plan) >= planRank(tier)
}
