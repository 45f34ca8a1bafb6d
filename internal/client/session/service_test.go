// Copyright (c) 2026 PrepDeck. All rights reserved.

package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck/internal/client/api"
	"github.com/prepdeck/prepdeck/internal/client/token"
)

type fakeCollaborator struct {
	session   *api.Session
	user      *api.User
	err       error
	logoutErr error
}

func (f *fakeCollaborator) Register(context.Context, string, string, string) (*api.Session, error) {
	return f.session, f.err
}

func (f *fakeCollaborator) Login(context.Context, string, string) (*api.Session, error) {
	return f.session, f.err
}

func (f *fakeCollaborator) Logout(context.Context) error { return f.logoutErr }

func (f *fakeCollaborator) Me(context.Context) (*api.User, error) {
	return f.user, f.err
}

func (f *fakeCollaborator) UpdateMe(context.Context, api.ProfileUpdate) (*api.User, error) {
	return f.user, f.err
}

type recordingNotifier struct {
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(message string) { n.successes = append(n.successes, message) }
func (n *recordingNotifier) Failure(message string) { n.failures = append(n.failures, message) }

func newTestService(collab *fakeCollaborator, tokens token.Store, notifier Notifier) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(collab, tokens, notifier, logger)
}

func TestLoginPersistsTokenAndNotifiesOnce(t *testing.T) {
	user := subscribedUser("premium", true)
	collab := &fakeCollaborator{session: &api.Session{AccessToken: "tok-login", User: user}}
	tokens := token.NewMemoryStore()
	notifier := &recordingNotifier{}
	svc := newTestService(collab, tokens, notifier)

	state, err := svc.Login(context.Background(), "dana@example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, PhaseAuthenticated, state.Phase)
	assert.True(t, state.IsAuthenticated())

	stored, ok := tokens.Token()
	require.True(t, ok)
	assert.Equal(t, "tok-login", stored)
	assert.Len(t, notifier.successes, 1)
	assert.Empty(t, notifier.failures)
}

func TestLoginFailureSurfacesServerMessage(t *testing.T) {
	collab := &fakeCollaborator{err: &api.Error{Status: 401, Message: "Invalid login credentials"}}
	tokens := token.NewMemoryStore()
	notifier := &recordingNotifier{}
	svc := newTestService(collab, tokens, notifier)

	state, err := svc.Login(context.Background(), "dana@example.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, PhaseError, state.Phase)
	assert.Equal(t, "Invalid login credentials", state.Err)

	_, ok := tokens.Token()
	assert.False(t, ok, "a failed login must not persist a credential")
	assert.Equal(t, []string{"Invalid login credentials"}, notifier.failures)
}

func TestLoginFailureFallsBackToGenericMessage(t *testing.T) {
	collab := &fakeCollaborator{err: errors.New("connection refused")}
	svc := newTestService(collab, token.NewMemoryStore(), nil)

	state, err := svc.Login(context.Background(), "dana@example.com", "secret123")

	require.Error(t, err)
	assert.Equal(t, fallbackMessage, state.Err)
}

func TestLogoutClearsSessionEvenWhenRemoteFails(t *testing.T) {
	user := subscribedUser("free", false)
	collab := &fakeCollaborator{
		session:   &api.Session{AccessToken: "tok-out", User: user},
		logoutErr: errors.New("server unreachable"),
	}
	tokens := token.NewMemoryStore()
	svc := newTestService(collab, tokens, nil)

	_, err := svc.Login(context.Background(), "dana@example.com", "secret123")
	require.NoError(t, err)

	state := svc.Logout(context.Background())

	assert.Equal(t, PhaseAnonymous, state.Phase)
	assert.False(t, state.IsAuthenticated())
	_, ok := tokens.Token()
	assert.False(t, ok)
}

func TestBootstrapRestoresStoredSession(t *testing.T) {
	user := subscribedUser("pro", true)
	tokens := token.NewMemoryStore()
	require.NoError(t, tokens.Save("tok-stored"))
	svc := newTestService(&fakeCollaborator{user: user}, tokens, nil)

	state := svc.Bootstrap(context.Background())

	assert.Equal(t, PhaseAuthenticated, state.Phase)
	assert.Equal(t, "tok-stored", state.Token)
	assert.True(t, state.HasSubscription("premium"))
}

func TestBootstrapDiscardsRejectedToken(t *testing.T) {
	tokens := token.NewMemoryStore()
	require.NoError(t, tokens.Save("tok-expired"))
	collab := &fakeCollaborator{err: &api.Error{Status: 401, Message: "Token has been revoked"}}
	svc := newTestService(collab, tokens, nil)

	state := svc.Bootstrap(context.Background())

	assert.Equal(t, PhaseAnonymous, state.Phase)
	_, ok := tokens.Token()
	assert.False(t, ok, "a rejected token must be discarded")
}

func TestBootstrapWithoutTokenStaysAnonymous(t *testing.T) {
	svc := newTestService(&fakeCollaborator{}, token.NewMemoryStore(), nil)

	state := svc.Bootstrap(context.Background())

	assert.Equal(t, PhaseAnonymous, state.Phase)
	assert.False(t, state.Loading)
}

func TestUpdateUserRequiresAuthentication(t *testing.T) {
	svc := newTestService(&fakeCollaborator{}, token.NewMemoryStore(), nil)

	_, err := svc.UpdateUser(context.Background(), api.ProfileUpdate{})

	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUpdateUserFoldsMergedRecord(t *testing.T) {
	user := subscribedUser("free", false)
	merged := subscribedUser("free", false)
	merged.Name = "Dana Q"
	collab := &fakeCollaborator{
		session: &api.Session{AccessToken: "tok-up", User: user},
		user:    merged,
	}
	svc := newTestService(collab, token.NewMemoryStore(), nil)

	_, err := svc.Login(context.Background(), "dana@example.com", "secret123")
	require.NoError(t, err)

	name := "Dana Q"
	state, err := svc.UpdateUser(context.Background(), api.ProfileUpdate{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Dana Q", state.User.Name)
	assert.Equal(t, "tok-up", state.Token)
	assert.Equal(t, PhaseAuthenticated, state.Phase)
}
