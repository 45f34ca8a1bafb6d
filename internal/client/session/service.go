// Copyright (c) 2026 PrepDeck. All rights reserved.

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prepdeck/prepdeck/internal/client/api"
	"github.com/prepdeck/prepdeck/internal/client/token"
)

// callTimeout bounds every remote call the service makes.
const callTimeout = 15 * time.Second

// fallbackMessage is surfaced when the server gives no usable message.
const fallbackMessage = "Something went wrong. Please try again."

// ErrNotAuthenticated is returned by operations that require an active
// session.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// Collaborator is the remote surface the service drives. *api.Client
// satisfies it.
type Collaborator interface {
	Register(ctx context.Context, name, email, password string) (*api.Session, error)
	Login(ctx context.Context, email, password string) (*api.Session, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*api.User, error)
	UpdateMe(ctx context.Context, update api.ProfileUpdate) (*api.User, error)
}

// Notifier surfaces transient login/registration/logout outcomes to the
// user. Persistent errors live in the state instead.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Failure(string) {}

/*
Service owns the client session. All state transitions run through the
reducer under a single mutex, so callers may use it from multiple
goroutines; overlapping Login calls are not serialized beyond that — the
caller is expected to disable re-entry while Loading is true.

Parameters of NewService:
  - client: remote collaborator for auth calls.
  - tokens: credential persistence between runs.
  - notifier: transient outcome surface; nil disables notifications.
  - logger: structured logger.
*/
type Service struct {
	client   Collaborator
	tokens   token.Store
	notifier Notifier
	log      *slog.Logger

	mu    sync.RWMutex
	state State
}

func NewService(client Collaborator, tokens token.Store, notifier Notifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		client:   client,
		tokens:   tokens,
		notifier: notifier,
		log:      logger,
		state:    Initial(),
	}
}

// State returns a snapshot of the current session state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Service) apply(event Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, event)
	return s.state
}

// Bootstrap restores a previous session from the stored token. An invalid
// or expired token is discarded and the session stays anonymous.
func (s *Service) Bootstrap(ctx context.Context) State {
	stored, ok := s.tokens.Token()
	if !ok {
		return s.apply(loggedOut{})
	}

	s.apply(verifyStarted{})
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	user, err := s.client.Me(ctx)
	if err != nil {
		s.log.Info("session_bootstrap_rejected", slog.String("error", err.Error()))
		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.log.Warn("session_token_clear_failed", slog.String("error", clearErr.Error()))
		}
		return s.apply(loggedOut{})
	}

	s.log.Info("session_restored", slog.String("user_id", user.ID))
	return s.apply(verifySucceeded{user: user, token: stored})
}

// Login exchanges credentials for a session. The token is persisted only
// after a fully successful response.
func (s *Service) Login(ctx context.Context, email, password string) (State, error) {
	return s.authenticate(ctx, "Logged in successfully", func(ctx context.Context) (*api.Session, error) {
		return s.client.Login(ctx, email, password)
	})
}

// Register creates an account and signs the user in.
func (s *Service) Register(ctx context.Context, name, email, password string) (State, error) {
	return s.authenticate(ctx, "Account created successfully", func(ctx context.Context) (*api.Session, error) {
		return s.client.Register(ctx, name, email, password)
	})
}

func (s *Service) authenticate(ctx context.Context, successMessage string, call func(context.Context) (*api.Session, error)) (State, error) {
	s.apply(verifyStarted{})
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	authSession, err := call(ctx)
	if err != nil {
		message := fallbackMessage
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			message = apiErr.Message
		}
		s.notifier.Failure(message)
		return s.apply(verifyFailed{message: message}), err
	}

	if saveErr := s.tokens.Save(authSession.AccessToken); saveErr != nil {
		s.log.Warn("session_token_save_failed", slog.String("error", saveErr.Error()))
	}
	s.notifier.Success(successMessage)
	return s.apply(verifySucceeded{user: authSession.User, token: authSession.AccessToken}), nil
}

// Logout terminates the session. The local state and stored token are
// always cleared, even when the remote revocation fails.
func (s *Service) Logout(ctx context.Context) State {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := s.client.Logout(ctx); err != nil {
		s.log.Warn("session_remote_logout_failed", slog.String("error", err.Error()))
	}
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn("session_token_clear_failed", slog.String("error", err.Error()))
	}
	s.notifier.Success("Logged out")
	return s.apply(loggedOut{})
}

// UpdateUser applies a partial profile edit to the authenticated user and
// folds the server's merged record into the session. It fails with
// [ErrNotAuthenticated] when no session is active.
func (s *Service) UpdateUser(ctx context.Context, update api.ProfileUpdate) (State, error) {
	if !s.State().IsAuthenticated() {
		return s.State(), ErrNotAuthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	user, err := s.client.UpdateMe(ctx, update)
	if err != nil {
		return s.State(), err
	}
	return s.apply(userPatched{user: user}), nil
}

// ClearError drops the persistent error, returning an errored session to
// anonymous. No other field changes.
func (s *Service) ClearError() State {
	return s.apply(errorCleared{})
}
