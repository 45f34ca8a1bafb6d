// Copyright (c) 2026 PrepDeck. All rights reserved.

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
	"github.com/prepdeck/prepdeck/internal/platform/sec"
)

// # Test Doubles

type memoryUserRepository struct {
	byEmail map[string]*User
	byID    map[string]*User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{
		byEmail: make(map[string]*User),
		byID:    make(map[string]*User),
	}
}

func (m *memoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	if user, ok := m.byID[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (m *memoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	if user, ok := m.byEmail[email]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (m *memoryUserRepository) Create(_ context.Context, user *User) error {
	if _, exists := m.byEmail[user.Email]; exists {
		return apperr.Conflict("Email is already registered")
	}
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *memoryUserRepository) UpdateProfile(_ context.Context, user *User) error {
	existing, ok := m.byID[user.ID]
	if !ok {
		return apperr.NotFound("User not found")
	}
	delete(m.byEmail, existing.Email)
	*existing = *user
	m.byEmail[user.Email] = existing
	return nil
}

func (m *memoryUserRepository) UpdateSubscription(_ context.Context, userID string, subscription Subscription) error {
	user, ok := m.byID[userID]
	if !ok {
		return apperr.NotFound("User not found")
	}
	user.Subscription = subscription
	return nil
}

type memoryRevokedTokenRepository struct {
	revoked map[string]time.Duration
}

func newMemoryRevokedTokenRepository() *memoryRevokedTokenRepository {
	return &memoryRevokedTokenRepository{revoked: make(map[string]time.Duration)}
}

func (m *memoryRevokedTokenRepository) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.revoked[tokenID] = ttl
	return nil
}

func (m *memoryRevokedTokenRepository) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := m.revoked[tokenID]
	return ok, nil
}

// stubTokenProvider records the claims it signed instead of minting real JWTs.
type stubTokenProvider struct {
	lastClaims sec.AuthClaims
}

func (s *stubTokenProvider) GenerateAccessToken(claims sec.AuthClaims, _ time.Duration) (string, error) {
	s.lastClaims = claims
	return "token-for-" + claims.UserID, nil
}

func newTestService() (*Service, *memoryUserRepository, *memoryRevokedTokenRepository, *stubTokenProvider) {
	users := newMemoryUserRepository()
	revoked := newMemoryRevokedTokenRepository()
	tokens := &stubTokenProvider{}
	return NewService(users, revoked, tokens), users, revoked, tokens
}

// # Registration

func TestRegisterCreatesUserWithFreePlan(t *testing.T) {
	service, users, _, _ := newTestService()

	session, err := service.Register(context.Background(), RegisterInput{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct horse battery staple",
	})
	require.NoError(t, err)

	require.NotNil(t, session.User)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, sec.RoleMember, session.User.Role)
	assert.Equal(t, sec.PlanFree, session.User.Subscription.Plan)
	assert.False(t, session.User.Subscription.IsActive)

	stored, err := users.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", stored.PasswordHash,
		"password must never be stored in plain text")
	assert.True(t, sec.CheckPasswordHash("correct horse battery staple", stored.PasswordHash))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	service, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "password-one"})
	require.NoError(t, err)

	_, err = service.Register(ctx, RegisterInput{Name: "Imposter", Email: "ada@example.com", Password: "password-two"})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 409, appErr.HTTPStatus)
}

// # Login

func TestLoginIssuesTokenSnapshottingSubscription(t *testing.T) {
	service, users, _, tokens := newTestService()
	ctx := context.Background()

	session, err := service.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "long-password"})
	require.NoError(t, err)

	require.NoError(t, users.UpdateSubscription(ctx, session.User.ID, Subscription{
		Plan:     sec.PlanPremium,
		IsActive: true,
	}))

	loggedIn, err := service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "long-password"})
	require.NoError(t, err)

	assert.Equal(t, session.User.ID, loggedIn.User.ID)
	assert.Equal(t, string(sec.PlanPremium), tokens.lastClaims.Plan)
	assert.True(t, tokens.lastClaims.PlanActive)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	service, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "long-password"})
	require.NoError(t, err)

	_, err = service.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrong-password"})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 401, appErr.HTTPStatus)
}

func TestLoginRejectsUnknownEmailWithSameError(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever-pass"})
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	// Same generic message as a wrong password, to prevent user enumeration.
	assert.Equal(t, "Invalid login credentials", appErr.Message)
}

// # Logout & Revocation

func claimsWithID(tokenID, userID string, expiresIn time.Duration) *sec.AuthClaims {
	return &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
		UserID: userID,
	}
}

func TestLogoutDenylistsTokenForRemainingLifetime(t *testing.T) {
	service, _, revoked, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, service.Logout(ctx, claimsWithID("jti-1", "u1", time.Hour)))

	isRevoked, err := revoked.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, isRevoked)
	assert.LessOrEqual(t, revoked.revoked["jti-1"], time.Hour)
}

func TestLogoutExpiredTokenIsNoop(t *testing.T) {
	service, _, revoked, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, service.Logout(ctx, claimsWithID("jti-2", "u1", -time.Minute)))

	isRevoked, err := revoked.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, isRevoked)
}

// # Verifier

type stubSignatureVerifier struct {
	claims *sec.AuthClaims
	err    error
}

func (s *stubSignatureVerifier) VerifyToken(string) (*sec.AuthClaims, error) {
	return s.claims, s.err
}

func TestVerifierRejectsRevokedToken(t *testing.T) {
	revoked := newMemoryRevokedTokenRepository()
	ctx := context.Background()
	require.NoError(t, revoked.Revoke(ctx, "jti-3", time.Hour))

	verifier := NewVerifier(&stubSignatureVerifier{claims: claimsWithID("jti-3", "u1", time.Hour)}, revoked)

	_, err := verifier.VerifyToken(ctx, "signed-token")
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 401, appErr.HTTPStatus)
}

func TestVerifierAcceptsValidToken(t *testing.T) {
	verifier := NewVerifier(&stubSignatureVerifier{claims: claimsWithID("jti-4", "u1", time.Hour)}, newMemoryRevokedTokenRepository())

	claims, err := verifier.VerifyToken(context.Background(), "signed-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}
