// Copyright (c) 2026 PrepDeck. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
	"github.com/prepdeck/prepdeck/internal/platform/sec"
	"github.com/prepdeck/prepdeck/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string carrying the given
	// claims, valid for timeToLive.
	GenerateAccessToken(claims sec.AuthClaims, timeToLive time.Duration) (string, error)
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	userRepository         UserRepository
	revokedTokenRepository RevokedTokenRepository
	tokenProvider          TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	revokedRepo RevokedTokenRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:         userRepo,
		revokedTokenRepository: revokedRepo,
		tokenProvider:          tokenProv,
	}
}

// AuthSession represents a successfully established authentication session.
type AuthSession struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *User
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account, then
issues its first access token so the caller lands authenticated.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *AuthSession: Token plus created profile
  - err: Conflict (if email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthSession, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleMember,
		Subscription: Subscription{Plan: sec.PlanFree, IsActive: false},
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return service.issueSession(user)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and issues an access token.

Description: Verifies identity with a constant-time password comparison and
returns a fresh token carrying the user's role and subscription state.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AuthSession: Transport-ready session
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthSession, error) {
	user, err := service.userRepository.FindByEmail(context, input.Email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Constant-time comparison in bcrypt to prevent timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issueSession(user)
}

/*
Logout permanently revokes the presented access token.

Description: Records the token's unique ID on the denylist for the remainder
of its lifetime, so it is rejected everywhere from this point on. Logging out
an already-expired token succeeds without touching storage.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims (the verified token being surrendered)

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		// Already expired. Nothing to deny.
		return nil
	}

	if err := service.revokedTokenRepository.Revoke(context, claims.ID, remaining); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

/*
CurrentUser returns the fresh profile behind a verified token.

Description: The token carries a snapshot of the user at issue time; this
re-reads storage so profile or subscription changes are visible immediately.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated entity
  - err: NotFound or storage failures
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// issueSession signs a token snapshotting the user's identity, role, and
// subscription state.
func (service *Service) issueSession(user *User) (*AuthSession, error) {
	expiresAt := time.Now().Add(AccessTokenTTL)

	accessToken, err := service.tokenProvider.GenerateAccessToken(sec.AuthClaims{
		UserID:     user.ID,
		Name:       user.Name,
		Role:       string(user.Role),
		Plan:       string(user.Subscription.Plan),
		PlanActive: user.Subscription.IsActive,
	}, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return &AuthSession{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}
