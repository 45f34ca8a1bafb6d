// Copyright (c) 2026 PrepDeck. All rights reserved.

/*
Package account provides profile management for authenticated users.

It sits next to the auth package: auth owns identity establishment (tokens,
credentials), account owns what a signed-in user can do with their own
profile afterwards.
*/
package account

import (
	"context"
	"fmt"

	"github.com/prepdeck/prepdeck/internal/users/auth"
)

// Service implements profile use cases on top of the shared user repository.
type Service struct {
	userRepository auth.UserRepository
}

// NewService constructs a new account [Service].
func NewService(userRepo auth.UserRepository) *Service {
	return &Service{userRepository: userRepo}
}

/*
GetProfile retrieves the full private profile of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: Hydrated profile
  - err: NotFound or storage failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.userRepository.FindByID(context, userID)
}

// UpdateProfileInput holds the partial update for a profile. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

/*
UpdateProfile applies a partial update to the user's own profile.

Description: Loads the current row, overlays the provided fields, and
persists the result. Email changes are subject to the unique constraint and
surface as Conflict.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated profile
  - err: NotFound, Conflict, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := service.userRepository.UpdateProfile(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_profile_failed: %w", err)
	}

	return user, nil
}

/*
UpdateSubscription replaces a user's subscription tier. Reserved for the
admin surface and billing callbacks.

Parameters:
  - context: context.Context
  - userID: string
  - subscription: auth.Subscription

Returns:
  - *auth.User: The updated profile
  - err: NotFound or storage failures
*/
func (service *Service) UpdateSubscription(context context.Context, userID string, subscription auth.Subscription) (*auth.User, error) {
	if err := service.userRepository.UpdateSubscription(context, userID, subscription); err != nil {
		return nil, err
	}
	return service.userRepository.FindByID(context, userID)
}
