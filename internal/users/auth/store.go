// Copyright (c) 2026 PrepDeck. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateProfile persists changes to mutable profile fields (name, email).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	UpdateProfile(context context.Context, user *User) error

	/*
		UpdateSubscription replaces the user's subscription tier and activation
		state.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - subscription: Subscription

		Returns:
		  - error: Persistence failures
	*/
	UpdateSubscription(context context.Context, userID string, subscription Subscription) error
}

// # Volatile Data Access

// RevokedTokenRepository defines the contract for the logout denylist.
//
// Access tokens are stateless, so logout works by recording the token's
// unique ID ('jti' claim) until the token would have expired anyway. The
// denylist is consulted on every verification.
type RevokedTokenRepository interface {

	/*
		Revoke records a token ID as permanently invalid.

		Parameters:
		  - context: context.Context
		  - tokenID: string
		  - ttl: time.Duration (remaining lifetime of the token)

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, tokenID string, ttl time.Duration) error

	/*
		IsRevoked reports whether a token ID is on the denylist.

		Parameters:
		  - context: context.Context
		  - tokenID: string

		Returns:
		  - bool: True when the token must be rejected
		  - error: Retrieval failures
	*/
	IsRevoked(context context.Context, tokenID string) (bool, error)
}
