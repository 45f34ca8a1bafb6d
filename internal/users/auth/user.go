// Copyright (c) 2026 PrepDeck. All rights reserved.

/*
Package auth implements the user identity and token lifecycle layer.

It defines the core domain entities (User, Subscription) and the logic for
registration, credential verification, token issue, and token revocation.

# Architecture

  - Service: Orchestrates business logic (Register, Login, Logout).
  - Repositories: Domain-defined interfaces implemented over Postgres (users)
    and Redis (revoked-token denylist).
  - Verifier: Combines signature verification with the denylist so a
    logged-out token is dead everywhere, not just on the client.
*/
package auth

import (
	"time"

	"github.com/prepdeck/prepdeck/internal/platform/sec"
)

// # Domain Entities

// Subscription captures a user's paid tier. Plan comparisons alone are not
// enough for feature gating: a lapsed premium subscription grants nothing.
type Subscription struct {
	Plan     sec.SubscriptionPlan `json:"plan"`
	IsActive bool                 `json:"is_active"`
}

// HasAtLeast reports whether the subscription is active and meets the target
// tier.
func (s Subscription) HasAtLeast(target sec.SubscriptionPlan) bool {
	return s.IsActive && s.Plan.AtLeast(target)
}

// User represents a registered member of the PrepDeck platform.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	Subscription Subscription `json:"subscription"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the
// authentication domain.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldToken       = "token"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
	FieldMessage     = "message"
)
