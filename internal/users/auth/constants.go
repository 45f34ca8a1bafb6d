// Copyright (c) 2026 PrepDeck. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// Interview sessions can run long, so the token outlives a working day;
	// logout compensates by revoking the token server-side.
	AccessTokenTTL = 7 * 24 * time.Hour

	// MinPasswordLength is the minimum accepted password size at
	// registration.
	MinPasswordLength = 8

	// MaxNameLength bounds the display name column.
	MaxNameLength = 100
)
