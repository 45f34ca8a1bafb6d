// Copyright (c) 2026 PrepDeck. All rights reserved.

package auth

import (
	"context"
	"fmt"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
	"github.com/prepdeck/prepdeck/internal/platform/sec"
)

// SignatureVerifier checks a raw JWT's signature and standard claims.
// [sec.TokenService] is the production implementation.
type SignatureVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Verifier is the full token check used at every authenticated entry point
// (HTTP middleware and the websocket gate): signature validity AND absence
// from the logout denylist.
type Verifier struct {
	signatures SignatureVerifier
	revoked    RevokedTokenRepository
}

// NewVerifier wires signature verification with the revocation denylist.
func NewVerifier(signatures SignatureVerifier, revoked RevokedTokenRepository) *Verifier {
	return &Verifier{signatures: signatures, revoked: revoked}
}

// VerifyToken implements the middleware TokenVerifier contract.
//
// Denylist lookups fail closed: if revocation state cannot be read, the
// token is rejected rather than trusted.
func (verifier *Verifier) VerifyToken(context context.Context, tokenString string) (*sec.AuthClaims, error) {
	claims, err := verifier.signatures.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.ID != "" {
		revoked, err := verifier.revoked.IsRevoked(context, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("auth_verifier_denylist_failed: %w", err)
		}
		if revoked {
			return nil, apperr.Unauthorized("Token has been revoked")
		}
	}

	return claims, nil
}
