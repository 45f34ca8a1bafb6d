// Copyright (c) 2026 PrepDeck. All rights reserved.

// Package api implements the HTTP collaborator client the PrepDeck terminal
// client talks through. It mirrors the server's JSON envelopes and maps
// error responses onto [*Error] values the session layer can inspect.
package api

import "time"

// Subscription mirrors the server's subscription JSON.
type Subscription struct {
	Plan     string `json:"plan"`
	IsActive bool   `json:"is_active"`
}

// User mirrors the server's user JSON.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         string       `json:"role"`
	Subscription Subscription `json:"subscription"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Session is the server's authentication payload.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

// Error is a structured server rejection.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "request failed"
}

// IsUnauthorized reports whether the server rejected the credential. The
// session layer discards the stored token on this signal.
func (e *Error) IsUnauthorized() bool { return e.Status == 401 }
