// Copyright (c) 2026 PrepDeck. All rights reserved.

// Package ai defines the collaborator seams for AI-assisted features:
// question generation and mock-interview turns. The HTTP layer and feature
// gating live here; actual model providers plug in behind the interfaces.
package ai

import (
	"context"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
)

// GenerateRequest describes the question the user wants produced.
type GenerateRequest struct {
	Topic      string `json:"topic"`
	Kind       string `json:"kind"`
	Difficulty string `json:"difficulty"`
}

// GeneratedQuestion is a model-produced practice item.
type GeneratedQuestion struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Hints  []string `json:"hints,omitempty"`
	Answer string   `json:"answer,omitempty"`
}

// Generator produces practice questions on demand.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GeneratedQuestion, error)
}

// InterviewTurn is one exchange in a mock interview.
type InterviewTurn struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// Interviewer drives a conversational mock interview.
type Interviewer interface {
	Reply(ctx context.Context, turn InterviewTurn) (*InterviewTurn, error)
}

// Unconfigured satisfies both seams when no provider is wired. Every call
// reports the feature as unavailable so the rest of the platform keeps
// working.
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, GenerateRequest) (*GeneratedQuestion, error) {
	return nil, apperr.ServiceUnavailable("AI question generation is not configured")
}

func (Unconfigured) Reply(context.Context, InterviewTurn) (*InterviewTurn, error) {
	return nil, apperr.ServiceUnavailable("AI mock interviews are not configured")
}
