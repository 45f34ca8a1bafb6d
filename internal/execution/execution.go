// Copyright (c) 2026 PrepDeck. All rights reserved.

// Package execution defines the collaborator seam for running coding-question
// submissions. The HTTP layer lives here; an actual sandboxed runner plugs in
// behind the interface.
package execution

import (
	"context"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
)

// RunRequest is one code submission.
type RunRequest struct {
	Language string `json:"language"`
	Source   string `json:"source"`
	Stdin    string `json:"stdin,omitempty"`
}

// RunResult is the outcome of executing a submission.
type RunResult struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr,omitempty"`
	ExitCode   int    `json:"exit_code"`
	DurationMS int64  `json:"duration_ms"`
}

// Runner executes a submission in an isolated environment.
type Runner interface {
	Run(ctx context.Context, req RunRequest) (*RunResult, error)
}

// Unconfigured satisfies [Runner] when no sandbox is wired. Every call
// reports the feature as unavailable so the rest of the platform keeps
// working.
type Unconfigured struct{}

func (Unconfigured) Run(context.Context, RunRequest) (*RunResult, error) {
	return nil, apperr.ServiceUnavailable("Code execution is not configured")
}
