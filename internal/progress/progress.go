// Copyright (c) 2026 PrepDeck. All rights reserved.

// Package progress records practice outcomes so users can track improvement
// across interview sessions and question categories.
package progress

import "time"

// Entry is one recorded practice outcome.
type Entry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	InterviewID *string   `json:"interview_id,omitempty"`
	Category    string    `json:"category"`
	Score       int       `json:"score"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	FieldCategory = "category"
	FieldScore    = "score"
	FieldNotes    = "notes"
)

// MaxScore bounds a recorded score (percent scale).
const MaxScore = 100
