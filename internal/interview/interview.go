// Copyright (c) 2026 PrepDeck. All rights reserved.

// Package interview manages interview sessions: the scheduled practice
// sessions that realtime rooms are named after. The owner invites
// participants; participation is what the realtime join check consults.
package interview

import "time"

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Kind string

const (
	KindCoding     Kind = "coding"
	KindBehavioral Kind = "behavioral"
	KindSystem     Kind = "system-design"
)

// Interview is a practice session. Its ID doubles as the realtime room key.
type Interview struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Kind        Kind       `json:"kind"`
	Difficulty  string     `json:"difficulty,omitempty"`
	Status      Status     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

const (
	FieldTitle      = "title"
	FieldKind       = "kind"
	FieldDifficulty = "difficulty"
	FieldStatus     = "status"
	FieldUserID     = "user_id"
)
