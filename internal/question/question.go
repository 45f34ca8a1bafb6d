// Copyright (c) 2026 PrepDeck. All rights reserved.

// Package question manages the practice question banks.
//
// Questions live in three banks: multiple-choice (mcq), coding exercises,
// and quick-practice prompts. Reading requires an authenticated member and
// strips answers; writing is reserved for administrators.
package question

import "time"

type Bank string

const (
	BankMCQ           Bank = "mcq"
	BankCoding        Bank = "coding"
	BankQuickPractice Bank = "quick-practice"
)

// Banks lists every valid bank, for validation.
func Banks() []string {
	return []string{string(BankMCQ), string(BankCoding), string(BankQuickPractice)}
}

// Question is one practice item. Slug is derived from the title and unique
// within its bank.
type Question struct {
	ID         string    `json:"id"`
	Bank       Bank      `json:"bank"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Choices    []string  `json:"choices,omitempty"` // MCQ only
	Answer     string    `json:"answer,omitempty"`  // Hidden on member reads
	Difficulty string    `json:"difficulty,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	FieldBank       = "bank"
	FieldTitle      = "title"
	FieldBody       = "body"
	FieldSlug       = "slug"
	FieldDifficulty = "difficulty"
)
