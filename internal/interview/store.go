// Copyright (c) 2026 PrepDeck. All rights reserved.

package interview

import "context"

// Repository is the data access contract for interview sessions and their
// participant sets.
type Repository interface {
	Create(context context.Context, interview *Interview) error
	GetByID(context context.Context, id string) (*Interview, error)
	ListByParticipant(context context.Context, userID string, limit, offset int) ([]*Interview, int, error)
	Update(context context.Context, interview *Interview) error
	Delete(context context.Context, id string) error

	AddParticipant(context context.Context, interviewID, userID string) error
	RemoveParticipant(context context.Context, interviewID, userID string) error
	IsParticipant(context context.Context, interviewID, userID string) (bool, error)
}
