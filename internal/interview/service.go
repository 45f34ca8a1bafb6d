// Copyright (c) 2026 PrepDeck. All rights reserved.

package interview

import (
	"context"
	"log/slog"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
	"github.com/prepdeck/prepdeck/internal/platform/validate"
	"github.com/prepdeck/prepdeck/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create schedules a new session owned by ownerID. The input carries Title,
// Kind, Difficulty, and ScheduledAt; everything else is assigned here.
func (service *Service) Create(context context.Context, ownerID string, input *Interview) (*Interview, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 200)
	validator.OneOf(FieldKind, string(input.Kind),
		string(KindCoding), string(KindBehavioral), string(KindSystem))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	interview := &Interview{
		ID:          uuidv7.New(),
		OwnerID:     ownerID,
		Title:       input.Title,
		Kind:        input.Kind,
		Difficulty:  input.Difficulty,
		Status:      StatusScheduled,
		ScheduledAt: input.ScheduledAt,
	}

	if err := service.repo.Create(context, interview); err != nil {
		return nil, err
	}

	// The owner always participates in their own session.
	if err := service.repo.AddParticipant(context, interview.ID, ownerID); err != nil {
		return nil, err
	}

	service.logger.Info("interview_created",
		slog.String("interview_id", interview.ID),
		slog.String("owner_id", ownerID),
	)
	return interview, nil
}

// Get returns the session if the requesting user participates in it.
func (service *Service) Get(context context.Context, userID, id string) (*Interview, error) {
	interview, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	participates, err := service.repo.IsParticipant(context, id, userID)
	if err != nil {
		return nil, err
	}
	if !participates {
		return nil, apperr.Forbidden("You are not a participant of this interview")
	}

	return interview, nil
}

func (service *Service) ListMine(context context.Context, userID string, limit, offset int) ([]*Interview, int, error) {
	return service.repo.ListByParticipant(context, userID, limit, offset)
}

// UpdateInput carries partial updates; nil fields are untouched.
type UpdateInput struct {
	Title      *string
	Status     *Status
	Difficulty *string
}

// Update mutates a session. Owner only.
func (service *Service) Update(context context.Context, userID, id string, input UpdateInput) (*Interview, error) {
	interview, err := service.repo.GetByID(context, id)
	if err != nil {
		return nil, err
	}
	if interview.OwnerID != userID {
		return nil, apperr.Forbidden("Only the owner can modify this interview")
	}

	if input.Title != nil {
		interview.Title = *input.Title
	}
	if input.Status != nil {
		interview.Status = *input.Status
	}
	if input.Difficulty != nil {
		interview.Difficulty = *input.Difficulty
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, interview.Title).MaxLen(FieldTitle, interview.Title, 200)
	validator.OneOf(FieldStatus, string(interview.Status),
		string(StatusScheduled), string(StatusActive), string(StatusCompleted))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, interview); err != nil {
		return nil, err
	}

	service.logger.Info("interview_updated", slog.String("interview_id", id))
	return interview, nil
}

// Delete removes a session. Owner only.
func (service *Service) Delete(context context.Context, userID, id string) error {
	interview, err := service.repo.GetByID(context, id)
	if err != nil {
		return err
	}
	if interview.OwnerID != userID {
		return apperr.Forbidden("Only the owner can delete this interview")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("interview_deleted", slog.String("interview_id", id))
	return nil
}

// Invite adds a participant. Owner only.
func (service *Service) Invite(context context.Context, ownerID, id, userID string) error {
	interview, err := service.repo.GetByID(context, id)
	if err != nil {
		return err
	}
	if interview.OwnerID != ownerID {
		return apperr.Forbidden("Only the owner can invite participants")
	}

	return service.repo.AddParticipant(context, id, userID)
}

// CanJoin is the realtime admission check: joining a room requires
// participating in the interview it belongs to. Satisfies the hub's
// JoinAuthorizer contract.
func (service *Service) CanJoin(context context.Context, userID, sessionID string) error {
	participates, err := service.repo.IsParticipant(context, sessionID, userID)
	if err != nil {
		return err
	}
	if !participates {
		return apperr.Forbidden("You are not a participant of this interview")
	}
	return nil
}
