// Copyright (c) 2026 PrepDeck. All rights reserved.

package progress

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/prepdeck/prepdeck/internal/platform/validate"
	"github.com/prepdeck/prepdeck/pkg/uuidv7"
)

// Repository is the data access contract for progress entries.
type Repository interface {
	Create(context context.Context, entry *Entry) error
	ListByUser(context context.Context, userID string, limit, offset int) ([]*Entry, int, error)
}

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

// Record validates and persists a practice outcome for userID.
func (service *Service) Record(context context.Context, userID string, entry *Entry) (*Entry, error) {
	validator := &validate.Validator{}
	validator.Required(FieldCategory, entry.Category).
		MaxLen(FieldCategory, entry.Category, 100).
		MaxLen(FieldNotes, entry.Notes, 2000).
		Custom(FieldScore, entry.Score < 0 || entry.Score > MaxScore,
			"must be between 0 and "+strconv.Itoa(MaxScore))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	entry.ID = uuidv7.New()
	entry.UserID = userID

	if err := service.repo.Create(context, entry); err != nil {
		return nil, err
	}

	service.logger.Info("progress_recorded",
		slog.String("user_id", userID),
		slog.String("category", entry.Category),
		slog.Int("score", entry.Score),
	)
	return entry, nil
}

func (service *Service) ListMine(context context.Context, userID string, limit, offset int) ([]*Entry, int, error) {
	return service.repo.ListByUser(context, userID, limit, offset)
}
