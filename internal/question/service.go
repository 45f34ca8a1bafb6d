// Copyright (c) 2026 PrepDeck. All rights reserved.

package question

import (
	"context"
	"log/slog"

	"github.com/prepdeck/prepdeck/internal/platform/validate"
	"github.com/prepdeck/prepdeck/pkg/slug"
	"github.com/prepdeck/prepdeck/pkg/uuidv7"
)

// Repository is the data access contract for question banks.
type Repository interface {
	Create(context context.Context, question *Question) error
	GetBySlug(context context.Context, bank Bank, slug string) (*Question, error)
	ListByBank(context context.Context, bank Bank, limit, offset int) ([]*Question, int, error)
	Update(context context.Context, question *Question) error
	Delete(context context.Context, id string) error
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

func (service *Service) validateQuestion(question *Question) error {
	validator := &validate.Validator{}
	validator.OneOf(FieldBank, string(question.Bank), Banks()...).
		Required(FieldTitle, question.Title).
		MaxLen(FieldTitle, question.Title, 300).
		Required(FieldBody, question.Body)
	return validator.Err()
}

// Create persists a new question, deriving its slug from the title.
func (service *Service) Create(context context.Context, question *Question) (*Question, error) {
	if err := service.validateQuestion(question); err != nil {
		return nil, err
	}

	question.ID = uuidv7.New()
	question.Slug = slug.From(question.Title)

	if err := service.repo.Create(context, question); err != nil {
		return nil, err
	}

	service.logger.Info("question_created",
		slog.String("bank", string(question.Bank)),
		slog.String("slug", question.Slug),
	)
	return question, nil
}

// Get returns a question with its answer stripped. Used by the member read
// surface, which sits behind the credential check.
func (service *Service) Get(context context.Context, bank Bank, questionSlug string) (*Question, error) {
	question, err := service.repo.GetBySlug(context, bank, questionSlug)
	if err != nil {
		return nil, err
	}
	question.Answer = ""
	return question, nil
}

// GetWithAnswer returns the full question, answer included. Admin surface.
func (service *Service) GetWithAnswer(context context.Context, bank Bank, questionSlug string) (*Question, error) {
	return service.repo.GetBySlug(context, bank, questionSlug)
}

// List pages through a bank with answers stripped.
func (service *Service) List(context context.Context, bank Bank, limit, offset int) ([]*Question, int, error) {
	validator := &validate.Validator{}
	validator.OneOf(FieldBank, string(bank), Banks()...)
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	questions, total, err := service.repo.ListByBank(context, bank, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, question := range questions {
		question.Answer = ""
	}
	return questions, total, nil
}

// Update replaces a question's content. The slug follows the title.
func (service *Service) Update(context context.Context, bank Bank, questionSlug string, updated *Question) (*Question, error) {
	question, err := service.repo.GetBySlug(context, bank, questionSlug)
	if err != nil {
		return nil, err
	}

	question.Title = updated.Title
	question.Body = updated.Body
	question.Choices = updated.Choices
	question.Answer = updated.Answer
	question.Difficulty = updated.Difficulty

	if err := service.validateQuestion(question); err != nil {
		return nil, err
	}
	question.Slug = slug.From(question.Title)

	if err := service.repo.Update(context, question); err != nil {
		return nil, err
	}

	service.logger.Info("question_updated", slog.String("question_id", question.ID))
	return question, nil
}

// Delete removes a question from its bank.
func (service *Service) Delete(context context.Context, bank Bank, questionSlug string) error {
	question, err := service.repo.GetBySlug(context, bank, questionSlug)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, question.ID); err != nil {
		return err
	}

	service.logger.Warn("question_deleted", slog.String("question_id", question.ID))
	return nil
}
