// Copyright (c) 2026 PrepDeck. All rights reserved.

package question

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
)

type memoryRepository struct {
	byID map[string]*Question
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{byID: make(map[string]*Question)}
}

func (m *memoryRepository) Create(_ context.Context, question *Question) error {
	m.byID[question.ID] = question
	return nil
}

func (m *memoryRepository) GetBySlug(_ context.Context, bank Bank, slug string) (*Question, error) {
	for _, question := range m.byID {
		if question.Bank == bank && question.Slug == slug {
			copied := *question
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Question not found")
}

func (m *memoryRepository) ListByBank(_ context.Context, bank Bank, limit, offset int) ([]*Question, int, error) {
	var questions []*Question
	for _, question := range m.byID {
		if question.Bank == bank {
			copied := *question
			questions = append(questions, &copied)
		}
	}
	return questions, len(questions), nil
}

func (m *memoryRepository) Update(_ context.Context, question *Question) error {
	if _, ok := m.byID[question.ID]; !ok {
		return apperr.NotFound("Question not found")
	}
	m.byID[question.ID] = question
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return apperr.NotFound("Question not found")
	}
	delete(m.byID, id)
	return nil
}

func newTestService() *Service {
	return NewService(newMemoryRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	service := newTestService()

	question, err := service.Create(context.Background(), &Question{
		Bank:  BankCoding,
		Title: "Two Sum — Hash Map Approach",
		Body:  "Given an array of integers...",
	})
	require.NoError(t, err)

	assert.Equal(t, "two-sum-hash-map-approach", question.Slug)
	assert.NotEmpty(t, question.ID)
}

func TestCreateRejectsUnknownBank(t *testing.T) {
	service := newTestService()

	_, err := service.Create(context.Background(), &Question{
		Bank:  "riddles",
		Title: "Sphinx",
		Body:  "...",
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.As(err).HTTPStatus)
}

func TestMemberReadsStripAnswers(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, &Question{
		Bank:    BankMCQ,
		Title:   "Big-O of binary search",
		Body:    "What is the time complexity?",
		Choices: []string{"O(1)", "O(log n)", "O(n)"},
		Answer:  "O(log n)",
	})
	require.NoError(t, err)

	redacted, err := service.Get(ctx, BankMCQ, created.Slug)
	require.NoError(t, err)
	assert.Empty(t, redacted.Answer)
	assert.Equal(t, created.Choices, redacted.Choices)

	listed, _, err := service.List(ctx, BankMCQ, 20, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Empty(t, listed[0].Answer)

	// Admin read keeps the answer.
	full, err := service.GetWithAnswer(ctx, BankMCQ, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, "O(log n)", full.Answer)
}

func TestUpdateFollowsTitleWithNewSlug(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, &Question{
		Bank:  BankQuickPractice,
		Title: "Reverse a linked list",
		Body:  "...",
	})
	require.NoError(t, err)

	updated, err := service.Update(ctx, BankQuickPractice, created.Slug, &Question{
		Title: "Reverse a doubly linked list",
		Body:  "...",
	})
	require.NoError(t, err)
	assert.Equal(t, "reverse-a-doubly-linked-list", updated.Slug)
}
