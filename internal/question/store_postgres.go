// Copyright (c) 2026 PrepDeck. All rights reserved.

package question

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepdeck/prepdeck/internal/platform/apperr"
	"github.com/prepdeck/prepdeck/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const questionColumns = `id, bank, slug, title, body, choices, answer, difficulty, createdat, updatedat`

func (repository *PostgresRepository) Create(context context.Context, question *Question) error {
	const query = `
		INSERT INTO questions.item (
			id, bank, slug, title, body, choices, answer, difficulty, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	question.CreatedAt = now
	question.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		question.ID,
		question.Bank,
		question.Slug,
		question.Title,
		question.Body,
		question.Choices,
		question.Answer,
		question.Difficulty,
		question.CreatedAt,
		question.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_question_repo_create_failed: %w", err))
	}
	return nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, bank Bank, slug string) (*Question, error) {
	const query = `
		SELECT ` + questionColumns + `
		FROM questions.item
		WHERE bank = $1 AND slug = $2`

	question := &Question{}
	err := repository.pool.QueryRow(context, query, bank, slug).Scan(
		&question.ID,
		&question.Bank,
		&question.Slug,
		&question.Title,
		&question.Body,
		&question.Choices,
		&question.Answer,
		&question.Difficulty,
		&question.CreatedAt,
		&question.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Question not found")
		}
		return nil, fmt.Errorf("postgres_question_repo_get_failed: %w", err)
	}
	return question, nil
}

func (repository *PostgresRepository) ListByBank(context context.Context, bank Bank, limit, offset int) ([]*Question, int, error) {
	const query = `
		SELECT ` + questionColumns + `, COUNT(*) OVER() AS total
		FROM questions.item
		WHERE bank = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, bank, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_question_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var questions []*Question
	var total int
	for rows.Next() {
		question := &Question{}
		if err := rows.Scan(
			&question.ID,
			&question.Bank,
			&question.Slug,
			&question.Title,
			&question.Body,
			&question.Choices,
			&question.Answer,
			&question.Difficulty,
			&question.CreatedAt,
			&question.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_question_repo_scan_failed: %w", err)
		}
		questions = append(questions, question)
	}

	return questions, total, rows.Err()
}

func (repository *PostgresRepository) Update(context context.Context, question *Question) error {
	const query = `
		UPDATE questions.item
		SET slug = $2, title = $3, body = $4, choices = $5, answer = $6, difficulty = $7, updatedat = $8
		WHERE id = $1`

	question.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		question.ID,
		question.Slug,
		question.Title,
		question.Body,
		question.Choices,
		question.Answer,
		question.Difficulty,
		question.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_question_repo_update_failed: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Question not found")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	tag, err := repository.pool.Exec(context, `DELETE FROM questions.item WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_question_repo_delete_failed: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Question not found")
	}
	return nil
}
