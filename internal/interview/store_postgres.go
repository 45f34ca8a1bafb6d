// Copyright (c) 2026 PrepDeck. All rights reserved.

package interview

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

const interviewColumns = `id, ownerid, title, kind, difficulty, status, scheduledat, createdat, updatedat`

func (repository *PostgresRepository) Create(context context.Context, interview *Interview) error {
	const query = `
		INSERT INTO interviews.session (
			id, ownerid, title, kind, difficulty, status, scheduledat, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	interview.CreatedAt = now
	interview.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		interview.ID,
		interview.OwnerID,
		interview.Title,
		interview.Kind,
		interview.Difficulty,
		interview.Status,
		interview.ScheduledAt,
		interview.CreatedAt,
		interview.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_interview_repo_create_failed: %w", err))
	}
	return nil
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Interview, error) {
	const query = `
		SELECT ` + interviewColumns + `
		FROM interviews.session
		WHERE id = $1`

	interview := &Interview{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&interview.ID,
		&interview.OwnerID,
		&interview.Title,
		&interview.Kind,
		&interview.Difficulty,
		&interview.Status,
		&interview.ScheduledAt,
		&interview.CreatedAt,
		&interview.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Interview not found")
		}
		return nil, fmt.Errorf("postgres_interview_repo_get_failed: %w", err)
	}
	return interview, nil
}

func (repository *PostgresRepository) ListByParticipant(context context.Context, userID string, limit, offset int) ([]*Interview, int, error) {
	const query = `
		SELECT ` + interviewColumns + `, COUNT(*) OVER() AS total
		FROM interviews.session s
		JOIN interviews.participant p ON p.interviewid = s.id
		WHERE p.userid = $1
		ORDER BY s.createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_interview_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var interviews []*Interview
	var total int
	for rows.Next() {
		interview := &Interview{}
		if err := rows.Scan(
			&interview.ID,
			&interview.OwnerID,
			&interview.Title,
			&interview.Kind,
			&interview.Difficulty,
			&interview.Status,
			&interview.ScheduledAt,
			&interview.CreatedAt,
			&interview.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_interview_repo_scan_failed: %w", err)
		}
		interviews = append(interviews, interview)
	}

	return interviews, total, rows.Err()
}

func (repository *PostgresRepository) Update(context context.Context, interview *Interview) error {
	const query = `
		UPDATE interviews.session
		SET title = $2, kind = $3, difficulty = $4, status = $5, scheduledat = $6, updatedat = $7
		WHERE id = $1`

	interview.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		interview.ID,
		interview.Title,
		interview.Kind,
		interview.Difficulty,
		interview.Status,
		interview.ScheduledAt,
		interview.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_interview_repo_update_failed: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Interview not found")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	// Participants cascade via FK.
	tag, err := repository.pool.Exec(context, `DELETE FROM interviews.session WHERE id = $1`, id)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_interview_repo_delete_failed: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Interview not found")
	}
	return nil
}

func (repository *PostgresRepository) AddParticipant(context context.Context, interviewID, userID string) error {
	const query = `
		INSERT INTO interviews.participant (interviewid, userid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (interviewid, userid) DO NOTHING`

	if _, err := repository.pool.Exec(context, query, interviewID, userID, time.Now()); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_interview_repo_add_participant_failed: %w", err))
	}
	return nil
}

func (repository *PostgresRepository) RemoveParticipant(context context.Context, interviewID, userID string) error {
	const query = `DELETE FROM interviews.participant WHERE interviewid = $1 AND userid = $2`

	if _, err := repository.pool.Exec(context, query, interviewID, userID); err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_interview_repo_remove_participant_failed: %w", err))
	}
	return nil
}

func (repository *PostgresRepository) IsParticipant(context context.Context, interviewID, userID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM interviews.participant
			WHERE interviewid = $1 AND userid = $2
		)`

	var participates bool
	if err := repository.pool.QueryRow(context, query, interviewID, userID).Scan(&participates); err != nil {
		return false, fmt.Errorf("postgres_interview_repo_is_participant_failed: %w", err)
	}
	return participates, nil
}
