// Copyright (c) 2026 PrepDeck. All rights reserved.

package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepdeck/prepdeck/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (repository *PostgresRepository) Create(context context.Context, entry *Entry) error {
	const query = `
		INSERT INTO progress.entry (id, userid, interviewid, category, score, notes, createdat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	entry.CreatedAt = time.Now()

	_, err := repository.pool.Exec(context, query,
		entry.ID,
		entry.UserID,
		entry.InterviewID,
		entry.Category,
		entry.Score,
		entry.Notes,
		entry.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_progress_repo_create_failed: %w", err))
	}
	return nil
}

func (repository *PostgresRepository) ListByUser(context context.Context, userID string, limit, offset int) ([]*Entry, int, error) {
	const query = `
		SELECT id, userid, interviewid, category, score, notes, createdat, COUNT(*) OVER() AS total
		FROM progress.entry
		WHERE userid = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_progress_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	var total int
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.InterviewID,
			&entry.Category,
			&entry.Score,
			&entry.Notes,
			&entry.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_progress_repo_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, total, rows.Err()
}
