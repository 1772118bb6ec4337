package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pollux-site/site-admin/internal/domain"
)

type attemptRepository struct {
	pool   *pgxpool.Pool
	schema lazySchema
}

// NewAttemptRepository returns a Postgres-backed implementation.
func NewAttemptRepository(pool *pgxpool.Pool) AttemptRepository {
	return &attemptRepository{pool: pool}
}

func (r *attemptRepository) ensureTable(ctx context.Context) error {
	return r.schema.ensure(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(ctx, loginAttemptsTable)
		return err
	})
}

func (r *attemptRepository) Get(ctx context.Context, ip string) (*domain.LoginAttempt, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}

	const query = `
        SELECT ip, attempts, first_attempt_at, last_attempt_at
        FROM login_attempts WHERE ip=$1`

	var row attemptRow
	if err := r.pool.QueryRow(ctx, query, ip).Scan(
		&row.IP,
		&row.Attempts,
		&row.FirstAttemptAt,
		&row.LastAttemptAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *attemptRepository) RecordFailure(ctx context.Context, ip string, now time.Time, window time.Duration) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	const query = `
        INSERT INTO login_attempts (ip, attempts, first_attempt_at, last_attempt_at)
        VALUES ($1, 1, $2, $2)
        ON CONFLICT (ip) DO UPDATE SET
            attempts = CASE WHEN login_attempts.first_attempt_at < $3
                THEN 1 ELSE login_attempts.attempts + 1 END,
            first_attempt_at = CASE WHEN login_attempts.first_attempt_at < $3
                THEN EXCLUDED.first_attempt_at ELSE login_attempts.first_attempt_at END,
            last_attempt_at = EXCLUDED.last_attempt_at`

	_, err := r.pool.Exec(ctx, query, ip, now.Unix(), windowStart(now, window))
	return err
}

func (r *attemptRepository) Delete(ctx context.Context, ip string) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM login_attempts WHERE ip=$1`, ip)
	return err
}
