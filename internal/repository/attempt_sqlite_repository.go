package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pollux-site/site-admin/internal/domain"
)

type sqliteAttemptRepository struct {
	db     *sqlx.DB
	schema lazySchema
}

// NewSqliteAttemptRepository returns an implementation on a sqlite database.
func NewSqliteAttemptRepository(db *sqlx.DB) AttemptRepository {
	return &sqliteAttemptRepository{db: db}
}

func (r *sqliteAttemptRepository) ensureTable(ctx context.Context) error {
	return r.schema.ensure(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, loginAttemptsTable)
		return err
	})
}

func (r *sqliteAttemptRepository) Get(ctx context.Context, ip string) (*domain.LoginAttempt, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}

	var row attemptRow
	err := r.db.GetContext(ctx, &row, `
        SELECT ip, attempts, first_attempt_at, last_attempt_at
        FROM login_attempts WHERE ip = ?`, ip)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *sqliteAttemptRepository) RecordFailure(ctx context.Context, ip string, now time.Time, window time.Duration) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	nowUnix := now.Unix()
	start := windowStart(now, window)
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO login_attempts (ip, attempts, first_attempt_at, last_attempt_at)
        VALUES (?, 1, ?, ?)
        ON CONFLICT (ip) DO UPDATE SET
            attempts = CASE WHEN login_attempts.first_attempt_at < ?
                THEN 1 ELSE login_attempts.attempts + 1 END,
            first_attempt_at = CASE WHEN login_attempts.first_attempt_at < ?
                THEN excluded.first_attempt_at ELSE login_attempts.first_attempt_at END,
            last_attempt_at = excluded.last_attempt_at`,
		ip, nowUnix, nowUnix, start, start)
	return err
}

func (r *sqliteAttemptRepository) Delete(ctx context.Context, ip string) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM login_attempts WHERE ip = ?`, ip)
	return err
}
