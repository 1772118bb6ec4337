package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pollux-site/site-admin/internal/domain"
)

// ErrNotFound is returned when no record exists for the key.
var ErrNotFound = errors.New("record not found")

// AttemptRepository persists failed login counters keyed by client identifier.
type AttemptRepository interface {
	// Get returns ErrNotFound when no record exists. Window expiry is left to
	// the caller.
	Get(ctx context.Context, ip string) (*domain.LoginAttempt, error)
	// RecordFailure inserts a fresh record or increments the existing one in a
	// single atomic operation. A record whose window started before
	// now-window is restarted with attempts=1.
	RecordFailure(ctx context.Context, ip string, now time.Time, window time.Duration) error
	// Delete removes the record; deleting a missing record is not an error.
	Delete(ctx context.Context, ip string) error
}

// ContentRepository stores the editable site fields.
type ContentRepository interface {
	List(ctx context.Context) ([]domain.ContentEntry, error)
	Upsert(ctx context.Context, key, value string) error
}

const loginAttemptsTable = `
        CREATE TABLE IF NOT EXISTS login_attempts (
            ip TEXT PRIMARY KEY,
            attempts INTEGER NOT NULL DEFAULT 0,
            first_attempt_at BIGINT NOT NULL,
            last_attempt_at BIGINT NOT NULL
        )`

const contentTable = `
        CREATE TABLE IF NOT EXISTS content (
            key TEXT PRIMARY KEY,
            value TEXT NOT NULL DEFAULT ''
        )`

// attemptRow mirrors the login_attempts columns.
type attemptRow struct {
	IP             string `db:"ip"`
	Attempts       int    `db:"attempts"`
	FirstAttemptAt int64  `db:"first_attempt_at"`
	LastAttemptAt  int64  `db:"last_attempt_at"`
}

func (r attemptRow) toDomain() *domain.LoginAttempt {
	return &domain.LoginAttempt{
		IP:             r.IP,
		Attempts:       r.Attempts,
		FirstAttemptAt: time.Unix(r.FirstAttemptAt, 0),
		LastAttemptAt:  time.Unix(r.LastAttemptAt, 0),
	}
}

func windowStart(now time.Time, window time.Duration) int64 {
	return now.Add(-window).Unix()
}
