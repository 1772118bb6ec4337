package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pollux-site/site-admin/internal/domain"
)

type contentRepository struct {
	pool   *pgxpool.Pool
	schema lazySchema
}

// NewContentRepository returns a Postgres-backed implementation.
func NewContentRepository(pool *pgxpool.Pool) ContentRepository {
	return &contentRepository{pool: pool}
}

func (r *contentRepository) ensureTable(ctx context.Context) error {
	return r.schema.ensure(ctx, func(ctx context.Context) error {
		_, err := r.pool.Exec(ctx, contentTable)
		return err
	})
}

func (r *contentRepository) List(ctx context.Context) ([]domain.ContentEntry, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT key, value FROM content ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ContentEntry
	for rows.Next() {
		var entry domain.ContentEntry
		if err := rows.Scan(&entry.Key, &entry.Value); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *contentRepository) Upsert(ctx context.Context, key, value string) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	const query = `
        INSERT INTO content (key, value) VALUES ($1, $2)
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`
	_, err := r.pool.Exec(ctx, query, key, value)
	return err
}
