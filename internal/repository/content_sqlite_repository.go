package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/pollux-site/site-admin/internal/domain"
)

type sqliteContentRepository struct {
	db     *sqlx.DB
	schema lazySchema
}

// NewSqliteContentRepository returns an implementation on a sqlite database.
func NewSqliteContentRepository(db *sqlx.DB) ContentRepository {
	return &sqliteContentRepository{db: db}
}

func (r *sqliteContentRepository) ensureTable(ctx context.Context) error {
	return r.schema.ensure(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, contentTable)
		return err
	})
}

func (r *sqliteContentRepository) List(ctx context.Context) ([]domain.ContentEntry, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}

	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT key, value FROM content ORDER BY key`); err != nil {
		return nil, err
	}

	entries := make([]domain.ContentEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, domain.ContentEntry{Key: row.Key, Value: row.Value})
	}
	return entries, nil
}

func (r *sqliteContentRepository) Upsert(ctx context.Context, key, value string) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO content (key, value) VALUES (?, ?)`, key, value)
	return err
}
