package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/config"
)

func sqliteOnlyConfig(t *testing.T) config.Config {
	return config.Config{
		RateLimit: config.RateLimitConfig{Store: config.StoreSqlite},
		Content:   config.ContentConfig{Store: config.StoreSqlite},
		Sqlite: config.SqliteConfig{
			File:          filepath.Join(t.TempDir(), "site-admin.db"),
			RunMigrations: true,
		},
	}
}

func TestOpenStores(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("Given sqlite stores When opened and migrated Then repositories work against the schema", func(t *testing.T) {
		cfg := sqliteOnlyConfig(t)
		stores, err := OpenStores(ctx, cfg, logger)
		require.NoError(t, err)
		defer stores.Close()

		require.NoError(t, stores.Migrate(ctx, cfg, logger))
		require.NoError(t, stores.Migrate(ctx, cfg, logger), "migrations are idempotent")

		var tables []string
		require.NoError(t, stores.Sqlite.DB.SelectContext(ctx, &tables,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('login_attempts', 'content') ORDER BY name`))
		assert.Equal(t, []string{"content", "login_attempts"}, tables)

		content := stores.ContentRepository(cfg)
		require.NotNil(t, content)
		require.NoError(t, content.Upsert(ctx, "hero_title", "Hello"))

		assert.NotNil(t, stores.AttemptRepository(cfg))
		assert.Contains(t, stores.Pingers(), "sqlite")
		for _, p := range stores.Pingers() {
			assert.NoError(t, p.Ping(ctx))
		}
	})

	t.Run("Given none stores When opened Then no repositories are returned", func(t *testing.T) {
		cfg := config.Config{
			RateLimit: config.RateLimitConfig{Store: config.StoreNone},
			Content:   config.ContentConfig{Store: config.StoreNone},
		}
		stores, err := OpenStores(ctx, cfg, logger)
		require.NoError(t, err)
		defer stores.Close()

		assert.Nil(t, stores.AttemptRepository(cfg))
		assert.Nil(t, stores.ContentRepository(cfg))
		assert.Empty(t, stores.Pingers())
		assert.NoError(t, stores.Migrate(ctx, cfg, logger))
	})

	t.Run("Given an unopened backend When pinged Then an error is returned", func(t *testing.T) {
		var pg *Postgres
		var lite *Sqlite
		var rdb *Redis
		assert.Error(t, pg.Ping(ctx))
		assert.Error(t, lite.Ping(ctx))
		assert.Error(t, rdb.Ping(ctx))
	})
}
