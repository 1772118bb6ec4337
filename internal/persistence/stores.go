package persistence

import (
	"context"

	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/config"
	"github.com/pollux-site/site-admin/internal/repository"
)

// Pinger is a dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Stores holds the connections the configured stores need. Unused backends
// stay nil.
type Stores struct {
	Postgres *Postgres
	Sqlite   *Sqlite
	Redis    *Redis
}

// OpenStores connects every backend referenced by RATE_LIMIT_STORE or CONTENT_STORE.
func OpenStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Stores, error) {
	stores := &Stores{}

	if cfg.UsesPostgres() {
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		stores.Postgres = pg
	}
	if cfg.UsesSqlite() {
		lite, err := NewSqlite(ctx, cfg.Sqlite, logger)
		if err != nil {
			stores.Close()
			return nil, err
		}
		stores.Sqlite = lite
	}
	if cfg.UsesRedis() {
		stores.Redis = NewRedis(ctx, cfg.Redis, logger)
	}
	return stores, nil
}

// Migrate applies the embedded schema to the SQL backends that asked for it.
func (s *Stores) Migrate(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if s.Postgres != nil && cfg.Postgres.RunMigrations {
		if err := RunPostgresMigrations(ctx, s.Postgres.PoolHandle(), logger); err != nil {
			return err
		}
	}
	if s.Sqlite != nil && cfg.Sqlite.RunMigrations {
		if err := RunSqliteMigrations(ctx, s.Sqlite.DB.DB, logger); err != nil {
			return err
		}
	}
	return nil
}

// AttemptRepository returns the login attempt store, or nil for "none".
func (s *Stores) AttemptRepository(cfg config.Config) repository.AttemptRepository {
	switch cfg.RateLimit.Store {
	case config.StorePostgres:
		if s.Postgres != nil && s.Postgres.PoolHandle() != nil {
			return repository.NewAttemptRepository(s.Postgres.PoolHandle())
		}
	case config.StoreSqlite:
		if s.Sqlite != nil {
			return repository.NewSqliteAttemptRepository(s.Sqlite.DB)
		}
	case config.StoreRedis:
		if s.Redis != nil {
			return repository.NewRedisAttemptRepository(s.Redis.Client, cfg.Redis.KeyPrefix)
		}
	}
	return nil
}

// ContentRepository returns the content store, or nil for "none".
func (s *Stores) ContentRepository(cfg config.Config) repository.ContentRepository {
	switch cfg.Content.Store {
	case config.StorePostgres:
		if s.Postgres != nil && s.Postgres.PoolHandle() != nil {
			return repository.NewContentRepository(s.Postgres.PoolHandle())
		}
	case config.StoreSqlite:
		if s.Sqlite != nil {
			return repository.NewSqliteContentRepository(s.Sqlite.DB)
		}
	}
	return nil
}

// Pingers lists the open backends for readiness checks.
func (s *Stores) Pingers() map[string]Pinger {
	pingers := map[string]Pinger{}
	if s.Postgres != nil {
		pingers["postgres"] = s.Postgres
	}
	if s.Sqlite != nil {
		pingers["sqlite"] = s.Sqlite
	}
	if s.Redis != nil {
		pingers["redis"] = s.Redis
	}
	return pingers
}

// Close releases every open backend.
func (s *Stores) Close() {
	s.Postgres.Close()
	s.Sqlite.Close()
	s.Redis.Close()
}
