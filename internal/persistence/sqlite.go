package persistence

import (
	"context"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/config"
)

// Sqlite wraps a sqlx handle on a local database file.
type Sqlite struct {
	DB *sqlx.DB
}

// NewSqlite opens the database file in WAL mode.
func NewSqlite(ctx context.Context, cfg config.SqliteConfig, logger *zap.Logger) (*Sqlite, error) {
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 4
	}

	db, err := sqlx.Open("sqlite", fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.File))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpen)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("opened sqlite database", zap.String("file", cfg.File), zap.Int("max_open_conns", maxOpen))
	return &Sqlite{DB: db}, nil
}

// Close releases the database handle.
func (s *Sqlite) Close() {
	if s != nil && s.DB != nil {
		_ = s.DB.Close()
	}
}

// Ping verifies the database is reachable.
func (s *Sqlite) Ping(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return fmt.Errorf("sqlite database not configured")
	}
	return s.DB.PingContext(ctx)
}
