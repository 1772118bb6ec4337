package service

import (
	"context"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/pollux-site/site-admin/internal/config"
	"github.com/pollux-site/site-admin/internal/domain"
	"github.com/pollux-site/site-admin/internal/repository"
	apperrors "github.com/pollux-site/site-admin/pkg/util/errorutil"
)

func openSqlite(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAttemptRepo(t *testing.T) repository.AttemptRepository {
	return repository.NewSqliteAttemptRepository(openSqlite(t))
}

func testConfig() config.Config {
	return config.Config{
		App: config.AppConfig{Env: "test"},
		Auth: config.AuthConfig{
			AdminUsername:     "admin",
			AdminPassword:     "correct horse",
			JWTSecret:         "jwt-secret",
			SessionTTLSeconds: 3600,
			AdminToken:        "save-token",
		},
	}
}

func domainError(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	return apperrors.ToDomainError(err)
}

// failingContentRepo fails every call.
type failingContentRepo struct {
	err error
}

func (f failingContentRepo) List(context.Context) ([]domain.ContentEntry, error) {
	return nil, f.err
}

func (f failingContentRepo) Upsert(context.Context, string, string) error {
	return f.err
}
