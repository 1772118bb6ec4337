package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pollux-site/site-admin/internal/config"
	"github.com/pollux-site/site-admin/internal/observability"
	"github.com/pollux-site/site-admin/internal/persistence"
)

var rootCmd = &cobra.Command{
	Use:           "adminctl",
	Short:         "Site admin maintenance commands",
	Long:          "Maintenance commands for the site admin service: content snapshots for the static build, password hashing, lockout reset and schema migration",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// environment is what most commands need: config, a logger and open stores.
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
	stores *persistence.Stores
}

func openEnvironment(ctx context.Context) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	stores, err := persistence.OpenStores(ctx, *cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open stores: %w", err)
	}
	return &environment{cfg: cfg, logger: logger, stores: stores}, nil
}

func (e *environment) Close() {
	e.stores.Close()
	_ = e.logger.Sync()
}
