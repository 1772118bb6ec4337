package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/pollux-site/site-admin/internal/api/http"
	"github.com/pollux-site/site-admin/internal/api/http/handlers"
	"github.com/pollux-site/site-admin/internal/config"
	"github.com/pollux-site/site-admin/internal/events"
	"github.com/pollux-site/site-admin/internal/observability"
	"github.com/pollux-site/site-admin/internal/persistence"
	"github.com/pollux-site/site-admin/internal/ratelimit"
	"github.com/pollux-site/site-admin/internal/service"
	"github.com/pollux-site/site-admin/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.JWTSecret == "" {
		logger.Error("JWT_SECRET is not configured; logins will fail with a configuration error")
	}
	if cfg.Auth.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN is not configured; every save will be rejected")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := persistence.OpenStores(ctx, *cfg, logger)
	if err != nil {
		logger.Fatal("failed to open stores", zap.Error(err))
	}
	defer stores.Close()

	if err := stores.Migrate(ctx, *cfg, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics("site_admin")
	}

	limiter := ratelimit.NewLimiter(stores.AttemptRepository(*cfg), logger,
		ratelimit.WithWindow(cfg.RateLimit.Window()),
		ratelimit.WithMaxAttempts(cfg.RateLimit.MaxAttempts),
		ratelimit.WithRecorder(metrics),
	)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartDeployWorker(dispatcher, *cfg, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Limiter:  limiter,
		Logger:   logger,
		Recorder: metrics,
	})
	contentService := service.NewContentService(stores.ContentRepository(*cfg), dispatcher, logger, cfg.Content.MaxValueLength)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, stores.Pingers()),
		Auth:        handlers.NewAuthHandler(authService),
		Content:     handlers.NewContentHandler(contentService),
		Sessions:    authService.Verifier(),
		AdminToken:  cfg.Auth.AdminToken,
		Metrics:     metrics,
		MetricsPath: cfg.Metrics.Path,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
