package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/pollux-site/site-admin/internal/api/http/handlers"
	"github.com/pollux-site/site-admin/internal/auth"
	"github.com/pollux-site/site-admin/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Content     *handlers.ContentHandler
	Sessions    *auth.SessionVerifier
	AdminToken  string
	Metrics     *observability.Metrics
	MetricsPath string
}

// RegisterRoutes wires HTTP routes.
//
// Two authorization modes coexist and are not interchangeable: the editor's
// routes under /api/admin require the session cookie issued by /api/login,
// while /api/save requires the static X-Admin-Token header.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Post("/login", cfg.Auth.Login)
	api.Post("/logout", cfg.Auth.Logout)
	api.Get("/verify", cfg.Auth.Verify)
	api.Get("/content", cfg.Content.List)
	api.Post("/save", auth.RequireAdminToken(cfg.AdminToken), cfg.Content.Save)

	admin := api.Group("/admin", auth.RequireSession(cfg.Sessions))
	admin.Get("/content", cfg.Content.Draft)
}
