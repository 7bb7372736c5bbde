package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Huerte/AcademiQly/internal/config"
	"github.com/Huerte/AcademiQly/internal/handler"
	"github.com/Huerte/AcademiQly/internal/middleware"
	"github.com/Huerte/AcademiQly/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler     *handler.ActivityHandler
	SubmissionHandler   *handler.SubmissionHandler
	DashboardHandler    *handler.DashboardHandler
	AnalyticsHandler    *handler.AnalyticsHandler
	ExportHandler       *handler.ExportHandler
	NotificationHandler *handler.NotificationHandler
	AuditHandler        *handler.AuditHandler

	HealthChecks map[string]handler.Pinger

	JWTMiddleware       fiber.Handler
	RoleMiddleware      fiber.Handler
	SubmissionRateLimit fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthChecks))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}

	// Report access is decided by the role claim so admins without a
	// teacher profile can read it.
	if deps.AnalyticsHandler != nil {
		analytics := api.Group("/analytics", jwtMiddleware, middleware.RequireRole("admin", "teacher"))
		deps.AnalyticsHandler.Register(analytics)
	}

	profiled := []fiber.Handler{jwtMiddleware}
	if deps.RoleMiddleware != nil {
		profiled = append(profiled, deps.RoleMiddleware)
	}

	if deps.NotificationHandler != nil {
		deps.NotificationHandler.Register(api.Group("/notifications", profiled...))
	}

	if deps.AuditHandler != nil {
		deps.AuditHandler.Register(api.Group("/audit", profiled...))
	}

	// Remaining domain routes share one group so that paths stay flat.
	domain := api.Group("", profiled...)
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(domain)
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(domain, deps.SubmissionRateLimit)
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(domain)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.Register(domain)
	}
}
