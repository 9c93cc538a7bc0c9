package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lentera-go-api/internal/config"
	"github.com/noah-isme/lentera-go-api/internal/handler"
	"github.com/noah-isme/lentera-go-api/internal/middleware"
	"github.com/noah-isme/lentera-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ProgressHandler *handler.CourseProgressHandler
	ActivityHandler *handler.ActivityFeedHandler
	SeedHandler     *handler.SeedHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Instructor progress views
	if deps.ProgressHandler != nil {
		instructor := app.Group("/api/v2/instructor",
			jwtMiddleware,
			middleware.RequireRole("instructor", "admin"),
			middleware.RateLimit("instructor_progress", 60, time.Minute),
		)
		deps.ProgressHandler.Register(instructor)
	}

	// Course activity feed
	if deps.ActivityHandler != nil {
		courses := app.Group("/api/v2/courses", jwtMiddleware)
		deps.ActivityHandler.Register(courses)
	}

	// Development seeding, never registered in production
	if deps.SeedHandler != nil && !cfg.IsProduction() {
		dev := app.Group("/api/v2/dev")
		deps.SeedHandler.Register(dev)
	}
}
