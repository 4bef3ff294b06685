package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/skillgate/skillgate-api/internal/config"
	"github.com/skillgate/skillgate-api/internal/handler"
	"github.com/skillgate/skillgate-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler     *handler.CourseHandler
	EvaluationHandler *handler.EvaluationHandler
	UploadHandler     *handler.UploadHandler
	AdminHandler      *handler.AdminHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(api.Group("/courses"))
	}

	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.Register(api.Group("/evaluations"))
	}

	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(api.Group("/uploads"))
	}

	// Reviewer surface sits behind JWT; a no-op stands in when auth is not
	// configured (local development).
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AdminHandler != nil {
		deps.AdminHandler.Register(app.Group("/api/v1/admin", jwtMiddleware))
	}
}
