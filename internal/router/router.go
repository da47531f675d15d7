package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/visen-app/visen-api/internal/config"
	"github.com/visen-app/visen-api/internal/handler"
	"github.com/visen-app/visen-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ResumeHandler    *handler.ResumeHandler
	InterviewHandler *handler.InterviewHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
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

	if deps.ResumeHandler != nil {
		resumes := api.Group("/resumes", jwtMiddleware)
		deps.ResumeHandler.Register(resumes)
	}

	if deps.InterviewHandler != nil {
		interviews := api.Group("/interviews", jwtMiddleware)
		deps.InterviewHandler.Register(interviews)
	}
}
