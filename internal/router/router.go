package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/classpulse/classboard-api/internal/config"
	"github.com/classpulse/classboard-api/internal/handler"
	"github.com/classpulse/classboard-api/internal/middleware"
	"github.com/classpulse/classboard-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SeatHandler     *handler.SeatHandler
	BoardHandler    *handler.BoardHandler
	AdminHandler    *handler.AdminHandler
	LiveFeedHandler *handler.LiveFeedHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Student view: claim a seat, self-report an answer.
	if deps.SeatHandler != nil {
		deps.SeatHandler.Register(api.Group("/seats"))
		deps.SeatHandler.RegisterBonus(api.Group("/points"))
	}

	// Screen view: read-only snapshot plus the websocket event feed.
	if deps.BoardHandler != nil {
		board := api.Group("/board")
		deps.BoardHandler.Register(board)

		if deps.LiveFeedHandler != nil {
			deps.LiveFeedHandler.Register(board)
		}
	}

	// Hidden teacher view, shared-secret gated.
	if deps.AdminHandler != nil {
		admin := api.Group("/admin", middleware.AdminSecret(cfg.AdminSecret))
		deps.AdminHandler.Register(admin)
	}
}
