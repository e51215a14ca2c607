package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/classpulse/classboard-api/internal/service"
)

// LiveFeedHandler upgrades screen clients onto the scoring event feed.
type LiveFeedHandler struct {
	service service.LiveFeedService
	logger  zerolog.Logger
}

// NewLiveFeedHandler constructs the handler.
func NewLiveFeedHandler(service service.LiveFeedService, logger zerolog.Logger) *LiveFeedHandler {
	return &LiveFeedHandler{
		service: service,
		logger:  logger.With().Str("component", "live_feed_handler").Logger(),
	}
}

// Register wires the websocket upgrade under the provided router group.
func (h *LiveFeedHandler) Register(router fiber.Router) {
	router.Use("/feed", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/feed", websocket.New(h.handleConnection))
}

func (h *LiveFeedHandler) handleConnection(conn *websocket.Conn) {
	h.logger.Info().Msg("live feed client connected")
	h.service.ServeConnection(conn)
	h.logger.Info().Msg("live feed client disconnected")
}
