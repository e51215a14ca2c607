package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classpulse/classboard-api/internal/service"
	"github.com/classpulse/classboard-api/internal/utils"
)

// BoardHandler serves the read-only projector snapshot.
type BoardHandler struct {
	service service.BoardService
	logger  zerolog.Logger
}

// NewBoardHandler constructs the handler.
func NewBoardHandler(service service.BoardService, logger zerolog.Logger) *BoardHandler {
	return &BoardHandler{
		service: service,
		logger:  logger.With().Str("component", "board_handler").Logger(),
	}
}

// Register wires the board route.
func (h *BoardHandler) Register(router fiber.Router) {
	router.Get("", h.snapshot)
}

func (h *BoardHandler) snapshot(c *fiber.Ctx) error {
	result, err := h.service.Snapshot(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build board snapshot")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build board snapshot")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "board snapshot", result)
}
