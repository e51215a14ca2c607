package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classpulse/classboard-api/internal/service"
	"github.com/classpulse/classboard-api/internal/utils"
)

// AdminHandler exposes the teacher-side session controls. Every route is
// guarded by the shared-secret middleware registered on the group.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires admin routes under the provided router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/session", h.session)
	router.Post("/session/passcode", h.regeneratePasscode)
	router.Post("/session/open", h.openChannel)
	router.Post("/session/close", h.closeChannel)
	router.Post("/session/reset", h.reset)
	router.Get("/logs/export", h.exportLogs)
}

func (h *AdminHandler) session(c *fiber.Ctx) error {
	state, err := h.service.SessionState(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to read session state")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to read session state")
	}

	return utils.SendSuccess(c, "session state", state)
}

func (h *AdminHandler) regeneratePasscode(c *fiber.Ctx) error {
	result, err := h.service.RegeneratePasscode(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to regenerate passcode")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to regenerate passcode")
	}

	return utils.SendSuccess(c, "passcode regenerated", result)
}

func (h *AdminHandler) openChannel(c *fiber.Ctx) error {
	if err := h.service.OpenChannel(c.Context()); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to open channel")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to open channel")
	}

	return utils.SendSuccess(c, "check-in channel opened", nil)
}

func (h *AdminHandler) closeChannel(c *fiber.Ctx) error {
	if err := h.service.CloseChannel(c.Context()); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to close channel")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to close channel")
	}

	return utils.SendSuccess(c, "check-in channel closed", nil)
}

func (h *AdminHandler) reset(c *fiber.Ctx) error {
	result, err := h.service.Reset(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to reset session")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to reset session")
	}

	return utils.SendSuccess(c, "session reset", result)
}

func (h *AdminHandler) exportLogs(c *fiber.Ctx) error {
	payload, filename, err := h.service.ExportCSV(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to export logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to export logs")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(payload)
}
