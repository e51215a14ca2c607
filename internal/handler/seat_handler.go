package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/classpulse/classboard-api/internal/dto"
	"github.com/classpulse/classboard-api/internal/service"
	"github.com/classpulse/classboard-api/internal/utils"
)

// SeatHandler handles the student-facing claim and bonus endpoints.
type SeatHandler struct {
	service   service.SeatService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSeatHandler constructs the handler.
func NewSeatHandler(service service.SeatService, validator *validator.Validate, logger zerolog.Logger) *SeatHandler {
	return &SeatHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "seat_handler").Logger(),
	}
}

// Register wires seat routes under the provided router group.
func (h *SeatHandler) Register(router fiber.Router) {
	router.Get("/available", h.available)
	router.Post("/claim", h.claim)
}

// RegisterBonus wires the bonus endpoint under its own group.
func (h *SeatHandler) RegisterBonus(router fiber.Router) {
	router.Post("/bonus", h.bonus)
}

func (h *SeatHandler) claim(c *fiber.Ctx) error {
	var req dto.ClaimSeatRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "missing or malformed claim fields")
	}

	result, err := h.service.Claim(c.Context(), req)
	if err != nil {
		return h.sendGateError(c, err, "failed to claim seat")
	}

	message := "seat claimed"
	if !result.Claimed {
		// Losing the race is a routine outcome; the client re-lists
		// available seats and picks again.
		message = "seat already taken"
	}

	return utils.SendSuccess(c, message, result)
}

func (h *SeatHandler) available(c *fiber.Ctx) error {
	studentID := strings.TrimSpace(c.Query("student_id"))

	result, err := h.service.AvailableSeats(c.Context(), studentID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list available seats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list available seats")
	}

	return utils.SendSuccess(c, "available seats retrieved", result)
}

func (h *SeatHandler) bonus(c *fiber.Ctx) error {
	var req dto.BonusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "missing or malformed bonus fields")
	}

	result, err := h.service.Bonus(c.Context(), req)
	if err != nil {
		return h.sendGateError(c, err, "failed to record bonus points")
	}

	return utils.SendSuccess(c, "bonus points recorded", result)
}

func (h *SeatHandler) sendGateError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrChannelClosed):
		return utils.SendError(c, fiber.StatusForbidden, "check-in channel is closed")
	case errors.Is(err, service.ErrPasscodeMismatch):
		return utils.SendError(c, fiber.StatusUnauthorized, "passcode incorrect")
	case errors.Is(err, service.ErrSeatOutOfRange):
		return utils.SendError(c, fiber.StatusBadRequest, "seat coordinate outside the grid")
	case errors.Is(err, service.ErrUnknownClassLabel):
		return utils.SendError(c, fiber.StatusBadRequest, "class label not recognised")
	case errors.Is(err, service.ErrInvalidIdentity):
		return utils.SendError(c, fiber.StatusBadRequest, "student id and name are required")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
