package service

import (
	"context"
	"math/rand/v2"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/classpulse/classboard-api/internal/models"
	"github.com/classpulse/classboard-api/internal/repository"
)

// SettingsService mediates the two process-wide session toggles: the active
// passcode and the open/closed state of the check-in channel. There is no
// in-memory cache; every read hits the store so the admin's writes are
// visible to the next gate check immediately.
type SettingsService interface {
	Passcode(ctx context.Context) (string, error)
	VerifyPasscode(ctx context.Context, code string) (bool, error)
	// RegeneratePasscode draws a fresh pin uniformly from [1000, 9999],
	// persists it and returns it. The draw is independent of the old value.
	RegeneratePasscode(ctx context.Context) (string, error)
	ChannelOpen(ctx context.Context) (bool, error)
	OpenChannel(ctx context.Context) error
	CloseChannel(ctx context.Context) error
}

type settingsService struct {
	repo   repository.SettingsRepository
	logger zerolog.Logger
	intN   func(n int) int
}

// NewSettingsService constructs the settings service.
func NewSettingsService(repo repository.SettingsRepository, logger zerolog.Logger) SettingsService {
	return &settingsService{
		repo:   repo,
		logger: logger.With().Str("component", "settings_service").Logger(),
		intN:   rand.IntN,
	}
}

func (s *settingsService) Passcode(ctx context.Context) (string, error) {
	return s.repo.Get(ctx, models.SettingCurrentPin)
}

func (s *settingsService) VerifyPasscode(ctx context.Context, code string) (bool, error) {
	current, err := s.repo.Get(ctx, models.SettingCurrentPin)
	if err != nil {
		return false, err
	}

	return current != "" && code == current, nil
}

func (s *settingsService) RegeneratePasscode(ctx context.Context) (string, error) {
	pin := strconv.Itoa(1000 + s.intN(9000))
	if err := s.repo.Set(ctx, models.SettingCurrentPin, pin); err != nil {
		return "", err
	}

	s.logger.Info().Msg("passcode regenerated")
	return pin, nil
}

func (s *settingsService) ChannelOpen(ctx context.Context) (bool, error) {
	value, err := s.repo.Get(ctx, models.SettingChannelOpen)
	if err != nil {
		return false, err
	}

	return value == "true", nil
}

func (s *settingsService) OpenChannel(ctx context.Context) error {
	if err := s.repo.Set(ctx, models.SettingChannelOpen, "true"); err != nil {
		return err
	}

	s.logger.Info().Msg("check-in channel opened")
	return nil
}

func (s *settingsService) CloseChannel(ctx context.Context) error {
	if err := s.repo.Set(ctx, models.SettingChannelOpen, "false"); err != nil {
		return err
	}

	s.logger.Info().Msg("check-in channel closed")
	return nil
}
