package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/classpulse/classboard-api/internal/config"
	"github.com/classpulse/classboard-api/internal/dto"
	"github.com/classpulse/classboard-api/internal/repository"
)

// AdminService exposes the teacher-side session controls.
type AdminService interface {
	SessionState(ctx context.Context) (dto.SessionStateResponse, error)
	RegeneratePasscode(ctx context.Context) (dto.PasscodeResponse, error)
	OpenChannel(ctx context.Context) error
	CloseChannel(ctx context.Context) error
	// Reset clears every seat and log entry for the next class.
	Reset(ctx context.Context) (dto.ResetResponse, error)
	// ExportCSV renders the full activity log and a dated filename.
	ExportCSV(ctx context.Context) ([]byte, string, error)
}

type adminService struct {
	settings SettingsService
	session  repository.SessionRepository
	log      repository.ActivityLogRepository
	board    BoardService
	cfg      config.Config
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAdminService constructs the admin service.
func NewAdminService(settings SettingsService, session repository.SessionRepository, log repository.ActivityLogRepository, board BoardService, cfg config.Config, logger zerolog.Logger) AdminService {
	return &adminService{
		settings: settings,
		session:  session,
		log:      log,
		board:    board,
		cfg:      cfg,
		logger:   logger.With().Str("component", "admin_service").Logger(),
		now:      time.Now,
	}
}

func (s *adminService) SessionState(ctx context.Context) (dto.SessionStateResponse, error) {
	passcode, err := s.settings.Passcode(ctx)
	if err != nil {
		return dto.SessionStateResponse{}, err
	}

	open, err := s.settings.ChannelOpen(ctx)
	if err != nil {
		return dto.SessionStateResponse{}, err
	}

	return dto.SessionStateResponse{Passcode: passcode, ChannelOpen: open}, nil
}

func (s *adminService) RegeneratePasscode(ctx context.Context) (dto.PasscodeResponse, error) {
	pin, err := s.settings.RegeneratePasscode(ctx)
	if err != nil {
		return dto.PasscodeResponse{}, err
	}

	return dto.PasscodeResponse{Passcode: pin}, nil
}

func (s *adminService) OpenChannel(ctx context.Context) error {
	return s.settings.OpenChannel(ctx)
}

func (s *adminService) CloseChannel(ctx context.Context) error {
	return s.settings.CloseChannel(ctx)
}

func (s *adminService) Reset(ctx context.Context) (dto.ResetResponse, error) {
	if err := s.session.Reset(ctx); err != nil {
		return dto.ResetResponse{}, err
	}

	if s.board != nil {
		s.board.InvalidateCache(ctx)
	}

	s.logger.Info().Msg("session reset: seats and log cleared")
	return dto.ResetResponse{SeatsCleared: true, LogCleared: true}, nil
}

func (s *adminService) ExportCSV(ctx context.Context) ([]byte, string, error) {
	entries, err := s.log.List(ctx)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"timestamp", "student_id", "student_name", "class_label", "action", "points"}); err != nil {
		return nil, "", err
	}

	for _, entry := range entries {
		record := []string{
			entry.OccurredAt.In(s.cfg.Location).Format("2006-01-02 15:04:05"),
			entry.StudentID,
			entry.StudentName,
			entry.ClassLabel,
			entry.Action,
			strconv.Itoa(entry.Points),
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("class_logs_%s.csv", s.now().In(s.cfg.Location).Format("20060102"))
	return buf.Bytes(), filename, nil
}
