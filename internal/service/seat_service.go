package service

import (
	"context"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/classpulse/classboard-api/internal/config"
	"github.com/classpulse/classboard-api/internal/dto"
	"github.com/classpulse/classboard-api/internal/models"
	"github.com/classpulse/classboard-api/internal/observability"
	"github.com/classpulse/classboard-api/internal/repository"
)

// FeedPublisher receives every scored event for live distribution.
type FeedPublisher interface {
	Publish(entry dto.FeedEntry)
}

// SeatService adjudicates seat claims and bonus submissions. Claim gives
// exactly-once-per-seat semantics under concurrency; everything else is a
// plain read or append.
type SeatService interface {
	Claim(ctx context.Context, req dto.ClaimSeatRequest) (dto.ClaimSeatResponse, error)
	// AvailableSeats lists open coordinates in row-major order. When a
	// student id is supplied it also reports whether that student already
	// holds a seat. Claim itself does not enforce one seat per student;
	// clients use this flag as a soft check.
	AvailableSeats(ctx context.Context, studentID string) (dto.AvailableSeatsResponse, error)
	// Bonus appends a self-reported answer entry. Repeat submissions are
	// intentionally unthrottled; each call is a fresh log append.
	Bonus(ctx context.Context, req dto.BonusRequest) (dto.BonusResponse, error)
}

type seatService struct {
	seats     repository.SeatRepository
	log       repository.ActivityLogRepository
	settings  SettingsService
	feed      FeedPublisher
	cfg       config.Config
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSeatService constructs the seat ledger service.
func NewSeatService(seats repository.SeatRepository, log repository.ActivityLogRepository, settings SettingsService, feed FeedPublisher, cfg config.Config, logger zerolog.Logger) SeatService {
	return &seatService{
		seats:     seats,
		log:       log,
		settings:  settings,
		feed:      feed,
		cfg:       cfg,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "seat_service").Logger(),
		now:       time.Now,
	}
}

func (s *seatService) Claim(ctx context.Context, req dto.ClaimSeatRequest) (dto.ClaimSeatResponse, error) {
	start := time.Now()
	defer func() {
		observability.ClaimDuration().Observe(time.Since(start).Seconds())
	}()

	identity, err := s.admit(ctx, req.Passcode, req.StudentID, req.StudentName, req.ClassLabel)
	if err != nil {
		observability.ClaimAttempts().WithLabelValues("rejected").Inc()
		return dto.ClaimSeatResponse{}, err
	}

	if req.Row < 1 || req.Row > s.cfg.GridRows || req.Col < 1 || req.Col > s.cfg.GridCols {
		observability.ClaimAttempts().WithLabelValues("rejected").Inc()
		return dto.ClaimSeatResponse{}, ErrSeatOutOfRange
	}

	tier := models.SeatTierStandard
	points := s.cfg.BasePoints
	action := models.ActionSeatClaim
	if s.cfg.IsVIPRow(req.Row) {
		tier = models.SeatTierVIP
		points = s.cfg.VIPPoints
		action = models.ActionSeatClaimVIP
	}

	claimedAt := s.now().In(s.cfg.Location)
	seat := models.Seat{
		Row:         req.Row,
		Col:         req.Col,
		StudentID:   identity.id,
		StudentName: identity.name,
		ClassLabel:  identity.class,
		ClaimedAt:   claimedAt,
	}
	entry := models.ActivityEntry{
		OccurredAt:  claimedAt,
		StudentID:   identity.id,
		StudentName: identity.name,
		ClassLabel:  identity.class,
		Action:      action,
		Points:      points,
		Metadata: datatypes.JSONMap{
			"row":  req.Row,
			"col":  req.Col,
			"tier": string(tier),
		},
	}

	claimed, err := s.seats.Claim(ctx, &seat, &entry)
	if err != nil {
		observability.ClaimAttempts().WithLabelValues("error").Inc()
		return dto.ClaimSeatResponse{}, err
	}

	if !claimed {
		observability.ClaimAttempts().WithLabelValues("taken").Inc()
		s.logger.Debug().Int("row", req.Row).Int("col", req.Col).Str("student_id", identity.id).Msg("seat already taken")
		return dto.ClaimSeatResponse{Claimed: false, Row: req.Row, Col: req.Col, Points: 0}, nil
	}

	observability.ClaimAttempts().WithLabelValues("claimed").Inc()
	s.logger.Info().Int("row", req.Row).Int("col", req.Col).Str("student_id", identity.id).Int("points", points).Msg("seat claimed")
	s.publish(entry)

	return dto.ClaimSeatResponse{
		Claimed:   true,
		Row:       req.Row,
		Col:       req.Col,
		Tier:      string(tier),
		Points:    points,
		ClaimedAt: claimedAt,
	}, nil
}

func (s *seatService) AvailableSeats(ctx context.Context, studentID string) (dto.AvailableSeatsResponse, error) {
	occupied, err := s.seats.Occupied(ctx)
	if err != nil {
		return dto.AvailableSeatsResponse{}, err
	}

	seats := make([]dto.AvailableSeat, 0, s.cfg.GridRows*s.cfg.GridCols-len(occupied))
	for row := 1; row <= s.cfg.GridRows; row++ {
		for col := 1; col <= s.cfg.GridCols; col++ {
			if _, taken := occupied[repository.Coordinate{Row: row, Col: col}]; taken {
				continue
			}

			tier := models.SeatTierStandard
			if s.cfg.IsVIPRow(row) {
				tier = models.SeatTierVIP
			}

			seats = append(seats, dto.AvailableSeat{Row: row, Col: col, Tier: string(tier)})
		}
	}

	response := dto.AvailableSeatsResponse{Seats: seats}
	if trimmed := strings.TrimSpace(studentID); trimmed != "" {
		seated, err := s.seats.StudentSeated(ctx, trimmed)
		if err != nil {
			return dto.AvailableSeatsResponse{}, err
		}
		response.AlreadySeated = seated
	}

	return response, nil
}

func (s *seatService) Bonus(ctx context.Context, req dto.BonusRequest) (dto.BonusResponse, error) {
	identity, err := s.admit(ctx, req.Passcode, req.StudentID, req.StudentName, req.ClassLabel)
	if err != nil {
		return dto.BonusResponse{}, err
	}

	occurredAt := s.now().In(s.cfg.Location)
	entry := models.ActivityEntry{
		OccurredAt:  occurredAt,
		StudentID:   identity.id,
		StudentName: identity.name,
		ClassLabel:  identity.class,
		Action:      models.ActionBonusAnswer,
		Points:      s.cfg.BonusPoints,
	}

	if err := s.log.Append(ctx, &entry); err != nil {
		return dto.BonusResponse{}, err
	}

	totals, err := s.log.TotalsByStudent(ctx, models.ActionBonusAnswer)
	if err != nil {
		return dto.BonusResponse{}, err
	}

	s.logger.Info().Str("student_id", identity.id).Int("points", entry.Points).Msg("bonus points recorded")
	s.publish(entry)

	return dto.BonusResponse{
		StudentID:  identity.id,
		Points:     entry.Points,
		Total:      totals[identity.id],
		OccurredAt: occurredAt,
	}, nil
}

type identity struct {
	id    string
	name  string
	class string
}

// admit runs the shared preconditions: the channel gate, the passcode gate
// and identity sanitisation. Nothing is written before every gate passes.
func (s *seatService) admit(ctx context.Context, passcode, studentID, studentName, classLabel string) (identity, error) {
	open, err := s.settings.ChannelOpen(ctx)
	if err != nil {
		return identity{}, err
	}
	if !open {
		return identity{}, ErrChannelClosed
	}

	match, err := s.settings.VerifyPasscode(ctx, strings.TrimSpace(passcode))
	if err != nil {
		return identity{}, err
	}
	if !match {
		return identity{}, ErrPasscodeMismatch
	}

	// Names and labels end up on the projector; strip any markup.
	id := strings.TrimSpace(s.sanitizer.Sanitize(studentID))
	name := strings.TrimSpace(s.sanitizer.Sanitize(studentName))
	class := strings.TrimSpace(s.sanitizer.Sanitize(classLabel))
	if id == "" || name == "" {
		return identity{}, ErrInvalidIdentity
	}

	if class != "" && len(s.cfg.ClassLabels) > 0 && !containsLabel(s.cfg.ClassLabels, class) {
		return identity{}, ErrUnknownClassLabel
	}

	return identity{id: id, name: name, class: class}, nil
}

func (s *seatService) publish(entry models.ActivityEntry) {
	if s.feed == nil {
		return
	}

	s.feed.Publish(dto.FeedEntry{
		OccurredAt:  entry.OccurredAt,
		StudentName: entry.StudentName,
		ClassLabel:  entry.ClassLabel,
		Action:      entry.Action,
		Points:      entry.Points,
	})
}

func containsLabel(labels []string, label string) bool {
	for _, candidate := range labels {
		if strings.EqualFold(candidate, label) {
			return true
		}
	}
	return false
}
