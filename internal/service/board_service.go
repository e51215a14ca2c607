package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/classpulse/classboard-api/internal/config"
	"github.com/classpulse/classboard-api/internal/dto"
	"github.com/classpulse/classboard-api/internal/models"
	"github.com/classpulse/classboard-api/internal/observability"
	"github.com/classpulse/classboard-api/internal/repository"
)

const (
	boardCacheKey = "board:snapshot:v2"
	boardFeedSize = 10
)

// BoardService builds the projector snapshot: the full grid with display
// tiers plus the recent scoring feed. It is purely derived state,
// recomputed from the seat map and log on every cache miss.
type BoardService interface {
	Snapshot(ctx context.Context) (dto.BoardResponse, error)
	// InvalidateCache drops the cached snapshot, used after a session reset.
	InvalidateCache(ctx context.Context)
}

type boardService struct {
	seats    repository.SeatRepository
	log      repository.ActivityLogRepository
	settings SettingsService
	cache    *redis.Client
	ttl      time.Duration
	cfg      config.Config
	logger   zerolog.Logger
	now      func() time.Time
}

// NewBoardService constructs the board snapshot builder. The cache TTL is
// short: the screen polls every few seconds and brief staleness is fine.
func NewBoardService(seats repository.SeatRepository, log repository.ActivityLogRepository, settings SettingsService, cache *redis.Client, cfg config.Config, logger zerolog.Logger) BoardService {
	ttl := cfg.BoardCacheTTL
	if ttl <= 0 {
		ttl = 2 * time.Second
	}

	return &boardService{
		seats:    seats,
		log:      log,
		settings: settings,
		cache:    cache,
		ttl:      ttl,
		cfg:      cfg,
		logger:   logger.With().Str("component", "board_service").Logger(),
		now:      time.Now,
	}
}

func (s *boardService) Snapshot(ctx context.Context) (dto.BoardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, boardCacheKey).Result(); err == nil && cached != "" {
			var response dto.BoardResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				response.CacheHit = true
				observability.BoardSnapshots().WithLabelValues("cache").Inc()
				return response, nil
			}
		} else if err != nil && err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read board cache")
		}
	}

	response, err := s.build(ctx)
	if err != nil {
		return dto.BoardResponse{}, err
	}

	observability.BoardSnapshots().WithLabelValues("store").Inc()

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, boardCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store board cache")
			}
		}
	}

	return response, nil
}

func (s *boardService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, boardCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate board cache")
	}
}

func (s *boardService) build(ctx context.Context) (dto.BoardResponse, error) {
	occupied, err := s.seats.Occupied(ctx)
	if err != nil {
		return dto.BoardResponse{}, err
	}

	bonusTotals, err := s.log.TotalsByStudent(ctx, models.ActionBonusAnswer)
	if err != nil {
		return dto.BoardResponse{}, err
	}

	recent, err := s.log.Recent(ctx, boardFeedSize)
	if err != nil {
		return dto.BoardResponse{}, err
	}

	open, err := s.settings.ChannelOpen(ctx)
	if err != nil {
		return dto.BoardResponse{}, err
	}

	response := dto.BoardResponse{
		Rows:        s.cfg.GridRows,
		Cols:        s.cfg.GridCols,
		VIPRows:     s.cfg.VIPRows,
		ChannelOpen: open,
		GeneratedAt: s.now().In(s.cfg.Location),
	}

	// The passcode is public knowledge inside the room, but only while
	// check-in is running.
	if open {
		passcode, err := s.settings.Passcode(ctx)
		if err != nil {
			return dto.BoardResponse{}, err
		}
		response.Passcode = passcode
	}

	cells := make([]dto.BoardCell, 0, s.cfg.GridRows*s.cfg.GridCols)
	for row := 1; row <= s.cfg.GridRows; row++ {
		for col := 1; col <= s.cfg.GridCols; col++ {
			tier := models.SeatTierStandard
			if s.cfg.IsVIPRow(row) {
				tier = models.SeatTierVIP
			}

			cell := dto.BoardCell{Row: row, Col: col, Tier: string(tier)}
			if seat, taken := occupied[repository.Coordinate{Row: row, Col: col}]; taken {
				bonus := bonusTotals[seat.StudentID]
				cell.Occupied = true
				cell.StudentName = seat.StudentName
				cell.BonusTotal = bonus
				cell.DisplayTier = displayTier(bonus, s.cfg.StarThreshold)
			}
			cells = append(cells, cell)
		}
	}
	response.Cells = cells

	feed := make([]dto.FeedEntry, 0, len(recent))
	for _, entry := range recent {
		feed = append(feed, dto.FeedEntry{
			OccurredAt:  entry.OccurredAt,
			StudentName: entry.StudentName,
			ClassLabel:  entry.ClassLabel,
			Action:      entry.Action,
			Points:      entry.Points,
		})
	}
	response.Feed = feed

	return response, nil
}

// displayTier escalates an occupied cell's rendering as the occupant
// accumulates bonus points: any bonus elevates, the threshold earns a star.
func displayTier(bonusTotal, starThreshold int) string {
	switch {
	case bonusTotal >= starThreshold:
		return dto.DisplayTierStar
	case bonusTotal > 0:
		return dto.DisplayTierElevated
	default:
		return dto.DisplayTierBase
	}
}
