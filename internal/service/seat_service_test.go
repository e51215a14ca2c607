package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/classpulse/classboard-api/internal/config"
	"github.com/classpulse/classboard-api/internal/dto"
	"github.com/classpulse/classboard-api/internal/models"
	"github.com/classpulse/classboard-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testConfig() config.Config {
	return config.Config{
		GridRows:      9,
		GridCols:      10,
		VIPRows:       3,
		VIPPoints:     2,
		BasePoints:    1,
		BonusPoints:   2,
		StarThreshold: 4,
		Location:      time.UTC,
		BoardCacheTTL: 2 * time.Second,
	}
}

type seatRepoStub struct {
	mu        sync.Mutex
	seats     map[repository.Coordinate]models.Seat
	lastEntry *models.ActivityEntry
}

func newSeatRepoStub() *seatRepoStub {
	return &seatRepoStub{seats: make(map[repository.Coordinate]models.Seat)}
}

func (s *seatRepoStub) Claim(_ context.Context, seat *models.Seat, entry *models.ActivityEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coord := repository.Coordinate{Row: seat.Row, Col: seat.Col}
	if _, taken := s.seats[coord]; taken {
		return false, nil
	}

	s.seats[coord] = *seat
	s.lastEntry = entry
	return true, nil
}

func (s *seatRepoStub) List(context.Context) ([]models.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seats := make([]models.Seat, 0, len(s.seats))
	for _, seat := range s.seats {
		seats = append(seats, seat)
	}
	return seats, nil
}

func (s *seatRepoStub) Occupied(context.Context) (map[repository.Coordinate]models.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	occupied := make(map[repository.Coordinate]models.Seat, len(s.seats))
	for coord, seat := range s.seats {
		occupied[coord] = seat
	}
	return occupied, nil
}

func (s *seatRepoStub) StudentSeated(_ context.Context, studentID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, seat := range s.seats {
		if seat.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

type logRepoStub struct {
	mu      sync.Mutex
	entries []models.ActivityEntry
}

func (l *logRepoStub) Append(_ context.Context, entry *models.ActivityEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, *entry)
	return nil
}

func (l *logRepoStub) Recent(_ context.Context, n int) ([]models.ActivityEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recent := make([]models.ActivityEntry, 0, n)
	for i := len(l.entries) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, l.entries[i])
	}
	return recent, nil
}

func (l *logRepoStub) List(context.Context) ([]models.ActivityEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.ActivityEntry(nil), l.entries...), nil
}

func (l *logRepoStub) TotalsByStudent(_ context.Context, action string) (map[string]int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	totals := make(map[string]int)
	for _, entry := range l.entries {
		if action != "" && entry.Action != action {
			continue
		}
		totals[entry.StudentID] += entry.Points
	}
	return totals, nil
}

type settingsStub struct {
	open bool
	pin  string
}

func (s *settingsStub) Passcode(context.Context) (string, error) { return s.pin, nil }

func (s *settingsStub) VerifyPasscode(_ context.Context, code string) (bool, error) {
	return s.pin != "" && code == s.pin, nil
}

func (s *settingsStub) RegeneratePasscode(context.Context) (string, error) { return s.pin, nil }

func (s *settingsStub) ChannelOpen(context.Context) (bool, error) { return s.open, nil }

func (s *settingsStub) OpenChannel(context.Context) error { s.open = true; return nil }

func (s *settingsStub) CloseChannel(context.Context) error { s.open = false; return nil }

type feedStub struct {
	mu        sync.Mutex
	published []dto.FeedEntry
}

func (f *feedStub) Publish(entry dto.FeedEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, entry)
}

func claimRequest(row, col int) dto.ClaimSeatRequest {
	return dto.ClaimSeatRequest{
		Row:         row,
		Col:         col,
		StudentID:   "S001",
		StudentName: "Alice",
		Passcode:    "8888",
	}
}

func TestSeatServiceClaimVIPRowAwardsTwoPoints(t *testing.T) {
	seats := newSeatRepoStub()
	logs := &logRepoStub{}
	feed := &feedStub{}
	svc := NewSeatService(seats, logs, &settingsStub{open: true, pin: "8888"}, feed, testConfig(), testLogger())

	result, err := svc.Claim(context.Background(), claimRequest(2, 5))
	require.NoError(t, err)
	require.True(t, result.Claimed)
	require.Equal(t, 2, result.Points)
	require.Equal(t, string(models.SeatTierVIP), result.Tier)

	require.NotNil(t, seats.lastEntry)
	require.Equal(t, models.ActionSeatClaimVIP, seats.lastEntry.Action)
	require.Equal(t, 2, seats.lastEntry.Points)
	require.Equal(t, "vip", seats.lastEntry.Metadata["tier"])

	require.Len(t, feed.published, 1)
	require.Equal(t, models.ActionSeatClaimVIP, feed.published[0].Action)
}

func TestSeatServiceClaimStandardRowAwardsOnePoint(t *testing.T) {
	seats := newSeatRepoStub()
	svc := NewSeatService(seats, &logRepoStub{}, &settingsStub{open: true, pin: "8888"}, nil, testConfig(), testLogger())

	result, err := svc.Claim(context.Background(), claimRequest(4, 1))
	require.NoError(t, err)
	require.True(t, result.Claimed)
	require.Equal(t, 1, result.Points)
	require.Equal(t, string(models.SeatTierStandard), result.Tier)
	require.Equal(t, models.ActionSeatClaim, seats.lastEntry.Action)
}

func TestSeatServiceClaimTakenSeatIsNotAnError(t *testing.T) {
	seats := newSeatRepoStub()
	feed := &feedStub{}
	svc := NewSeatService(seats, &logRepoStub{}, &settingsStub{open: true, pin: "8888"}, feed, testConfig(), testLogger())
	ctx := context.Background()

	first, err := svc.Claim(ctx, claimRequest(2, 5))
	require.NoError(t, err)
	require.True(t, first.Claimed)

	second := claimRequest(2, 5)
	second.StudentID = "S002"
	second.StudentName = "Bob"
	result, err := svc.Claim(ctx, second)
	require.NoError(t, err)
	require.False(t, result.Claimed)
	require.Zero(t, result.Points)

	require.Len(t, feed.published, 1, "losing claim publishes nothing")
}

func TestSeatServiceClaimGates(t *testing.T) {
	cases := []struct {
		name     string
		settings *settingsStub
		mutate   func(*dto.ClaimSeatRequest)
		wantErr  error
	}{
		{name: "channel closed", settings: &settingsStub{open: false, pin: "8888"}, wantErr: ErrChannelClosed},
		{name: "bad passcode", settings: &settingsStub{open: true, pin: "8888"}, mutate: func(r *dto.ClaimSeatRequest) { r.Passcode = "1234" }, wantErr: ErrPasscodeMismatch},
		{name: "row out of range", settings: &settingsStub{open: true, pin: "8888"}, mutate: func(r *dto.ClaimSeatRequest) { r.Row = 10 }, wantErr: ErrSeatOutOfRange},
		{name: "col out of range", settings: &settingsStub{open: true, pin: "8888"}, mutate: func(r *dto.ClaimSeatRequest) { r.Col = 11 }, wantErr: ErrSeatOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seats := newSeatRepoStub()
			svc := NewSeatService(seats, &logRepoStub{}, tc.settings, nil, testConfig(), testLogger())

			req := claimRequest(2, 5)
			if tc.mutate != nil {
				tc.mutate(&req)
			}

			_, err := svc.Claim(context.Background(), req)
			require.ErrorIs(t, err, tc.wantErr)
			require.Empty(t, seats.seats, "rejected claim must not mutate the seat map")
		})
	}
}

func TestSeatServiceClaimSanitizesIdentity(t *testing.T) {
	seats := newSeatRepoStub()
	svc := NewSeatService(seats, &logRepoStub{}, &settingsStub{open: true, pin: "8888"}, nil, testConfig(), testLogger())

	req := claimRequest(5, 5)
	req.StudentName = "<script>alert('x')</script>Alice"
	result, err := svc.Claim(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Claimed)

	seat := seats.seats[repository.Coordinate{Row: 5, Col: 5}]
	require.Equal(t, "Alice", seat.StudentName)
}

func TestSeatServiceClaimRejectsUnknownClassLabel(t *testing.T) {
	cfg := testConfig()
	cfg.ClassLabels = []string{"History 101", "History 202"}
	svc := NewSeatService(newSeatRepoStub(), &logRepoStub{}, &settingsStub{open: true, pin: "8888"}, nil, cfg, testLogger())

	req := claimRequest(5, 5)
	req.ClassLabel = "Chemistry 300"
	_, err := svc.Claim(context.Background(), req)
	require.ErrorIs(t, err, ErrUnknownClassLabel)

	req.ClassLabel = "history 101"
	result, err := svc.Claim(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.Claimed)
}

func TestSeatServiceAvailableSeatsRowMajorAndSoftCheck(t *testing.T) {
	seats := newSeatRepoStub()
	svc := NewSeatService(seats, &logRepoStub{}, &settingsStub{open: true, pin: "8888"}, nil, testConfig(), testLogger())
	ctx := context.Background()

	result, err := svc.AvailableSeats(ctx, "")
	require.NoError(t, err)
	require.Len(t, result.Seats, 90)
	require.Equal(t, dto.AvailableSeat{Row: 1, Col: 1, Tier: "vip"}, result.Seats[0])
	require.Equal(t, dto.AvailableSeat{Row: 9, Col: 10, Tier: "standard"}, result.Seats[89])

	claimed, err := svc.Claim(ctx, claimRequest(1, 1))
	require.NoError(t, err)
	require.True(t, claimed.Claimed)

	result, err = svc.AvailableSeats(ctx, "S001")
	require.NoError(t, err)
	require.Len(t, result.Seats, 89)
	require.NotContains(t, result.Seats, dto.AvailableSeat{Row: 1, Col: 1, Tier: "vip"})
	require.True(t, result.AlreadySeated)

	result, err = svc.AvailableSeats(ctx, "S999")
	require.NoError(t, err)
	require.False(t, result.AlreadySeated)
}

func TestSeatServiceBonusAccumulatesWithoutThrottle(t *testing.T) {
	logs := &logRepoStub{}
	feed := &feedStub{}
	svc := NewSeatService(newSeatRepoStub(), logs, &settingsStub{open: true, pin: "8888"}, feed, testConfig(), testLogger())
	ctx := context.Background()

	req := dto.BonusRequest{StudentID: "S001", StudentName: "Alice", Passcode: "8888"}

	first, err := svc.Bonus(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 2, first.Points)
	require.Equal(t, 2, first.Total)

	second, err := svc.Bonus(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 2, second.Points)
	require.Equal(t, 4, second.Total)

	require.Len(t, logs.entries, 2)
	for _, entry := range logs.entries {
		require.Equal(t, models.ActionBonusAnswer, entry.Action)
	}
	require.Len(t, feed.published, 2)
}

func TestSeatServiceBonusRespectsChannelGate(t *testing.T) {
	logs := &logRepoStub{}
	svc := NewSeatService(newSeatRepoStub(), logs, &settingsStub{open: false, pin: "8888"}, nil, testConfig(), testLogger())

	_, err := svc.Bonus(context.Background(), dto.BonusRequest{StudentID: "S001", StudentName: "Alice", Passcode: "8888"})
	require.ErrorIs(t, err, ErrChannelClosed)
	require.Empty(t, logs.entries)
}
