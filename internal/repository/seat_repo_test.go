package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/classpulse/classboard-api/internal/models"
)

func claimFixture(row, col int, studentID, name string) (*models.Seat, *models.ActivityEntry) {
	now := time.Now().UTC()
	seat := &models.Seat{
		Row:         row,
		Col:         col,
		StudentID:   studentID,
		StudentName: name,
		ClaimedAt:   now,
	}
	entry := &models.ActivityEntry{
		OccurredAt:  now,
		StudentID:   studentID,
		StudentName: name,
		Action:      models.ActionSeatClaimVIP,
		Points:      2,
	}
	return seat, entry
}

func TestSeatRepositoryClaimAwardsSeatOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSeatRepository(db)
	ctx := context.Background()

	seat, entry := claimFixture(2, 5, "S001", "Alice")
	claimed, err := repo.Claim(ctx, seat, entry)
	require.NoError(t, err)
	require.True(t, claimed)

	// Re-submission from anyone, including the same student, loses quietly.
	again, entryAgain := claimFixture(2, 5, "S002", "Bob")
	claimed, err = repo.Claim(ctx, again, entryAgain)
	require.NoError(t, err)
	require.False(t, claimed)

	var seats []models.Seat
	require.NoError(t, db.Find(&seats).Error)
	require.Len(t, seats, 1)
	require.Equal(t, "S001", seats[0].StudentID)

	// The losing claim must not leave a log row behind.
	var entries []models.ActivityEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	require.Equal(t, "S001", entries[0].StudentID)
}

func TestSeatRepositoryClaimConcurrentExactlyOneWinner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSeatRepository(db)
	ctx := context.Background()

	const claimants = 16
	var wg sync.WaitGroup
	results := make(chan bool, claimants)
	errs := make(chan error, claimants)

	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seat, entry := claimFixture(2, 5, fmt.Sprintf("S%03d", i), fmt.Sprintf("Student %d", i))
			claimed, err := repo.Claim(ctx, seat, entry)
			if err != nil {
				errs <- err
				return
			}
			results <- claimed
		}(i)
	}

	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	winners := 0
	for claimed := range results {
		if claimed {
			winners++
		}
	}
	require.Equal(t, 1, winners, "expected exactly one claim to win the race")

	var seatCount, entryCount int64
	require.NoError(t, db.Model(&models.Seat{}).Count(&seatCount).Error)
	require.NoError(t, db.Model(&models.ActivityEntry{}).Count(&entryCount).Error)
	require.Equal(t, int64(1), seatCount)
	require.Equal(t, int64(1), entryCount)
}

func TestSeatRepositoryClaimsOnDifferentSeatsAllSucceed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSeatRepository(db)
	ctx := context.Background()

	for col := 1; col <= 5; col++ {
		seat, entry := claimFixture(1, col, fmt.Sprintf("S%03d", col), "Student")
		claimed, err := repo.Claim(ctx, seat, entry)
		require.NoError(t, err)
		require.True(t, claimed)
	}

	occupied, err := repo.Occupied(ctx)
	require.NoError(t, err)
	require.Len(t, occupied, 5)
}

func TestSeatRepositoryStudentSeated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSeatRepository(db)
	ctx := context.Background()

	seated, err := repo.StudentSeated(ctx, "S001")
	require.NoError(t, err)
	require.False(t, seated)

	seat, entry := claimFixture(4, 4, "S001", "Alice")
	claimed, err := repo.Claim(ctx, seat, entry)
	require.NoError(t, err)
	require.True(t, claimed)

	seated, err = repo.StudentSeated(ctx, "S001")
	require.NoError(t, err)
	require.True(t, seated)
}
