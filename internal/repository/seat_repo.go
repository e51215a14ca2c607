package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/classpulse/classboard-api/internal/models"
)

// Coordinate identifies one grid cell.
type Coordinate struct {
	Row int
	Col int
}

// SeatRepository persists seat assignments. Claim is the only writer; the
// seat map is otherwise read-only until a session reset.
type SeatRepository interface {
	// Claim atomically awards the seat to the given occupant and appends the
	// matching log entry. It returns false when the coordinate is already
	// occupied; losing the race is a normal outcome, not an error.
	Claim(ctx context.Context, seat *models.Seat, entry *models.ActivityEntry) (bool, error)
	List(ctx context.Context) ([]models.Seat, error)
	Occupied(ctx context.Context) (map[Coordinate]models.Seat, error)
	StudentSeated(ctx context.Context, studentID string) (bool, error)
}

type seatRepository struct {
	db *gorm.DB
}

// NewSeatRepository constructs a seat repository.
func NewSeatRepository(db *gorm.DB) SeatRepository {
	return &seatRepository{db: db}
}

func (r *seatRepository) Claim(ctx context.Context, seat *models.Seat, entry *models.ActivityEntry) (bool, error) {
	claimed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The coordinate's unique index adjudicates the race: the losing
		// writer's insert affects zero rows and its log entry is never
		// written, so a seat row and its log row always commit together.
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "row"}, {Name: "col"}},
			DoNothing: true,
		}).Create(seat)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return nil
		}

		claimed = true
		return tx.Create(entry).Error
	})
	if err != nil {
		return false, err
	}

	return claimed, nil
}

func (r *seatRepository) List(ctx context.Context) ([]models.Seat, error) {
	var seats []models.Seat
	// row is a reserved word in postgres, keep the identifier quoted.
	if err := r.db.WithContext(ctx).Order(`"row", col`).Find(&seats).Error; err != nil {
		return nil, err
	}

	return seats, nil
}

func (r *seatRepository) Occupied(ctx context.Context) (map[Coordinate]models.Seat, error) {
	seats, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	occupied := make(map[Coordinate]models.Seat, len(seats))
	for _, seat := range seats {
		occupied[Coordinate{Row: seat.Row, Col: seat.Col}] = seat
	}

	return occupied, nil
}

func (r *seatRepository) StudentSeated(ctx context.Context, studentID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Seat{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
