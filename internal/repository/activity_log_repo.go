package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/classpulse/classboard-api/internal/models"
)

// ActivityLogRepository persists the append-only scoring log.
type ActivityLogRepository interface {
	Append(ctx context.Context, entry *models.ActivityEntry) error
	// Recent returns up to n entries, most recent first.
	Recent(ctx context.Context, n int) ([]models.ActivityEntry, error)
	// List returns every entry in insertion order, for export.
	List(ctx context.Context) ([]models.ActivityEntry, error)
	// TotalsByStudent sums points per student, optionally restricted to one
	// action tag. An empty action sums across the whole log.
	TotalsByStudent(ctx context.Context, action string) (map[string]int, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Append(ctx context.Context, entry *models.ActivityEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) Recent(ctx context.Context, n int) ([]models.ActivityEntry, error) {
	if n <= 0 {
		n = 10
	}

	var entries []models.ActivityEntry
	err := r.db.WithContext(ctx).
		Order("occurred_at DESC, id DESC").
		Limit(n).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *activityLogRepository) List(ctx context.Context) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	err := r.db.WithContext(ctx).
		Order("occurred_at, id").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *activityLogRepository) TotalsByStudent(ctx context.Context, action string) (map[string]int, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ActivityEntry{}).
		Select("student_id, SUM(points) AS total").
		Group("student_id")

	if action != "" {
		query = query.Where("action = ?", action)
	}

	var rows []struct {
		StudentID string
		Total     int
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.StudentID] = row.Total
	}

	return totals, nil
}
