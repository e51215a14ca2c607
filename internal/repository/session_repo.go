package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/classpulse/classboard-api/internal/models"
)

// SessionRepository owns the administrative session boundary.
type SessionRepository interface {
	// Reset deletes every seat and log entry in one transaction, so an
	// in-flight claim either commits before the wipe or lands in the fresh
	// session, never half of each.
	Reset(ctx context.Context) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Reset(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Seat{}).Error; err != nil {
			return err
		}

		return tx.Where("1 = 1").Delete(&models.ActivityEntry{}).Error
	})
}
