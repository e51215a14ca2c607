package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/classpulse/classboard-api/internal/models"
)

// setupTestDB opens a per-test in-memory database. The pool is limited to a
// single connection so named in-memory stores behave like one serialized
// writer, matching how sqlite arbitrates concurrent claims.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Seat{}, &models.ActivityEntry{}, &models.Setting{}))
	return db
}
