package database

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/classpulse/classboard-api/internal/models"
)

// SchemaVersion is the current additive schema revision. Earlier deployments
// migrated by renaming the store; here each revision appends columns or seeds
// and bumps the recorded version instead.
const SchemaVersion = 2

// DefaultPin is the passcode seeded into a fresh store. The teacher is
// expected to regenerate it before the first class.
const DefaultPin = "8888"

// Migrate creates the schema and seeds the settings a fresh store needs.
// Seeding uses insert-if-absent so an existing session survives restarts.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Seat{}, &models.ActivityEntry{}, &models.Setting{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	defaults := []models.Setting{
		{Key: models.SettingChannelOpen, Value: "true"},
		{Key: models.SettingCurrentPin, Value: DefaultPin},
		{Key: models.SettingSchemaVersion, Value: strconv.Itoa(SchemaVersion)},
	}

	for _, setting := range defaults {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", setting.Key, err)
		}
	}

	return bumpSchemaVersion(db)
}

// bumpSchemaVersion records the running revision after AutoMigrate has applied
// any additive column changes. Versions never go backwards.
func bumpSchemaVersion(db *gorm.DB) error {
	var setting models.Setting
	if err := db.First(&setting, "key = ?", models.SettingSchemaVersion).Error; err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	recorded, err := strconv.Atoi(setting.Value)
	if err != nil || recorded < SchemaVersion {
		return db.Model(&models.Setting{}).
			Where("key = ?", models.SettingSchemaVersion).
			Update("value", strconv.Itoa(SchemaVersion)).Error
	}

	return nil
}
