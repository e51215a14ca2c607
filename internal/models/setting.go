package models

import "time"

// Well-known setting keys.
const (
	SettingCurrentPin    = "current_pin"
	SettingChannelOpen   = "channel_open"
	SettingSchemaVersion = "schema_version"
)

// Setting is a named process-wide value shared by every request handler.
// Reads always hit the store so a writer observes its own update
// immediately; there is no caching layer in front of this table.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
