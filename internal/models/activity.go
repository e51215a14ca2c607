package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity log action tags. Every scored event carries exactly one.
const (
	ActionSeatClaimVIP = "seat_claim_vip"
	ActionSeatClaim    = "seat_claim"
	ActionBonusAnswer  = "bonus_answer"
)

// ActivityEntry is one immutable row of the session's scoring log.
// Entries are append-only; the log is emptied only by a session reset.
type ActivityEntry struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	OccurredAt  time.Time         `gorm:"not null;index" json:"occurred_at"`
	StudentID   string            `gorm:"size:64;not null;index" json:"student_id"`
	StudentName string            `gorm:"size:255;not null" json:"student_name"`
	ClassLabel  string            `gorm:"size:64" json:"class_label"`
	Action      string            `gorm:"size:32;not null" json:"action"`
	Points      int               `gorm:"not null" json:"points"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata"`
}
