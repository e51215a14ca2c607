package models

import "time"

// Seat records which student occupies a grid coordinate for the current
// session. The composite unique index on (row, col) is the contention
// arbiter: the database rejects the losing writer of a claim race.
type Seat struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Row         int       `gorm:"column:row;not null;uniqueIndex:idx_seat_coordinate" json:"row"`
	Col         int       `gorm:"column:col;not null;uniqueIndex:idx_seat_coordinate" json:"col"`
	StudentID   string    `gorm:"size:64;not null" json:"student_id"`
	StudentName string    `gorm:"size:255;not null" json:"student_name"`
	ClassLabel  string    `gorm:"size:64" json:"class_label"`
	ClaimedAt   time.Time `gorm:"not null" json:"claimed_at"`
}

// SeatTier classifies a coordinate by its scoring band.
type SeatTier string

const (
	SeatTierVIP      SeatTier = "vip"
	SeatTierStandard SeatTier = "standard"
)
