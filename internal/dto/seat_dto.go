package dto

import "time"

// ClaimSeatRequest is a student's attempt to take one grid coordinate.
// The passcode is the shared 4-digit code shown on the projector.
type ClaimSeatRequest struct {
	Row         int    `json:"row" validate:"required,min=1"`
	Col         int    `json:"col" validate:"required,min=1"`
	StudentID   string `json:"student_id" validate:"required,max=64"`
	StudentName string `json:"student_name" validate:"required,max=255"`
	ClassLabel  string `json:"class_label" validate:"omitempty,max=64"`
	Passcode    string `json:"passcode" validate:"required,len=4,numeric"`
}

// ClaimSeatResponse reports the outcome of a claim. A taken seat is a
// normal result: claimed is false and points is zero.
type ClaimSeatResponse struct {
	Claimed   bool      `json:"claimed"`
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Tier      string    `json:"tier,omitempty"`
	Points    int       `json:"points"`
	ClaimedAt time.Time `json:"claimed_at,omitempty"`
}

// BonusRequest is a self-reported answered-a-question submission.
type BonusRequest struct {
	StudentID   string `json:"student_id" validate:"required,max=64"`
	StudentName string `json:"student_name" validate:"required,max=255"`
	ClassLabel  string `json:"class_label" validate:"omitempty,max=64"`
	Passcode    string `json:"passcode" validate:"required,len=4,numeric"`
}

// BonusResponse echoes the scored entry.
type BonusResponse struct {
	StudentID  string    `json:"student_id"`
	Points     int       `json:"points"`
	Total      int       `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AvailableSeat is one unoccupied coordinate, tagged by scoring tier.
type AvailableSeat struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Tier string `json:"tier"`
}

// AvailableSeatsResponse lists open coordinates in row-major order.
// AlreadySeated is the caller-side soft check: the client is expected to
// stop offering seats once its student appears among the occupants.
type AvailableSeatsResponse struct {
	Seats         []AvailableSeat `json:"seats"`
	AlreadySeated bool            `json:"already_seated"`
}
