package dto

import "time"

// Display tiers for an occupied cell on the projector view. A cell starts
// at base, elevates once the occupant earns any bonus points, and turns
// star once their bonus total crosses the configured threshold.
const (
	DisplayTierBase     = "base"
	DisplayTierElevated = "elevated"
	DisplayTierStar     = "star"
)

// BoardCell is one grid coordinate as the screen renders it.
type BoardCell struct {
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Tier        string `json:"tier"`
	Occupied    bool   `json:"occupied"`
	StudentName string `json:"student_name,omitempty"`
	DisplayTier string `json:"display_tier,omitempty"`
	BonusTotal  int    `json:"bonus_total,omitempty"`
}

// FeedEntry is one scored event in the live standings sidebar.
type FeedEntry struct {
	OccurredAt  time.Time `json:"occurred_at"`
	StudentName string    `json:"student_name"`
	ClassLabel  string    `json:"class_label,omitempty"`
	Action      string    `json:"action"`
	Points      int       `json:"points"`
}

// BoardResponse is the full projector snapshot. The passcode is included
// only while the check-in channel is open.
type BoardResponse struct {
	Rows        int         `json:"rows"`
	Cols        int         `json:"cols"`
	VIPRows     int         `json:"vip_rows"`
	ChannelOpen bool        `json:"channel_open"`
	Passcode    string      `json:"passcode,omitempty"`
	Cells       []BoardCell `json:"cells"`
	Feed        []FeedEntry `json:"feed"`
	GeneratedAt time.Time   `json:"generated_at"`
	CacheHit    bool        `json:"-"`
}
