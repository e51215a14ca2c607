package dto

// SessionStateResponse reports the admin-visible session controls.
type SessionStateResponse struct {
	Passcode    string `json:"passcode"`
	ChannelOpen bool   `json:"channel_open"`
}

// PasscodeResponse carries a freshly generated passcode.
type PasscodeResponse struct {
	Passcode string `json:"passcode"`
}

// ResetResponse summarises a session reset.
type ResetResponse struct {
	SeatsCleared bool `json:"seats_cleared"`
	LogCleared   bool `json:"log_cleared"`
}
