package service

import "errors"

// Routine gate rejections. These are expected outcomes mapped to client
// error statuses at the handler; only storage failures surface as 500s.
var (
	ErrChannelClosed     = errors.New("check-in channel is closed")
	ErrPasscodeMismatch  = errors.New("passcode does not match the current pin")
	ErrSeatOutOfRange    = errors.New("seat coordinate outside the grid")
	ErrUnknownClassLabel = errors.New("class label not recognised")
	ErrInvalidIdentity   = errors.New("student id and name are required")
)
