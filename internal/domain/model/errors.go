package model

import "errors"

// Sentinel error kinds for card validation.
var (
	ErrUnknownStat = errors.New("unknown stat key")
)
