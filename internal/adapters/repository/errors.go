package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("card not found")
	ErrDuplicateID   = errors.New("card id already exists")
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrBackend       = errors.New("store backend failed")
)
