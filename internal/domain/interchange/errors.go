package interchange

import "errors"

// Sentinel error kinds. Each one rejects the whole document.
var (
	ErrInvalidJSON     = errors.New("invalid json")
	ErrNotArray        = errors.New("json document must be an array of cards")
	ErrEmptyCollection = errors.New("json document contains no cards")
)
