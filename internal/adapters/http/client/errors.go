package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for this package.
var (
	ErrBadURL = errors.New("invalid server url")
)

// Error is a non-2xx response from the server.
type Error struct {
	Status  int
	Code    string
	Message string
	kind    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap returns the domain sentinel the status maps to, if any.
func (e *Error) Unwrap() error { return e.kind }
