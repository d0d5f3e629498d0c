package service

import "errors"

// ErrUnknownFormat is returned by ParseFormat for an unsupported import format.
var ErrUnknownFormat = errors.New("unknown import format")
