package csvcodec

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Structural and total-loss failures abort an import;
// ErrMissingRequiredField only ever costs a single row.
var (
	ErrEmptyOrHeaderOnly    = errors.New("csv must contain a header row and at least one data row")
	ErrNoValidRows          = errors.New("no valid cards found in csv")
	ErrMissingRequiredField = errors.New("missing required field")
)

// RowError ties a row-level failure to its 1-based line number.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }
