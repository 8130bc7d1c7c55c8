package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSubmission  = errors.New("invalid submission")
	ErrDuplicateOpenEntry = errors.New("open entry already exists for this date")
	ErrNoOpenEntry        = errors.New("no open entry for this date")
	ErrConflict           = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidWindow      = errors.New("invalid target window")
	ErrExtractionFailed   = errors.New("text extraction failed")
)

// NoOpenEntryError is returned when an end time arrives for a date that has
// no open entry. OpenDates lists the dates the user still has open, newest
// first, so the caller can pick the right one.
type NoOpenEntryError struct {
	Date      string
	OpenDates []string
}

func (e *NoOpenEntryError) Error() string {
	if len(e.OpenDates) == 0 {
		return fmt.Sprintf("no open entry for %s", e.Date)
	}
	return fmt.Sprintf("no open entry for %s (open entries on %s)", e.Date, strings.Join(e.OpenDates, ", "))
}

func (e *NoOpenEntryError) Unwrap() error {
	return ErrNoOpenEntry
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSubmission, fmt.Sprintf(format, args...))
}
