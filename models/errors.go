package models

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable means the listings source could not be located or opened.
	ErrSourceUnavailable = errors.New("listings source unavailable")
	// ErrEmptyInput means an aggregate was requested over zero listings.
	ErrEmptyInput = errors.New("no listings to aggregate")
	// ErrInsufficientData means a trend needs at least two distinct dates.
	ErrInsufficientData = errors.New("not enough data points for a trend")
)

// MalformedRecordError describes a row that was dropped during cleaning.
type MalformedRecordError struct {
	Row    int
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}
