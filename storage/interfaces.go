package storage

import (
	"context"

	"z3-dashboard/models"
)

// ListingSource is the interface any listings backend must satisfy.
// Sources are read-only: nothing in this application writes back to them.
type ListingSource interface {
	// Key identifies the source for caching and logging.
	Key() string
	// ReadRaw returns every row of the source, unvalidated.
	ReadRaw(ctx context.Context) (*RawBatch, error)
}

// RawBatch is the raw output of one read of a source.
type RawBatch struct {
	Rows     []*models.RawListing
	Checksum string
}
