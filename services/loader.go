package services

import (
	"context"
	"time"

	"z3-dashboard/models"
	"z3-dashboard/storage"
	"z3-dashboard/utils"
)

// Loader reads a source and cleans it into a Dataset. Its Load method is a
// storage.LoadFunc.
type Loader struct {
	cleaner *Cleaner
	logger  *utils.Logger
	now     func() time.Time
}

// NewLoader creates a Loader.
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{cleaner: NewCleaner(logger), logger: logger, now: time.Now}
}

// Load reads every raw row of src once and keeps the valid listings.
func (l *Loader) Load(ctx context.Context, src storage.ListingSource) (*models.Dataset, error) {
	batch, err := src.ReadRaw(ctx)
	if err != nil {
		return nil, err
	}

	listings, dropped := l.cleaner.Clean(batch.Rows)
	ds := &models.Dataset{
		Source:      src.Key(),
		Checksum:    batch.Checksum,
		Listings:    listings,
		RowsRead:    len(batch.Rows),
		RowsDropped: dropped,
		LoadedAt:    l.now(),
	}

	l.logger.Info("[loader] Loaded %d listings from %s (checksum %s)",
		ds.Len(), ds.Source, orDash(ds.Checksum))
	return ds, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
