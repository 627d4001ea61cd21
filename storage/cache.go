package storage

import (
	"context"
	"sync"

	"z3-dashboard/models"
)

// LoadFunc turns a source into a dataset. It is called at most once per
// source key for the lifetime of a Cache.
type LoadFunc func(ctx context.Context, src ListingSource) (*models.Dataset, error)

// Cache memoises loaded datasets by source key. Entries are populated once
// and never invalidated; a changed backing file is not detected.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*models.Dataset
}

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*models.Dataset)}
}

// GetOrLoad returns the cached dataset for src, loading it on first access.
// Failed loads are not cached, so a later call retries.
func (c *Cache) GetOrLoad(ctx context.Context, src ListingSource, load LoadFunc) (*models.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ds, ok := c.entries[src.Key()]; ok {
		return ds, nil
	}

	ds, err := load(ctx, src)
	if err != nil {
		return nil, err
	}
	c.entries[src.Key()] = ds
	return ds, nil
}

// Loaded reports whether key has already been populated.
func (c *Cache) Loaded(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
