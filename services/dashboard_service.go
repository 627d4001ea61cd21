package services

import (
	"context"

	"z3-dashboard/models"
	"z3-dashboard/storage"
	"z3-dashboard/utils"
)

// DashboardService ties the cached record store to the recompute pipeline.
// It is what the CLI and the HTTP handlers talk to.
type DashboardService struct {
	source   storage.ListingSource
	cache    *storage.Cache
	loader   *Loader
	pipeline *Pipeline
}

// NewDashboardService creates a service reading from source through cache.
func NewDashboardService(source storage.ListingSource, cache *storage.Cache, opts PipelineOptions, logger *utils.Logger) *DashboardService {
	return &DashboardService{
		source:   source,
		cache:    cache,
		loader:   NewLoader(logger),
		pipeline: NewPipeline(opts, logger),
	}
}

// Dataset returns the loaded dataset, reading the source on first use only.
func (s *DashboardService) Dataset(ctx context.Context) (*models.Dataset, error) {
	return s.cache.GetOrLoad(ctx, s.source, s.loader.Load)
}

// DefaultCriteria returns the full-range criteria of the loaded dataset.
func (s *DashboardService) DefaultCriteria(ctx context.Context) (models.FilterCriteria, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return models.FilterCriteria{}, err
	}
	return DefaultCriteria(ds.Listings), nil
}

// Recompute resolves o against the dataset defaults and runs the pipeline.
// The only error is a failure to load the dataset.
func (s *DashboardService) Recompute(ctx context.Context, o CriteriaOverrides) (*models.Dashboard, error) {
	return s.RecomputeWith(ctx, o, PipelineOptions{})
}

// RecomputeWith is Recompute with explicit pipeline options, used when a
// caller overrides sorting or table size for a single request.
func (s *DashboardService) RecomputeWith(ctx context.Context, o CriteriaOverrides, opts PipelineOptions) (*models.Dashboard, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	merged := s.pipeline.opts
	if opts.HistogramBins > 0 {
		merged.HistogramBins = opts.HistogramBins
	}
	if opts.Sort.Field != "" {
		merged.Sort = opts.Sort
	}
	if opts.TableLimit > 0 {
		merged.TableLimit = opts.TableLimit
	}
	return NewPipeline(merged, s.pipeline.logger).Recompute(ds, o.Resolve(DefaultCriteria(ds.Listings))), nil
}
