package services

import (
	"errors"

	"z3-dashboard/models"
	"z3-dashboard/utils"
)

// PipelineOptions tunes the presentation-facing parts of a recompute.
type PipelineOptions struct {
	HistogramBins int
	Sort          SortOptions
	TableLimit    int
}

// Pipeline recomputes the whole dashboard for one set of criteria. It holds
// no state between calls, so any presentation layer can drive it.
type Pipeline struct {
	opts   PipelineOptions
	logger *utils.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(opts PipelineOptions, logger *utils.Logger) *Pipeline {
	if opts.HistogramBins < 1 {
		opts.HistogramBins = DefaultHistogramBins
	}
	if opts.Sort.Field == "" {
		opts.Sort = DefaultSortOptions()
	}
	return &Pipeline{opts: opts, logger: logger}
}

// Recompute filters ds and derives, in order, the summary, scatter points,
// per-year groups, histogram, trend and table. An empty view or a view too small for a trend
// is reported through SummaryErr/TrendErr and Notices, never as a failure.
func (p *Pipeline) Recompute(ds *models.Dataset, c models.FilterCriteria) *models.Dashboard {
	view := Apply(ds.Listings, c)
	d := &models.Dashboard{
		Criteria: c,
		Total:    ds.Len(),
		Shown:    len(view),
		View:     view,
	}

	d.Summary, d.SummaryErr = Summarize(view)
	if errors.Is(d.SummaryErr, models.ErrEmptyInput) {
		d.Notices = append(d.Notices, "no listings match the current filters")
	}

	d.Points = ScatterPoints(view)
	d.ByYear = GroupByYear(view)
	d.Histogram = Histogram(view, p.opts.HistogramBins)

	d.Trend, d.TrendErr = FitTrend(view)
	if d.TrendErr == nil {
		d.TrendLine = TrendLine(d.Trend, view)
	} else if errors.Is(d.TrendErr, models.ErrInsufficientData) {
		d.Notices = append(d.Notices, "trend unavailable: need listings on at least two dates")
	}

	d.Table = BuildTable(view, p.opts.Sort, p.opts.TableLimit)

	p.logger.Debug("[pipeline] %s → %d/%d listings", c, d.Shown, d.Total)
	return d
}
