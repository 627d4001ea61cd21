package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z3-dashboard/models"
	"z3-dashboard/storage"
)

type countingSource struct {
	reads int
	rows  []*models.RawListing
	err   error
}

func (s *countingSource) Key() string { return "memory:test" }

func (s *countingSource) ReadRaw(context.Context) (*storage.RawBatch, error) {
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	return &storage.RawBatch{Rows: s.rows}, nil
}

func rawRows() []*models.RawListing {
	return []*models.RawListing{
		{Row: 2, Title: "a", PublicationDate: "01/01/2024", ModelYear: "1997", Mileage: "150000", Price: "7000", SellerType: "particulier"},
		{Row: 3, Title: "b", PublicationDate: "11/01/2024", ModelYear: "1999", Mileage: "120000", Price: "9000", SellerType: "professionnel"},
		{Row: 4, Title: "c", PublicationDate: "21/01/2024", ModelYear: "2001", Mileage: "90000", Price: "13000", SellerType: "particulier"},
		{Row: 5, Title: "dropped", PublicationDate: "21/01/2024", ModelYear: "2001", Mileage: "90000", SellerType: "particulier"},
	}
}

func TestDashboardServiceLoadsOnce(t *testing.T) {
	src := &countingSource{rows: rawRows()}
	svc := NewDashboardService(src, storage.NewCache(), PipelineOptions{}, newTestLogger())

	for i := 0; i < 3; i++ {
		d, err := svc.Recompute(context.Background(), CriteriaOverrides{})
		require.NoError(t, err)
		assert.Equal(t, 3, d.Total)
		assert.Equal(t, 3, d.Shown)
	}
	assert.Equal(t, 1, src.reads)

	c, err := svc.DefaultCriteria(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.IntRange{Min: 7000, Max: 13000}, c.Price)
	assert.Equal(t, 1, src.reads)
}

func TestDashboardServiceOverrides(t *testing.T) {
	svc := NewDashboardService(&countingSource{rows: rawRows()}, storage.NewCache(), PipelineOptions{}, newTestLogger())

	yearMin := 1999
	d, err := svc.RecomputeWith(context.Background(),
		CriteriaOverrides{YearMin: &yearMin},
		PipelineOptions{Sort: SortOptions{SortByPrice, SortAsc}, TableLimit: 1})
	require.NoError(t, err)

	assert.Equal(t, 2, d.Shown)
	require.Len(t, d.Table, 1)
	assert.Equal(t, "b", d.Table[0].Title)
	require.NotNil(t, d.Trend)
	assert.InDelta(t, 400.0, d.Trend.Slope, 1e-9)
	assert.InDelta(t, 9000.0, d.Trend.Intercept, 1e-9)
}

func TestDashboardServiceSourceUnavailable(t *testing.T) {
	src := &countingSource{err: models.ErrSourceUnavailable}
	svc := NewDashboardService(src, storage.NewCache(), PipelineOptions{}, newTestLogger())

	_, err := svc.Recompute(context.Background(), CriteriaOverrides{})
	assert.ErrorIs(t, err, models.ErrSourceUnavailable)

	_, err = svc.DefaultCriteria(context.Background())
	assert.ErrorIs(t, err, models.ErrSourceUnavailable)
	assert.Equal(t, 2, src.reads, "failed loads are retried")
}
