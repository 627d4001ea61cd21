package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z3-dashboard/models"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize(sampleListings())
	require.NoError(t, err)

	// prices: 6500 9000 11000 14500 22000 5200
	assert.Equal(t, 6, s.Count)
	assert.InDelta(t, 68200.0/6, s.MeanPrice, 1e-9)
	assert.Equal(t, 10000.0, s.MedianPrice)
	assert.InDelta(t, 805000.0/6, s.MeanMileage, 1e-9)
	assert.Equal(t, 5200, s.MinPrice)
	assert.Equal(t, 22000, s.MaxPrice)
	require.NotNil(t, s.MostExpensive)
	assert.Equal(t, "e", s.MostExpensive.Title)
}

func TestSummarizeOddMedianAndUnknownMileage(t *testing.T) {
	view := sampleListings()[:3]
	view[1] = listing("b", date(2024, 1, 20), 1999, 0, 9000, models.SellerProfessional)
	view[1].HasMileage = false

	s, err := Summarize(view)
	require.NoError(t, err)
	assert.Equal(t, 9000.0, s.MedianPrice)
	assert.Equal(t, 150000.0, s.MeanMileage, "mean mileage only counts listings with a mileage")
}

func TestSummarizeEmptyInput(t *testing.T) {
	s, err := Summarize(nil)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestGroupByYear(t *testing.T) {
	groups := GroupByYear(sampleListings())

	want := []models.YearGroup{
		{Year: 1997, MeanPrice: 5850, Count: 2},
		{Year: 1999, MeanPrice: 10000, Count: 2},
		{Year: 2001, MeanPrice: 14500, Count: 1},
		{Year: 2002, MeanPrice: 22000, Count: 1},
	}
	assert.Equal(t, want, groups)

	for i := 1; i < len(groups); i++ {
		assert.Less(t, groups[i-1].Year, groups[i].Year)
	}
}

func TestGroupByYearCountsMatchView(t *testing.T) {
	view := Apply(sampleListings(), func() models.FilterCriteria {
		c := allCriteria()
		c.SellerTypes = []models.SellerType{models.SellerIndividual}
		return c
	}())

	total := 0
	for _, g := range GroupByYear(view) {
		n := 0
		for _, l := range view {
			if l.ModelYear == g.Year {
				n++
			}
		}
		assert.Equal(t, n, g.Count, "year %d", g.Year)
		total += g.Count
	}
	assert.Equal(t, len(view), total)
}

func TestGroupByYearNoGapsOrUnknowns(t *testing.T) {
	unknown := listing("u", date(2024, 1, 1), 0, 1000, 3000, models.SellerIndividual)
	unknown.HasModelYear = false
	view := []*models.Listing{
		listing("a", date(2024, 1, 1), 1996, 1000, 4000, models.SellerIndividual),
		listing("b", date(2024, 1, 1), 2002, 1000, 8000, models.SellerIndividual),
		unknown,
	}

	groups := GroupByYear(view)
	require.Len(t, groups, 2)
	assert.Equal(t, 1996, groups[0].Year)
	assert.Equal(t, 2002, groups[1].Year)
	assert.Empty(t, GroupByYear(nil))
}

func TestHistogram(t *testing.T) {
	view := sampleListings()
	bins := Histogram(view, 4)
	require.Len(t, bins, 4)

	// range 5200..22000, width 4200
	assert.Equal(t, 5200.0, bins[0].Lower)
	assert.Equal(t, 22000.0, bins[3].Upper)
	assert.Equal(t, []int{3, 1, 1, 1}, []int{bins[0].Count, bins[1].Count, bins[2].Count, bins[3].Count})

	total := 0
	for _, b := range Histogram(view, DefaultHistogramBins) {
		total += b.Count
	}
	assert.Equal(t, len(view), total)
}

func TestHistogramEdgeCases(t *testing.T) {
	assert.Nil(t, Histogram(nil, 10))

	same := []*models.Listing{
		listing("a", date(2024, 1, 1), 1999, 1, 7000, models.SellerIndividual),
		listing("b", date(2024, 1, 2), 1999, 1, 7000, models.SellerIndividual),
	}
	bins := Histogram(same, 10)
	require.Len(t, bins, 1)
	assert.Equal(t, 2, bins[0].Count)

	assert.Len(t, Histogram(sampleListings(), 0), DefaultHistogramBins)
}

func TestHistogramCapsBinCount(t *testing.T) {
	view := sampleListings()
	bins := Histogram(view, 1<<50)
	require.Len(t, bins, MaxHistogramBins)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, len(view), total)
}
