package services

import (
	"math"
	"sort"

	"z3-dashboard/models"
)

// DefaultHistogramBins matches the price distribution chart of the dashboard.
const DefaultHistogramBins = 20

// MaxHistogramBins bounds the bin count so a request cannot size the
// allocation.
const MaxHistogramBins = 200

// Summarize computes the headline statistics of a view. It returns
// models.ErrEmptyInput rather than NaN averages when the view is empty.
func Summarize(view []*models.Listing) (*models.Summary, error) {
	if len(view) == 0 {
		return nil, models.ErrEmptyInput
	}

	s := &models.Summary{
		Count:         len(view),
		MinPrice:      view[0].PriceEUR,
		MaxPrice:      view[0].PriceEUR,
		MostExpensive: view[0],
	}

	prices := make([]int, 0, len(view))
	var priceTotal, kmTotal float64
	kmCount := 0
	for _, l := range view {
		prices = append(prices, l.PriceEUR)
		priceTotal += float64(l.PriceEUR)
		if l.PriceEUR < s.MinPrice {
			s.MinPrice = l.PriceEUR
		}
		if l.PriceEUR > s.MaxPrice {
			s.MaxPrice = l.PriceEUR
			s.MostExpensive = l
		}
		if l.HasMileage {
			kmTotal += float64(l.MileageKM)
			kmCount++
		}
	}

	s.MeanPrice = priceTotal / float64(len(view))
	s.MedianPrice = median(prices)
	if kmCount > 0 {
		s.MeanMileage = kmTotal / float64(kmCount)
	}
	return s, nil
}

func median(values []int) float64 {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
}

// GroupByYear returns the mean price and count per model year, ascending by
// year. Only years present in the view appear; listings without a known year
// are left out.
func GroupByYear(view []*models.Listing) []models.YearGroup {
	type acc struct {
		total float64
		count int
	}
	byYear := make(map[int]*acc)
	for _, l := range view {
		if !l.HasModelYear {
			continue
		}
		a, ok := byYear[l.ModelYear]
		if !ok {
			a = &acc{}
			byYear[l.ModelYear] = a
		}
		a.total += float64(l.PriceEUR)
		a.count++
	}

	groups := make([]models.YearGroup, 0, len(byYear))
	for year, a := range byYear {
		groups = append(groups, models.YearGroup{
			Year:      year,
			MeanPrice: a.total / float64(a.count),
			Count:     a.count,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Year < groups[j].Year
	})
	return groups
}

// Histogram splits the price range of the view into bins of equal width.
// The last bin includes the maximum price. A view where every price is equal
// yields a single bin. bins is capped at MaxHistogramBins.
func Histogram(view []*models.Listing, bins int) []models.HistogramBin {
	if len(view) == 0 {
		return nil
	}
	if bins < 1 {
		bins = DefaultHistogramBins
	}
	if bins > MaxHistogramBins {
		bins = MaxHistogramBins
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, l := range view {
		p := float64(l.PriceEUR)
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	if lo == hi {
		return []models.HistogramBin{{Lower: lo, Upper: hi, Count: len(view)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]models.HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, l := range view {
		i := int((float64(l.PriceEUR) - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}
