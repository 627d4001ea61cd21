package services

import (
	"sort"
	"time"

	"z3-dashboard/models"
)

const day = 24 * time.Hour

// FitTrend fits price = slope*days + intercept by ordinary least squares,
// where days is the whole number of days since the earliest publication date
// in the view. Anchoring at the view's own minimum keeps the fit independent
// of the rest of the dataset.
//
// It returns models.ErrInsufficientData unless the view spans at least two
// distinct dates.
func FitTrend(view []*models.Listing) (*models.LinearModel, error) {
	if len(view) < 2 {
		return nil, models.ErrInsufficientData
	}

	origin := earliest(view)
	n := float64(len(view))
	var sumX, sumY float64
	for _, l := range view {
		sumX += float64(DayOffset(origin, l.PublicationDate))
		sumY += float64(l.PriceEUR)
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy float64
	for _, l := range view {
		dx := float64(DayOffset(origin, l.PublicationDate)) - meanX
		sxx += dx * dx
		sxy += dx * (float64(l.PriceEUR) - meanY)
	}
	if sxx == 0 {
		return nil, models.ErrInsufficientData
	}

	slope := sxy / sxx
	return &models.LinearModel{
		Slope:     slope,
		Intercept: meanY - slope*meanX,
		Origin:    origin,
		Points:    len(view),
	}, nil
}

// DayOffset counts whole calendar days from origin to t.
func DayOffset(origin, t time.Time) int {
	return int(models.DateOnly(t).Sub(models.DateOnly(origin)) / day)
}

// TrendLine evaluates m at every listing date of the view, in chronological
// order, ready to be drawn over the price scatter.
func TrendLine(m *models.LinearModel, view []*models.Listing) []models.TrendPoint {
	if m == nil {
		return nil
	}
	points := make([]models.TrendPoint, 0, len(view))
	for _, l := range Chronological(view) {
		points = append(points, models.TrendPoint{
			Date:  models.DateOnly(l.PublicationDate),
			Price: m.Predict(float64(DayOffset(m.Origin, l.PublicationDate))),
		})
	}
	return points
}

// ScatterPoints returns the view as numeric points, oldest first.
func ScatterPoints(view []*models.Listing) []models.ScatterPoint {
	points := make([]models.ScatterPoint, 0, len(view))
	for _, l := range Chronological(view) {
		p := models.ScatterPoint{
			Date:       models.DateOnly(l.PublicationDate),
			PriceEUR:   l.PriceEUR,
			SellerType: l.SellerType,
			Title:      l.Title,
			City:       l.City,
		}
		if l.HasMileage {
			km := l.MileageKM
			p.MileageKM = &km
		}
		if l.HasModelYear {
			year := l.ModelYear
			p.ModelYear = &year
		}
		points = append(points, p)
	}
	return points
}

func earliest(view []*models.Listing) time.Time {
	min := models.DateOnly(view[0].PublicationDate)
	for _, l := range view[1:] {
		if d := models.DateOnly(l.PublicationDate); d.Before(min) {
			min = d
		}
	}
	return min
}

// Chronological returns a copy of view sorted by publication date, oldest first.
func Chronological(view []*models.Listing) []*models.Listing {
	out := append([]*models.Listing(nil), view...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublicationDate.Before(out[j].PublicationDate)
	})
	return out
}
