package models

import "time"

// Summary holds the headline statistics over a filtered view.
type Summary struct {
	Count         int      `json:"count" yaml:"count"`
	MeanPrice     float64  `json:"mean_price" yaml:"mean_price"`
	MedianPrice   float64  `json:"median_price" yaml:"median_price"`
	MeanMileage   float64  `json:"mean_mileage" yaml:"mean_mileage"`
	MinPrice      int      `json:"min_price" yaml:"min_price"`
	MaxPrice      int      `json:"max_price" yaml:"max_price"`
	MostExpensive *Listing `json:"most_expensive,omitempty" yaml:"most_expensive,omitempty"`
}

// YearGroup is the mean price and count for one model year.
type YearGroup struct {
	Year      int     `json:"year" yaml:"year"`
	MeanPrice float64 `json:"mean_price" yaml:"mean_price"`
	Count     int     `json:"count" yaml:"count"`
}

// HistogramBin counts prices in [Lower, Upper). The last bin is closed.
type HistogramBin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// LinearModel is price = Slope*days + Intercept, where days counts whole
// days elapsed since Origin.
type LinearModel struct {
	Slope     float64   `json:"slope" yaml:"slope"`
	Intercept float64   `json:"intercept" yaml:"intercept"`
	Origin    time.Time `json:"origin" yaml:"origin"`
	Points    int       `json:"points" yaml:"points"`
}

// Predict returns the modelled price dayOffset days after Origin.
func (m *LinearModel) Predict(dayOffset float64) float64 {
	return m.Slope*dayOffset + m.Intercept
}

// TrendPoint is one vertex of the trend overlay.
type TrendPoint struct {
	Date  time.Time `json:"date" yaml:"date"`
	Price float64   `json:"price" yaml:"price"`
}

// ScatterPoint is one listing in numeric form, for the price-over-time and
// price-against-mileage scatter charts. ModelYear and MileageKM are nil when
// unknown.
type ScatterPoint struct {
	Date       time.Time  `json:"date" yaml:"date"`
	PriceEUR   int        `json:"price_eur" yaml:"price_eur"`
	MileageKM  *int       `json:"mileage_km,omitempty" yaml:"mileage_km,omitempty"`
	ModelYear  *int       `json:"model_year,omitempty" yaml:"model_year,omitempty"`
	SellerType SellerType `json:"seller_type" yaml:"seller_type"`
	Title      string     `json:"title" yaml:"title"`
	City       string     `json:"city" yaml:"city"`
}

// TableRow is a display-ready listing.
type TableRow struct {
	Title      string `json:"title" yaml:"title"`
	Date       string `json:"date" yaml:"date"`
	Year       string `json:"year" yaml:"year"`
	Mileage    string `json:"mileage" yaml:"mileage"`
	Price      string `json:"price" yaml:"price"`
	City       string `json:"city" yaml:"city"`
	SellerType string `json:"seller_type" yaml:"seller_type"`
	URL        string `json:"url" yaml:"url"`
}

// Dashboard bundles everything recomputed for one set of criteria.
// Summary and Trend are nil when SummaryErr or TrendErr explain why.
type Dashboard struct {
	Criteria   FilterCriteria `json:"criteria" yaml:"criteria"`
	Total      int            `json:"total" yaml:"total"`
	Shown      int            `json:"shown" yaml:"shown"`
	View       []*Listing     `json:"-" yaml:"-"`
	Summary    *Summary       `json:"summary,omitempty" yaml:"summary,omitempty"`
	SummaryErr error          `json:"-" yaml:"-"`
	ByYear     []YearGroup    `json:"by_year" yaml:"by_year"`
	Histogram  []HistogramBin `json:"histogram" yaml:"histogram"`
	Trend      *LinearModel   `json:"trend,omitempty" yaml:"trend,omitempty"`
	TrendErr   error          `json:"-" yaml:"-"`
	TrendLine  []TrendPoint   `json:"trend_line,omitempty" yaml:"trend_line,omitempty"`
	Points     []ScatterPoint `json:"points" yaml:"points"`
	Table      []TableRow     `json:"table" yaml:"table"`
	Notices    []string       `json:"notices,omitempty" yaml:"notices,omitempty"`
}
