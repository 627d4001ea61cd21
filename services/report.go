package services

import (
	"fmt"
	"io"
	"math"
	"strings"

	"z3-dashboard/models"
)

const barWidth = 30

// Reporter renders a Dashboard as a coloured terminal report.
type Reporter struct {
	w     io.Writer
	color bool
}

// NewReporter writes to w. Colours are ANSI escape codes; disable them when
// w is not a terminal.
func NewReporter(w io.Writer, color bool) *Reporter {
	return &Reporter{w: w, color: color}
}

func (r *Reporter) paint(code, s string) string {
	if !r.color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

func (r *Reporter) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *Reporter) heading(title string) {
	r.printf("%s\n", r.paint("1;33", "  "+title))
	r.printf("  %s\n", strings.Repeat("─", 54))
}

// Print writes every section of d.
func (r *Reporter) Print(d *models.Dashboard) {
	sep := strings.Repeat("═", 54)

	r.printf("\n%s\n", r.paint("1;35", sep))
	r.printf("%s\n", r.paint("1;35", "  BMW Z3 PRICE ANALYSIS"))
	r.printf("%s\n\n", r.paint("1;35", sep))

	r.heading("Key Statistics")
	if d.Summary == nil {
		r.printf("  No listings match the current filters\n\n")
	} else {
		s := d.Summary
		r.printf("  Listings       : %s\n", r.paint("1", fmt.Sprint(s.Count)))
		r.printf("  Mean price     : %s\n", r.paint("1;32", euros(s.MeanPrice)))
		r.printf("  Median price   : %s\n", r.paint("1;32", euros(s.MedianPrice)))
		r.printf("  Mean mileage   : %s\n", r.paint("1", km(s.MeanMileage)))
		r.printf("  Price range    : %s – %s\n", euros(float64(s.MinPrice)), euros(float64(s.MaxPrice)))
		if s.MostExpensive != nil {
			r.printf("  Most expensive : %s (%s)\n", truncate(s.MostExpensive.Title, 36), s.MostExpensive.City)
		}
		r.printf("\n")
	}

	r.heading("Price Trend")
	if d.Trend == nil {
		r.printf("  Trend unavailable: need listings on at least two dates\n\n")
	} else {
		t := d.Trend
		r.printf("  Slope          : %s per day (%s per year)\n",
			r.paint("1", fmt.Sprintf("%+.2f €", t.Slope)), fmt.Sprintf("%+.0f €", t.Slope*365))
		r.printf("  Since %s : %s\n", t.Origin.Format(models.DateLayout), euros(t.Intercept))
		if n := len(d.TrendLine); n > 0 {
			last := d.TrendLine[n-1]
			r.printf("  At %s    : %s\n", last.Date.Format(models.DateLayout), euros(last.Price))
		}
		r.printf("\n")
	}

	r.heading("Mean Price by Model Year")
	if len(d.ByYear) == 0 {
		r.printf("  No model year data\n")
	} else {
		maxMean := 0.0
		for _, g := range d.ByYear {
			maxMean = math.Max(maxMean, g.MeanPrice)
		}
		for _, g := range d.ByYear {
			r.printf("  %d %s %s (%d)\n", g.Year,
				r.paint("32", bar(g.MeanPrice, maxMean)), euros(g.MeanPrice), g.Count)
		}
	}
	r.printf("\n")

	r.heading("Price Distribution")
	if len(d.Histogram) == 0 {
		r.printf("  No price data\n")
	} else {
		maxCount := 0
		for _, b := range d.Histogram {
			if b.Count > maxCount {
				maxCount = b.Count
			}
		}
		for _, b := range d.Histogram {
			r.printf("  %9s – %-9s %s %d\n",
				groupThousands(int(math.Round(b.Lower))), groupThousands(int(math.Round(b.Upper))),
				r.paint("35", bar(float64(b.Count), float64(maxCount))), b.Count)
		}
	}
	r.printf("\n")

	r.heading("Listings")
	if len(d.Table) == 0 {
		r.printf("  No listings\n")
	}
	for _, row := range d.Table {
		r.printf("  %s  %-34s %4s %11s %10s  %-14s %s\n",
			row.Date, truncate(row.Title, 34), row.Year, row.Mileage,
			r.paint("1;32", row.Price), truncate(row.City, 14), row.SellerType)
		if row.URL != "" {
			r.printf("              %s\n", r.paint("4;34", row.URL))
		}
	}

	for _, n := range d.Notices {
		r.printf("\n  %s", r.paint("33", "! "+n))
	}
	r.printf("\n  %s listings shown out of %s in total\n",
		r.paint("1", fmt.Sprint(d.Shown)), r.paint("1", fmt.Sprint(d.Total)))
	r.printf("%s\n\n", r.paint("1;35", sep))
}

func bar(v, max float64) string {
	if max <= 0 || v <= 0 {
		return ""
	}
	n := int(math.Round(v / max * barWidth))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func euros(v float64) string {
	return groupThousands(int(math.Round(v))) + " €"
}

func km(v float64) string {
	return groupThousands(int(math.Round(v))) + " km"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
