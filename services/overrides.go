package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"z3-dashboard/models"
)

// CriteriaOverrides holds user-supplied bounds. All fields are pointers to
// distinguish "not set" from zero values; unset fields keep the default.
type CriteriaOverrides struct {
	From     *time.Time
	To       *time.Time
	YearMin  *int
	YearMax  *int
	KMMin    *int
	KMMax    *int
	PriceMin *int
	PriceMax *int
	// Sellers replaces the default seller set when non-nil. An empty,
	// non-nil slice selects no seller at all.
	Sellers []models.SellerType
}

// Resolve applies the overrides on top of base.
func (o CriteriaOverrides) Resolve(base models.FilterCriteria) models.FilterCriteria {
	c := base
	setTime(&c.Dates.From, o.From)
	setTime(&c.Dates.To, o.To)
	setInt(&c.Years.Min, o.YearMin)
	setInt(&c.Years.Max, o.YearMax)
	setInt(&c.Mileage.Min, o.KMMin)
	setInt(&c.Mileage.Max, o.KMMax)
	setInt(&c.Price.Min, o.PriceMin)
	setInt(&c.Price.Max, o.PriceMax)
	if o.Sellers != nil {
		c.SellerTypes = append([]models.SellerType{}, o.Sellers...)
	}
	return c
}

func setTime(dst *time.Time, v *time.Time) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// ParseSellers turns user input into seller types. Values may be repeated or
// comma separated; blanks and "none" are skipped, so "none" alone selects
// nothing.
func ParseSellers(values []string) []models.SellerType {
	out := []models.SellerType{}
	seen := make(map[models.SellerType]bool)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" || strings.EqualFold(part, "none") {
				continue
			}
			s := models.ParseSellerType(part)
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// ParseDateArg parses a DD/MM/YYYY or YYYY-MM-DD date given on the command
// line or in a query string.
func ParseDateArg(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want DD/MM/YYYY)", raw)
}

// ParseIntArg parses a whole number, accepting the same separators as the
// listings file.
func ParseIntArg(name, raw string) (int, error) {
	n, ok := parseInt(raw)
	if !ok {
		return 0, fmt.Errorf("invalid %s %s", name, strconv.Quote(raw))
	}
	return n, nil
}
