package models

import (
	"fmt"
	"strings"
	"time"
)

// IntRange is an inclusive [Min, Max] bound. An inverted range matches nothing.
type IntRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether v lies within the range.
func (r IntRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// DateRange is an inclusive range of calendar dates. Time of day is ignored.
type DateRange struct {
	From time.Time `json:"from" yaml:"from"`
	To   time.Time `json:"to" yaml:"to"`
}

// Contains reports whether the calendar date of t lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(DateOnly(r.From)) && !d.After(DateOnly(r.To))
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FilterCriteria is the set of user-chosen inclusion bounds. All predicates
// are combined with a logical AND.
type FilterCriteria struct {
	Dates       DateRange    `json:"dates" yaml:"dates"`
	Years       IntRange     `json:"years" yaml:"years"`
	Mileage     IntRange     `json:"mileage_km" yaml:"mileage_km"`
	Price       IntRange     `json:"price_eur" yaml:"price_eur"`
	SellerTypes []SellerType `json:"seller_types" yaml:"seller_types"`
}

// HasSeller reports whether s is one of the selected seller types.
func (c FilterCriteria) HasSeller(s SellerType) bool {
	for _, st := range c.SellerTypes {
		if st == s {
			return true
		}
	}
	return false
}

func (c FilterCriteria) String() string {
	sellers := make([]string, 0, len(c.SellerTypes))
	for _, s := range c.SellerTypes {
		sellers = append(sellers, s.Label())
	}
	return fmt.Sprintf("dates=%s..%s years=%d..%d km=%d..%d price=%d..%d sellers=[%s]",
		c.Dates.From.Format(DateLayout), c.Dates.To.Format(DateLayout),
		c.Years.Min, c.Years.Max,
		c.Mileage.Min, c.Mileage.Max,
		c.Price.Min, c.Price.Max,
		strings.Join(sellers, ","))
}
