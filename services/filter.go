package services

import (
	"sort"

	"z3-dashboard/models"
)

// Apply returns the listings matching every predicate of c, in input order.
// It never fails: inverted ranges or an empty seller set simply match nothing.
func Apply(listings []*models.Listing, c models.FilterCriteria) []*models.Listing {
	view := make([]*models.Listing, 0, len(listings))
	if len(c.SellerTypes) == 0 {
		return view
	}
	for _, l := range listings {
		if Matches(l, c) {
			view = append(view, l)
		}
	}
	return view
}

// Matches reports whether a single listing satisfies all criteria. A listing
// without a known year or mileage fails the corresponding range.
func Matches(l *models.Listing, c models.FilterCriteria) bool {
	return c.Dates.Contains(l.PublicationDate) &&
		l.HasModelYear && c.Years.Contains(l.ModelYear) &&
		l.HasMileage && c.Mileage.Contains(l.MileageKM) &&
		c.Price.Contains(l.PriceEUR) &&
		c.HasSeller(l.SellerType)
}

// DefaultCriteria spans the whole dataset: every range runs from the observed
// minimum to the observed maximum and every seller type present is selected.
// Listings missing a field do not contribute to that field's bounds.
func DefaultCriteria(listings []*models.Listing) models.FilterCriteria {
	var c models.FilterCriteria
	if len(listings) == 0 {
		return c
	}

	first := listings[0]
	c.Dates = models.DateRange{From: first.PublicationDate, To: first.PublicationDate}
	c.Price = models.IntRange{Min: first.PriceEUR, Max: first.PriceEUR}
	seenYear, seenKM := false, false
	sellers := make(map[models.SellerType]struct{})

	for _, l := range listings {
		if l.PublicationDate.Before(c.Dates.From) {
			c.Dates.From = l.PublicationDate
		}
		if l.PublicationDate.After(c.Dates.To) {
			c.Dates.To = l.PublicationDate
		}
		c.Price = widen(c.Price, l.PriceEUR)
		if l.HasModelYear {
			if !seenYear {
				c.Years = models.IntRange{Min: l.ModelYear, Max: l.ModelYear}
				seenYear = true
			}
			c.Years = widen(c.Years, l.ModelYear)
		}
		if l.HasMileage {
			if !seenKM {
				c.Mileage = models.IntRange{Min: l.MileageKM, Max: l.MileageKM}
				seenKM = true
			}
			c.Mileage = widen(c.Mileage, l.MileageKM)
		}
		sellers[l.SellerType] = struct{}{}
	}

	for s := range sellers {
		c.SellerTypes = append(c.SellerTypes, s)
	}
	sort.Slice(c.SellerTypes, func(i, j int) bool {
		return c.SellerTypes[i] < c.SellerTypes[j]
	})
	return c
}

func widen(r models.IntRange, v int) models.IntRange {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
	return r
}
