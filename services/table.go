package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"z3-dashboard/models"
)

// SortField represents a column the listing table can be sorted on.
type SortField string

const (
	SortByDate    SortField = "date"
	SortByPrice   SortField = "price"
	SortByMileage SortField = "mileage"
	SortByYear    SortField = "year"
)

// SortDirection represents sort order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOptions holds sorting preferences.
type SortOptions struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSortOptions returns the default sort (date descending, newest first).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field:     SortByDate,
		Direction: SortDesc,
	}
}

// String returns the sort options as a string (e.g., "date:desc").
func (s SortOptions) String() string {
	return string(s.Field) + ":" + string(s.Direction)
}

// ParseSortOptions parses "field" or "field:direction". An empty string
// yields the default.
func ParseSortOptions(raw string) (SortOptions, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return DefaultSortOptions(), nil
	}

	field, dir, _ := strings.Cut(raw, ":")
	opts := SortOptions{Field: SortField(field), Direction: SortAsc}
	switch opts.Field {
	case SortByDate, SortByPrice, SortByMileage, SortByYear:
	default:
		return SortOptions{}, fmt.Errorf("unknown sort field %q", field)
	}
	switch SortDirection(dir) {
	case "", SortAsc:
	case SortDesc:
		opts.Direction = SortDesc
	default:
		return SortOptions{}, fmt.Errorf("unknown sort direction %q", dir)
	}
	return opts, nil
}

// SortListings returns a sorted copy of view. Ties keep their input order.
// Listings missing the sort key go last regardless of direction.
func SortListings(view []*models.Listing, opts SortOptions) []*models.Listing {
	out := append([]*models.Listing(nil), view...)
	key := sortKey(opts.Field)
	desc := opts.Direction == SortDesc

	sort.SliceStable(out, func(i, j int) bool {
		a, okA := key(out[i])
		b, okB := key(out[j])
		if okA != okB {
			return okA
		}
		if desc {
			return a > b
		}
		return a < b
	})
	return out
}

func sortKey(f SortField) func(*models.Listing) (int64, bool) {
	switch f {
	case SortByPrice:
		return func(l *models.Listing) (int64, bool) { return int64(l.PriceEUR), true }
	case SortByMileage:
		return func(l *models.Listing) (int64, bool) { return int64(l.MileageKM), l.HasMileage }
	case SortByYear:
		return func(l *models.Listing) (int64, bool) { return int64(l.ModelYear), l.HasModelYear }
	default:
		return func(l *models.Listing) (int64, bool) { return l.PublicationDate.Unix(), true }
	}
}

// BuildTable sorts the view and formats each listing for display. limit <= 0
// keeps every row.
func BuildTable(view []*models.Listing, opts SortOptions, limit int) []models.TableRow {
	sorted := SortListings(view, opts)
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	rows := make([]models.TableRow, 0, len(sorted))
	for _, l := range sorted {
		row := models.TableRow{
			Title:      l.Title,
			Date:       l.PublicationDate.Format(models.DateLayout),
			Price:      fmt.Sprintf("%s €", groupThousands(l.PriceEUR)),
			City:       l.City,
			SellerType: l.SellerType.Label(),
			URL:        l.URL,
		}
		if l.HasModelYear {
			row.Year = strconv.Itoa(l.ModelYear)
		}
		if l.HasMileage {
			row.Mileage = fmt.Sprintf("%s km", groupThousands(l.MileageKM))
		}
		rows = append(rows, row)
	}
	return rows
}

// groupThousands formats n with a space between digit groups, French style.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
