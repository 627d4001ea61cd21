package services

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"z3-dashboard/models"
	"z3-dashboard/storage"
	"z3-dashboard/utils"
)

var (
	// groupedRegexp matches integers written with thousands separators, e.g. 12.500 or 12,500
	groupedRegexp = regexp.MustCompile(`^-?\d{1,3}(?:[.,]\d{3})+$`)
	// numberRegexp matches a plain number with an optional decimal part
	numberRegexp = regexp.MustCompile(`^-?\d+(?:[.,]\d+)?$`)
	// intRegexp matches a plain integer, parsed without going through float64
	intRegexp = regexp.MustCompile(`^-?\d+$`)
	// unitReplacer strips spaces and units found in price and mileage cells
	unitReplacer = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "€", "", "eur", "", "km", "")
)

// maxExactFloat is the largest magnitude a float64 holds without losing integer precision.
const maxExactFloat = 1 << 53

// dateLayout accepts one- or two-digit day and month.
const dateLayout = "2/1/2006"

// Cleaner transforms RawListings into clean, validated Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean processes raw listings and returns the usable ones together with the
// number of dropped rows. A row is dropped when its price or publication date
// is missing or unparsable; the reason is only logged at debug level.
func (c *Cleaner) Clean(raw []*models.RawListing) ([]*models.Listing, int) {
	result := make([]*models.Listing, 0, len(raw))
	dropped := 0

	for _, r := range raw {
		listing, err := c.cleanOne(r)
		if err != nil {
			var mre *models.MalformedRecordError
			if errors.As(err, &mre) {
				c.logger.Debug("[cleaner] Dropping %v", mre)
			}
			dropped++
			continue
		}
		result = append(result, listing)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw), len(result), dropped)
	return result, dropped
}

func (c *Cleaner) cleanOne(r *models.RawListing) (*models.Listing, error) {
	published, err := parseDate(r.PublicationDate)
	if err != nil {
		return nil, &models.MalformedRecordError{Row: r.Row, Field: storage.ColDate, Reason: err.Error()}
	}

	price, ok := parseInt(r.Price)
	if !ok || price < 0 {
		return nil, &models.MalformedRecordError{Row: r.Row, Field: storage.ColPrice, Reason: "missing or invalid price " + strconv.Quote(r.Price)}
	}

	l := &models.Listing{
		Title:           normaliseText(r.Title),
		PublicationDate: published,
		PriceEUR:        price,
		City:            normaliseText(r.City),
		SellerType:      models.ParseSellerType(r.SellerType),
		URL:             strings.TrimSpace(r.URL),
	}

	// Year and mileage are optional: an unparsable value behaves like a
	// missing one and simply never matches a range filter.
	if year, ok := parseInt(r.ModelYear); ok {
		l.ModelYear, l.HasModelYear = year, true
	} else if r.ModelYear != "" {
		c.logger.Debug("[cleaner] Row %d: ignoring model year %q", r.Row, r.ModelYear)
	}
	if km, ok := parseInt(r.Mileage); ok && km >= 0 {
		l.MileageKM, l.HasMileage = km, true
	} else if r.Mileage != "" {
		c.logger.Debug("[cleaner] Row %d: ignoring mileage %q", r.Row, r.Mileage)
	}

	return l, nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing publication date")
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, errors.New("invalid publication date " + strconv.Quote(raw))
	}
	return t, nil
}

// parseInt reads an integer that may carry thousands separators, a unit
// suffix, or a trailing ".0" as pandas writes integer columns with gaps.
func parseInt(raw string) (int, bool) {
	cleaned := unitReplacer.Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch {
	case cleaned == "":
		return 0, false
	case groupedRegexp.MatchString(cleaned):
		cleaned = strings.NewReplacer(".", "", ",", "").Replace(cleaned)
	case !numberRegexp.MatchString(cleaned):
		return 0, false
	}
	if intRegexp.MatchString(cleaned) {
		n, err := strconv.Atoi(cleaned)
		return n, err == nil
	}
	f, err := strconv.ParseFloat(strings.Replace(cleaned, ",", ".", 1), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactFloat {
		return 0, false
	}
	return int(f), true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
