package models

import (
	"strings"
	"time"
)

// DateLayout is the DD/MM/YYYY format used by the listings file and the table.
const DateLayout = "02/01/2006"

// SellerType identifies who published a listing.
type SellerType string

const (
	SellerIndividual   SellerType = "particulier"
	SellerProfessional SellerType = "professionnel"
)

// ParseSellerType normalises a raw seller value. English aliases map onto the
// two known values; anything else is kept lowercased.
func ParseSellerType(raw string) SellerType {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "individual", "private":
		return SellerIndividual
	case "professional", "pro", "dealer":
		return SellerProfessional
	}
	return SellerType(s)
}

// Label returns a human readable name for the seller type.
func (s SellerType) Label() string {
	switch s {
	case SellerIndividual:
		return "individual"
	case SellerProfessional:
		return "professional"
	case "":
		return "unknown"
	}
	return string(s)
}

// RawListing holds one unprocessed row exactly as read from a source.
// Every field is text; the Cleaner decides what is usable.
type RawListing struct {
	Row             int
	Title           string
	PublicationDate string
	ModelYear       string
	Mileage         string
	Price           string
	City            string
	SellerType      string
	URL             string
}

// Listing is a cleaned, validated record. PriceEUR and PublicationDate are
// always set; ModelYear and MileageKM are only meaningful when their Has flag
// is true.
type Listing struct {
	Title           string     `json:"title" yaml:"title"`
	PublicationDate time.Time  `json:"publication_date" yaml:"publication_date"`
	ModelYear       int        `json:"model_year,omitempty" yaml:"model_year,omitempty"`
	HasModelYear    bool       `json:"-" yaml:"-"`
	MileageKM       int        `json:"mileage_km,omitempty" yaml:"mileage_km,omitempty"`
	HasMileage      bool       `json:"-" yaml:"-"`
	PriceEUR        int        `json:"price_eur" yaml:"price_eur"`
	City            string     `json:"city" yaml:"city"`
	SellerType      SellerType `json:"seller_type" yaml:"seller_type"`
	URL             string     `json:"url" yaml:"url"`
}

// Dataset is the immutable result of loading a source once.
type Dataset struct {
	Source      string
	Checksum    string
	Listings    []*Listing
	RowsRead    int
	RowsDropped int
	LoadedAt    time.Time
}

// Len returns the number of retained listings.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Listings)
}
