package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"z3-dashboard/models"
)

func TestParseSortOptions(t *testing.T) {
	tests := []struct {
		raw     string
		want    SortOptions
		wantErr bool
	}{
		{"", DefaultSortOptions(), false},
		{"price", SortOptions{SortByPrice, SortAsc}, false},
		{"Mileage:DESC", SortOptions{SortByMileage, SortDesc}, false},
		{"year:asc", SortOptions{SortByYear, SortAsc}, false},
		{"city", SortOptions{}, true},
		{"date:sideways", SortOptions{}, true},
	}

	for _, tt := range tests {
		got, err := ParseSortOptions(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "ParseSortOptions(%q)", tt.raw)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "date:desc", DefaultSortOptions().String())
}

func TestSortListingsDefaultIsNewestFirst(t *testing.T) {
	input := sampleListings()
	sorted := SortListings(input, DefaultSortOptions())

	// e and f share a date and keep their input order.
	assert.Equal(t, []string{"e", "f", "d", "c", "b", "a"}, titles(sorted))
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, titles(input), "input must not be reordered")
}

func TestSortListingsUnknownKeysLast(t *testing.T) {
	noKM := listing("no-km", date(2024, 1, 1), 1999, 0, 1000, models.SellerIndividual)
	noKM.HasMileage = false
	view := []*models.Listing{
		noKM,
		listing("low", date(2024, 1, 1), 1999, 50000, 1000, models.SellerIndividual),
		listing("high", date(2024, 1, 1), 1999, 90000, 1000, models.SellerIndividual),
	}

	assert.Equal(t, []string{"low", "high", "no-km"}, titles(SortListings(view, SortOptions{SortByMileage, SortAsc})))
	assert.Equal(t, []string{"high", "low", "no-km"}, titles(SortListings(view, SortOptions{SortByMileage, SortDesc})))
}

func TestBuildTable(t *testing.T) {
	noYear := listing("Z3 roadster", date(2024, 4, 2), 0, 0, 12500, models.SellerProfessional)
	noYear.HasModelYear, noYear.HasMileage = false, false
	view := append(sampleListings(), noYear)

	rows := BuildTable(view, SortOptions{SortByPrice, SortDesc}, 3)
	require.Len(t, rows, 3)

	assert.Equal(t, models.TableRow{
		Title:      "e",
		Date:       "15/03/2024",
		Year:       "2002",
		Mileage:    "60 000 km",
		Price:      "22 000 €",
		City:       "Lyon",
		SellerType: "individual",
		URL:        "https://example.com/e",
	}, rows[0])
	assert.Equal(t, "d", rows[1].Title)
	assert.Equal(t, "Z3 roadster", rows[2].Title)
	assert.Empty(t, rows[2].Year)
	assert.Empty(t, rows[2].Mileage)

	assert.Len(t, BuildTable(view, DefaultSortOptions(), 0), len(view))
}

func TestGroupThousands(t *testing.T) {
	cases := map[int]string{
		0:       "0",
		950:     "950",
		1000:    "1 000",
		123456:  "123 456",
		1234567: "1 234 567",
		-4500:   "-4 500",
	}
	for in, want := range cases {
		assert.Equal(t, want, groupThousands(in))
	}
}
