package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"z3-dashboard/models"
	"z3-dashboard/services"
	"z3-dashboard/utils"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) DefaultCriteria(ctx context.Context) (models.FilterCriteria, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.FilterCriteria), args.Error(1)
}

func (m *mockProvider) RecomputeWith(ctx context.Context, o services.CriteriaOverrides, opts services.PipelineOptions) (*models.Dashboard, error) {
	args := m.Called(ctx, o, opts)
	d, _ := args.Get(0).(*models.Dashboard)
	return d, args.Error(1)
}

func newTestHandler(p DashboardProvider) http.Handler {
	return NewHandler(p, utils.NewWriterLogger(&bytes.Buffer{}, true)).Routes()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestHandler(&mockProvider{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetDashboard(t *testing.T) {
	p := &mockProvider{}
	yearMin := 1999
	want := services.CriteriaOverrides{
		YearMin: &yearMin,
		Sellers: []models.SellerType{models.SellerProfessional},
	}
	p.On("RecomputeWith", mock.Anything, want, services.PipelineOptions{TableLimit: 5}).
		Return(&models.Dashboard{Total: 10, Shown: 4}, nil).Once()

	rec := get(t, newTestHandler(p), "/api/dashboard?year_min=1999&seller=professionnel&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 10, body["total"])
	assert.EqualValues(t, 4, body["shown"])
	p.AssertExpectations(t)
}

func TestGetDashboardBadQuery(t *testing.T) {
	p := &mockProvider{}
	h := newTestHandler(p)

	for _, q := range []string{
		"year_min=abc",
		"from=yesterday",
		"sort=colour",
		"limit=-3",
		"bins=many",
		"bins=201",
		"bins=1125899906842624",
	} {
		rec := get(t, h, "/api/dashboard?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, rec.Body.String(), `"status":"error"`, q)
	}
	p.AssertNotCalled(t, "RecomputeWith", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetDashboardSourceUnavailable(t *testing.T) {
	p := &mockProvider{}
	p.On("RecomputeWith", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("open data.csv: %w", models.ErrSourceUnavailable))

	rec := get(t, newTestHandler(p), "/api/dashboard")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "listings source unavailable")
}

func TestGetDashboardInternalError(t *testing.T) {
	p := &mockProvider{}
	p.On("RecomputeWith", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("boom"))

	rec := get(t, newTestHandler(p), "/api/dashboard")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestGetCriteria(t *testing.T) {
	p := &mockProvider{}
	c := models.FilterCriteria{
		Years:       models.IntRange{Min: 1996, Max: 2002},
		SellerTypes: []models.SellerType{models.SellerIndividual},
	}
	p.On("DefaultCriteria", mock.Anything).Return(c, nil)

	rec := get(t, newTestHandler(p), "/api/criteria")
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.FilterCriteria
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, c.Years, got.Years)
	assert.Equal(t, c.SellerTypes, got.SellerTypes)
}

func TestParseQuery(t *testing.T) {
	q := url.Values{}
	q.Set("from", "01/02/2024")
	q.Set("to", "2024-03-31")
	q.Set("price_min", "5 000")
	q.Set("km_max", "120000")
	q.Set("sort", "price:asc")
	q.Set("bins", "10")
	q.Add("seller", "none")

	o, opts, err := parseQuery(q)
	require.NoError(t, err)

	require.NotNil(t, o.From)
	require.NotNil(t, o.To)
	assert.True(t, o.From.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, o.To.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, o.PriceMin)
	assert.Equal(t, 5000, *o.PriceMin)
	require.NotNil(t, o.KMMax)
	assert.Equal(t, 120000, *o.KMMax)
	assert.Nil(t, o.YearMin)
	assert.NotNil(t, o.Sellers)
	assert.Empty(t, o.Sellers)
	assert.Equal(t, services.SortOptions{Field: services.SortByPrice, Direction: services.SortAsc}, opts.Sort)
	assert.Equal(t, 10, opts.HistogramBins)

	o, _, err = parseQuery(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, o.Sellers, "no seller parameter keeps the default set")
}
