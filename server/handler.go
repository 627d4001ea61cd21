package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"z3-dashboard/models"
	"z3-dashboard/services"
	"z3-dashboard/utils"
)

// DashboardProvider is the part of services.DashboardService the handlers need.
type DashboardProvider interface {
	DefaultCriteria(ctx context.Context) (models.FilterCriteria, error)
	RecomputeWith(ctx context.Context, o services.CriteriaOverrides, opts services.PipelineOptions) (*models.Dashboard, error)
}

// Handler serves the dashboard as read-only JSON.
type Handler struct {
	service DashboardProvider
	logger  *utils.Logger
}

// NewHandler creates a Handler.
func NewHandler(service DashboardProvider, logger *utils.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes returns the router with every endpoint mounted.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/criteria", h.GetCriteria)
	})
	return r
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health handles GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// GetCriteria handles GET /api/criteria
func (h *Handler) GetCriteria(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.DefaultCriteria(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, c)
}

// GetDashboard handles GET /api/dashboard
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	o, opts, err := parseQuery(r.URL.Query())
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Status: "error", Message: err.Error()})
		return
	}

	d, err := h.service.RecomputeWith(r.Context(), o, opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Debug("[http] %s %s → %d/%d listings (request %s)",
		r.Method, r.URL.RequestURI(), d.Shown, d.Total, middleware.GetReqID(r.Context()))
	render.JSON(w, r, d)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "failed to compute dashboard"
	if errors.Is(err, models.ErrSourceUnavailable) {
		status = http.StatusServiceUnavailable
		msg = "listings source unavailable"
	}
	h.logger.Error("[http] %s %s: %v", r.Method, r.URL.Path, err)

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Status: "error", Message: msg})
}

// parseQuery maps query parameters onto overrides. Parameters that are
// absent keep the dataset defaults; "seller" may repeat and an empty or
// "none" value selects no seller.
func parseQuery(q url.Values) (services.CriteriaOverrides, services.PipelineOptions, error) {
	var (
		o    services.CriteriaOverrides
		opts services.PipelineOptions
	)

	for _, d := range []struct {
		key string
		dst **time.Time
	}{
		{"from", &o.From},
		{"to", &o.To},
	} {
		v := q.Get(d.key)
		if v == "" {
			continue
		}
		t, err := services.ParseDateArg(v)
		if err != nil {
			return o, opts, err
		}
		*d.dst = &t
	}

	ints := []struct {
		key string
		dst **int
	}{
		{"year_min", &o.YearMin},
		{"year_max", &o.YearMax},
		{"km_min", &o.KMMin},
		{"km_max", &o.KMMax},
		{"price_min", &o.PriceMin},
		{"price_max", &o.PriceMax},
	}
	for _, i := range ints {
		v := q.Get(i.key)
		if v == "" {
			continue
		}
		n, err := services.ParseIntArg(strings.ReplaceAll(i.key, "_", " "), v)
		if err != nil {
			return o, opts, err
		}
		*i.dst = &n
	}

	if values, ok := q["seller"]; ok {
		o.Sellers = services.ParseSellers(values)
	}

	if v := q.Get("sort"); v != "" {
		s, err := services.ParseSortOptions(v)
		if err != nil {
			return o, opts, err
		}
		opts.Sort = s
	}
	for _, p := range []struct {
		key string
		dst *int
	}{
		{"limit", &opts.TableLimit},
		{"bins", &opts.HistogramBins},
	} {
		v := q.Get(p.key)
		if v == "" {
			continue
		}
		n, err := services.ParseIntArg(p.key, v)
		if err != nil || n < 0 {
			return o, opts, errors.New("invalid " + p.key + " " + v)
		}
		*p.dst = n
	}
	if opts.HistogramBins > services.MaxHistogramBins {
		return o, opts, fmt.Errorf("invalid bins %d (at most %d)", opts.HistogramBins, services.MaxHistogramBins)
	}

	return o, opts, nil
}
