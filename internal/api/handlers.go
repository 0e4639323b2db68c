// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/virginiais4lovers/bestskrellerz/internal/cache"
	"github.com/virginiais4lovers/bestskrellerz/internal/config"
	"github.com/virginiais4lovers/bestskrellerz/internal/database"
	"github.com/virginiais4lovers/bestskrellerz/internal/imageproxy"
	"github.com/virginiais4lovers/bestskrellerz/internal/models"
	"github.com/virginiais4lovers/bestskrellerz/internal/validation"
	"github.com/virginiais4lovers/bestskrellerz/internal/wikidata"
)

// Store is the slice of the database layer the handlers use.
// *database.DB satisfies it.
type Store interface {
	Ping(ctx context.Context) error
	ListAll(ctx context.Context) ([]models.List, error)
	HasHistoricalData(ctx context.Context) bool
	LatestDate(ctx context.Context, list string) (*string, error)
	AvailableDates(ctx context.Context, list string) ([]string, error)
	RankingsForDate(ctx context.Context, list, date string, page, pageSize int) ([]models.RankingRecord, int, error)
	MostWeeksOnList(ctx context.Context, f database.MostWeeksFilter) ([]models.AggregatedRecord, int, error)
	Search(ctx context.Context, term string, page, pageSize int) ([]models.SearchResult, int, error)
	RandomRanking(ctx context.Context) (*models.RankingRecord, []models.Appearance, error)
	Stats(ctx context.Context) (*models.Stats, error)
	ImportHistoricalCSV(ctx context.Context, csvPath string) (*models.ImportResult, error)
}

// SeriesEnricher runs a Wikidata series enrichment pass.
type SeriesEnricher interface {
	Run(ctx context.Context, limit int) (*wikidata.EnrichmentStats, error)
}

// Handler processes all API requests.
type Handler struct {
	db        Store
	cfg       *config.Config
	proxy     *imageproxy.Proxy
	enricher  SeriesEnricher
	startTime time.Time

	listsCache *cache.Cache
	statsCache *cache.Cache
}

// NewHandler wires a handler to its dependencies. enricher may be nil
// when enrichment is not configured.
func NewHandler(db Store, cfg *config.Config, proxy *imageproxy.Proxy, enricher SeriesEnricher) *Handler {
	h := &Handler{
		db:        db,
		cfg:       cfg,
		proxy:     proxy,
		enricher:  enricher,
		startTime: time.Now(),
	}
	if cfg.Cache.Enabled {
		h.listsCache = cache.New("lists", cfg.Cache.TTL)
		h.statsCache = cache.New("stats", cfg.Cache.TTL)
	}
	return h
}

// respondDBError maps database failures to HTTP codes. A missing
// MotherDuck configuration is a 503 the operator can act on; everything
// else is a generic 500 with the detail kept in the logs.
func respondDBError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, database.ErrConfiguration) {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeNotConfigured,
			"Database is not configured", err)
		return
	}
	respondError(w, r, http.StatusInternalServerError, ErrCodeDatabaseError,
		"A database error occurred", err)
}

// listsResponse is the GET /api/lists body.
type listsResponse struct {
	Lists             []models.List `json:"lists"`
	HasHistoricalData bool          `json:"hasHistoricalData"`
}

// Lists returns all tracked bestseller lists.
func (h *Handler) Lists(w http.ResponseWriter, r *http.Request) {
	if h.listsCache != nil {
		if cached, ok := h.listsCache.Get("lists"); ok {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	lists, err := h.db.ListAll(r.Context())
	if err != nil {
		respondDBError(w, r, err)
		return
	}

	resp := listsResponse{
		Lists:             lists,
		HasHistoricalData: h.db.HasHistoricalData(r.Context()),
	}
	if h.listsCache != nil {
		h.listsCache.Set("lists", resp)
	}
	respondJSON(w, http.StatusOK, resp)
}

// rankingsResponse is the GET /api/rankings body. Rankings holds either
// per-week rows or most-weeks aggregates depending on the date mode.
type rankingsResponse struct {
	Rankings       interface{}       `json:"rankings"`
	Pagination     models.Pagination `json:"pagination"`
	Date           *string           `json:"date"`
	AvailableDates []string          `json:"availableDates"`
}

// Rankings serves one week of a list, or the all-time most-weeks
// aggregation when date=all.
func (h *Handler) Rankings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := rankingsRequest{
		List:          q.Get("list"),
		Date:          q.Get("date"),
		Page:          getIntParam(r, "page", 1),
		PageSize:      getIntParam(r, "pageSize", h.cfg.API.DefaultPageSize),
		YearStart:     getIntParam(r, "yearStart", 0),
		YearEnd:       getIntParam(r, "yearEnd", 0),
		ExcludeSeries: getBoolParam(r, "excludeSeries"),
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		apiErr := ve.ToAPIError()
		respondValidationError(w, r, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}
	req.PageSize = clampPageSize(req.PageSize, h.cfg.API.MaxPageSize)

	if req.Date == "all" {
		h.mostWeeks(w, r, req)
		return
	}

	ctx := r.Context()
	date := req.Date
	if date == "" || date == "latest" {
		latest, err := h.db.LatestDate(ctx, req.List)
		if err != nil {
			respondDBError(w, r, err)
			return
		}
		if latest == nil {
			respondJSON(w, http.StatusOK, rankingsResponse{
				Rankings:       []models.RankingRecord{},
				Pagination:     models.NewPagination(req.Page, req.PageSize, 0),
				Date:           nil,
				AvailableDates: []string{},
			})
			return
		}
		date = *latest
	}

	records, total, err := h.db.RankingsForDate(ctx, req.List, date, req.Page, req.PageSize)
	if err != nil {
		respondDBError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, rankingsResponse{
		Rankings:       records,
		Pagination:     models.NewPagination(req.Page, req.PageSize, total),
		Date:           &date,
		AvailableDates: h.availableDates(ctx, req.List),
	})
}

func (h *Handler) mostWeeks(w http.ResponseWriter, r *http.Request, req rankingsRequest) {
	records, total, err := h.db.MostWeeksOnList(r.Context(), database.MostWeeksFilter{
		List:          req.List,
		YearStart:     req.YearStart,
		YearEnd:       req.YearEnd,
		ExcludeSeries: req.ExcludeSeries,
		Page:          req.Page,
		PageSize:      req.PageSize,
	})
	if err != nil {
		respondDBError(w, r, err)
		return
	}

	date := "all"
	respondJSON(w, http.StatusOK, rankingsResponse{
		Rankings:       records,
		Pagination:     models.NewPagination(req.Page, req.PageSize, total),
		Date:           &date,
		AvailableDates: h.availableDates(r.Context(), req.List),
	})
}

// availableDates is best-effort context for date pickers; a failure
// degrades to an empty slice rather than failing the request.
func (h *Handler) availableDates(ctx context.Context, list string) []string {
	dates, err := h.db.AvailableDates(ctx, list)
	if err != nil {
		return []string{}
	}
	return dates
}

// searchResponse is the GET /api/search body.
type searchResponse struct {
	Results    []models.SearchResult `json:"results"`
	Pagination models.Pagination     `json:"pagination"`
	Query      string                `json:"query"`
}

// Search finds titles and authors across live and historical data.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	req := searchRequest{
		Query:    r.URL.Query().Get("q"),
		Page:     getIntParam(r, "page", 1),
		PageSize: getIntParam(r, "pageSize", h.cfg.API.DefaultPageSize),
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		apiErr := ve.ToAPIError()
		respondValidationError(w, r, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}
	req.PageSize = clampPageSize(req.PageSize, h.cfg.API.MaxPageSize)

	results, total, err := h.db.Search(r.Context(), req.Query, req.Page, req.PageSize)
	if err != nil {
		respondDBError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, searchResponse{
		Results:    results,
		Pagination: models.NewPagination(req.Page, req.PageSize, total),
		Query:      req.Query,
	})
}

// randomResponse is the GET /api/random body.
type randomResponse struct {
	Ranking     *models.RankingRecord `json:"ranking"`
	Appearances []models.Appearance   `json:"appearances"`
}

// Random serves one random current bestseller with its recent list
// appearances.
func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	rec, apps, err := h.db.RandomRanking(r.Context())
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	if apps == nil {
		apps = []models.Appearance{}
	}
	respondJSON(w, http.StatusOK, randomResponse{Ranking: rec, Appearances: apps})
}

// Image proxies book cover fetches for allow-listed hosts.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	err := h.proxy.Serve(r.Context(), w, r.URL.Query().Get("url"))
	switch {
	case err == nil:
	case errors.Is(err, imageproxy.ErrHostNotAllowed):
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden,
			"Image host is not allowed", nil)
	case errors.Is(err, imageproxy.ErrBadURL):
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest,
			"Invalid image URL", nil)
	default:
		respondError(w, r, http.StatusBadGateway, ErrCodeUpstreamFailed,
			"Failed to fetch image", err)
	}
}

// Stats reports dataset counts and the covered date range.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.statsCache != nil {
		if cached, ok := h.statsCache.Get("stats"); ok {
			respondJSON(w, http.StatusOK, cached)
			return
		}
	}

	stats, err := h.db.Stats(r.Context())
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	if h.statsCache != nil {
		h.statsCache.Set("stats", stats)
	}
	respondJSON(w, http.StatusOK, stats)
}

// Health reports overall service health. The service is degraded, not
// down, when the database is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db.Ping(r.Context()) == nil

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":             status,
		"database_connected": dbConnected,
		"uptime":             time.Since(h.startTime).Seconds(),
		"timestamp":          time.Now().UTC(),
	})
}

// HealthLive is the liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady is the readiness probe; 503 until the database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	dbConnected := h.db.Ping(r.Context()) == nil

	statusCode := http.StatusOK
	status := "ready"
	if !dbConnected {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, map[string]interface{}{
		"status":             status,
		"database_connected": dbConnected,
	})
}

// AdminImportCSV loads a historical CSV into the database and clears
// caches so the new rows are visible immediately.
func (h *Handler) AdminImportCSV(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest,
			"Invalid JSON body", nil)
		return
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		apiErr := ve.ToAPIError()
		respondValidationError(w, r, apiErr.Code, apiErr.Message, apiErr.Details)
		return
	}

	result, err := h.db.ImportHistoricalCSV(r.Context(), req.Path)
	if err != nil {
		respondDBError(w, r, err)
		return
	}

	h.ClearCaches()
	respondJSON(w, http.StatusOK, result)
}

// AdminEnrichSeries runs a synchronous Wikidata enrichment pass.
func (h *Handler) AdminEnrichSeries(w http.ResponseWriter, r *http.Request) {
	if h.enricher == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeNotConfigured,
			"Series enrichment is not configured", nil)
		return
	}

	req := enrichRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest,
				"Invalid JSON body", nil)
			return
		}
	}
	if req.Limit < 0 {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest,
			"limit must not be negative", nil)
		return
	}

	stats, err := h.enricher.Run(r.Context(), req.Limit)
	if err != nil {
		respondDBError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ClearCaches drops all cached responses.
func (h *Handler) ClearCaches() {
	if h.listsCache != nil {
		h.listsCache.Clear()
	}
	if h.statsCache != nil {
		h.statsCache.Clear()
	}
}
