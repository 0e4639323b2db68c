// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/virginiais4lovers/bestskrellerz/internal/config"
	"github.com/virginiais4lovers/bestskrellerz/internal/metrics"
	"github.com/virginiais4lovers/bestskrellerz/internal/middleware"
)

// Router assembles the HTTP route tree.
type Router struct {
	handler *Handler
	cfg     *config.Config
}

// NewRouter creates a router for the given handler and configuration.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	return &Router{handler: handler, cfg: cfg}
}

// chiMiddleware adapts http.HandlerFunc middleware to chi's
// func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup builds the full route tree with middleware applied per group.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: router.cfg.Security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "X-Admin-Token"},
		MaxAge:         300,
	}))

	// Health endpoints stay outside the standard rate limit so probes
	// never get throttled out.
	r.Route("/api/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api", func(r chi.Router) {
		if !router.cfg.Security.RateLimitDisabled {
			r.Use(router.rateLimit(router.cfg.Security.RateLimitReqs))
		}
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/lists", router.handler.Lists)
		r.Get("/rankings", router.handler.Rankings)
		r.Get("/search", router.handler.Search)
		r.Get("/random", router.handler.Random)
		r.Get("/image", router.handler.Image)
		r.Get("/stats", router.handler.Stats)

		r.Route("/admin", func(r chi.Router) {
			if !router.cfg.Security.RateLimitDisabled {
				r.Use(router.rateLimit(adminRateLimit(router.cfg.Security.RateLimitReqs)))
			}
			r.Use(router.adminAuth)

			r.Post("/import-csv", router.handler.AdminImportCSV)
			r.Post("/enrich-series", router.handler.AdminEnrichSeries)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// rateLimit builds a per-IP limiter that records rejections.
func (router *Router) rateLimit(requests int) func(http.Handler) http.Handler {
	return httprate.Limit(
		requests,
		router.cfg.Security.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondError(w, r, http.StatusTooManyRequests, "TOO_MANY_REQUESTS",
				"Rate limit exceeded", nil)
		}),
	)
}

// adminRateLimit derives the tighter admin budget from the standard one.
func adminRateLimit(requests int) int {
	limit := requests / 10
	if limit < 1 {
		limit = 1
	}
	return limit
}

// adminAuth guards mutating endpoints behind the configured admin
// token. With no token configured the endpoints are disabled outright.
func (router *Router) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := router.cfg.Security.AdminToken
		if token == "" {
			respondError(w, r, http.StatusServiceUnavailable, ErrCodeNotConfigured,
				"Admin endpoints are not configured", nil)
			return
		}
		provided := r.Header.Get("X-Admin-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized,
				"Invalid admin token", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
