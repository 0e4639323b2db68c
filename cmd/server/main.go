// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

// Command server runs the bestseller list API.
//
// It serves the New York Times bestseller archive stored in MotherDuck
// (or a local DuckDB file) over a JSON HTTP API: list metadata, weekly
// rankings, most-weeks aggregations, free-text search, random
// discovery, a cover image proxy, and admin endpoints for historical
// CSV import and Wikidata series enrichment.
//
// Configuration comes from the environment (a local .env is honored),
// with MOTHERDUCK_TOKEN being the only required setting for hosted
// operation. The server starts without it and answers health checks,
// returning 503 for data endpoints until a token is provided.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/virginiais4lovers/bestskrellerz/internal/api"
	"github.com/virginiais4lovers/bestskrellerz/internal/config"
	"github.com/virginiais4lovers/bestskrellerz/internal/database"
	"github.com/virginiais4lovers/bestskrellerz/internal/imageproxy"
	"github.com/virginiais4lovers/bestskrellerz/internal/logging"
	"github.com/virginiais4lovers/bestskrellerz/internal/supervisor"
	"github.com/virginiais4lovers/bestskrellerz/internal/supervisor/services"
	"github.com/virginiais4lovers/bestskrellerz/internal/wikidata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Bool("database_configured", cfg.HasDatabaseConfig()).
		Msg("Starting Bestskrellerz")

	db := database.New(&cfg.Database)
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	// The connection is lazy; a failure here is logged and retried on
	// the first request instead of blocking startup.
	if cfg.HasDatabaseConfig() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Ping(connectCtx); err != nil {
			logging.Warn().Err(err).Msg("Initial database connection failed (will retry)")
		} else {
			logging.Info().Msg("Database connected")
		}
		cancel()
	} else {
		logging.Warn().Msg("MOTHERDUCK_TOKEN not set; data endpoints will return 503")
	}

	proxy := imageproxy.New(cfg.Security.ImageHosts, cfg.Server.Timeout)
	enricher := wikidata.NewEnricher(db, wikidata.NewClient(&cfg.Wikidata), &cfg.Wikidata)

	handler := api.NewHandler(db, cfg, proxy, enricher)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Serving HTTP API")
	errCh := tree.ServeBackground(ctx)

	// Wait for the tree to stop; after a signal this includes the HTTP
	// server's graceful shutdown.
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	logging.Info().Msg("Shutdown complete")
}
