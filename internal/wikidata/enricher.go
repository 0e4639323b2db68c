// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package wikidata

import (
	"context"
	"fmt"
	"time"

	"github.com/virginiais4lovers/bestskrellerz/internal/config"
	"github.com/virginiais4lovers/bestskrellerz/internal/database"
	"github.com/virginiais4lovers/bestskrellerz/internal/logging"
	"github.com/virginiais4lovers/bestskrellerz/internal/metrics"
	"github.com/virginiais4lovers/bestskrellerz/internal/models"
)

// SeriesStore is the slice of the database layer the enricher needs.
type SeriesStore interface {
	BooksWithoutSeries(ctx context.Context, limit int) ([]database.TitleAuthor, error)
	SaveSeriesInfo(ctx context.Context, info models.SeriesInfo) error
}

// Resolver resolves a batch of titles to series matches.
type Resolver interface {
	QueryTitles(ctx context.Context, titles []string) (map[string]SeriesMatch, error)
}

// EnrichmentStats summarizes one enrichment run.
type EnrichmentStats struct {
	Candidates  int `json:"candidates"`
	Batches     int `json:"batches"`
	FoundSeries int `json:"found_series"`
	Errors      int `json:"errors"`
}

// Enricher walks the backlog of books with no recorded series and
// resolves them against Wikidata in batches.
type Enricher struct {
	store     SeriesStore
	resolver  Resolver
	batchSize int
	delay     time.Duration
}

// NewEnricher wires an enricher to a store and resolver.
func NewEnricher(store SeriesStore, resolver Resolver, cfg *config.WikidataConfig) *Enricher {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Enricher{
		store:     store,
		resolver:  resolver,
		batchSize: batchSize,
		delay:     cfg.Delay,
	}
}

// Run enriches up to limit books (0 means the whole backlog). Batches
// that fail are counted and skipped; the run only aborts when the
// context is cancelled or the backlog cannot be read at all.
func (e *Enricher) Run(ctx context.Context, limit int) (*EnrichmentStats, error) {
	books, err := e.store.BooksWithoutSeries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrichment backlog: %w", err)
	}

	stats := &EnrichmentStats{Candidates: len(books)}
	logging.Ctx(ctx).Info().
		Int("candidates", len(books)).
		Int("batch_size", e.batchSize).
		Msg("Starting series enrichment")

	for start := 0; start < len(books); start += e.batchSize {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		end := start + e.batchSize
		if end > len(books) {
			end = len(books)
		}
		batch := books[start:end]

		if start > 0 && e.delay > 0 {
			select {
			case <-time.After(e.delay):
			case <-ctx.Done():
				return stats, ctx.Err()
			}
		}

		if err := e.processBatch(ctx, batch, stats); err != nil {
			stats.Errors++
			logging.Ctx(ctx).Warn().Err(err).
				Int("batch_start", start).
				Msg("Enrichment batch failed")
		}
		stats.Batches++
		metrics.WikidataBatchesProcessed.Inc()
	}

	logging.Ctx(ctx).Info().
		Int("candidates", stats.Candidates).
		Int("found_series", stats.FoundSeries).
		Int("errors", stats.Errors).
		Msg("Series enrichment complete")

	return stats, nil
}

func (e *Enricher) processBatch(ctx context.Context, batch []database.TitleAuthor, stats *EnrichmentStats) error {
	titles := make([]string, len(batch))
	// Titles can repeat across authors; the first pair wins.
	byTitle := make(map[string]database.TitleAuthor, len(batch))
	for i, book := range batch {
		titles[i] = book.Title
		if _, ok := byTitle[book.Title]; !ok {
			byTitle[book.Title] = book
		}
	}

	matches, err := e.resolver.QueryTitles(ctx, titles)
	if err != nil {
		return err
	}

	for title, match := range matches {
		book, ok := byTitle[title]
		if !ok {
			continue
		}
		info := models.SeriesInfo{
			Title:            book.Title,
			Author:           book.Author,
			SeriesName:       match.SeriesName,
			SeriesOrder:      match.SeriesOrder,
			WikidataBookID:   match.WikidataBookID,
			WikidataSeriesID: match.WikidataSeriesID,
		}
		if err := e.store.SaveSeriesInfo(ctx, info); err != nil {
			stats.Errors++
			logging.Ctx(ctx).Warn().Err(err).
				Str("title", book.Title).
				Msg("Failed to save series info")
			continue
		}
		stats.FoundSeries++
		metrics.WikidataSeriesFound.Inc()
	}

	return nil
}
