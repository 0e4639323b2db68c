// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/virginiais4lovers/bestskrellerz/internal/models"
)

// Stats returns database-wide counts and the publication date bounds of
// the unified rankings.
func (db *DB) Stats(ctx context.Context) (_ *models.Stats, err error) {
	defer timeQuery("select", "stats", time.Now(), &err)

	conn, err := db.Connect(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{}
	counts := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM lists", &stats.Lists},
		{"SELECT COUNT(*) FROM books", &stats.Books},
		{"SELECT COUNT(*) FROM rankings", &stats.Rankings},
		{"SELECT COUNT(*) FROM historical_rankings", &stats.HistoricalRankings},
	}
	for _, c := range counts {
		if err := conn.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
	}

	var oldest, newest sql.NullTime
	err = conn.QueryRowContext(ctx,
		"SELECT MIN(week), MAX(week) FROM all_rankings").Scan(&oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("failed to query date bounds: %w", err)
	}
	stats.OldestDate = formatNullDate(oldest)
	stats.NewestDate = formatNullDate(newest)

	return stats, nil
}
