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

	"github.com/virginiais4lovers/bestskrellerz/internal/logging"
	"github.com/virginiais4lovers/bestskrellerz/internal/models"
)

// ListAll returns every stored list ordered by display name.
func (db *DB) ListAll(ctx context.Context) (_ []models.List, err error) {
	defer timeQuery("select", "lists", time.Now(), &err)

	conn, err := db.Connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT list_name_encoded, display_name, oldest_published_date,
		       newest_published_date, updated
		FROM lists
		ORDER BY display_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists: %w", err)
	}
	defer closeRows(rows)

	lists := []models.List{}
	for rows.Next() {
		var (
			l       models.List
			display sql.NullString
			oldest  sql.NullTime
			newest  sql.NullTime
			updated sql.NullString
		)
		if err := rows.Scan(&l.ListNameEncoded, &display, &oldest, &newest, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		l.DisplayName = display.String
		l.OldestPublishedDate = formatNullDate(oldest)
		l.NewestPublishedDate = formatNullDate(newest)
		l.Updated = updated.String
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// HasHistoricalData reports whether any historical rankings are stored.
// Best effort: a query failure logs and reports false rather than
// failing the lists endpoint.
func (db *DB) HasHistoricalData(ctx context.Context) bool {
	conn, err := db.Connect(ctx)
	if err != nil {
		return false
	}

	var count int64
	err = conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM historical_rankings").Scan(&count)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to count historical rankings")
		return false
	}
	return count > 0
}

// ListExists reports whether a list with the given encoded name is stored.
func (db *DB) ListExists(ctx context.Context, list string) (bool, error) {
	conn, err := db.Connect(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	err = conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM lists WHERE list_name_encoded = ?", list).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check list existence: %w", err)
	}
	return count > 0, nil
}

// closeRows closes a result set, logging any error.
func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close result set")
	}
}
