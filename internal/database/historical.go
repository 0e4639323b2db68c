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

	"github.com/virginiais4lovers/bestskrellerz/internal/database/query"
	"github.com/virginiais4lovers/bestskrellerz/internal/logging"
	"github.com/virginiais4lovers/bestskrellerz/internal/metrics"
	"github.com/virginiais4lovers/bestskrellerz/internal/models"
)

// ImportHistoricalCSV loads legacy bestseller rows from a CSV file into
// historical_rankings, skipping rows whose (title_id, week) already
// exist. Returns before/after counts and the resulting date range.
//
// The file path cannot be bound as a parameter to read_csv, so it is
// escaped and inlined. This is the only interpolation site in the
// package.
func (db *DB) ImportHistoricalCSV(ctx context.Context, csvPath string) (_ *models.ImportResult, err error) {
	start := time.Now()
	defer timeQuery("insert", "historical_rankings", start, &err)

	conn, err := db.Connect(ctx)
	if err != nil {
		return nil, err
	}

	var before int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM historical_rankings").Scan(&before); err != nil {
		return nil, fmt.Errorf("failed to count existing records: %w", err)
	}

	insert := fmt.Sprintf(`
		INSERT OR IGNORE INTO historical_rankings (
			title_id, week, year, rank, title, author,
			author_authorized_heading, author_lccn, author_viaf, author_wikidata,
			oclc_isbn, oclc_owi, oclc_holdings, oclc_eholdings
		)
		SELECT
			title_id,
			week::DATE,
			year,
			rank,
			title,
			author,
			author_authorized_heading,
			author_lccn,
			author_viaf,
			author_wikidata,
			oclc_isbn,
			oclc_owi,
			oclc_holdings,
			oclc_eholdings
		FROM read_csv('%s', header=true, auto_detect=true)`,
		query.EscapeLiteral(csvPath))
	if _, err := conn.ExecContext(ctx, insert); err != nil {
		return nil, fmt.Errorf("failed to import CSV: %w", err)
	}

	var after int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM historical_rankings").Scan(&after); err != nil {
		return nil, fmt.Errorf("failed to count imported records: %w", err)
	}

	var oldest, newest sql.NullTime
	err = conn.QueryRowContext(ctx,
		"SELECT MIN(week), MAX(week) FROM historical_rankings").Scan(&oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("failed to query imported date range: %w", err)
	}

	result := &models.ImportResult{
		RecordsBefore: before,
		RecordsAfter:  after,
		NewRecords:    after - before,
		OldestDate:    formatNullDate(oldest),
		NewestDate:    formatNullDate(newest),
	}

	metrics.RecordImport(time.Since(start), result.NewRecords)
	logging.Ctx(ctx).Info().
		Int("new_records", result.NewRecords).
		Int("total_records", result.RecordsAfter).
		Msg("Historical CSV import complete")

	return result, nil
}
