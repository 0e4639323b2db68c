// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/virginiais4lovers/bestskrellerz/internal/models"
)

// maxAppearances caps the appearance history attached to a random pick.
const maxAppearances = 10

// RandomRanking picks one random live ranking record together with up
// to 10 of the book's most recent list appearances across all data.
// Returns (nil, nil, nil) when the database holds no live rankings.
func (db *DB) RandomRanking(ctx context.Context) (_ *models.RankingRecord, _ []models.Appearance, err error) {
	defer timeQuery("select", "all_rankings", time.Now(), &err)

	conn, err := db.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	pickQuery := fmt.Sprintf(`
		SELECT %s FROM all_rankings
		WHERE source = ?
		ORDER BY random()
		LIMIT 1`, rankingColumns)
	rows, err := conn.QueryContext(ctx, pickQuery, models.SourceAPI)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to pick random ranking: %w", err)
	}
	records, err := collectRankings(rows)
	closeRows(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan random ranking: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	pick := records[0]

	appearances, err := db.recentAppearances(ctx, pick.Title, pick.Author)
	if err != nil {
		return nil, nil, err
	}
	return &pick, appearances, nil
}

// recentAppearances lists the most recent weeks a (title, author) pair
// appeared on any list.
func (db *DB) recentAppearances(ctx context.Context, title, author string) ([]models.Appearance, error) {
	conn, err := db.Connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT list_name, week, rank
		FROM all_rankings
		WHERE title = ? AND author = ?
		ORDER BY week DESC
		LIMIT ?`, title, author, maxAppearances)
	if err != nil {
		return nil, fmt.Errorf("failed to query appearances: %w", err)
	}
	defer closeRows(rows)

	appearances := []models.Appearance{}
	for rows.Next() {
		var (
			a    models.Appearance
			week time.Time
		)
		if err := rows.Scan(&a.ListNameEncoded, &week, &a.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan appearance: %w", err)
		}
		a.PublishedDate = formatDate(week)
		appearances = append(appearances, a)
	}
	return appearances, rows.Err()
}
