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

// TitleAuthor is a unique (title, author) pair from the unified rankings.
type TitleAuthor struct {
	Title  string
	Author string
}

// BooksWithoutSeries returns unique (title, author) pairs that have no
// book_series row yet. These are the enrichment candidates. A limit of
// 0 returns all pairs.
func (db *DB) BooksWithoutSeries(ctx context.Context, limit int) (_ []TitleAuthor, err error) {
	defer timeQuery("select", "book_series", time.Now(), &err)

	conn, err := db.Connect(ctx)
	if err != nil {
		return nil, err
	}

	q := `
		SELECT DISTINCT a.title, a.author
		FROM all_rankings a
		WHERE a.title <> '' AND a.author <> ''
		AND NOT EXISTS (
			SELECT 1 FROM book_series bs
			WHERE bs.title = a.title AND bs.author = a.author
		)
		ORDER BY a.title`
	args := []interface{}{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrichment candidates: %w", err)
	}
	defer closeRows(rows)

	pairs := []TitleAuthor{}
	for rows.Next() {
		var p TitleAuthor
		if err := rows.Scan(&p.Title, &p.Author); err != nil {
			return nil, fmt.Errorf("failed to scan enrichment candidate: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

// SaveSeriesInfo upserts one book's series membership.
func (db *DB) SaveSeriesInfo(ctx context.Context, info models.SeriesInfo) (err error) {
	defer timeQuery("insert", "book_series", time.Now(), &err)

	conn, err := db.Connect(ctx)
	if err != nil {
		return err
	}

	_, err = conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO book_series
		(title, author, series_name, series_order, wikidata_book_id, wikidata_series_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		info.Title, info.Author, info.SeriesName, info.SeriesOrder,
		info.WikidataBookID, info.WikidataSeriesID)
	if err != nil {
		return fmt.Errorf("failed to save series info: %w", err)
	}
	return nil
}

// SeriesCount returns the number of books with resolved series.
func (db *DB) SeriesCount(ctx context.Context) (int, error) {
	conn, err := db.Connect(ctx)
	if err != nil {
		return 0, err
	}

	var count int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM book_series").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count series rows: %w", err)
	}
	return count, nil
}
