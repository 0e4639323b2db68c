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
	"github.com/virginiais4lovers/bestskrellerz/internal/models"
)

// Search runs a free-text search across title and author in the unified
// rankings, grouped by (title, author) and ordered by appearance count.
// Covers both live and historical data.
func (db *DB) Search(ctx context.Context, term string, page, pageSize int) (_ []models.SearchResult, total int, err error) {
	defer timeQuery("select", "all_rankings", time.Now(), &err)

	conn, err := db.Connect(ctx)
	if err != nil {
		return nil, 0, err
	}

	wb := query.NewWhereBuilder()
	wb.AddSearch(term)
	wb.AddClause("title <> ''")
	where, args := wb.Build()

	grouped := fmt.Sprintf(`
		SELECT
			title,
			author,
			COUNT(*) AS appearances,
			MIN(rank) AS best_rank,
			MAX(week) AS latest_week,
			MAX(primary_isbn13) AS primary_isbn13,
			MAX(book_image) AS book_image,
			MAX(source) AS source
		FROM all_rankings
		WHERE %s
		GROUP BY title, author`, where)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS grouped", grouped)
	if err := conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	offset := (page - 1) * pageSize
	pageQuery := fmt.Sprintf(`%s
		ORDER BY appearances DESC, latest_week DESC, title ASC
		LIMIT ? OFFSET ?`, grouped)
	rows, err := conn.QueryContext(ctx, pageQuery, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query search results: %w", err)
	}
	defer closeRows(rows)

	results := []models.SearchResult{}
	for rows.Next() {
		var (
			r           models.SearchResult
			appearances sql.NullInt64
			bestRank    sql.NullInt64
			latestWeek  sql.NullTime
			isbn        sql.NullString
			image       sql.NullString
			source      sql.NullString
		)
		if err := rows.Scan(&r.Title, &r.Author, &appearances, &bestRank,
			&latestWeek, &isbn, &image, &source); err != nil {
			return nil, 0, fmt.Errorf("failed to scan search result: %w", err)
		}

		r.Appearances = int(appearances.Int64)
		r.BestRank = int(bestRank.Int64)
		if latestWeek.Valid {
			r.LatestWeek = formatDate(latestWeek.Time)
		}
		r.PrimaryISBN13 = isbn.String
		r.BookImage = image.String
		r.Source = source.String
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return results, total, nil
}
