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

// rankingColumns is the all_rankings projection in rankingRow scan order.
const rankingColumns = `id, list_name, week, rank, rank_last_week, weeks_on_list,
	primary_isbn13, title, author, publisher, description, book_image,
	amazon_product_url, source`

// LatestDate returns the most recent publication date observed for a
// list, or nil when the list has no stored rankings.
func (db *DB) LatestDate(ctx context.Context, list string) (_ *string, err error) {
	defer timeQuery("select", "all_rankings", time.Now(), &err)

	conn, err := db.Connect(ctx)
	if err != nil {
		return nil, err
	}

	var latest sql.NullTime
	err = conn.QueryRowContext(ctx,
		"SELECT MAX(week) FROM all_rankings WHERE list_name = ?", list).Scan(&latest)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest date: %w", err)
	}
	return formatNullDate(latest), nil
}

// AvailableDates returns every distinct publication date for a list,
// newest first.
func (db *DB) AvailableDates(ctx context.Context, list string) (_ []string, err error) {
	defer timeQuery("select", "all_rankings", time.Now(), &err)

	conn, err := db.Connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT DISTINCT week FROM all_rankings
		WHERE list_name = ?
		ORDER BY week DESC`, list)
	if err != nil {
		return nil, fmt.Errorf("failed to query available dates: %w", err)
	}
	defer closeRows(rows)

	dates := []string{}
	for rows.Next() {
		var week time.Time
		if err := rows.Scan(&week); err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		dates = append(dates, formatDate(week))
	}
	return dates, rows.Err()
}

// RankingsForDate returns one page of rankings for a list on a specific
// date, ordered by ascending rank, along with the total row count for
// pagination. A date with no rows yields an empty page and total 0.
func (db *DB) RankingsForDate(ctx context.Context, list, date string, page, pageSize int) (_ []models.RankingRecord, total int, err error) {
	defer timeQuery("select", "all_rankings", time.Now(), &err)

	conn, err := db.Connect(ctx)
	if err != nil {
		return nil, 0, err
	}

	wb := query.NewWhereBuilder()
	wb.AddList(list)
	wb.AddWeek(date)
	where, args := wb.Build()

	countQuery := "SELECT COUNT(*) FROM all_rankings WHERE " + where
	if err := conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rankings: %w", err)
	}

	offset := (page - 1) * pageSize
	pageQuery := fmt.Sprintf(`
		SELECT %s FROM all_rankings
		WHERE %s
		ORDER BY rank ASC
		LIMIT ? OFFSET ?`, rankingColumns, where)
	rows, err := conn.QueryContext(ctx, pageQuery, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer closeRows(rows)

	records, err := collectRankings(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan rankings: %w", err)
	}
	return records, total, nil
}

// MostWeeksFilter narrows the aggregated most-weeks-on-list view.
type MostWeeksFilter struct {
	List          string
	YearStart     int
	YearEnd       int
	ExcludeSeries bool
	Page          int
	PageSize      int
}

// MostWeeksOnList returns titles ranked by how many distinct weeks they
// appeared on a list across live and historical data. This is the view
// served when no specific date is requested.
func (db *DB) MostWeeksOnList(ctx context.Context, f MostWeeksFilter) (_ []models.AggregatedRecord, total int, err error) {
	defer timeQuery("select", "all_rankings", time.Now(), &err)

	conn, err := db.Connect(ctx)
	if err != nil {
		return nil, 0, err
	}

	wb := query.NewWhereBuilder()
	wb.AddList(f.List)
	wb.AddYearRange(f.YearStart, f.YearEnd)
	// Untitled rows cannot be aggregated by title. Qualified because
	// book_series also has a title column.
	wb.AddClause("a.title <> ''")
	where, args := wb.Build()

	having := ""
	if f.ExcludeSeries {
		having = "HAVING MAX(bs.series_name) IS NULL"
	}

	grouped := fmt.Sprintf(`
		SELECT
			a.title,
			a.author,
			COUNT(DISTINCT a.week) AS total_weeks,
			MIN(a.rank) AS best_rank,
			MIN(a.week) AS first_week,
			MAX(a.week) AS last_week,
			MAX(a.primary_isbn13) AS primary_isbn13,
			MAX(a.book_image) AS book_image,
			MAX(a.publisher) AS publisher,
			MAX(a.description) AS description,
			MAX(bs.series_name) AS series_name,
			MAX(bs.series_order) AS series_position
		FROM all_rankings a
		LEFT JOIN book_series bs ON a.title = bs.title AND a.author = bs.author
		WHERE %s
		GROUP BY a.title, a.author
		%s`, where, having)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM (%s) AS grouped", grouped)
	if err := conn.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count aggregated rankings: %w", err)
	}

	offset := (f.Page - 1) * f.PageSize
	pageQuery := fmt.Sprintf(`%s
		ORDER BY total_weeks DESC, best_rank ASC, a.title ASC
		LIMIT ? OFFSET ?`, grouped)
	rows, err := conn.QueryContext(ctx, pageQuery, append(args, f.PageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query aggregated rankings: %w", err)
	}
	defer closeRows(rows)

	records := []models.AggregatedRecord{}
	for rows.Next() {
		var (
			rec        models.AggregatedRecord
			totalWeeks sql.NullInt64
			bestRank   sql.NullInt64
			firstWeek  sql.NullTime
			lastWeek   sql.NullTime
			isbn       sql.NullString
			image      sql.NullString
			publisher  sql.NullString
			desc       sql.NullString
			series     sql.NullString
			position   sql.NullInt64
		)
		err := rows.Scan(&rec.Title, &rec.Author, &totalWeeks, &bestRank,
			&firstWeek, &lastWeek, &isbn, &image, &publisher, &desc,
			&series, &position)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan aggregated ranking: %w", err)
		}

		rec.TotalWeeks = int(totalWeeks.Int64)
		rec.BestRank = int(bestRank.Int64)
		if firstWeek.Valid {
			rec.FirstWeek = formatDate(firstWeek.Time)
		}
		if lastWeek.Valid {
			rec.LastWeek = formatDate(lastWeek.Time)
		}
		rec.PrimaryISBN13 = isbn.String
		rec.BookImage = image.String
		rec.Publisher = publisher.String
		rec.Description = desc.String
		if series.Valid && series.String != "" {
			s := series.String
			rec.SeriesName = &s
			if position.Valid {
				p := int(position.Int64)
				rec.SeriesPosition = &p
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
