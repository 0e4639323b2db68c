// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package database

import (
	"database/sql"
	"time"

	"github.com/virginiais4lovers/bestskrellerz/internal/models"
)

// dateFormat is the wire format for publication dates.
const dateFormat = "2006-01-02"

// rankingRow is the scan target for one all_rankings row. Nullable
// columns scan through sql.Null types; wide integers come back as int64
// from DuckDB and are narrowed after range checks are moot (ranks and
// week counts are small by construction).
type rankingRow struct {
	ID            sql.NullString
	ListName      sql.NullString
	Week          sql.NullTime
	Rank          sql.NullInt64
	RankLastWeek  sql.NullInt64
	WeeksOnList   sql.NullInt64
	PrimaryISBN13 sql.NullString
	Title         sql.NullString
	Author        sql.NullString
	Publisher     sql.NullString
	Description   sql.NullString
	BookImage     sql.NullString
	AmazonURL     sql.NullString
	Source        sql.NullString
}

// scanTargets returns pointers for Scan in all_rankings column order.
func (r *rankingRow) scanTargets() []interface{} {
	return []interface{}{
		&r.ID, &r.ListName, &r.Week, &r.Rank, &r.RankLastWeek, &r.WeeksOnList,
		&r.PrimaryISBN13, &r.Title, &r.Author, &r.Publisher, &r.Description,
		&r.BookImage, &r.AmazonURL, &r.Source,
	}
}

// shape converts a scanned row into the canonical record. The second
// return is false for rows that must not be served: a record missing
// both ISBN and title carries nothing a client could render, and the
// shaper never fabricates a title.
func (r *rankingRow) shape() (models.RankingRecord, bool) {
	isbn := r.PrimaryISBN13.String
	title := r.Title.String
	if isbn == "" && title == "" {
		return models.RankingRecord{}, false
	}

	rec := models.RankingRecord{
		ID:               r.ID.String,
		ListNameEncoded:  r.ListName.String,
		Rank:             int(r.Rank.Int64),
		RankLastWeek:     int(r.RankLastWeek.Int64),
		WeeksOnList:      int(r.WeeksOnList.Int64),
		Source:           r.Source.String,
		PrimaryISBN13:    isbn,
		Title:            title,
		Author:           r.Author.String,
		Publisher:        r.Publisher.String,
		Description:      r.Description.String,
		BookImage:        r.BookImage.String,
		AmazonProductURL: r.AmazonURL.String,
	}
	if r.Week.Valid {
		rec.PublishedDate = r.Week.Time.Format(dateFormat)
	}
	return rec, true
}

// collectRankings scans and shapes every row in the result set,
// dropping rows the shaper rejects. Always returns a non-nil slice so
// empty results serialize as [] rather than null.
func collectRankings(rows *sql.Rows) ([]models.RankingRecord, error) {
	records := []models.RankingRecord{}
	for rows.Next() {
		var row rankingRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, err
		}
		if rec, ok := row.shape(); ok {
			records = append(records, rec)
		}
	}
	return records, rows.Err()
}

// formatNullDate renders a nullable DATE as *string for JSON transport.
func formatNullDate(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.Format(dateFormat)
	return &s
}

// formatDate renders a DATE for JSON transport.
func formatDate(t time.Time) string {
	return t.Format(dateFormat)
}
