// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates the tables shared with the ingestion CLI.
// All statements are idempotent so startup against an already-populated
// MotherDuck database is a no-op.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS lists (
		list_name_encoded VARCHAR PRIMARY KEY,
		display_name VARCHAR,
		oldest_published_date DATE,
		newest_published_date DATE,
		updated VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		primary_isbn13 VARCHAR PRIMARY KEY,
		primary_isbn10 VARCHAR,
		title VARCHAR,
		author VARCHAR,
		publisher VARCHAR,
		description VARCHAR,
		book_image VARCHAR,
		amazon_product_url VARCHAR,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS rankings (
		id VARCHAR PRIMARY KEY,
		list_name_encoded VARCHAR,
		published_date DATE,
		rank INTEGER,
		rank_last_week INTEGER,
		weeks_on_list INTEGER,
		primary_isbn13 VARCHAR,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS historical_rankings (
		title_id INTEGER,
		week DATE,
		year INTEGER,
		rank INTEGER,
		title VARCHAR,
		author VARCHAR,
		author_authorized_heading VARCHAR,
		author_lccn VARCHAR,
		author_viaf VARCHAR,
		author_wikidata VARCHAR,
		oclc_isbn VARCHAR,
		oclc_owi DOUBLE,
		oclc_holdings DOUBLE,
		oclc_eholdings DOUBLE,
		PRIMARY KEY (title_id, week)
	)`,
	`CREATE TABLE IF NOT EXISTS book_series (
		title VARCHAR NOT NULL,
		author VARCHAR NOT NULL,
		series_name VARCHAR NOT NULL,
		series_order INTEGER,
		wikidata_book_id VARCHAR,
		wikidata_series_id VARCHAR,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (title, author)
	)`,
}

// historicalListName is the list the legacy CSV dataset covers. The
// historical export predates per-list identifiers, so its rows are
// attributed to hardcover fiction.
const historicalListName = "hardcover-fiction"

// allRankingsView unions live and historical rankings into one shape.
//
// Live rows take title and author from the books join; rows with no
// book match fall back to empty strings rather than disappearing.
// Historical rows carry title and author inline, get a synthetic
// "historical-<title_id>" id, and zeroed week counters the legacy
// dataset never tracked. Historical weeks that overlap live data are
// excluded so a week never appears twice.
const allRankingsView = `CREATE OR REPLACE VIEW all_rankings AS
SELECT
	r.id AS id,
	r.list_name_encoded AS list_name,
	r.published_date AS week,
	r.rank AS rank,
	COALESCE(r.rank_last_week, 0) AS rank_last_week,
	COALESCE(r.weeks_on_list, 0) AS weeks_on_list,
	COALESCE(r.primary_isbn13, '') AS primary_isbn13,
	COALESCE(b.title, '') AS title,
	COALESCE(b.author, '') AS author,
	COALESCE(b.publisher, '') AS publisher,
	COALESCE(b.description, '') AS description,
	COALESCE(b.book_image, '') AS book_image,
	COALESCE(b.amazon_product_url, '') AS amazon_product_url,
	'api' AS source
FROM rankings r
LEFT JOIN books b ON r.primary_isbn13 = b.primary_isbn13
UNION ALL
SELECT
	'historical-' || CAST(h.title_id AS VARCHAR) AS id,
	'` + historicalListName + `' AS list_name,
	h.week AS week,
	h.rank AS rank,
	0 AS rank_last_week,
	0 AS weeks_on_list,
	COALESCE(h.oclc_isbn, '') AS primary_isbn13,
	COALESCE(h.title, '') AS title,
	COALESCE(h.author, '') AS author,
	'' AS publisher,
	'' AS description,
	'' AS book_image,
	'' AS amazon_product_url,
	'historical' AS source
FROM historical_rankings h
WHERE NOT EXISTS (
	SELECT 1 FROM rankings r2
	WHERE r2.list_name_encoded = '` + historicalListName + `'
	AND r2.published_date = h.week
)`

// initSchema creates tables and the unified view. Called once when the
// connection is first opened.
func initSchema(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	if _, err := conn.ExecContext(ctx, allRankingsView); err != nil {
		return fmt.Errorf("failed to create all_rankings view: %w", err)
	}

	return nil
}
