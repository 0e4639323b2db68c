// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package models

// Ranking source tags. Live rankings come from the publisher API sync;
// historical rankings come from CSV imports of the legacy dataset.
const (
	SourceAPI        = "api"
	SourceHistorical = "historical"
)

// List represents one bestseller list (e.g. "hardcover-fiction") together
// with the publication date bounds observed in the database.
type List struct {
	ListNameEncoded     string  `json:"list_name_encoded"`
	DisplayName         string  `json:"display_name"`
	OldestPublishedDate *string `json:"oldest_published_date"` // YYYY-MM-DD
	NewestPublishedDate *string `json:"newest_published_date"` // YYYY-MM-DD
	Updated             string  `json:"updated,omitempty"`     // publisher cadence, e.g. "WEEKLY"
}

// RankingRecord is the canonical record shape served by the API.
//
// Rows from the live rankings table and the historical-import table are
// both normalized into this shape before leaving the data-access layer.
// Historical rows receive a synthetic ID ("historical-<title_id>") and
// zeroed week-over-week counters because the legacy dataset does not
// track them. Title is never fabricated: a row lacking both ISBN and
// title is dropped by the shaper rather than served.
type RankingRecord struct {
	ID              string `json:"id"`
	ListNameEncoded string `json:"list_name_encoded"`
	PublishedDate   string `json:"published_date"` // YYYY-MM-DD
	Rank            int    `json:"rank"`
	RankLastWeek    int    `json:"rank_last_week"`
	WeeksOnList     int    `json:"weeks_on_list"`
	Source          string `json:"source"` // SourceAPI or SourceHistorical

	PrimaryISBN13    string  `json:"primary_isbn13"`
	Title            string  `json:"title"`
	Author           string  `json:"author"`
	Publisher        string  `json:"publisher"`
	Description      string  `json:"description"`
	BookImage        string  `json:"book_image"`
	AmazonProductURL string  `json:"amazon_product_url"`
	SeriesName       *string `json:"series_name,omitempty"`
}

// AggregatedRecord is one row of the "most weeks on list" view served when
// no specific date is requested. TotalWeeks counts distinct weeks the
// (title, author) pair appeared across the unified rankings.
type AggregatedRecord struct {
	Title          string  `json:"title"`
	Author         string  `json:"author"`
	TotalWeeks     int     `json:"total_weeks"`
	BestRank       int     `json:"best_rank"`
	FirstWeek      string  `json:"first_week"` // YYYY-MM-DD
	LastWeek       string  `json:"last_week"`  // YYYY-MM-DD
	PrimaryISBN13  string  `json:"primary_isbn13,omitempty"`
	BookImage      string  `json:"book_image,omitempty"`
	Publisher      string  `json:"publisher,omitempty"`
	Description    string  `json:"description,omitempty"`
	SeriesName     *string `json:"series_name,omitempty"`
	SeriesPosition *int    `json:"series_position,omitempty"`
}

// SearchResult is one row of free-text search output, grouped by
// (title, author) with an appearance count across the unified rankings.
type SearchResult struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Appearances   int    `json:"appearances"`
	BestRank      int    `json:"best_rank"`
	LatestWeek    string `json:"latest_week"` // YYYY-MM-DD
	PrimaryISBN13 string `json:"primary_isbn13,omitempty"`
	BookImage     string `json:"book_image,omitempty"`
	Source        string `json:"source"`
}

// Appearance is one prior list appearance of a random pick.
type Appearance struct {
	ListNameEncoded string `json:"list_name_encoded"`
	PublishedDate   string `json:"published_date"`
	Rank            int    `json:"rank"`
}

// Stats holds database-wide counts and date bounds.
type Stats struct {
	Lists              int     `json:"lists"`
	Books              int     `json:"books"`
	Rankings           int     `json:"rankings"`
	HistoricalRankings int     `json:"historical_rankings"`
	OldestDate         *string `json:"oldest_date"` // YYYY-MM-DD
	NewestDate         *string `json:"newest_date"` // YYYY-MM-DD
}

// ImportResult summarizes a historical CSV import.
type ImportResult struct {
	RecordsBefore int     `json:"records_before"`
	RecordsAfter  int     `json:"records_after"`
	NewRecords    int     `json:"new_records"`
	OldestDate    *string `json:"oldest_date"`
	NewestDate    *string `json:"newest_date"`
}

// SeriesInfo is series membership resolved from Wikidata for one book.
type SeriesInfo struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	SeriesName       string `json:"series_name"`
	SeriesOrder      *int   `json:"series_order,omitempty"`
	WikidataBookID   string `json:"wikidata_book_id,omitempty"`
	WikidataSeriesID string `json:"wikidata_series_id,omitempty"`
}

// Pagination describes one page of a paginated response.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes page metadata. TotalPages is the ceiling of
// total divided by pageSize; zero totals yield zero pages.
func NewPagination(page, pageSize, total int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
