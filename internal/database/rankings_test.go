// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/virginiais4lovers/bestskrellerz/internal/models"
)

func TestLatestDate(t *testing.T) {
	db := setupTestDB(t)

	latest, err := db.LatestDate(context.Background(), "hardcover-fiction")
	if err != nil {
		t.Fatalf("LatestDate() = %v", err)
	}
	if latest != nil {
		t.Errorf("latest date for empty list = %v, want nil", *latest)
	}

	seedBook(t, db, "9780000000001", "The First Book", "Alice Author")
	seedRanking(t, db, "hardcover-fiction", "2022-12-25", 1, "9780000000001")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 1, "9780000000001")

	latest, err = db.LatestDate(context.Background(), "hardcover-fiction")
	if err != nil {
		t.Fatalf("LatestDate() = %v", err)
	}
	if latest == nil || *latest != "2023-01-01" {
		t.Errorf("latest = %v, want 2023-01-01", latest)
	}
}

func TestAvailableDates(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "9780000000001", "The First Book", "Alice Author")
	seedRanking(t, db, "hardcover-fiction", "2022-12-25", 1, "9780000000001")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 1, "9780000000001")
	seedHistorical(t, db, 7, "1955-06-05", 2, "THE QUIET AMERICAN", "Graham Greene")

	dates, err := db.AvailableDates(context.Background(), "hardcover-fiction")
	if err != nil {
		t.Fatalf("AvailableDates() = %v", err)
	}
	want := []string{"2023-01-01", "2022-12-25", "1955-06-05"}
	if len(dates) != len(want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d] = %q, want %q", i, dates[i], want[i])
		}
	}
}

func TestRankingsForDate(t *testing.T) {
	db := setupTestDB(t)
	for i := 1; i <= 15; i++ {
		isbn := fmt.Sprintf("97800000000%02d", i)
		seedBook(t, db, isbn, fmt.Sprintf("Book %02d", i), "Alice Author")
		seedRanking(t, db, "hardcover-fiction", "2023-01-01", i, isbn)
	}

	records, total, err := db.RankingsForDate(context.Background(), "hardcover-fiction", "2023-01-01", 1, 15)
	if err != nil {
		t.Fatalf("RankingsForDate() = %v", err)
	}
	if total != 15 {
		t.Errorf("total = %d, want 15", total)
	}
	if len(records) != 15 {
		t.Fatalf("len(records) = %d, want 15", len(records))
	}
	for i, rec := range records {
		if rec.Rank != i+1 {
			t.Errorf("records[%d].Rank = %d, want %d (ascending order)", i, rec.Rank, i+1)
		}
	}
	if records[0].Source != models.SourceAPI {
		t.Errorf("Source = %q, want %q", records[0].Source, models.SourceAPI)
	}
	if records[0].Title != "Book 01" {
		t.Errorf("Title = %q, want Book 01 (joined from books)", records[0].Title)
	}
}

func TestRankingsForDatePagination(t *testing.T) {
	db := setupTestDB(t)
	for i := 1; i <= 12; i++ {
		isbn := fmt.Sprintf("97800000000%02d", i)
		seedBook(t, db, isbn, fmt.Sprintf("Book %02d", i), "Alice Author")
		seedRanking(t, db, "hardcover-fiction", "2023-01-01", i, isbn)
	}

	records, total, err := db.RankingsForDate(context.Background(), "hardcover-fiction", "2023-01-01", 2, 5)
	if err != nil {
		t.Fatalf("RankingsForDate() = %v", err)
	}
	if total != 12 {
		t.Errorf("total = %d, want 12", total)
	}
	if len(records) != 5 {
		t.Fatalf("len(records) = %d, want 5 on page 2", len(records))
	}
	if records[0].Rank != 6 {
		t.Errorf("page 2 first rank = %d, want 6", records[0].Rank)
	}
}

func TestRankingsForDateEmpty(t *testing.T) {
	db := setupTestDB(t)

	records, total, err := db.RankingsForDate(context.Background(), "hardcover-fiction", "2023-01-01", 1, 15)
	if err != nil {
		t.Fatalf("RankingsForDate() = %v, want nil error on empty data", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records = %v, want empty non-nil slice", records)
	}
}

func TestRankingsShaperDropsUnidentifiableRows(t *testing.T) {
	db := setupTestDB(t)
	// Ranking with no ISBN and no book join: neither ISBN nor title,
	// must be dropped rather than served.
	conn, _ := db.Connect(context.Background())
	_, err := conn.Exec(`
		INSERT INTO rankings (id, list_name_encoded, published_date, rank, rank_last_week, weeks_on_list, primary_isbn13)
		VALUES ('orphan', 'hardcover-fiction', '2023-01-01'::DATE, 1, 0, 0, NULL)`)
	if err != nil {
		t.Fatalf("failed to seed orphan ranking: %v", err)
	}
	// Ranking whose ISBN has no books row: ISBN present, title empty,
	// still valid output.
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 2, "9780000000099")

	records, total, err := db.RankingsForDate(context.Background(), "hardcover-fiction", "2023-01-01", 1, 15)
	if err != nil {
		t.Fatalf("RankingsForDate() = %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2 (count precedes shaping)", total)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1 (orphan dropped)", len(records))
	}
	if records[0].PrimaryISBN13 != "9780000000099" {
		t.Errorf("kept record ISBN = %q", records[0].PrimaryISBN13)
	}
	if records[0].Title != "" {
		t.Errorf("Title = %q, want empty (no book match, never fabricated)", records[0].Title)
	}
}

func TestHistoricalRowsInUnifiedView(t *testing.T) {
	db := setupTestDB(t)
	seedHistorical(t, db, 42, "1955-06-05", 3, "THE QUIET AMERICAN", "Graham Greene")

	records, total, err := db.RankingsForDate(context.Background(), "hardcover-fiction", "1955-06-05", 1, 15)
	if err != nil {
		t.Fatalf("RankingsForDate() = %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("total = %d, len = %d, want 1, 1", total, len(records))
	}

	rec := records[0]
	if rec.ID != "historical-42" {
		t.Errorf("ID = %q, want historical-42", rec.ID)
	}
	if rec.Source != models.SourceHistorical {
		t.Errorf("Source = %q, want %q", rec.Source, models.SourceHistorical)
	}
	if rec.RankLastWeek != 0 || rec.WeeksOnList != 0 {
		t.Errorf("historical counters = (%d, %d), want zeroed", rec.RankLastWeek, rec.WeeksOnList)
	}
	if rec.Title != "THE QUIET AMERICAN" {
		t.Errorf("Title = %q, want inline historical title", rec.Title)
	}
}

func TestHistoricalOverlapExcluded(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "9780000000001", "Modern Book", "Alice Author")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 1, "9780000000001")
	// Historical row for the same list and week must be suppressed.
	seedHistorical(t, db, 9, "2023-01-01", 1, "OLD DUPLICATE", "Bob Author")

	records, total, err := db.RankingsForDate(context.Background(), "hardcover-fiction", "2023-01-01", 1, 15)
	if err != nil {
		t.Fatalf("RankingsForDate() = %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("total = %d, len = %d, want 1, 1 (overlap excluded)", total, len(records))
	}
	if records[0].Source != models.SourceAPI {
		t.Errorf("surviving row source = %q, want api", records[0].Source)
	}
}

func TestMostWeeksOnList(t *testing.T) {
	db := setupTestDB(t)
	// "Long Runner" appears three weeks, "One Hit" once.
	seedBook(t, db, "9780000000001", "Long Runner", "Alice Author")
	seedBook(t, db, "9780000000002", "One Hit", "Bob Author")
	seedRanking(t, db, "hardcover-fiction", "2022-12-18", 2, "9780000000001")
	seedRanking(t, db, "hardcover-fiction", "2022-12-25", 1, "9780000000001")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 3, "9780000000001")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 1, "9780000000002")

	records, total, err := db.MostWeeksOnList(context.Background(), MostWeeksFilter{
		List: "hardcover-fiction", Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("MostWeeksOnList() = %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].Title != "Long Runner" || records[0].TotalWeeks != 3 {
		t.Errorf("top record = %+v, want Long Runner with 3 weeks", records[0])
	}
	if records[0].BestRank != 1 {
		t.Errorf("BestRank = %d, want 1", records[0].BestRank)
	}
	if records[0].FirstWeek != "2022-12-18" || records[0].LastWeek != "2023-01-01" {
		t.Errorf("week bounds = %s..%s", records[0].FirstWeek, records[0].LastWeek)
	}
}

func TestMostWeeksOnListYearRange(t *testing.T) {
	db := setupTestDB(t)
	seedHistorical(t, db, 1, "1955-06-05", 1, "FIFTIES BOOK", "Old Author")
	seedHistorical(t, db, 2, "1965-06-06", 1, "SIXTIES BOOK", "New Author")

	records, total, err := db.MostWeeksOnList(context.Background(), MostWeeksFilter{
		List: "hardcover-fiction", YearStart: 1950, YearEnd: 1959, Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("MostWeeksOnList() = %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("total = %d, len = %d, want 1, 1", total, len(records))
	}
	if records[0].Title != "FIFTIES BOOK" {
		t.Errorf("Title = %q, want FIFTIES BOOK", records[0].Title)
	}
}

func TestMostWeeksOnListExcludeSeries(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "9780000000001", "Series Entry", "Alice Author")
	seedBook(t, db, "9780000000002", "Standalone", "Bob Author")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 1, "9780000000001")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 2, "9780000000002")

	order := 2
	err := db.SaveSeriesInfo(context.Background(), models.SeriesInfo{
		Title: "Series Entry", Author: "Alice Author",
		SeriesName: "The Saga", SeriesOrder: &order,
	})
	if err != nil {
		t.Fatalf("SaveSeriesInfo() = %v", err)
	}

	records, total, err := db.MostWeeksOnList(context.Background(), MostWeeksFilter{
		List: "hardcover-fiction", ExcludeSeries: true, Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("MostWeeksOnList() = %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("total = %d, len = %d, want 1, 1", total, len(records))
	}
	if records[0].Title != "Standalone" {
		t.Errorf("Title = %q, want Standalone", records[0].Title)
	}

	// Without the filter, series metadata is attached.
	records, _, err = db.MostWeeksOnList(context.Background(), MostWeeksFilter{
		List: "hardcover-fiction", Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("MostWeeksOnList() = %v", err)
	}
	for _, rec := range records {
		if rec.Title == "Series Entry" {
			if rec.SeriesName == nil || *rec.SeriesName != "The Saga" {
				t.Errorf("SeriesName = %v, want The Saga", rec.SeriesName)
			}
			if rec.SeriesPosition == nil || *rec.SeriesPosition != 2 {
				t.Errorf("SeriesPosition = %v, want 2", rec.SeriesPosition)
			}
		}
	}
}
