// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/virginiais4lovers/bestskrellerz/internal/models"
)

func TestSearch(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "9780000000001", "The Martian", "Andy Weir")
	seedBook(t, db, "9780000000002", "Martian Chronicles", "Ray Bradbury")
	seedBook(t, db, "9780000000003", "Unrelated", "Someone Else")
	seedRanking(t, db, "hardcover-fiction", "2022-12-25", 1, "9780000000001")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 2, "9780000000001")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 5, "9780000000002")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 9, "9780000000003")

	results, total, err := db.Search(context.Background(), "martian", 1, 10)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	// Ordered by appearances descending.
	if results[0].Title != "The Martian" {
		t.Errorf("results[0].Title = %q, want The Martian", results[0].Title)
	}
	if results[0].Appearances != 2 {
		t.Errorf("Appearances = %d, want 2", results[0].Appearances)
	}
	if results[0].BestRank != 1 {
		t.Errorf("BestRank = %d, want 1", results[0].BestRank)
	}
	if results[0].LatestWeek != "2023-01-01" {
		t.Errorf("LatestWeek = %q, want 2023-01-01", results[0].LatestWeek)
	}
}

func TestSearchMatchesAuthor(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "9780000000001", "Some Title", "Ursula K. Le Guin")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 1, "9780000000001")

	results, total, err := db.Search(context.Background(), "le guin", 1, 10)
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if total != 1 || len(results) != 1 {
		t.Fatalf("total = %d, len = %d, want 1, 1", total, len(results))
	}
	if results[0].Author != "Ursula K. Le Guin" {
		t.Errorf("Author = %q", results[0].Author)
	}
}

func TestSearchNoMatches(t *testing.T) {
	db := setupTestDB(t)

	results, total, err := db.Search(context.Background(), "nothing here", 1, 10)
	if err != nil {
		t.Fatalf("Search() = %v, want nil error on no matches", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("results = %v, want empty non-nil slice", results)
	}
}

func TestRandomRankingEmpty(t *testing.T) {
	db := setupTestDB(t)

	rec, apps, err := db.RandomRanking(context.Background())
	if err != nil {
		t.Fatalf("RandomRanking() = %v", err)
	}
	if rec != nil {
		t.Errorf("record = %+v, want nil on empty database", rec)
	}
	if apps != nil {
		t.Errorf("appearances = %v, want nil", apps)
	}
}

func TestRandomRanking(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "9780000000001", "The Only Book", "Alice Author")
	seedRanking(t, db, "hardcover-fiction", "2022-12-25", 2, "9780000000001")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 1, "9780000000001")
	// Historical rows are excluded from the random pool.
	seedHistorical(t, db, 1, "1955-06-05", 1, "OLD BOOK", "Old Author")

	for i := 0; i < 5; i++ {
		rec, apps, err := db.RandomRanking(context.Background())
		if err != nil {
			t.Fatalf("RandomRanking() = %v", err)
		}
		if rec == nil {
			t.Fatal("record = nil, want a row")
		}
		if rec.Title != "The Only Book" {
			t.Errorf("Title = %q, want The Only Book (historical excluded)", rec.Title)
		}
		if rec.Source != models.SourceAPI {
			t.Errorf("Source = %q, want api", rec.Source)
		}
		if len(apps) != 2 {
			t.Fatalf("len(appearances) = %d, want 2", len(apps))
		}
		if apps[0].PublishedDate != "2023-01-01" {
			t.Errorf("appearances[0] = %+v, want most recent week first", apps[0])
		}
	}
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	seedList(t, db, "hardcover-fiction", "Hardcover Fiction", "2023-01-01", "2023-01-01")
	seedBook(t, db, "9780000000001", "The First Book", "Alice Author")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 1, "9780000000001")
	seedHistorical(t, db, 1, "1955-06-05", 1, "OLD BOOK", "Old Author")

	stats, err := db.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() = %v", err)
	}
	if stats.Lists != 1 {
		t.Errorf("Lists = %d, want 1", stats.Lists)
	}
	if stats.Books != 1 {
		t.Errorf("Books = %d, want 1", stats.Books)
	}
	if stats.Rankings != 1 {
		t.Errorf("Rankings = %d, want 1", stats.Rankings)
	}
	if stats.HistoricalRankings != 1 {
		t.Errorf("HistoricalRankings = %d, want 1", stats.HistoricalRankings)
	}
	if stats.OldestDate == nil || *stats.OldestDate != "1955-06-05" {
		t.Errorf("OldestDate = %v, want 1955-06-05", stats.OldestDate)
	}
	if stats.NewestDate == nil || *stats.NewestDate != "2023-01-01" {
		t.Errorf("NewestDate = %v, want 2023-01-01", stats.NewestDate)
	}
}

func TestStatsEmpty(t *testing.T) {
	db := setupTestDB(t)

	stats, err := db.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() = %v", err)
	}
	if stats.Rankings != 0 || stats.HistoricalRankings != 0 {
		t.Errorf("counts = %+v, want zeroes", stats)
	}
	if stats.OldestDate != nil || stats.NewestDate != nil {
		t.Errorf("date bounds = (%v, %v), want nils", stats.OldestDate, stats.NewestDate)
	}
}

const testCSVHeader = "title_id,week,year,rank,title,author," +
	"author_authorized_heading,author_lccn,author_viaf,author_wikidata," +
	"oclc_isbn,oclc_owi,oclc_holdings,oclc_eholdings\n"

func testCSVRow(titleID int, week string, rank int, title, author string) string {
	return fmt.Sprintf("%d,%s,%s,%d,%s,%s,%s,,,,,,0,0\n",
		titleID, week, week[:4], rank, title, author, author)
}

func writeTestCSV(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bestsellers.csv")
	if err := os.WriteFile(path, []byte(testCSVHeader+rows), 0o644); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}
	return path
}

func TestImportHistoricalCSV(t *testing.T) {
	db := setupTestDB(t)
	path := writeTestCSV(t,
		testCSVRow(101, "1955-06-05", 1, "GIFT FROM THE SEA", "Anne Morrow Lindbergh")+
			testCSVRow(102, "1955-06-05", 2, "THE QUIET AMERICAN", "Graham Greene"))

	result, err := db.ImportHistoricalCSV(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportHistoricalCSV() = %v", err)
	}
	if result.RecordsBefore != 0 || result.RecordsAfter != 2 || result.NewRecords != 2 {
		t.Errorf("result = %+v, want 0 before, 2 after", result)
	}
	if result.OldestDate == nil || *result.OldestDate != "1955-06-05" {
		t.Errorf("OldestDate = %v", result.OldestDate)
	}

	// Re-import is idempotent.
	result, err = db.ImportHistoricalCSV(context.Background(), path)
	if err != nil {
		t.Fatalf("re-import = %v", err)
	}
	if result.NewRecords != 0 {
		t.Errorf("NewRecords on re-import = %d, want 0", result.NewRecords)
	}
	if result.RecordsAfter != 2 {
		t.Errorf("RecordsAfter = %d, want 2", result.RecordsAfter)
	}
}

func TestImportHistoricalCSVQuotedPath(t *testing.T) {
	db := setupTestDB(t)
	dir := filepath.Join(t.TempDir(), "o'brien")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, "data.csv")
	row := testCSVRow(101, "1955-06-05", 1, "GIFT FROM THE SEA", "Anne Morrow Lindbergh")
	if err := os.WriteFile(path, []byte(testCSVHeader+row), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	result, err := db.ImportHistoricalCSV(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportHistoricalCSV() with quoted path = %v", err)
	}
	if result.NewRecords != 1 {
		t.Errorf("NewRecords = %d, want 1", result.NewRecords)
	}
}

func TestImportHistoricalCSVMissingFile(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.ImportHistoricalCSV(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Error("expected error for missing CSV file")
	}
}

func TestBooksWithoutSeries(t *testing.T) {
	db := setupTestDB(t)
	seedBook(t, db, "9780000000001", "Resolved Book", "Alice Author")
	seedBook(t, db, "9780000000002", "Pending Book", "Bob Author")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 1, "9780000000001")
	seedRanking(t, db, "hardcover-fiction", "2023-01-01", 2, "9780000000002")

	if err := db.SaveSeriesInfo(context.Background(), models.SeriesInfo{
		Title: "Resolved Book", Author: "Alice Author", SeriesName: "A Saga",
	}); err != nil {
		t.Fatalf("SaveSeriesInfo() = %v", err)
	}

	pairs, err := db.BooksWithoutSeries(context.Background(), 0)
	if err != nil {
		t.Fatalf("BooksWithoutSeries() = %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	if pairs[0].Title != "Pending Book" || pairs[0].Author != "Bob Author" {
		t.Errorf("pairs[0] = %+v", pairs[0])
	}

	n, err := db.SeriesCount(context.Background())
	if err != nil {
		t.Fatalf("SeriesCount() = %v", err)
	}
	if n != 1 {
		t.Errorf("SeriesCount = %d, want 1", n)
	}
}
