// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

/*
Package models defines data structures for the Bestskrellerz application.

This package contains all data models used throughout the application:
database row types, the canonical ranking record served by the API, and
API request/response structures. It serves as the single source of truth
for data structure definitions.

Key Components:

  - List: a bestseller list with its observed publication date bounds
  - RankingRecord: the canonical record shape returned by the API for
    both live and historical rankings
  - AggregatedRecord and SearchResult: grouped (title, author) views
  - Stats: database-wide counts and date bounds

Two ranking schemas exist in the database. Live rankings reference a book
by ISBN-13 and carry week-over-week counters; historical rankings use a
synthetic title_id and carry title and author inline. Both are folded
into RankingRecord before leaving the data-access layer (see
internal/database).
*/
package models
