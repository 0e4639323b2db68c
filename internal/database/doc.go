// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

/*
Package database provides DuckDB/MotherDuck data access for Bestskrellerz.

The DB type wraps a lazily-opened *sql.DB. The first caller to need the
connection opens it; concurrent callers share the same dial through a
singleflight group, so exactly one connection handle ever exists per
process. A missing MotherDuck token surfaces as ErrConfiguration and is
never cached, so fixing the environment and retrying works without a
restart.

Data model:

  - lists: bestseller list metadata with observed date bounds
  - books: book metadata keyed by ISBN-13
  - rankings: live weekly rankings referencing books by ISBN
  - historical_rankings: legacy CSV-imported rankings keyed by title_id
  - book_series: Wikidata series membership keyed by (title, author)
  - all_rankings: view unioning live and historical rankings, left-joined
    to books, with historical rows excluded where they overlap live data

Query methods accept a context, run parameterized statements, and record
Prometheus metrics per operation. Identifier-like values that cannot be
parameterized (the CSV path passed to read_csv) go through
query.EscapeLiteral.
*/
package database
