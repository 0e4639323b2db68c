// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package query

import "strings"

// EscapeLiteral escapes a string for embedding in a single-quoted SQL
// literal by doubling single quotes.
//
// Values should be bound as parameters wherever possible; this exists
// only for the read_csv() call, whose file-path argument DuckDB does not
// accept as a placeholder.
func EscapeLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
