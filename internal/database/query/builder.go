// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

// Package query provides SQL query building utilities for the database
// package. All values go through placeholders; the builder only
// assembles clause text.
package query

import (
	"fmt"
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddList("hardcover-fiction")
//	wb.AddYearRange(1950, 1960)
//	whereClause, args := wb.Build()
//	// list_name = ? AND week >= ? AND week <= ?
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddList filters on the encoded list name. Empty list names are skipped.
func (wb *WhereBuilder) AddList(list string) *WhereBuilder {
	if list != "" {
		wb.clauses = append(wb.clauses, "list_name = ?")
		wb.args = append(wb.args, list)
	}
	return wb
}

// AddWeek filters on an exact publication week (YYYY-MM-DD).
func (wb *WhereBuilder) AddWeek(week string) *WhereBuilder {
	if week != "" {
		wb.clauses = append(wb.clauses, "week = ?")
		wb.args = append(wb.args, week)
	}
	return wb
}

// AddYearRange filters by publication year. A zero bound is skipped,
// allowing open-ended ranges.
func (wb *WhereBuilder) AddYearRange(yearStart, yearEnd int) *WhereBuilder {
	if yearStart > 0 {
		wb.clauses = append(wb.clauses, "EXTRACT(year FROM week) >= ?")
		wb.args = append(wb.args, yearStart)
	}
	if yearEnd > 0 {
		wb.clauses = append(wb.clauses, "EXTRACT(year FROM week) <= ?")
		wb.args = append(wb.args, yearEnd)
	}
	return wb
}

// AddSearch adds a case-insensitive free-text filter across title and
// author. The term is wrapped in % wildcards and bound as a parameter.
func (wb *WhereBuilder) AddSearch(term string) *WhereBuilder {
	if term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		wb.clauses = append(wb.clauses, "(LOWER(title) LIKE ? OR LOWER(author) LIKE ?)")
		wb.args = append(wb.args, pattern, pattern)
	}
	return wb
}

// AddSources filters on ranking sources using an IN clause.
func (wb *WhereBuilder) AddSources(sources []string) *WhereBuilder {
	if len(sources) > 0 {
		placeholders := make([]string, len(sources))
		for i, source := range sources {
			placeholders[i] = "?"
			wb.args = append(wb.args, source)
		}
		wb.clauses = append(wb.clauses, fmt.Sprintf("source IN (%s)", strings.Join(placeholders, ", ")))
	}
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with a "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
