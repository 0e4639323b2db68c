// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package query

import "testing"

func TestWhereBuilderEmpty(t *testing.T) {
	wb := NewWhereBuilder()

	where, args := wb.Build()
	if where != "1=1" {
		t.Errorf("empty Build() = %q, want 1=1", where)
	}
	if len(args) != 0 {
		t.Errorf("empty Build() returned %d args, want 0", len(args))
	}
	if !wb.IsEmpty() {
		t.Error("IsEmpty() = false for empty builder")
	}
}

func TestWhereBuilderList(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddList("hardcover-fiction")

	where, args := wb.Build()
	if where != "list_name = ?" {
		t.Errorf("Build() = %q", where)
	}
	if len(args) != 1 || args[0] != "hardcover-fiction" {
		t.Errorf("args = %v", args)
	}
}

func TestWhereBuilderSkipsEmptyValues(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddList("")
	wb.AddWeek("")
	wb.AddSearch("")
	wb.AddYearRange(0, 0)

	if !wb.IsEmpty() {
		t.Error("empty values should not add clauses")
	}
}

func TestWhereBuilderCombined(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddList("hardcover-fiction")
	wb.AddWeek("2023-01-01")

	where, args := wb.Build()
	want := "list_name = ? AND week = ?"
	if where != want {
		t.Errorf("Build() = %q, want %q", where, want)
	}
	if len(args) != 2 {
		t.Errorf("len(args) = %d, want 2", len(args))
	}
	if wb.Count() != 2 {
		t.Errorf("Count() = %d, want 2", wb.Count())
	}
}

func TestWhereBuilderYearRange(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddYearRange(1950, 1960)

	where, args := wb.Build()
	want := "EXTRACT(year FROM week) >= ? AND EXTRACT(year FROM week) <= ?"
	if where != want {
		t.Errorf("Build() = %q, want %q", where, want)
	}
	if len(args) != 2 || args[0] != 1950 || args[1] != 1960 {
		t.Errorf("args = %v", args)
	}
}

func TestWhereBuilderOpenEndedYearRange(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddYearRange(1950, 0)

	where, args := wb.Build()
	if where != "EXTRACT(year FROM week) >= ?" {
		t.Errorf("Build() = %q", where)
	}
	if len(args) != 1 {
		t.Errorf("len(args) = %d, want 1", len(args))
	}
}

func TestWhereBuilderSearch(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddSearch("King")

	where, args := wb.Build()
	if where != "(LOWER(title) LIKE ? OR LOWER(author) LIKE ?)" {
		t.Errorf("Build() = %q", where)
	}
	if len(args) != 2 || args[0] != "%king%" {
		t.Errorf("args = %v, want lowercase wildcard pattern", args)
	}
}

func TestWhereBuilderSources(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddSources([]string{"api", "historical"})

	where, args := wb.Build()
	if where != "source IN (?, ?)" {
		t.Errorf("Build() = %q", where)
	}
	if len(args) != 2 {
		t.Errorf("len(args) = %d, want 2", len(args))
	}
}

func TestWhereBuilderPrefix(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddList("mass-market-paperback")

	where, _ := wb.BuildWithPrefix()
	if where != "WHERE list_name = ?" {
		t.Errorf("BuildWithPrefix() = %q", where)
	}
}

func TestEscapeLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain.csv", "plain.csv"},
		{"o'brien.csv", "o''brien.csv"},
		{"'; DROP TABLE historical_rankings;--", "''; DROP TABLE historical_rankings;--"},
		{"", ""},
		{"''", "''''"},
	}

	for _, tt := range tests {
		if got := EscapeLiteral(tt.input); got != tt.want {
			t.Errorf("EscapeLiteral(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
