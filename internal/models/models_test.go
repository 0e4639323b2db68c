// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package models

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		total    int
		want     int // totalPages
	}{
		{"exact fit", 1, 15, 15, 1},
		{"one over", 1, 15, 16, 2},
		{"empty", 1, 15, 0, 0},
		{"one short of full", 2, 10, 19, 2},
		{"single row", 1, 20, 1, 1},
		{"zero page size", 1, 0, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.pageSize, tt.total)
			if p.TotalPages != tt.want {
				t.Errorf("NewPagination(%d, %d, %d).TotalPages = %d, want %d",
					tt.page, tt.pageSize, tt.total, p.TotalPages, tt.want)
			}
			if p.Total != tt.total {
				t.Errorf("Total = %d, want %d", p.Total, tt.total)
			}
		})
	}
}
