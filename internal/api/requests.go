// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package api

import (
	"net/http"
	"strconv"
)

// rankingsRequest carries the /api/rankings query parameters.
type rankingsRequest struct {
	List          string `validate:"required,listname"`
	Date          string `validate:"omitempty,pubdate"`
	Page          int    `validate:"min=1"`
	PageSize      int    `validate:"min=1"`
	YearStart     int    `validate:"omitempty,min=1900,max=2100"`
	YearEnd       int    `validate:"omitempty,min=1900,max=2100"`
	ExcludeSeries bool
}

// searchRequest carries the /api/search query parameters.
type searchRequest struct {
	Query    string `validate:"required,min=2,max=200"`
	Page     int    `validate:"min=1"`
	PageSize int    `validate:"min=1"`
}

// importRequest is the admin CSV import body.
type importRequest struct {
	Path string `json:"path" validate:"required"`
}

// enrichRequest is the admin series enrichment body. Limit 0 processes
// the whole backlog.
type enrichRequest struct {
	Limit int `json:"limit" validate:"min=0"`
}

// getIntParam reads an integer query parameter, falling back to def for
// missing or unparseable values.
func getIntParam(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// getBoolParam reads a boolean query parameter ("true"/"1" are true).
func getBoolParam(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "true", "1":
		return true
	}
	return false
}

// clampPageSize bounds a requested page size to the configured maximum.
func clampPageSize(pageSize, max int) int {
	if pageSize > max {
		return max
	}
	return pageSize
}
