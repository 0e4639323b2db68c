// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package validation

import (
	"strings"
	"testing"
)

type rankingsRequest struct {
	List     string `validate:"required,listname"`
	Date     string `validate:"omitempty,pubdate"`
	Page     int    `validate:"min=1"`
	PageSize int    `validate:"min=1,max=100"`
}

func TestIsValidListName(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"hardcover-fiction", true},
		{"trade-fiction-paperback", true},
		{"a", true},
		{"list2024", true},
		{"", false},
		{"Hardcover-Fiction", false},
		{"hardcover fiction", false},
		{"hardcover_fiction", false},
		{"list'; DROP TABLE lists;--", false},
		{strings.Repeat("a", 64), true},
		{strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		if got := IsValidListName(tt.input); got != tt.want {
			t.Errorf("IsValidListName(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2023-01-01", true},
		{"1931-10-12", true},
		{"2024-02-29", true},
		{"2023-02-30", false},
		{"2023-02-29", false},
		{"2023-13-01", false},
		{"2023-00-10", false},
		{"2023-1-1", false},
		{"01-01-2023", false},
		{"2023-01-01T00:00:00Z", false},
		{"latest", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidDate(tt.input); got != tt.want {
			t.Errorf("IsValidDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidateStructValid(t *testing.T) {
	req := rankingsRequest{List: "hardcover-fiction", Date: "2023-01-01", Page: 1, PageSize: 15}
	if verr := ValidateStruct(&req); verr != nil {
		t.Errorf("unexpected validation error: %v", verr)
	}
}

func TestValidateStructDateSentinels(t *testing.T) {
	for _, date := range []string{"latest", "all", ""} {
		req := rankingsRequest{List: "hardcover-fiction", Date: date, Page: 1, PageSize: 15}
		if verr := ValidateStruct(&req); verr != nil {
			t.Errorf("date %q should be accepted, got: %v", date, verr)
		}
	}
}

func TestValidateStructCalendarInvalidDate(t *testing.T) {
	req := rankingsRequest{List: "hardcover-fiction", Date: "2023-02-30", Page: 1, PageSize: 15}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation error for date that does not exist")
	}
	if got := verr.Errors()[0].Tag(); got != "pubdate" {
		t.Errorf("Tag = %q, want pubdate", got)
	}
}

func TestValidateStructInvalidList(t *testing.T) {
	req := rankingsRequest{List: "Bad List!", Page: 1, PageSize: 15}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation error for malformed list name")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q, want VALIDATION_ERROR", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "List") {
		t.Errorf("message %q should name the field", apiErr.Message)
	}
}

func TestValidateStructMultipleErrors(t *testing.T) {
	req := rankingsRequest{List: "", Date: "not-a-date", Page: 0, PageSize: 500}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("expected validation errors")
	}
	if len(verr.Errors()) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(verr.Errors()), verr)
	}

	apiErr := verr.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Error("multi-error APIError should list fields in details")
	}
}
