// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name       string
		totalItems int64
		perPage    int
		wantPages  int
	}{
		{"empty list still has one page", 0, 20, 1},
		{"exact fit", 40, 20, 2},
		{"partial last page", 41, 20, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := buildPagination(1, tt.totalItems, tt.perPage, "/news", nil)
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.TotalItems != tt.totalItems {
				t.Errorf("TotalItems = %d, want %d", p.TotalItems, tt.totalItems)
			}
		})
	}
}

func TestBuildPaginationPreservesFilters(t *testing.T) {
	query := url.Values{
		"page":     {"3"},
		"category": {"notice"},
		"q":        {""},
	}
	p := buildPagination(3, 100, 20, "/news", query)
	if p.QuerySuffix != "&category=notice" {
		t.Errorf("QuerySuffix = %q, want %q", p.QuerySuffix, "&category=notice")
	}

	p = buildPagination(1, 100, 20, "/news", url.Values{"page": {"1"}})
	if p.QuerySuffix != "" {
		t.Errorf("QuerySuffix = %q, want empty", p.QuerySuffix)
	}
}

func TestPageParam(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"0", 1},
		{"-1", 1},
		{"abc", 1},
		{"7", 7},
	}
	for _, tt := range tests {
		target := "/news"
		if tt.raw != "" {
			target += "?page=" + tt.raw
		}
		r := httptest.NewRequest(http.MethodGet, target, nil)
		if got := pageParam(r); got != tt.want {
			t.Errorf("pageParam(page=%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestPageOffset(t *testing.T) {
	if got := pageOffset(1, 20); got != 0 {
		t.Errorf("pageOffset(1, 20) = %d, want 0", got)
	}
	if got := pageOffset(4, 15); got != 45 {
		t.Errorf("pageOffset(4, 15) = %d, want 45", got)
	}
}
