// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strconv"
)

// Pagination holds page navigation data for list templates.
type Pagination struct {
	Page        int
	TotalPages  int
	TotalItems  int64
	PerPage     int
	BasePath    string
	QuerySuffix string
}

// buildPagination computes page counts and preserves filter query
// parameters (everything except "page") in QuerySuffix.
func buildPagination(page int, totalItems int64, perPage int, basePath string, query url.Values) Pagination {
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}

	suffix := ""
	if query != nil {
		params := make(url.Values)
		for k, v := range query {
			if k != "page" && len(v) > 0 && v[0] != "" {
				params[k] = v
			}
		}
		if len(params) > 0 {
			suffix = "&" + params.Encode()
		}
	}

	return Pagination{
		Page:        page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		BasePath:    basePath,
		QuerySuffix: suffix,
	}
}

// pageParam extracts a 1-based page number from the request query.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// pageOffset converts a page number to a query offset.
func pageOffset(page, perPage int) int64 {
	return int64(page-1) * int64(perPage)
}
