// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

func TestStatus(t *testing.T) {
	_, h, _ := testSetup(t)

	rec := httptest.NewRecorder()
	h.Status(rec, newGetRequest(t, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Data StatusResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	assert.Equal(t, "ok", resp.Data.Status)
	assert.Equal(t, "v1", resp.Data.Version)
}

func TestAuthInfo(t *testing.T) {
	_, h, author := testSetup(t)

	rec := httptest.NewRecorder()
	h.AuthInfo(rec, newGetRequest(t, "/api/v1/auth", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := withAPIKey(newGetRequest(t, "/api/v1/auth", nil),
		author.ID, model.PermissionNewsRead, model.PermissionNewsWrite)
	h.AuthInfo(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			KeyPrefix   string   `json:"key_prefix"`
			Name        string   `json:"name"`
			Permissions []string `json:"permissions"`
		} `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	assert.Equal(t, "testpref", resp.Data.KeyPrefix)
	assert.ElementsMatch(t,
		[]string{model.PermissionNewsRead, model.PermissionNewsWrite},
		resp.Data.Permissions)
}

func TestListQuery(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPage    int
		wantPerPage int
		wantOrderBy string
		wantDesc    bool
	}{
		{"defaults", "/api/v1/news", 1, 20, "created_at", true},
		{"explicit paging", "/api/v1/news?page=3&per_page=5", 3, 5, "created_at", true},
		{"per_page capped", "/api/v1/news?per_page=500", 1, 100, "created_at", true},
		{"negative page ignored", "/api/v1/news?page=-2", 1, 20, "created_at", true},
		{"order asc", "/api/v1/news?order=title.asc", 1, 20, "title", false},
		{"order desc", "/api/v1/news?order=title.desc", 1, 20, "title", true},
		{"order without direction", "/api/v1/news?order=title", 1, 20, "title", true},
		{"order direction case", "/api/v1/news?order=title.ASC", 1, 20, "title", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			page, perPage, orderBy, desc := listQuery(r)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPerPage, perPage)
			assert.Equal(t, tt.wantOrderBy, orderBy)
			assert.Equal(t, tt.wantDesc, desc)
		})
	}
}

func TestListMeta(t *testing.T) {
	tests := []struct {
		total     int64
		perPage   int
		wantPages int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 7, 15},
	}
	for _, tt := range tests {
		meta := listMeta(tt.total, 1, tt.perPage)
		assert.Equal(t, tt.wantPages, meta.Pages, "total=%d perPage=%d", tt.total, tt.perPage)
	}
}

func TestRequireEntityByIDBadID(t *testing.T) {
	_, h, author := testSetup(t)

	rec := httptest.NewRecorder()
	req := withAPIKey(newGetRequest(t, "/api/v1/news/abc", map[string]string{"id": "abc"}),
		author.ID, model.PermissionNewsRead)
	h.GetNews(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
