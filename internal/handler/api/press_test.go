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

func TestCreatePress(t *testing.T) {
	_, h, author := testSetup(t)

	body := `{"title":"드림하우스 소개 기사","outlet":"한겨레","article_url":"https://example.com/article","published_on":"2026-02-10"}`
	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/press", body, nil),
		author.ID, model.PermissionPressWrite)
	h.CreatePress(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data PressResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	assert.Equal(t, "한겨레", resp.Data.Outlet)
	require.NotNil(t, resp.Data.PublishedOn)
	assert.Equal(t, "2026-02-10", resp.Data.PublishedOn.Format("2006-01-02"))
}

func TestCreatePressValidation(t *testing.T) {
	_, h, author := testSetup(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing title", `{"outlet":"연합뉴스","article_url":"https://example.com/a"}`, "title"},
		{"missing outlet", `{"title":"기사","article_url":"https://example.com/a"}`, "outlet"},
		{"bad url scheme", `{"title":"기사","outlet":"연합뉴스","article_url":"ftp://example.com/a"}`, "article_url"},
		{"missing url host", `{"title":"기사","outlet":"연합뉴스","article_url":"https://"}`, "article_url"},
		{"bad date", `{"title":"기사","outlet":"연합뉴스","article_url":"https://example.com/a","published_on":"02/10/2026"}`, "published_on"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/press", tt.body, nil),
				author.ID, model.PermissionPressWrite)
			h.CreatePress(rec, req)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var resp ErrorResponse
			decodeResponse(t, rec, &resp)
			assert.Contains(t, resp.Error.Details, tt.field)
		})
	}
}

func TestListPressIsPublic(t *testing.T) {
	_, h, author := testSetup(t)

	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/press",
		`{"title":"기사","outlet":"연합뉴스","article_url":"https://example.com/a"}`, nil),
		author.ID, model.PermissionPressWrite)
	h.CreatePress(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.ListPress(rec, newGetRequest(t, "/api/v1/press", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []PressResponse `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	decodeResponse(t, rec, &resp)
	require.Len(t, resp.Data, 1)
	assert.EqualValues(t, 1, resp.Meta.Total)
}

func TestDeletePressRequiresWrite(t *testing.T) {
	_, h, author := testSetup(t)

	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodDelete, "/api/v1/press/1", "",
		map[string]string{"id": "1"}), author.ID, model.PermissionPressRead)
	h.DeletePress(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
