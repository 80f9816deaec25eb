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

func TestListNewsPublicHidesDrafts(t *testing.T) {
	db, h, author := testSetup(t)
	createTestNews(t, db, author.ID, "공개 소식", "published-news", model.NewsStatusPublished)
	createTestNews(t, db, author.ID, "초안", "draft-news", model.NewsStatusDraft)

	rec := httptest.NewRecorder()
	h.ListNews(rec, newGetRequest(t, "/api/v1/news", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []NewsResponse `json:"data"`
		Meta *Meta          `json:"meta"`
	}
	decodeResponse(t, rec, &resp)

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "published-news", resp.Data[0].Slug)
	assert.EqualValues(t, 1, resp.Meta.Total)
}

func TestListNewsWithReadKeySeesDrafts(t *testing.T) {
	db, h, author := testSetup(t)
	createTestNews(t, db, author.ID, "공개 소식", "published-news", model.NewsStatusPublished)
	createTestNews(t, db, author.ID, "초안", "draft-news", model.NewsStatusDraft)

	rec := httptest.NewRecorder()
	req := withAPIKey(newGetRequest(t, "/api/v1/news", nil), author.ID, model.PermissionNewsRead)
	h.ListNews(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []NewsResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	assert.Len(t, resp.Data, 2)
}

func TestListNewsOrderParam(t *testing.T) {
	db, h, author := testSetup(t)
	createTestNews(t, db, author.ID, "나 소식", "b-news", model.NewsStatusPublished)
	createTestNews(t, db, author.ID, "가 소식", "a-news", model.NewsStatusPublished)

	rec := httptest.NewRecorder()
	h.ListNews(rec, newGetRequest(t, "/api/v1/news?order=title.asc", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []NewsResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "a-news", resp.Data[0].Slug)
	assert.Equal(t, "b-news", resp.Data[1].Slug)
}

func TestListNewsRejectsInvalidCategory(t *testing.T) {
	_, h, _ := testSetup(t)

	rec := httptest.NewRecorder()
	h.ListNews(rec, newGetRequest(t, "/api/v1/news?category=bogus", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNewsDraftHiddenWithoutKey(t *testing.T) {
	db, h, author := testSetup(t)
	draft := createTestNews(t, db, author.ID, "초안", "draft-news", model.NewsStatusDraft)

	rec := httptest.NewRecorder()
	h.GetNews(rec, newGetRequest(t, "/api/v1/news/1", map[string]string{"id": formatTestID(draft.ID)}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	req := withAPIKey(newGetRequest(t, "/api/v1/news/1", map[string]string{"id": formatTestID(draft.ID)}),
		author.ID, model.PermissionNewsRead)
	h.GetNews(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateNewsRequiresKey(t *testing.T) {
	_, h, _ := testSetup(t)

	rec := httptest.NewRecorder()
	h.CreateNews(rec, newJSONRequest(t, http.MethodPost, "/api/v1/news", `{"title":"제목"}`, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateNewsRequiresWritePermission(t *testing.T) {
	_, h, author := testSetup(t)

	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/news", `{"title":"제목"}`, nil),
		author.ID, model.PermissionNewsRead)
	h.CreateNews(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateNews(t *testing.T) {
	_, h, author := testSetup(t)

	body := `{"title":"새 소식","slug":"new-article","body":"<p>본문</p><script>alert(1)</script>","status":"published"}`
	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/news", body, nil),
		author.ID, model.PermissionNewsWrite)
	h.CreateNews(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data NewsResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	assert.Equal(t, "new-article", resp.Data.Slug)
	assert.Equal(t, model.NewsCategoryNews, resp.Data.Category)
	assert.Equal(t, author.ID, resp.Data.AuthorID)
	assert.NotContains(t, resp.Data.Body, "<script>")
	require.NotNil(t, resp.Data.PublishedAt)
}

func TestCreateNewsValidation(t *testing.T) {
	db, h, author := testSetup(t)
	createTestNews(t, db, author.ID, "기존 소식", "taken-slug", model.NewsStatusPublished)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing title", `{"slug":"ok-slug"}`, "title"},
		{"bad category", `{"title":"제목","category":"bogus"}`, "category"},
		{"bad status", `{"title":"제목","status":"bogus"}`, "status"},
		{"bad slug", `{"title":"제목","slug":"Bad Slug!"}`, "slug"},
		{"duplicate slug", `{"title":"제목","slug":"taken-slug"}`, "slug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/news", tt.body, nil),
				author.ID, model.PermissionNewsWrite)
			h.CreateNews(rec, req)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var resp ErrorResponse
			decodeResponse(t, rec, &resp)
			assert.Contains(t, resp.Error.Details, tt.field)
		})
	}
}

func TestUpdateNewsKeepsFirstPublishedAt(t *testing.T) {
	db, h, author := testSetup(t)
	news := createTestNews(t, db, author.ID, "소식", "some-news", model.NewsStatusDraft)
	params := map[string]string{"id": formatTestID(news.ID)}

	// First publish sets the timestamp.
	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodPut, "/api/v1/news/1",
		`{"title":"소식","slug":"some-news","status":"published"}`, params),
		author.ID, model.PermissionNewsWrite)
	h.UpdateNews(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var first struct {
		Data NewsResponse `json:"data"`
	}
	decodeResponse(t, rec, &first)
	require.NotNil(t, first.Data.PublishedAt)

	// A later edit keeps it.
	rec = httptest.NewRecorder()
	req = withAPIKey(newJSONRequest(t, http.MethodPut, "/api/v1/news/1",
		`{"title":"수정된 소식","slug":"some-news","status":"published"}`, params),
		author.ID, model.PermissionNewsWrite)
	h.UpdateNews(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var second struct {
		Data NewsResponse `json:"data"`
	}
	decodeResponse(t, rec, &second)
	require.NotNil(t, second.Data.PublishedAt)
	assert.Equal(t, first.Data.PublishedAt.Unix(), second.Data.PublishedAt.Unix())
	assert.Equal(t, "수정된 소식", second.Data.Title)
}

func TestDeleteNews(t *testing.T) {
	db, h, author := testSetup(t)
	news := createTestNews(t, db, author.ID, "소식", "doomed-news", model.NewsStatusPublished)
	params := map[string]string{"id": formatTestID(news.ID)}

	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodDelete, "/api/v1/news/1", "", params),
		author.ID, model.PermissionNewsWrite)
	h.DeleteNews(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	req = withAPIKey(newGetRequest(t, "/api/v1/news/1", params), author.ID, model.PermissionNewsRead)
	h.GetNews(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
