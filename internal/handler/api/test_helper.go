// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/testutil"
)

// testSetup creates a migrated test database, an API handler and an
// author account for content fixtures.
func testSetup(t *testing.T) (*sql.DB, *Handler, model.User) {
	t.Helper()
	db := testutil.TestDB(t)
	author := testutil.CreateUser(t, db, "author@dreamhouse.coop", model.RoleAdmin)
	return db, NewHandler(db), author
}

// withAPIKey attaches an API key with the given permissions to the
// request context, the way the auth middleware does.
func withAPIKey(r *http.Request, createdBy int64, perms ...string) *http.Request {
	key := model.APIKey{
		ID:          1,
		Name:        "test key",
		KeyPrefix:   "testpref",
		Permissions: model.PermissionsToJSON(perms),
		IsActive:    true,
		CreatedBy:   createdBy,
	}
	ctx := context.WithValue(r.Context(), middleware.ContextKeyAPIKey, key)
	return r.WithContext(ctx)
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates an HTTP request with a JSON body and optional URL params.
func newJSONRequest(t *testing.T, method, path, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newGetRequest creates an HTTP GET request with optional URL params.
func newGetRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// formatTestID renders an ID for use as a chi URL parameter.
func formatTestID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// decodeResponse unmarshals a recorded JSON response body into v.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

// createTestNews inserts an article fixture.
func createTestNews(t *testing.T, db *sql.DB, authorID int64, title, slug, status string) model.News {
	t.Helper()
	var publishedAt sql.NullTime
	news, err := store.New(db).CreateNews(context.Background(), store.CreateNewsParams{
		Title:       title,
		Slug:        slug,
		Body:        "<p>body</p>",
		Category:    model.NewsCategoryNews,
		Status:      status,
		AuthorID:    authorID,
		PublishedAt: publishedAt,
	})
	if err != nil {
		t.Fatalf("CreateNews: %v", err)
	}
	return news
}

// createTestFootstep inserts a journal post fixture.
func createTestFootstep(t *testing.T, db *sql.DB, authorID int64, title, slug, status string) model.Footstep {
	t.Helper()
	f, err := store.New(db).CreateFootstep(context.Background(), store.CreateFootstepParams{
		Title:        title,
		Slug:         slug,
		BodyMarkdown: "hello **world**",
		BodyHTML:     "<p>hello <strong>world</strong></p>",
		Status:       status,
		AuthorID:     authorID,
	})
	if err != nil {
		t.Fatalf("CreateFootstep: %v", err)
	}
	return f
}

// createTestCrewApplication inserts a crew application fixture.
func createTestCrewApplication(t *testing.T, db *sql.DB, name, email string) model.CrewApplication {
	t.Helper()
	app, err := store.New(db).CreateCrewApplication(context.Background(), store.CreateCrewApplicationParams{
		Name:         name,
		Email:        email,
		Motivation:   "같이 일하고 싶습니다",
		Availability: "주말",
	})
	if err != nil {
		t.Fatalf("CreateCrewApplication: %v", err)
	}
	return app
}
