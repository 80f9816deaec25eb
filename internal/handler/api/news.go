// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/util"
)

// sanitizer cleans rich-text bodies submitted through the API.
var sanitizer = bluemonday.UGCPolicy()

// NewsResponse represents an article in API responses.
type NewsResponse struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Body          string     `json:"body"`
	Category      string     `json:"category"`
	Status        string     `json:"status"`
	AuthorID      int64      `json:"author_id"`
	ThumbnailPath string     `json:"thumbnail_path,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func newsToResponse(n model.News) NewsResponse {
	resp := NewsResponse{
		ID:            n.ID,
		Title:         n.Title,
		Slug:          n.Slug,
		Body:          n.Body,
		Category:      n.Category,
		Status:        n.Status,
		AuthorID:      n.AuthorID,
		ThumbnailPath: n.ThumbnailPath,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
	if n.PublishedAt.Valid {
		resp.PublishedAt = &n.PublishedAt.Time
	}
	if n.ScheduledAt.Valid {
		resp.ScheduledAt = &n.ScheduledAt.Time
	}
	return resp
}

// ListNews returns articles. Without a news:read key only published
// articles are visible.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	page, perPage, orderBy, desc := listQuery(r)

	status := r.URL.Query().Get("status")
	if !hasPermission(r, model.PermissionNewsRead) {
		status = model.NewsStatusPublished
	}
	category := r.URL.Query().Get("category")
	if category != "" && !model.IsValidNewsCategory(category) {
		WriteBadRequest(w, "Invalid category", nil)
		return
	}

	items, err := h.queries.ListNewsForAPI(r.Context(), store.APIListParams{
		Status:   status,
		Category: category,
		OrderBy:  orderBy,
		Desc:     desc,
		Limit:    int64(perPage),
		Offset:   int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list news")
		return
	}
	total, err := h.queries.CountNewsForAPI(r.Context(), status, category)
	if err != nil {
		WriteInternalError(w, "Failed to count news")
		return
	}

	responses := make([]NewsResponse, 0, len(items))
	for _, n := range items {
		responses = append(responses, newsToResponse(n))
	}
	WriteSuccess(w, responses, listMeta(total, page, perPage))
}

// GetNews returns one article. Unpublished articles require news:read.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	news, ok := requireEntityByID(w, r, "news", func(id int64) (model.News, error) {
		return h.queries.GetNewsByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !news.IsPublished() && !hasPermission(r, model.PermissionNewsRead) {
		WriteNotFound(w, "News not found")
		return
	}
	WriteSuccess(w, newsToResponse(news), nil)
}

// NewsRequest is the request body for creating or updating an article.
type NewsRequest struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Body     string `json:"body"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

func (h *Handler) validateNewsRequest(r *http.Request, req *NewsRequest, currentSlug string) map[string]string {
	fieldErrors := make(map[string]string)

	if req.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if req.Category == "" {
		req.Category = model.NewsCategoryNews
	} else if !model.IsValidNewsCategory(req.Category) {
		fieldErrors["category"] = "Invalid category"
	}
	if req.Status == "" {
		req.Status = model.NewsStatusDraft
	} else if !model.IsValidNewsStatus(req.Status) {
		fieldErrors["status"] = "Invalid status"
	}

	if req.Slug == "" {
		req.Slug = util.UniqueSlug(req.Title, func(s string) bool {
			_, err := h.queries.GetNewsBySlug(r.Context(), s)
			return err == nil
		})
	} else if !util.IsValidSlug(req.Slug) {
		fieldErrors["slug"] = "Invalid slug"
	} else if req.Slug != currentSlug {
		if _, err := h.queries.GetNewsBySlug(r.Context(), req.Slug); err == nil {
			fieldErrors["slug"] = "Slug already exists"
		}
	}

	req.Body = sanitizer.Sanitize(req.Body)

	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

// CreateNews creates an article. Requires news:write.
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionNewsWrite) {
		return
	}

	var req NewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := h.validateNewsRequest(r, &req, ""); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	var publishedAt sql.NullTime
	if req.Status == model.NewsStatusPublished {
		publishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}

	authorID := int64(0)
	if key := middleware.GetAPIKey(r); key != nil {
		authorID = key.CreatedBy
	}

	news, err := h.queries.CreateNews(r.Context(), store.CreateNewsParams{
		Title:       req.Title,
		Slug:        req.Slug,
		Body:        req.Body,
		Category:    req.Category,
		Status:      req.Status,
		AuthorID:    authorID,
		PublishedAt: publishedAt,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create news")
		return
	}
	WriteCreated(w, newsToResponse(news))
}

// UpdateNews updates an article. Requires news:write.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionNewsWrite) {
		return
	}

	current, ok := requireEntityByID(w, r, "news", func(id int64) (model.News, error) {
		return h.queries.GetNewsByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req NewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if fieldErrors := h.validateNewsRequest(r, &req, current.Slug); fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	publishedAt := current.PublishedAt
	if req.Status == model.NewsStatusPublished && !publishedAt.Valid {
		publishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}

	news, err := h.queries.UpdateNews(r.Context(), store.UpdateNewsParams{
		ID:            current.ID,
		Title:         req.Title,
		Slug:          req.Slug,
		Body:          req.Body,
		Category:      req.Category,
		Status:        req.Status,
		ThumbnailPath: current.ThumbnailPath,
		PublishedAt:   publishedAt,
		ScheduledAt:   current.ScheduledAt,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update news")
		return
	}
	WriteSuccess(w, newsToResponse(news), nil)
}

// DeleteNews removes an article. Requires news:write.
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionNewsWrite) {
		return
	}

	news, ok := requireEntityByID(w, r, "news", func(id int64) (model.News, error) {
		return h.queries.GetNewsByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteNews(r.Context(), news.ID); err != nil {
		WriteInternalError(w, "Failed to delete news")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
