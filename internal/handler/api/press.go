// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// PressResponse represents a media coverage entry in API responses.
type PressResponse struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Outlet        string     `json:"outlet"`
	ArticleURL    string     `json:"article_url"`
	Excerpt       string     `json:"excerpt,omitempty"`
	ThumbnailPath string     `json:"thumbnail_path,omitempty"`
	PublishedOn   *time.Time `json:"published_on,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func pressToResponse(p model.Press) PressResponse {
	resp := PressResponse{
		ID:            p.ID,
		Title:         p.Title,
		Outlet:        p.Outlet,
		ArticleURL:    p.ArticleURL,
		Excerpt:       p.Excerpt,
		ThumbnailPath: p.ThumbnailPath,
		CreatedAt:     p.CreatedAt,
	}
	if p.PublishedOn.Valid {
		resp.PublishedOn = &p.PublishedOn.Time
	}
	return resp
}

// ListPress returns coverage entries. Public.
func (h *Handler) ListPress(w http.ResponseWriter, r *http.Request) {
	page, perPage, orderBy, desc := listQuery(r)

	items, err := h.queries.ListPressForAPI(r.Context(), store.APIListParams{
		OrderBy: orderBy,
		Desc:    desc,
		Limit:   int64(perPage),
		Offset:  int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list press")
		return
	}
	total, err := h.queries.CountPress(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to count press")
		return
	}

	responses := make([]PressResponse, 0, len(items))
	for _, p := range items {
		responses = append(responses, pressToResponse(p))
	}
	WriteSuccess(w, responses, listMeta(total, page, perPage))
}

// GetPress returns one coverage entry. Public.
func (h *Handler) GetPress(w http.ResponseWriter, r *http.Request) {
	press, ok := requireEntityByID(w, r, "press", func(id int64) (model.Press, error) {
		return h.queries.GetPressByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, pressToResponse(press), nil)
}

// PressRequest is the request body for creating or updating coverage.
type PressRequest struct {
	Title       string `json:"title"`
	Outlet      string `json:"outlet"`
	ArticleURL  string `json:"article_url"`
	Excerpt     string `json:"excerpt"`
	PublishedOn string `json:"published_on"` // YYYY-MM-DD
}

func validatePressRequest(req *PressRequest) (sql.NullTime, map[string]string) {
	fieldErrors := make(map[string]string)

	if req.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if req.Outlet == "" {
		fieldErrors["outlet"] = "Outlet is required"
	}
	parsed, err := url.Parse(req.ArticleURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		fieldErrors["article_url"] = "A valid http(s) URL is required"
	}

	var publishedOn sql.NullTime
	if req.PublishedOn != "" {
		t, err := time.Parse("2006-01-02", req.PublishedOn)
		if err != nil {
			fieldErrors["published_on"] = "Expected YYYY-MM-DD"
		} else {
			publishedOn = sql.NullTime{Time: t, Valid: true}
		}
	}

	if len(fieldErrors) > 0 {
		return publishedOn, fieldErrors
	}
	return publishedOn, nil
}

// CreatePress creates a coverage entry. Requires press:write.
func (h *Handler) CreatePress(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionPressWrite) {
		return
	}

	var req PressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	publishedOn, fieldErrors := validatePressRequest(&req)
	if fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	press, err := h.queries.CreatePress(r.Context(), store.CreatePressParams{
		Title:       req.Title,
		Outlet:      req.Outlet,
		ArticleURL:  req.ArticleURL,
		Excerpt:     req.Excerpt,
		PublishedOn: publishedOn,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create press")
		return
	}
	WriteCreated(w, pressToResponse(press))
}

// UpdatePress updates a coverage entry. Requires press:write.
func (h *Handler) UpdatePress(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionPressWrite) {
		return
	}

	current, ok := requireEntityByID(w, r, "press", func(id int64) (model.Press, error) {
		return h.queries.GetPressByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req PressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	publishedOn, fieldErrors := validatePressRequest(&req)
	if fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	press, err := h.queries.UpdatePress(r.Context(), store.UpdatePressParams{
		ID:            current.ID,
		Title:         req.Title,
		Outlet:        req.Outlet,
		ArticleURL:    req.ArticleURL,
		Excerpt:       req.Excerpt,
		ThumbnailPath: current.ThumbnailPath,
		PublishedOn:   publishedOn,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update press")
		return
	}
	WriteSuccess(w, pressToResponse(press), nil)
}

// DeletePress removes a coverage entry. Requires press:write.
func (h *Handler) DeletePress(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionPressWrite) {
		return
	}

	press, ok := requireEntityByID(w, r, "press", func(id int64) (model.Press, error) {
		return h.queries.GetPressByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeletePress(r.Context(), press.ID); err != nil {
		WriteInternalError(w, "Failed to delete press")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
