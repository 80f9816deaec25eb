// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/util"
)

// markdown renders journal bodies submitted through the API.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// FootstepResponse represents a journal post in API responses.
type FootstepResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	BodyMarkdown string    `json:"body_markdown"`
	BodyHTML     string    `json:"body_html"`
	Status       string    `json:"status"`
	AuthorID     int64     `json:"author_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func footstepToResponse(f model.Footstep) FootstepResponse {
	return FootstepResponse{
		ID:           f.ID,
		Title:        f.Title,
		Slug:         f.Slug,
		BodyMarkdown: f.BodyMarkdown,
		BodyHTML:     f.BodyHTML,
		Status:       f.Status,
		AuthorID:     f.AuthorID,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// ListFootsteps returns journal posts. Without a footsteps:read key
// only published posts are visible.
func (h *Handler) ListFootsteps(w http.ResponseWriter, r *http.Request) {
	page, perPage, orderBy, desc := listQuery(r)

	status := r.URL.Query().Get("status")
	if !hasPermission(r, model.PermissionFootstepsRead) {
		status = model.NewsStatusPublished
	}

	items, err := h.queries.ListFootstepsForAPI(r.Context(), store.APIListParams{
		Status:  status,
		OrderBy: orderBy,
		Desc:    desc,
		Limit:   int64(perPage),
		Offset:  int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list footsteps")
		return
	}
	total, err := h.queries.CountFootstepsForAPI(r.Context(), status)
	if err != nil {
		WriteInternalError(w, "Failed to count footsteps")
		return
	}

	responses := make([]FootstepResponse, 0, len(items))
	for _, f := range items {
		responses = append(responses, footstepToResponse(f))
	}
	WriteSuccess(w, responses, listMeta(total, page, perPage))
}

// GetFootstep returns one journal post. Unpublished posts require
// footsteps:read.
func (h *Handler) GetFootstep(w http.ResponseWriter, r *http.Request) {
	footstep, ok := requireEntityByID(w, r, "footstep", func(id int64) (model.Footstep, error) {
		return h.queries.GetFootstepByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if !footstep.IsPublished() && !hasPermission(r, model.PermissionFootstepsRead) {
		WriteNotFound(w, "Footstep not found")
		return
	}
	WriteSuccess(w, footstepToResponse(footstep), nil)
}

// FootstepRequest is the request body for creating or updating a post.
type FootstepRequest struct {
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	BodyMarkdown string `json:"body_markdown"`
	Status       string `json:"status"`
}

func (h *Handler) validateFootstepRequest(r *http.Request, req *FootstepRequest, currentSlug string) (string, map[string]string) {
	fieldErrors := make(map[string]string)

	if req.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	if req.Status == "" {
		req.Status = model.NewsStatusPublished
	} else if !model.IsValidNewsStatus(req.Status) {
		fieldErrors["status"] = "Invalid status"
	}

	if req.Slug == "" {
		req.Slug = util.UniqueSlug(req.Title, func(s string) bool {
			_, err := h.queries.GetFootstepBySlug(r.Context(), s)
			return err == nil
		})
	} else if !util.IsValidSlug(req.Slug) {
		fieldErrors["slug"] = "Invalid slug"
	} else if req.Slug != currentSlug {
		if _, err := h.queries.GetFootstepBySlug(r.Context(), req.Slug); err == nil {
			fieldErrors["slug"] = "Slug already exists"
		}
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(req.BodyMarkdown), &buf); err != nil {
		fieldErrors["body_markdown"] = "Markdown could not be rendered"
	}
	bodyHTML := sanitizer.Sanitize(buf.String())

	if len(fieldErrors) > 0 {
		return "", fieldErrors
	}
	return bodyHTML, nil
}

// CreateFootstep creates a journal post. Requires footsteps:write.
func (h *Handler) CreateFootstep(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionFootstepsWrite) {
		return
	}

	var req FootstepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	bodyHTML, fieldErrors := h.validateFootstepRequest(r, &req, "")
	if fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	authorID := int64(0)
	if key := middleware.GetAPIKey(r); key != nil {
		authorID = key.CreatedBy
	}

	footstep, err := h.queries.CreateFootstep(r.Context(), store.CreateFootstepParams{
		Title:        req.Title,
		Slug:         req.Slug,
		BodyMarkdown: req.BodyMarkdown,
		BodyHTML:     bodyHTML,
		Status:       req.Status,
		AuthorID:     authorID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create footstep")
		return
	}
	WriteCreated(w, footstepToResponse(footstep))
}

// UpdateFootstep updates a journal post. Requires footsteps:write.
func (h *Handler) UpdateFootstep(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionFootstepsWrite) {
		return
	}

	current, ok := requireEntityByID(w, r, "footstep", func(id int64) (model.Footstep, error) {
		return h.queries.GetFootstepByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req FootstepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	bodyHTML, fieldErrors := h.validateFootstepRequest(r, &req, current.Slug)
	if fieldErrors != nil {
		WriteValidationError(w, fieldErrors)
		return
	}

	footstep, err := h.queries.UpdateFootstep(r.Context(), store.UpdateFootstepParams{
		ID:           current.ID,
		Title:        req.Title,
		Slug:         req.Slug,
		BodyMarkdown: req.BodyMarkdown,
		BodyHTML:     bodyHTML,
		Status:       req.Status,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update footstep")
		return
	}
	WriteSuccess(w, footstepToResponse(footstep), nil)
}

// DeleteFootstep removes a journal post. Requires footsteps:write.
func (h *Handler) DeleteFootstep(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionFootstepsWrite) {
		return
	}

	footstep, ok := requireEntityByID(w, r, "footstep", func(id int64) (model.Footstep, error) {
		return h.queries.GetFootstepByID(r.Context(), id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteFootstep(r.Context(), footstep.ID); err != nil {
		WriteInternalError(w, "Failed to delete footstep")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
