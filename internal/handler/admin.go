// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/cache"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/identity"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/imaging"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/render"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/service"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// maxUploadSize limits multipart form parsing for image uploads.
const maxUploadSize = 10 << 20 // 10 MB

// AdminHandler serves the admin console.
type AdminHandler struct {
	queries      *store.Queries
	cache        *cache.Manager
	renderer     *render.Renderer
	identity     *identity.Service
	eventService *service.EventService
	images       *imaging.Processor
	sanitizer    *bluemonday.Policy
	markdown     goldmark.Markdown
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, cacheManager *cache.Manager, renderer *render.Renderer, ident *identity.Service, images *imaging.Processor) *AdminHandler {
	return &AdminHandler{
		queries:      store.New(db),
		cache:        cacheManager,
		renderer:     renderer,
		identity:     ident,
		eventService: service.NewEventService(db),
		images:       images,
		sanitizer:    bluemonday.UGCPolicy(),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// render renders an admin template with the shared page chrome.
func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:     title,
		SiteName:  middleware.GetSiteName(r),
		User:      middleware.GetUser(r),
		Path:      r.URL.Path,
		Data:      data,
		CSRFToken: middleware.CSRFToken(r),
	})
	if err != nil {
		logAndInternalError(w, "template render error", "error", err, "template", name)
	}
}

// Dashboard renders the admin overview with counts and recent events.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userCount, err := h.queries.CountUsers(ctx)
	if err != nil {
		logAndInternalError(w, "user count error", "error", err)
		return
	}
	newsCount, err := h.queries.CountNews(ctx)
	if err != nil {
		logAndInternalError(w, "news count error", "error", err)
		return
	}
	pendingInquiries, err := h.queries.CountNewInquiries(ctx)
	if err != nil {
		logAndInternalError(w, "inquiry count error", "error", err)
		return
	}
	pendingCrew, err := h.queries.CountCrewApplications(ctx, model.ApplicationStatusPending)
	if err != nil {
		logAndInternalError(w, "crew count error", "error", err)
		return
	}
	recentEvents, err := h.queries.ListEvents(ctx, store.ListEventsParams{Limit: 10})
	if err != nil {
		logAndInternalError(w, "events query error", "error", err)
		return
	}

	h.render(w, r, "admin/dashboard", "대시보드", map[string]any{
		"UserCount":        userCount,
		"NewsCount":        newsCount,
		"PendingInquiries": pendingInquiries,
		"PendingCrew":      pendingCrew,
		"RecentEvents":     recentEvents,
	})
}
