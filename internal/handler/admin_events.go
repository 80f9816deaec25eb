// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// eventCategories are the filter options on the admin event log.
var eventCategories = []string{
	model.EventCategoryAuth,
	model.EventCategoryNews,
	model.EventCategoryUser,
	model.EventCategoryInquiry,
	model.EventCategoryFootstep,
	model.EventCategoryCrew,
	model.EventCategoryConfig,
	model.EventCategorySystem,
}

// EventsList renders the audit log with level and category filters.
func (h *AdminHandler) EventsList(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	switch level {
	case model.EventLevelInfo, model.EventLevelWarning, model.EventLevelError:
	default:
		level = ""
	}

	category := r.URL.Query().Get("category")
	validCategory := false
	for _, c := range eventCategories {
		if category == c {
			validCategory = true
			break
		}
	}
	if !validCategory {
		category = ""
	}

	page := pageParam(r)

	items, err := h.queries.ListEvents(r.Context(), store.ListEventsParams{
		Level:    level,
		Category: category,
		Limit:    adminPerPage,
		Offset:   pageOffset(page, adminPerPage),
	})
	if err != nil {
		logAndInternalError(w, "events query error", "error", err)
		return
	}
	total, err := h.queries.CountEvents(r.Context(), store.CountEventsParams{
		Level:    level,
		Category: category,
	})
	if err != nil {
		logAndInternalError(w, "events count error", "error", err)
		return
	}

	h.render(w, r, "admin/events_list", "이벤트 로그", map[string]any{
		"Level":      level,
		"Category":   category,
		"Categories": eventCategories,
		"Items":      items,
		"Pagination": buildPagination(page, total, adminPerPage, "/admin/events", r.URL.Query()),
	})
}
