// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"net/url"
	"strings"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// PressList renders the admin media coverage index.
func (h *AdminHandler) PressList(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	items, err := h.queries.ListPress(r.Context(), store.ListPressParams{
		Limit:  adminPerPage,
		Offset: pageOffset(page, adminPerPage),
	})
	if err != nil {
		logAndInternalError(w, "press query error", "error", err)
		return
	}
	total, err := h.queries.CountPress(r.Context())
	if err != nil {
		logAndInternalError(w, "press count error", "error", err)
		return
	}

	h.render(w, r, "admin/press_list", "언론 보도 관리", map[string]any{
		"Items":      items,
		"Pagination": buildPagination(page, total, adminPerPage, redirectAdminPress, r.URL.Query()),
	})
}

// PressNewForm renders the empty coverage form.
func (h *AdminHandler) PressNewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/press_form", "새 보도", map[string]any{
		"Action":           redirectAdminPress,
		"Press":            model.Press{},
		"PublishedOnValue": "",
	})
}

// PressEditForm renders the coverage form prefilled for editing.
func (h *AdminHandler) PressEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPress, "잘못된 요청입니다")
		return
	}
	press, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPress, "보도", id,
		func(id int64) (model.Press, error) {
			return h.queries.GetPressByID(r.Context(), id)
		})
	if !ok {
		return
	}

	publishedValue := ""
	if press.PublishedOn.Valid {
		publishedValue = press.PublishedOn.Time.Format("2006-01-02")
	}

	h.render(w, r, "admin/press_form", "보도 수정", map[string]any{
		"Action":           redirectAdminPress + "/" + formatID(press.ID),
		"Press":            press,
		"PublishedOnValue": publishedValue,
	})
}

// pressFormInput holds validated fields from the coverage form.
type pressFormInput struct {
	Title       string
	Outlet      string
	ArticleURL  string
	Excerpt     string
	PublishedOn sql.NullTime
}

func parsePressForm(r *http.Request) (pressFormInput, string) {
	var in pressFormInput

	in.Title = strings.TrimSpace(r.FormValue("title"))
	in.Outlet = strings.TrimSpace(r.FormValue("outlet"))
	if in.Title == "" || in.Outlet == "" {
		return in, "제목과 매체를 입력해 주세요"
	}

	in.ArticleURL = strings.TrimSpace(r.FormValue("article_url"))
	parsed, err := url.Parse(in.ArticleURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return in, "기사 URL이 올바르지 않습니다"
	}

	in.Excerpt = strings.TrimSpace(r.FormValue("excerpt"))

	if raw := r.FormValue("published_on"); raw != "" {
		t, err := parseDateInput(raw)
		if err != nil {
			return in, "보도일 형식이 올바르지 않습니다"
		}
		in.PublishedOn = sql.NullTime{Time: t, Valid: true}
	}

	return in, ""
}

// PressCreate stores a new coverage entry.
func (h *AdminHandler) PressCreate(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPress+RouteSuffixNew) {
		return
	}

	in, errMsg := parsePressForm(r)
	if errMsg != "" {
		flashError(w, r, h.renderer, redirectAdminPress+RouteSuffixNew, errMsg)
		return
	}

	press, err := h.queries.CreatePress(r.Context(), store.CreatePressParams{
		Title:       in.Title,
		Outlet:      in.Outlet,
		ArticleURL:  in.ArticleURL,
		Excerpt:     in.Excerpt,
		PublishedOn: in.PublishedOn,
	})
	if err != nil {
		logAndInternalError(w, "press create error", "error", err)
		return
	}

	_ = h.eventService.LogNewsEvent(r.Context(), model.EventLevelInfo,
		"press entry created", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"press_id": press.ID, "title": press.Title})

	flashSuccess(w, r, h.renderer, redirectAdminPress, "저장되었습니다")
}

// PressUpdate saves edits to a coverage entry.
func (h *AdminHandler) PressUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPress, "잘못된 요청입니다")
		return
	}
	current, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPress, "보도", id,
		func(id int64) (model.Press, error) {
			return h.queries.GetPressByID(r.Context(), id)
		})
	if !ok {
		return
	}
	editPath := redirectAdminPress + "/" + formatID(current.ID)

	if !parseFormOrRedirect(w, r, h.renderer, editPath) {
		return
	}

	in, errMsg := parsePressForm(r)
	if errMsg != "" {
		flashError(w, r, h.renderer, editPath, errMsg)
		return
	}

	press, err := h.queries.UpdatePress(r.Context(), store.UpdatePressParams{
		ID:            current.ID,
		Title:         in.Title,
		Outlet:        in.Outlet,
		ArticleURL:    in.ArticleURL,
		Excerpt:       in.Excerpt,
		ThumbnailPath: current.ThumbnailPath,
		PublishedOn:   in.PublishedOn,
	})
	if err != nil {
		logAndInternalError(w, "press update error", "error", err)
		return
	}

	_ = h.eventService.LogNewsEvent(r.Context(), model.EventLevelInfo,
		"press entry updated", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"press_id": press.ID})

	flashSuccess(w, r, h.renderer, redirectAdminPress, "저장되었습니다")
}

// PressDelete removes a coverage entry.
func (h *AdminHandler) PressDelete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPress, "잘못된 요청입니다")
		return
	}

	if err := h.queries.DeletePress(r.Context(), id); err != nil {
		logAndInternalError(w, "press delete error", "error", err)
		return
	}

	_ = h.eventService.LogNewsEvent(r.Context(), model.EventLevelInfo,
		"press entry deleted", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"press_id": id})

	flashSuccess(w, r, h.renderer, redirectAdminPress, "삭제되었습니다")
}
