// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// FootstepsList renders the admin journal index.
func (h *AdminHandler) FootstepsList(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	items, err := h.queries.ListFootsteps(r.Context(), store.ListFootstepsParams{
		Limit:  adminPerPage,
		Offset: pageOffset(page, adminPerPage),
	})
	if err != nil {
		logAndInternalError(w, "footsteps query error", "error", err)
		return
	}
	total, err := h.queries.CountFootsteps(r.Context())
	if err != nil {
		logAndInternalError(w, "footsteps count error", "error", err)
		return
	}

	h.render(w, r, "admin/footsteps_list", "발자취 관리", map[string]any{
		"Items":      items,
		"Pagination": buildPagination(page, total, adminPerPage, redirectAdminFootsteps, r.URL.Query()),
	})
}

// FootstepNewForm renders the empty journal post form.
func (h *AdminHandler) FootstepNewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/footstep_form", "새 발자취", map[string]any{
		"Action":   redirectAdminFootsteps,
		"Footstep": model.Footstep{},
	})
}

// FootstepEditForm renders the journal post form prefilled for editing.
func (h *AdminHandler) FootstepEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminFootsteps, "잘못된 요청입니다")
		return
	}
	footstep, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminFootsteps, "발자취", id,
		func(id int64) (model.Footstep, error) {
			return h.queries.GetFootstepByID(r.Context(), id)
		})
	if !ok {
		return
	}

	h.render(w, r, "admin/footstep_form", "발자취 수정", map[string]any{
		"Action":   redirectAdminFootsteps + "/" + formatID(footstep.ID),
		"Footstep": footstep,
	})
}

// renderMarkdown converts journal markdown into sanitized HTML.
func (h *AdminHandler) renderMarkdown(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return h.sanitizer.Sanitize(buf.String()), nil
}

// footstepFormInput holds validated fields from the journal form.
type footstepFormInput struct {
	Title        string
	Slug         string
	BodyMarkdown string
	BodyHTML     string
}

func (h *AdminHandler) parseFootstepForm(r *http.Request, currentSlug string) (footstepFormInput, string) {
	var in footstepFormInput

	in.Title = strings.TrimSpace(r.FormValue("title"))
	if in.Title == "" {
		return in, "제목을 입력해 주세요"
	}

	slug, errMsg := resolveSlug(r.FormValue("slug"), in.Title, func(s string) bool {
		if s == currentSlug {
			return false
		}
		_, err := h.queries.GetFootstepBySlug(r.Context(), s)
		return err == nil
	})
	if errMsg != "" {
		return in, errMsg
	}
	in.Slug = slug

	in.BodyMarkdown = r.FormValue("body_markdown")
	bodyHTML, err := h.renderMarkdown(in.BodyMarkdown)
	if err != nil {
		return in, "본문을 변환할 수 없습니다"
	}
	in.BodyHTML = bodyHTML

	return in, ""
}

// FootstepCreate stores a new journal post. Posts go live immediately.
func (h *AdminHandler) FootstepCreate(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminFootsteps+RouteSuffixNew) {
		return
	}

	in, errMsg := h.parseFootstepForm(r, "")
	if errMsg != "" {
		flashError(w, r, h.renderer, redirectAdminFootsteps+RouteSuffixNew, errMsg)
		return
	}

	footstep, err := h.queries.CreateFootstep(r.Context(), store.CreateFootstepParams{
		Title:        in.Title,
		Slug:         in.Slug,
		BodyMarkdown: in.BodyMarkdown,
		BodyHTML:     in.BodyHTML,
		Status:       model.NewsStatusPublished,
		AuthorID:     middleware.GetUserID(r),
	})
	if err != nil {
		logAndInternalError(w, "footstep create error", "error", err)
		return
	}

	_ = h.eventService.LogNewsEvent(r.Context(), model.EventLevelInfo,
		"footstep created", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"footstep_id": footstep.ID, "title": footstep.Title})

	flashSuccess(w, r, h.renderer, redirectAdminFootsteps, "저장되었습니다")
}

// FootstepUpdate saves edits to a journal post.
func (h *AdminHandler) FootstepUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminFootsteps, "잘못된 요청입니다")
		return
	}
	current, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminFootsteps, "발자취", id,
		func(id int64) (model.Footstep, error) {
			return h.queries.GetFootstepByID(r.Context(), id)
		})
	if !ok {
		return
	}
	editPath := redirectAdminFootsteps + "/" + formatID(current.ID)

	if !parseFormOrRedirect(w, r, h.renderer, editPath) {
		return
	}

	in, errMsg := h.parseFootstepForm(r, current.Slug)
	if errMsg != "" {
		flashError(w, r, h.renderer, editPath, errMsg)
		return
	}

	if _, err := h.queries.UpdateFootstep(r.Context(), store.UpdateFootstepParams{
		ID:           current.ID,
		Title:        in.Title,
		Slug:         in.Slug,
		BodyMarkdown: in.BodyMarkdown,
		BodyHTML:     in.BodyHTML,
		Status:       current.Status,
	}); err != nil {
		logAndInternalError(w, "footstep update error", "error", err)
		return
	}

	_ = h.eventService.LogNewsEvent(r.Context(), model.EventLevelInfo,
		"footstep updated", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"footstep_id": current.ID})

	flashSuccess(w, r, h.renderer, redirectAdminFootsteps, "저장되었습니다")
}

// FootstepDelete removes a journal post.
func (h *AdminHandler) FootstepDelete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminFootsteps, "잘못된 요청입니다")
		return
	}

	if err := h.queries.DeleteFootstep(r.Context(), id); err != nil {
		logAndInternalError(w, "footstep delete error", "error", err)
		return
	}

	_ = h.eventService.LogNewsEvent(r.Context(), model.EventLevelInfo,
		"footstep deleted", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"footstep_id": id})

	flashSuccess(w, r, h.renderer, redirectAdminFootsteps, "삭제되었습니다")
}
