// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// InquiriesList renders the admin inquiry index with a status filter.
func (h *AdminHandler) InquiriesList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if !model.IsValidInquiryStatus(status) {
		status = ""
	}
	page := pageParam(r)

	items, err := h.queries.ListInquiries(r.Context(), store.ListInquiriesParams{
		Status: status,
		Limit:  adminPerPage,
		Offset: pageOffset(page, adminPerPage),
	})
	if err != nil {
		logAndInternalError(w, "inquiries query error", "error", err)
		return
	}
	total, err := h.queries.CountInquiries(r.Context(), status)
	if err != nil {
		logAndInternalError(w, "inquiries count error", "error", err)
		return
	}

	h.render(w, r, "admin/inquiries_list", "문의 관리", map[string]any{
		"Status":     status,
		"Items":      items,
		"Pagination": buildPagination(page, total, adminPerPage, redirectAdminInquiries, r.URL.Query()),
	})
}

// InquiryDetail renders one inquiry with its answer form.
func (h *AdminHandler) InquiryDetail(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminInquiries, "잘못된 요청입니다")
		return
	}
	inquiry, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminInquiries, "문의", id,
		func(id int64) (model.Inquiry, error) {
			return h.queries.GetInquiryByID(r.Context(), id)
		})
	if !ok {
		return
	}

	h.render(w, r, "admin/inquiry_detail", inquiry.Subject, map[string]any{
		"Inquiry": inquiry,
	})
}

// InquiryAnswer records an admin reply and marks the inquiry answered.
func (h *AdminHandler) InquiryAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminInquiries, "잘못된 요청입니다")
		return
	}
	detailPath := redirectAdminInquiries + "/" + formatID(id)

	if !parseFormOrRedirect(w, r, h.renderer, detailPath) {
		return
	}

	answer := strings.TrimSpace(r.FormValue("answer"))
	if answer == "" {
		flashError(w, r, h.renderer, detailPath, "답변 내용을 입력해 주세요")
		return
	}

	inquiry, err := h.queries.AnswerInquiry(r.Context(), store.AnswerInquiryParams{
		ID:     id,
		Answer: answer,
	})
	if err != nil {
		logAndInternalError(w, "inquiry answer error", "error", err)
		return
	}

	_ = h.eventService.LogInquiryEvent(r.Context(), model.EventLevelInfo,
		"inquiry answered", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"inquiry_id": inquiry.ID})

	flashSuccess(w, r, h.renderer, redirectAdminInquiries, "답변이 저장되었습니다")
}
