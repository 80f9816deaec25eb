// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/util"
)

// UsersList renders the admin member index.
func (h *AdminHandler) UsersList(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	items, err := h.queries.ListUsers(r.Context(), store.ListUsersParams{
		Limit:  adminPerPage,
		Offset: pageOffset(page, adminPerPage),
	})
	if err != nil {
		logAndInternalError(w, "users query error", "error", err)
		return
	}
	total, err := h.queries.CountUsers(r.Context())
	if err != nil {
		logAndInternalError(w, "users count error", "error", err)
		return
	}

	h.render(w, r, "admin/users_list", "회원 관리", map[string]any{
		"Items":      items,
		"Pagination": buildPagination(page, total, adminPerPage, redirectAdminUsers, r.URL.Query()),
	})
}

// UserRoleUpdate changes a member's role. Admins cannot demote
// themselves, which keeps at least one admin reachable.
func (h *AdminHandler) UserRoleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminUsers, "잘못된 요청입니다")
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}

	role := r.FormValue("role")
	valid := false
	for _, candidate := range model.ValidRoles {
		if role == candidate {
			valid = true
			break
		}
	}
	if !valid {
		flashError(w, r, h.renderer, redirectAdminUsers, "잘못된 역할입니다")
		return
	}

	if id == middleware.GetUserID(r) && role != model.RoleAdmin {
		flashError(w, r, h.renderer, redirectAdminUsers, "자신의 관리자 권한은 해제할 수 없습니다")
		return
	}

	crewStatus := sql.NullString{}
	if role == model.RoleCrew {
		crewStatus = util.NullStringFromValue(model.CrewStatusApproved)
	}

	if _, err := h.identity.Promote(r.Context(), id, role, crewStatus); err != nil {
		logAndInternalError(w, "role update error", "error", err, "user_id", id)
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo,
		"user role changed", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"target_user_id": id, "role": role})

	flashSuccess(w, r, h.renderer, redirectAdminUsers, "역할이 변경되었습니다")
}
