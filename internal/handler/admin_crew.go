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

// CrewList renders pending crew applications.
func (h *AdminHandler) CrewList(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListCrewApplications(r.Context(), store.ListCrewApplicationsParams{
		Status: model.ApplicationStatusPending,
		Limit:  adminPerPage,
	})
	if err != nil {
		logAndInternalError(w, "crew query error", "error", err)
		return
	}

	h.render(w, r, "admin/crew_list", "크루 지원 관리", map[string]any{
		"Items": items,
	})
}

// CrewApprove accepts a crew application. When the application belongs
// to a registered member, the member is promoted to the crew role.
func (h *AdminHandler) CrewApprove(w http.ResponseWriter, r *http.Request) {
	h.decideCrewApplication(w, r, model.ApplicationStatusApproved)
}

// CrewReject declines a crew application.
func (h *AdminHandler) CrewReject(w http.ResponseWriter, r *http.Request) {
	h.decideCrewApplication(w, r, model.ApplicationStatusRejected)
}

func (h *AdminHandler) decideCrewApplication(w http.ResponseWriter, r *http.Request, status string) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminCrew, "잘못된 요청입니다")
		return
	}

	app, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminCrew, "지원서", id,
		func(id int64) (model.CrewApplication, error) {
			return h.queries.GetCrewApplicationByID(r.Context(), id)
		})
	if !ok {
		return
	}
	if app.Status != model.ApplicationStatusPending {
		flashError(w, r, h.renderer, redirectAdminCrew, "이미 처리된 지원서입니다")
		return
	}

	if _, err := h.queries.DecideCrewApplication(r.Context(), store.DecideCrewApplicationParams{
		ID:        app.ID,
		Status:    status,
		DecidedBy: sql.NullInt64{Int64: middleware.GetUserID(r), Valid: true},
	}); err != nil {
		logAndInternalError(w, "crew decision error", "error", err)
		return
	}

	if status == model.ApplicationStatusApproved && app.UserID.Valid {
		if _, err := h.identity.Promote(r.Context(), app.UserID.Int64,
			model.RoleCrew, util.NullStringFromValue(model.CrewStatusApproved)); err != nil {
			logAndInternalError(w, "crew promotion error", "error", err)
			return
		}
	}

	_ = h.eventService.LogCrewEvent(r.Context(), model.EventLevelInfo,
		"crew application "+status, middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"application_id": app.ID, "applicant": app.Email})

	flashSuccess(w, r, h.renderer, redirectAdminCrew, "처리되었습니다")
}
