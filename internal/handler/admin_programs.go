// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// ProgramsList renders the admin program index.
func (h *AdminHandler) ProgramsList(w http.ResponseWriter, r *http.Request) {
	programs, err := h.queries.ListPrograms(r.Context())
	if err != nil {
		logAndInternalError(w, "programs query error", "error", err)
		return
	}
	h.render(w, r, "admin/programs_list", "프로그램 관리", map[string]any{
		"Items": programs,
	})
}

// ProgramNewForm renders the empty program form.
func (h *AdminHandler) ProgramNewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/program_form", "새 프로그램", map[string]any{
		"Action":   redirectAdminPrograms,
		"Program":  model.Program{IsOpen: true},
		"Sessions": []model.ProgramSession{},
	})
}

// ProgramEditForm renders the program form with its session schedule.
func (h *AdminHandler) ProgramEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPrograms, "잘못된 요청입니다")
		return
	}
	program, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPrograms, "프로그램", id,
		func(id int64) (model.Program, error) {
			return h.queries.GetProgramByID(r.Context(), id)
		})
	if !ok {
		return
	}

	sessions, err := h.queries.ListProgramSessions(r.Context(), program.ID)
	if err != nil {
		logAndInternalError(w, "program sessions query error", "error", err)
		return
	}

	h.render(w, r, "admin/program_form", "프로그램 수정", map[string]any{
		"Action":   redirectAdminPrograms + "/" + formatID(program.ID),
		"Program":  program,
		"Sessions": sessions,
	})
}

// programFormInput holds validated fields from the program form.
type programFormInput struct {
	Title       string
	Slug        string
	Summary     string
	Description string
	Capacity    int64
	IsOpen      bool
}

func (h *AdminHandler) parseProgramForm(r *http.Request, currentSlug string) (programFormInput, string) {
	var in programFormInput

	in.Title = strings.TrimSpace(r.FormValue("title"))
	if in.Title == "" {
		return in, "이름을 입력해 주세요"
	}

	slug, errMsg := resolveSlug(r.FormValue("slug"), in.Title, func(s string) bool {
		if s == currentSlug {
			return false
		}
		_, err := h.queries.GetProgramBySlug(r.Context(), s)
		return err == nil
	})
	if errMsg != "" {
		return in, errMsg
	}
	in.Slug = slug

	in.Summary = strings.TrimSpace(r.FormValue("summary"))
	in.Description = h.sanitizer.Sanitize(r.FormValue("description"))
	in.IsOpen = r.FormValue("is_open") != ""

	if raw := r.FormValue("capacity"); raw != "" {
		capacity, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || capacity < 0 {
			return in, "정원이 올바르지 않습니다"
		}
		in.Capacity = capacity
	}

	return in, ""
}

// ProgramCreate stores a new program.
func (h *AdminHandler) ProgramCreate(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPrograms+RouteSuffixNew) {
		return
	}

	in, errMsg := h.parseProgramForm(r, "")
	if errMsg != "" {
		flashError(w, r, h.renderer, redirectAdminPrograms+RouteSuffixNew, errMsg)
		return
	}

	program, err := h.queries.CreateProgram(r.Context(), store.CreateProgramParams{
		Title:       in.Title,
		Slug:        in.Slug,
		Summary:     in.Summary,
		Description: in.Description,
		Capacity:    in.Capacity,
		IsOpen:      in.IsOpen,
	})
	if err != nil {
		logAndInternalError(w, "program create error", "error", err)
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo,
		"program created", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"program_id": program.ID, "title": program.Title})

	flashSuccess(w, r, h.renderer, redirectAdminPrograms+"/"+formatID(program.ID), "저장되었습니다")
}

// ProgramUpdate saves edits to a program.
func (h *AdminHandler) ProgramUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPrograms, "잘못된 요청입니다")
		return
	}
	current, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminPrograms, "프로그램", id,
		func(id int64) (model.Program, error) {
			return h.queries.GetProgramByID(r.Context(), id)
		})
	if !ok {
		return
	}
	editPath := redirectAdminPrograms + "/" + formatID(current.ID)

	if !parseFormOrRedirect(w, r, h.renderer, editPath) {
		return
	}

	in, errMsg := h.parseProgramForm(r, current.Slug)
	if errMsg != "" {
		flashError(w, r, h.renderer, editPath, errMsg)
		return
	}

	if _, err := h.queries.UpdateProgram(r.Context(), store.UpdateProgramParams{
		ID:          current.ID,
		Title:       in.Title,
		Slug:        in.Slug,
		Summary:     in.Summary,
		Description: in.Description,
		Capacity:    in.Capacity,
		IsOpen:      in.IsOpen,
	}); err != nil {
		logAndInternalError(w, "program update error", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, editPath, "저장되었습니다")
}

// ProgramDelete removes a program.
func (h *AdminHandler) ProgramDelete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPrograms, "잘못된 요청입니다")
		return
	}

	if err := h.queries.DeleteProgram(r.Context(), id); err != nil {
		logAndInternalError(w, "program delete error", "error", err)
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo,
		"program deleted", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"program_id": id})

	flashSuccess(w, r, h.renderer, redirectAdminPrograms, "삭제되었습니다")
}

// SessionCreate adds a scheduled session to a program.
func (h *AdminHandler) SessionCreate(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPrograms, "잘못된 요청입니다")
		return
	}
	editPath := redirectAdminPrograms + "/" + formatID(id)

	if !parseFormOrRedirect(w, r, h.renderer, editPath) {
		return
	}

	startsAt, err := parseDateTimeLocal(r.FormValue("starts_at"))
	if err != nil {
		flashError(w, r, h.renderer, editPath, "일시 형식이 올바르지 않습니다")
		return
	}

	capacity := int64(0)
	if raw := r.FormValue("capacity"); raw != "" {
		capacity, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || capacity < 1 {
			flashError(w, r, h.renderer, editPath, "정원이 올바르지 않습니다")
			return
		}
	}

	if _, err := h.queries.CreateProgramSession(r.Context(), store.CreateProgramSessionParams{
		ProgramID: id,
		StartsAt:  startsAt.UTC(),
		Location:  strings.TrimSpace(r.FormValue("location")),
		Capacity:  capacity,
	}); err != nil {
		logAndInternalError(w, "session create error", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, editPath, "회차가 추가되었습니다")
}

// SessionDelete removes a scheduled session.
func (h *AdminHandler) SessionDelete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminPrograms, "잘못된 요청입니다")
		return
	}
	editPath := redirectAdminPrograms + "/" + formatID(id)

	sessionID, err := strconv.ParseInt(chi.URLParam(r, "sid"), 10, 64)
	if err != nil || sessionID < 1 {
		flashError(w, r, h.renderer, editPath, "잘못된 요청입니다")
		return
	}

	if err := h.queries.DeleteProgramSession(r.Context(), sessionID); err != nil {
		logAndInternalError(w, "session delete error", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, editPath, "회차가 삭제되었습니다")
}
