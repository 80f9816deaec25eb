// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// APIKeysList renders the API key management page.
func (h *AdminHandler) APIKeysList(w http.ResponseWriter, r *http.Request) {
	h.renderAPIKeys(w, r, "")
}

// renderAPIKeys renders the key list, optionally showing a freshly
// generated raw key. The raw key is never stored, so this render is
// the only time it is visible.
func (h *AdminHandler) renderAPIKeys(w http.ResponseWriter, r *http.Request, newKey string) {
	items, err := h.queries.ListAPIKeys(r.Context(), store.ListAPIKeysParams{
		Limit: 100,
	})
	if err != nil {
		logAndInternalError(w, "api keys query error", "error", err)
		return
	}

	h.render(w, r, "admin/api_keys", "API 키 관리", map[string]any{
		"Items":  items,
		"NewKey": newKey,
	})
}

// APIKeyCreate generates a new API key and shows it once.
func (h *AdminHandler) APIKeyCreate(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminAPIKeys) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		flashError(w, r, h.renderer, redirectAdminAPIKeys, "이름을 입력해 주세요")
		return
	}

	var perms []string
	if r.FormValue("perm_read") != "" {
		perms = append(perms,
			model.PermissionNewsRead, model.PermissionPressRead,
			model.PermissionFootstepsRead, model.PermissionCrewRead)
	}
	if r.FormValue("perm_write") != "" {
		perms = append(perms,
			model.PermissionNewsWrite, model.PermissionPressWrite,
			model.PermissionFootstepsWrite, model.PermissionCrewWrite)
	}
	if len(perms) == 0 {
		flashError(w, r, h.renderer, redirectAdminAPIKeys, "권한을 하나 이상 선택해 주세요")
		return
	}

	var expiresAt sql.NullTime
	if raw := r.FormValue("expires_at"); raw != "" {
		t, err := parseDateInput(raw)
		if err != nil {
			flashError(w, r, h.renderer, redirectAdminAPIKeys, "만료일 형식이 올바르지 않습니다")
			return
		}
		expiresAt = sql.NullTime{Time: t.Add(24*time.Hour - time.Second), Valid: true}
	}

	rawKey, prefix, err := model.GenerateAPIKey()
	if err != nil {
		logAndInternalError(w, "api key generation error", "error", err)
		return
	}

	key, err := h.queries.CreateAPIKey(r.Context(), store.CreateAPIKeyParams{
		Name:        name,
		KeyHash:     model.HashAPIKey(rawKey),
		KeyPrefix:   prefix,
		Permissions: model.PermissionsToJSON(perms),
		ExpiresAt:   expiresAt,
		CreatedBy:   middleware.GetUserID(r),
	})
	if err != nil {
		logAndInternalError(w, "api key create error", "error", err)
		return
	}

	_ = h.eventService.LogConfigEvent(r.Context(), model.EventLevelInfo,
		"api key created", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"api_key_id": key.ID, "name": key.Name})

	h.renderAPIKeys(w, r, rawKey)
}

// APIKeyRevoke deactivates an API key.
func (h *AdminHandler) APIKeyRevoke(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminAPIKeys, "잘못된 요청입니다")
		return
	}

	if err := h.queries.DeactivateAPIKey(r.Context(), id); err != nil {
		logAndInternalError(w, "api key revoke error", "error", err)
		return
	}

	_ = h.eventService.LogConfigEvent(r.Context(), model.EventLevelInfo,
		"api key revoked", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"api_key_id": id})

	flashSuccess(w, r, h.renderer, redirectAdminAPIKeys, "키가 폐기되었습니다")
}
