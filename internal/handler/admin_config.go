// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

// configValue reads a setting straight from the database. The admin
// console never goes through the cache, so it cannot show stale values.
func (h *AdminHandler) configValue(ctx context.Context, key string) string {
	cfg, err := h.queries.GetConfig(ctx, key)
	if err != nil {
		return ""
	}
	return cfg.Value
}

// ConfigForm renders the site settings form.
func (h *AdminHandler) ConfigForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	siteName := h.configValue(ctx, model.ConfigKeySiteName)
	contactEmail := h.configValue(ctx, model.ConfigKeyContactEmail)
	heroVideoURL := h.configValue(ctx, model.ConfigKeyHeroVideoURL)

	h.render(w, r, "admin/config", "사이트 설정", map[string]any{
		"SiteName":     siteName,
		"ContactEmail": contactEmail,
		"HeroVideoURL": heroVideoURL,
	})
}

// ConfigUpdate saves the site settings and invalidates cached values.
func (h *AdminHandler) ConfigUpdate(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminConfig) {
		return
	}

	siteName := strings.TrimSpace(r.FormValue("site_name"))
	if siteName == "" {
		flashError(w, r, h.renderer, redirectAdminConfig, "사이트 이름을 입력해 주세요")
		return
	}
	contactEmail := strings.TrimSpace(r.FormValue("contact_email"))
	if contactEmail != "" && !validateEmail(contactEmail) {
		flashError(w, r, h.renderer, redirectAdminConfig, "연락 이메일이 올바르지 않습니다")
		return
	}

	values := map[string]string{
		model.ConfigKeySiteName:     siteName,
		model.ConfigKeyContactEmail: contactEmail,
		model.ConfigKeyHeroVideoURL: strings.TrimSpace(r.FormValue("hero_video_url")),
	}
	for key, value := range values {
		if err := h.cache.SetConfig(r.Context(), key, value); err != nil {
			logAndInternalError(w, "config update error", "error", err, "key", key)
			return
		}
	}

	_ = h.eventService.LogConfigEvent(r.Context(), model.EventLevelInfo,
		"site settings updated", middleware.GetUserIDPtr(r), ClientIP(r), nil)

	flashSuccess(w, r, h.renderer, redirectAdminConfig, "설정이 저장되었습니다")
}
