// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// ParseIDParam extracts and validates the {id} URL parameter.
func ParseIDParam(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id: %q", idStr)
	}
	return id, nil
}

// ClientIP extracts the client IP, honoring reverse proxy headers.
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return host
}

// formatDuration renders a lockout duration for user-facing messages.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d초", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d분", int(d.Minutes()))
	}
	return fmt.Sprintf("%.0f시간", d.Hours())
}

// parseDateTimeLocal parses an HTML datetime-local input value.
func parseDateTimeLocal(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04", s, time.Local)
}

// parseDateInput parses an HTML date input value.
func parseDateInput(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// formatID renders an entity ID for URL construction.
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
