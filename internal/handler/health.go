// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/version"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	db      *sql.DB
	version version.Info
	started time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB, info version.Info) *HealthHandler {
	return &HealthHandler{db: db, version: info, started: time.Now()}
}

// Health reports service status, uptime, and database reachability.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSONSuccess(w, map[string]any{
		"status":  "ok",
		"version": h.version.String(),
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
