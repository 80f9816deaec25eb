// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// CrewApplicationResponse represents a crew application in API
// responses.
type CrewApplicationResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone,omitempty"`
	Motivation   string     `json:"motivation"`
	Availability string     `json:"availability"`
	Status       string     `json:"status"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func crewToResponse(a model.CrewApplication) CrewApplicationResponse {
	resp := CrewApplicationResponse{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		Motivation:   a.Motivation,
		Availability: a.Availability,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
	}
	if a.DecidedAt.Valid {
		resp.DecidedAt = &a.DecidedAt.Time
	}
	return resp
}

// ListCrewApplications returns crew applications. Requires crew:read;
// applications carry personal data and are never public.
func (h *Handler) ListCrewApplications(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionCrewRead) {
		return
	}

	page, perPage, orderBy, desc := listQuery(r)

	status := r.URL.Query().Get("status")
	if status != "" && !model.IsValidApplicationStatus(status) {
		WriteBadRequest(w, "Invalid status", nil)
		return
	}

	items, err := h.queries.ListCrewApplicationsForAPI(r.Context(), store.APIListParams{
		Status:  status,
		OrderBy: orderBy,
		Desc:    desc,
		Limit:   int64(perPage),
		Offset:  int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list crew applications")
		return
	}
	total, err := h.queries.CountCrewApplications(r.Context(), status)
	if err != nil {
		WriteInternalError(w, "Failed to count crew applications")
		return
	}

	responses := make([]CrewApplicationResponse, 0, len(items))
	for _, a := range items {
		responses = append(responses, crewToResponse(a))
	}
	WriteSuccess(w, responses, listMeta(total, page, perPage))
}

// GetCrewApplication returns one application. Requires crew:read.
func (h *Handler) GetCrewApplication(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionCrewRead) {
		return
	}

	app, ok := requireEntityByID(w, r, "crew application", func(id int64) (model.CrewApplication, error) {
		return h.queries.GetCrewApplicationByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteSuccess(w, crewToResponse(app), nil)
}

// CrewApplicationRequest is the request body for submitting an
// application through the API.
type CrewApplicationRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Motivation   string `json:"motivation"`
	Availability string `json:"availability"`
}

// CreateCrewApplication submits an application. Requires crew:write.
func (h *Handler) CreateCrewApplication(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionCrewWrite) {
		return
	}

	var req CrewApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fieldErrors["email"] = "A valid email is required"
	}
	if req.Motivation == "" {
		fieldErrors["motivation"] = "Motivation is required"
	}
	if req.Availability == "" {
		fieldErrors["availability"] = "Availability is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	app, err := h.queries.CreateCrewApplication(r.Context(), store.CreateCrewApplicationParams{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Motivation:   req.Motivation,
		Availability: req.Availability,
	})
	if err != nil {
		WriteInternalError(w, "Failed to create crew application")
		return
	}
	WriteCreated(w, crewToResponse(app))
}

// CrewDecisionRequest is the request body for deciding an application.
type CrewDecisionRequest struct {
	Status string `json:"status"` // approved | rejected
}

// DecideCrewApplication records a decision. Requires crew:write.
func (h *Handler) DecideCrewApplication(w http.ResponseWriter, r *http.Request) {
	if !requirePermission(w, r, model.PermissionCrewWrite) {
		return
	}

	app, ok := requireEntityByID(w, r, "crew application", func(id int64) (model.CrewApplication, error) {
		return h.queries.GetCrewApplicationByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if app.Status != model.ApplicationStatusPending {
		WriteError(w, http.StatusConflict, "conflict", "Application already decided", nil)
		return
	}

	var req CrewDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Status != model.ApplicationStatusApproved && req.Status != model.ApplicationStatusRejected {
		WriteValidationError(w, map[string]string{"status": "Expected approved or rejected"})
		return
	}

	decided, err := h.queries.DecideCrewApplication(r.Context(), store.DecideCrewApplicationParams{
		ID:     app.ID,
		Status: req.Status,
	})
	if err != nil {
		WriteInternalError(w, "Failed to decide crew application")
		return
	}
	WriteSuccess(w, crewToResponse(decided), nil)
}
