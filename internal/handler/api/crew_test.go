// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

func TestListCrewApplicationsRequiresReadKey(t *testing.T) {
	db, h, author := testSetup(t)

	createTestCrewApplication(t, db, "김하늘", "haneul@example.com")

	// No key at all.
	rec := httptest.NewRecorder()
	h.ListCrewApplications(rec, newGetRequest(t, "/api/v1/crew-applications", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Key without the crew scope.
	rec = httptest.NewRecorder()
	req := withAPIKey(newGetRequest(t, "/api/v1/crew-applications", nil),
		author.ID, model.PermissionNewsRead)
	h.ListCrewApplications(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	req = withAPIKey(newGetRequest(t, "/api/v1/crew-applications", nil),
		author.ID, model.PermissionCrewRead)
	h.ListCrewApplications(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []CrewApplicationResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "haneul@example.com", resp.Data[0].Email)
	assert.Equal(t, model.ApplicationStatusPending, resp.Data[0].Status)
}

func TestListCrewApplicationsRejectsInvalidStatus(t *testing.T) {
	_, h, author := testSetup(t)

	rec := httptest.NewRecorder()
	req := withAPIKey(newGetRequest(t, "/api/v1/crew-applications?status=waiting", nil),
		author.ID, model.PermissionCrewRead)
	h.ListCrewApplications(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCrewApplication(t *testing.T) {
	_, h, author := testSetup(t)

	body := `{"name":"이바다","email":"bada@example.com","motivation":"지역 아이들과 함께하고 싶습니다","availability":"평일 저녁"}`
	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/crew-applications", body, nil),
		author.ID, model.PermissionCrewWrite)
	h.CreateCrewApplication(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data CrewApplicationResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	assert.Equal(t, "이바다", resp.Data.Name)
	assert.Equal(t, model.ApplicationStatusPending, resp.Data.Status)
	assert.Nil(t, resp.Data.DecidedAt)
}

func TestCreateCrewApplicationValidation(t *testing.T) {
	_, h, author := testSetup(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"email":"a@example.com","motivation":"동기","availability":"주말"}`, "name"},
		{"bad email", `{"name":"이름","email":"not-an-email","motivation":"동기","availability":"주말"}`, "email"},
		{"missing motivation", `{"name":"이름","email":"a@example.com","availability":"주말"}`, "motivation"},
		{"missing availability", `{"name":"이름","email":"a@example.com","motivation":"동기"}`, "availability"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/crew-applications", tt.body, nil),
				author.ID, model.PermissionCrewWrite)
			h.CreateCrewApplication(rec, req)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var resp ErrorResponse
			decodeResponse(t, rec, &resp)
			assert.Contains(t, resp.Error.Details, tt.field)
		})
	}
}

func TestDecideCrewApplication(t *testing.T) {
	db, h, author := testSetup(t)

	app := createTestCrewApplication(t, db, "박강", "kang@example.com")
	params := map[string]string{"id": formatTestID(app.ID)}

	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodPost,
		"/api/v1/crew-applications/"+formatTestID(app.ID)+"/decide",
		`{"status":"approved"}`, params), author.ID, model.PermissionCrewWrite)
	h.DecideCrewApplication(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data CrewApplicationResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	assert.Equal(t, model.ApplicationStatusApproved, resp.Data.Status)
	require.NotNil(t, resp.Data.DecidedAt)

	// A second decision on the same application conflicts.
	rec = httptest.NewRecorder()
	req = withAPIKey(newJSONRequest(t, http.MethodPost,
		"/api/v1/crew-applications/"+formatTestID(app.ID)+"/decide",
		`{"status":"rejected"}`, params), author.ID, model.PermissionCrewWrite)
	h.DecideCrewApplication(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var errResp ErrorResponse
	decodeResponse(t, rec, &errResp)
	assert.Equal(t, "conflict", errResp.Error.Code)
}

func TestDecideCrewApplicationRejectsUnknownStatus(t *testing.T) {
	db, h, author := testSetup(t)

	app := createTestCrewApplication(t, db, "최산", "san@example.com")
	params := map[string]string{"id": formatTestID(app.ID)}

	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodPost,
		"/api/v1/crew-applications/"+formatTestID(app.ID)+"/decide",
		`{"status":"pending"}`, params), author.ID, model.PermissionCrewWrite)
	h.DecideCrewApplication(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	decodeResponse(t, rec, &resp)
	assert.Contains(t, resp.Error.Details, "status")
}
