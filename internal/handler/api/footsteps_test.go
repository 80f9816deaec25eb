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

func TestListFootstepsPublicForcesPublished(t *testing.T) {
	db, h, author := testSetup(t)

	createTestFootstep(t, db, author.ID, "공개 발걸음", "open-step", model.NewsStatusPublished)
	createTestFootstep(t, db, author.ID, "초안 발걸음", "draft-step", model.NewsStatusDraft)

	// status=draft without a key must not leak drafts.
	rec := httptest.NewRecorder()
	h.ListFootsteps(rec, newGetRequest(t, "/api/v1/footsteps?status=draft", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []FootstepResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "open-step", resp.Data[0].Slug)
}

func TestListFootstepsWithReadKeyFiltersByStatus(t *testing.T) {
	db, h, author := testSetup(t)

	createTestFootstep(t, db, author.ID, "공개 발걸음", "open-step", model.NewsStatusPublished)
	createTestFootstep(t, db, author.ID, "초안 발걸음", "draft-step", model.NewsStatusDraft)

	rec := httptest.NewRecorder()
	req := withAPIKey(newGetRequest(t, "/api/v1/footsteps?status=draft", nil),
		author.ID, model.PermissionFootstepsRead)
	h.ListFootsteps(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []FootstepResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "draft-step", resp.Data[0].Slug)
}

func TestGetFootstepDraftHiddenWithoutKey(t *testing.T) {
	db, h, author := testSetup(t)

	f := createTestFootstep(t, db, author.ID, "초안", "hidden-step", model.NewsStatusDraft)

	rec := httptest.NewRecorder()
	h.GetFootstep(rec, newGetRequest(t, "/api/v1/footsteps/"+formatTestID(f.ID),
		map[string]string{"id": formatTestID(f.ID)}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	req := withAPIKey(newGetRequest(t, "/api/v1/footsteps/"+formatTestID(f.ID),
		map[string]string{"id": formatTestID(f.ID)}), author.ID, model.PermissionFootstepsRead)
	h.GetFootstep(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateFootstepRendersMarkdown(t *testing.T) {
	_, h, author := testSetup(t)

	body := `{"title":"목공 교실 후기","body_markdown":"오늘은 **의자**를 만들었습니다."}`
	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/footsteps", body, nil),
		author.ID, model.PermissionFootstepsWrite)
	h.CreateFootstep(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data FootstepResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	assert.Contains(t, resp.Data.BodyHTML, "<strong>의자</strong>")
	assert.Equal(t, "오늘은 **의자**를 만들었습니다.", resp.Data.BodyMarkdown)
	// Status defaults to published when omitted.
	assert.Equal(t, model.NewsStatusPublished, resp.Data.Status)
	assert.NotEmpty(t, resp.Data.Slug)
	assert.Equal(t, author.ID, resp.Data.AuthorID)
}

func TestCreateFootstepDerivedSlugSkipsDrafts(t *testing.T) {
	db, h, author := testSetup(t)

	// The slug column is unique across all statuses, so a draft must
	// push the derived slug to the next candidate.
	createTestFootstep(t, db, author.ID, "Hello", "hello", model.NewsStatusDraft)

	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/footsteps",
		`{"title":"Hello","body_markdown":"x"}`, nil),
		author.ID, model.PermissionFootstepsWrite)
	h.CreateFootstep(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data FootstepResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	assert.Equal(t, "hello-2", resp.Data.Slug)
}

func TestCreateFootstepRejectsSlugTakenByDraft(t *testing.T) {
	db, h, author := testSetup(t)

	createTestFootstep(t, db, author.ID, "초안", "taken-slug", model.NewsStatusDraft)

	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/footsteps",
		`{"title":"새 글","slug":"taken-slug"}`, nil),
		author.ID, model.PermissionFootstepsWrite)
	h.CreateFootstep(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	decodeResponse(t, rec, &resp)
	assert.Contains(t, resp.Error.Details, "slug")
}

func TestCreateFootstepValidation(t *testing.T) {
	_, h, author := testSetup(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing title", `{"body_markdown":"내용"}`, "title"},
		{"bad status", `{"title":"제목","status":"archived"}`, "status"},
		{"bad slug", `{"title":"제목","slug":"Not A Slug"}`, "slug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withAPIKey(newJSONRequest(t, http.MethodPost, "/api/v1/footsteps", tt.body, nil),
				author.ID, model.PermissionFootstepsWrite)
			h.CreateFootstep(rec, req)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var resp ErrorResponse
			decodeResponse(t, rec, &resp)
			assert.Contains(t, resp.Error.Details, tt.field)
		})
	}
}

func TestDeleteFootstep(t *testing.T) {
	db, h, author := testSetup(t)

	f := createTestFootstep(t, db, author.ID, "삭제할 글", "to-delete", model.NewsStatusPublished)
	params := map[string]string{"id": formatTestID(f.ID)}

	rec := httptest.NewRecorder()
	req := withAPIKey(newJSONRequest(t, http.MethodDelete, "/api/v1/footsteps/"+formatTestID(f.ID), "", params),
		author.ID, model.PermissionFootstepsWrite)
	h.DeleteFootstep(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	req = withAPIKey(newGetRequest(t, "/api/v1/footsteps/"+formatTestID(f.ID), params),
		author.ID, model.PermissionFootstepsRead)
	h.GetFootstep(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
