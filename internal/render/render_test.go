// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"io/fs"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/i18n"
	"github.com/dreamhouse-coop/dreamhouse-go/web"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()

	if err := i18n.Init(nil); err != nil {
		t.Fatalf("i18n.Init: %v", err)
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}

	r, err := New(Config{TemplatesFS: templatesFS})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNewParsesAllGroups(t *testing.T) {
	r := testRenderer(t)

	for _, name := range []string{
		"frontend/home",
		"frontend/news_list",
		"frontend/contact",
		"auth/login",
		"auth/register",
		"admin/dashboard",
		"admin/news_form",
		"admin/crew_list",
	} {
		if !r.HasTemplate(name) {
			t.Errorf("template %s not parsed", name)
		}
	}
}

func TestRenderErrorPage(t *testing.T) {
	r := testRenderer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/missing", nil)

	err := r.Render(w, req, "frontend/error", TemplateData{
		Title:    "Not Found",
		SiteName: "드림하우스",
		Lang:     "ko",
		Data:     map[string]any{"Code": 404, "Message": "페이지를 찾을 수 없습니다"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := w.Body.String()
	if !strings.Contains(body, "404") {
		t.Error("rendered page missing error code")
	}
	if !strings.Contains(body, "드림하우스") {
		t.Error("rendered page missing site name")
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := testRenderer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	if err := r.Render(w, req, "frontend/does_not_exist", TemplateData{}); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestTemplateFuncs(t *testing.T) {
	r := testRenderer(t)
	funcs := r.templateFuncs()

	truncate := funcs["truncate"].(func(string, int) string)
	if got := truncate("가나다라마바사", 3); got != "가나다..." {
		t.Errorf("truncate = %q, want 가나다...", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q, want unchanged", got)
	}

	add := funcs["add"].(func(int, int) int)
	if got := add(2, 3); got != 5 {
		t.Errorf("add = %d, want 5", got)
	}

	seq := funcs["seq"].(func(int, int) []int)
	if got := seq(1, 3); len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("seq(1,3) = %v", got)
	}
}
