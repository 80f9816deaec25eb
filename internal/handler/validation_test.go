// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "kim.haneul@dreamhouse.coop"}
	for _, email := range valid {
		if !validateEmail(email) {
			t.Errorf("validateEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{"", "no-at-sign", "Kim <user@example.com>", "user@"}
	for _, email := range invalid {
		if validateEmail(email) {
			t.Errorf("validateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if msg := validatePassword("short"); msg == "" {
		t.Error("expected error message for short password")
	}
	if msg := validatePassword("longenough1!"); msg != "" {
		t.Errorf("unexpected error for valid password: %q", msg)
	}
}

func TestResolveSlug(t *testing.T) {
	taken := func(s string) bool { return s == "taken-slug" }

	slug, errMsg := resolveSlug("my-post", "제목", taken)
	if errMsg != "" || slug != "my-post" {
		t.Errorf("resolveSlug valid = (%q, %q)", slug, errMsg)
	}

	slug, errMsg = resolveSlug("", "Hello World", taken)
	if errMsg != "" || slug != "hello-world" {
		t.Errorf("resolveSlug derived = (%q, %q)", slug, errMsg)
	}

	if _, errMsg = resolveSlug("Bad Slug!", "제목", taken); errMsg == "" {
		t.Error("expected error for invalid slug format")
	}

	if _, errMsg = resolveSlug("taken-slug", "제목", taken); errMsg == "" {
		t.Error("expected error for duplicate slug")
	}
}
