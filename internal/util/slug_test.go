// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"accents", "Café au Lait", "cafe-au-lait"},
		{"punctuation", "What's New? (2026 Edition)", "whats-new-2026-edition"},
		{"multiple spaces", "too   many   spaces", "too-many-spaces"},
		{"leading and trailing", " -trimmed- ", "trimmed"},
		{"already a slug", "winter-camp-2026", "winter-camp-2026"},
		{"empty", "", ""},
		{"only symbols", "!@#$%", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyKorean(t *testing.T) {
	// Hangul titles must transliterate to non-empty ASCII slugs rather
	// than collapsing to an empty string.
	inputs := []string{
		"꿈의집 겨울 캠프",
		"2026년 정기총회 안내",
		"마을학교 소식",
	}

	for _, in := range inputs {
		got := Slugify(in)
		if got == "" {
			t.Errorf("Slugify(%q) produced empty slug", in)
			continue
		}
		if !IsValidSlug(got) {
			t.Errorf("Slugify(%q) = %q, not a valid slug", in, got)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{
		"winter-camp": true,
		"notice":      true,
		"notice-2":    true,
	}
	exists := func(s string) bool { return taken[s] }

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"free slug", "Summer Camp", "summer-camp"},
		{"taken once", "Winter Camp", "winter-camp-2"},
		{"taken twice", "Notice", "notice-3"},
		{"unsluggable", "!!!", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UniqueSlug(tt.title, exists); got != tt.want {
				t.Errorf("UniqueSlug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid", "hello-world", true},
		{"valid with numbers", "camp-2026", true},
		{"empty", "", false},
		{"uppercase", "Hello", false},
		{"leading hyphen", "-hello", false},
		{"trailing hyphen", "hello-", false},
		{"consecutive hyphens", "hello--world", false},
		{"spaces", "hello world", false},
		{"hangul", "공지사항", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidSlug(tt.input); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
