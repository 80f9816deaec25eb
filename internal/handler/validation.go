// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/mail"
	"strings"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/util"
)

// minPasswordLength is the minimum accepted password length for
// registration and password changes.
const minPasswordLength = 8

// validateEmail reports whether the address parses as a bare RFC 5322
// address (no display name).
func validateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// validatePassword returns an error message, or "" when acceptable.
func validatePassword(password string) string {
	if len(password) < minPasswordLength {
		return "비밀번호는 8자 이상이어야 합니다"
	}
	return ""
}

// resolveSlug returns the submitted slug when valid, or derives one
// from the title. exists reports whether a candidate slug is taken.
func resolveSlug(slug, title string, exists func(string) bool) (string, string) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return util.UniqueSlug(title, exists), ""
	}
	if !util.IsValidSlug(slug) {
		return "", "슬러그는 소문자, 숫자, 하이픈만 사용할 수 있습니다"
	}
	if exists(slug) {
		return "", "이미 사용 중인 슬러그입니다"
	}
	return slug, ""
}
