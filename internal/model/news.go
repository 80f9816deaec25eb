// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// News categories shown on the public news page.
const (
	NewsCategoryNews   = "news"
	NewsCategoryNotice = "notice"
)

// News publication statuses.
const (
	NewsStatusDraft     = "draft"
	NewsStatusPublished = "published"
)

// ValidNewsCategories contains all valid news categories.
var ValidNewsCategories = []string{NewsCategoryNews, NewsCategoryNotice}

// IsValidNewsCategory checks if a category is valid.
func IsValidNewsCategory(category string) bool {
	for _, c := range ValidNewsCategories {
		if c == category {
			return true
		}
	}
	return false
}

// IsValidNewsStatus checks if a news status is valid.
func IsValidNewsStatus(status string) bool {
	return status == NewsStatusDraft || status == NewsStatusPublished
}

// News represents a news article or notice.
type News struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Slug          string       `json:"slug"`
	Body          string       `json:"body"`
	Category      string       `json:"category"`
	Status        string       `json:"status"`
	AuthorID      int64        `json:"author_id"`
	ThumbnailPath string       `json:"thumbnail_path,omitempty"`
	PublishedAt   sql.NullTime `json:"published_at,omitempty"`
	ScheduledAt   sql.NullTime `json:"scheduled_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// IsPublished returns true if the article is published.
func (n *News) IsPublished() bool {
	return n.Status == NewsStatusPublished
}

// IsNotice returns true if the article is a notice.
func (n *News) IsNotice() bool {
	return n.Category == NewsCategoryNotice
}
