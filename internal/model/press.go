// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Press represents a media coverage entry linking to an external article.
type Press struct {
	ID            int64        `json:"id"`
	Title         string       `json:"title"`
	Outlet        string       `json:"outlet"`
	ArticleURL    string       `json:"article_url"`
	Excerpt       string       `json:"excerpt,omitempty"`
	ThumbnailPath string       `json:"thumbnail_path,omitempty"`
	PublishedOn   sql.NullTime `json:"published_on,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
