// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Footstep represents an activity journal post. Authors write the body
// in Markdown; the rendered HTML is stored alongside the source so the
// public page never renders on the hot path.
type Footstep struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	BodyMarkdown string    `json:"body_markdown"`
	BodyHTML     string    `json:"body_html"`
	Status       string    `json:"status"`
	AuthorID     int64     `json:"author_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsPublished returns true if the post is visible on the public site.
func (f *Footstep) IsPublished() bool {
	return f.Status == NewsStatusPublished
}
