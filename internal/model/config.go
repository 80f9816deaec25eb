// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Config keys
const (
	ConfigKeySiteName     = "site_name"
	ConfigKeyContactEmail = "contact_email"
	ConfigKeyHeroVideoURL = "hero_video_url"
)

// KnownConfigKeys lists the keys the admin settings form edits.
var KnownConfigKeys = []string{
	ConfigKeySiteName,
	ConfigKeyContactEmail,
	ConfigKeyHeroVideoURL,
}

// Config is a site-wide key/value setting.
type Config struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
