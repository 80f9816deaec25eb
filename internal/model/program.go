// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Program represents an educational program offered by the cooperative.
type Program struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary,omitempty"`
	Description string    `json:"description,omitempty"`
	Capacity    int64     `json:"capacity"`
	IsOpen      bool      `json:"is_open"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProgramSession is a scheduled run of a program.
type ProgramSession struct {
	ID        int64     `json:"id"`
	ProgramID int64     `json:"program_id"`
	StartsAt  time.Time `json:"starts_at"`
	Location  string    `json:"location,omitempty"`
	Capacity  int64     `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

// ProgramApplication is a participation request for a program.
type ProgramApplication struct {
	ID        int64         `json:"id"`
	ProgramID int64         `json:"program_id"`
	SessionID sql.NullInt64 `json:"session_id,omitempty"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Note      string        `json:"note,omitempty"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
