// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application
// including User, News, Inquiry, CrewApplication, and configuration structures.
package model

import (
	"database/sql"
	"time"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleCrew   = "crew"
	RoleMember = "member"
)

// Crew application / status values. A user carries crew_status only after
// applying for crew; NULL means never applied.
const (
	CrewStatusPending  = "pending"
	CrewStatusApproved = "approved"
	CrewStatusRejected = "rejected"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleAdmin, RoleCrew, RoleMember}

// User represents a cooperative member account.
type User struct {
	ID              int64          `json:"id"`
	Email           string         `json:"email"`
	PasswordHash    string         `json:"-"` // Never expose in JSON
	Name            string         `json:"name"`
	Phone           string         `json:"phone,omitempty"`
	Gender          string         `json:"gender,omitempty"`
	JoinPath        string         `json:"join_path,omitempty"`
	FirstImpression string         `json:"first_impression,omitempty"`
	Role            string         `json:"role"`
	CrewStatus      sql.NullString `json:"crew_status,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	LastLoginAt     sql.NullTime   `json:"last_login_at,omitempty"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsCrew returns true if the user has elevated crew access: an approved crew
// member or an admin. A pending or rejected crew applicant is not crew.
func (u *User) IsCrew() bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Role == RoleCrew && u.CrewStatus.Valid && u.CrewStatus.String == CrewStatusApproved
}

// IsValidRole checks if a role string is one of the known roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidCrewStatus checks if a crew status string is one of the known values.
func IsValidCrewStatus(status string) bool {
	switch status {
	case CrewStatusPending, CrewStatusApproved, CrewStatusRejected:
		return true
	}
	return false
}
