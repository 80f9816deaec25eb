// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Inquiry statuses. New submissions start as "new"; an admin reply moves them
// to "answered"; "closed" ends the thread without a reply.
const (
	InquiryStatusNew      = "new"
	InquiryStatusAnswered = "answered"
	InquiryStatusClosed   = "closed"
)

// ValidInquiryStatuses contains all valid inquiry statuses.
var ValidInquiryStatuses = []string{InquiryStatusNew, InquiryStatusAnswered, InquiryStatusClosed}

// IsValidInquiryStatus checks if an inquiry status is valid.
func IsValidInquiryStatus(status string) bool {
	for _, s := range ValidInquiryStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Application statuses shared by crew and program applications.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// IsValidApplicationStatus checks if an application status is valid.
func IsValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// Inquiry represents a contact form submission.
type Inquiry struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone,omitempty"`
	Subject    string       `json:"subject"`
	Message    string       `json:"message"`
	Status     string       `json:"status"`
	Answer     string       `json:"answer,omitempty"`
	ClientIP   string       `json:"client_ip,omitempty"`
	UserAgent  string       `json:"user_agent,omitempty"`
	Browser    string       `json:"browser,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	AnsweredAt sql.NullTime `json:"answered_at,omitempty"`
}

// CrewApplication represents a volunteer crew application. UserID is
// set when the applicant was signed in at submission time; approving
// such an application promotes the linked account to the crew role.
type CrewApplication struct {
	ID           int64         `json:"id"`
	UserID       sql.NullInt64 `json:"user_id,omitempty"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone,omitempty"`
	Motivation   string        `json:"motivation"`
	Availability string        `json:"availability,omitempty"`
	Status       string        `json:"status"`
	DecidedBy    sql.NullInt64 `json:"decided_by,omitempty"`
	DecidedAt    sql.NullTime  `json:"decided_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// IsPending returns true while no admin decision has been made.
func (a *CrewApplication) IsPending() bool {
	return a.Status == ApplicationStatusPending
}
