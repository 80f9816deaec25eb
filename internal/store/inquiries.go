// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

const inquiryColumns = `id, name, email, phone, subject, message, status,
	answer, client_ip, user_agent, browser, created_at, answered_at`

func scanInquiry(row interface{ Scan(...any) error }) (model.Inquiry, error) {
	var i model.Inquiry
	err := row.Scan(
		&i.ID, &i.Name, &i.Email, &i.Phone, &i.Subject, &i.Message, &i.Status,
		&i.Answer, &i.ClientIP, &i.UserAgent, &i.Browser, &i.CreatedAt, &i.AnsweredAt,
	)
	return i, err
}

// CreateInquiryParams holds the fields for CreateInquiry.
type CreateInquiryParams struct {
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	ClientIP  string
	UserAgent string
	Browser   string
}

// CreateInquiry inserts a contact form submission and returns the created row.
func (q *Queries) CreateInquiry(ctx context.Context, arg CreateInquiryParams) (model.Inquiry, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO inquiries (name, email, phone, subject, message, client_ip, user_agent, browser)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+inquiryColumns,
		arg.Name, arg.Email, arg.Phone, arg.Subject, arg.Message,
		arg.ClientIP, arg.UserAgent, arg.Browser,
	)
	return scanInquiry(row)
}

// GetInquiryByID returns the inquiry with the given ID.
func (q *Queries) GetInquiryByID(ctx context.Context, id int64) (model.Inquiry, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+inquiryColumns+` FROM inquiries WHERE id = ?`, id)
	return scanInquiry(row)
}

// ListInquiriesParams holds filters and pagination for ListInquiries.
// Status is optional; empty means all statuses.
type ListInquiriesParams struct {
	Status string
	Limit  int64
	Offset int64
}

// ListInquiries returns inquiries newest first, optionally filtered by status.
func (q *Queries) ListInquiries(ctx context.Context, arg ListInquiriesParams) ([]model.Inquiry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+inquiryColumns+` FROM inquiries
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		arg.Status, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Inquiry
	for rows.Next() {
		i, err := scanInquiry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// CountInquiries returns the number of inquiries matching a status
// filter; empty matches all.
func (q *Queries) CountInquiries(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM inquiries WHERE (? = '' OR status = ?)`,
		status, status).Scan(&count)
	return count, err
}

// CountNewInquiries returns the number of unanswered inquiries.
func (q *Queries) CountNewInquiries(ctx context.Context) (int64, error) {
	return q.CountInquiries(ctx, model.InquiryStatusNew)
}

// AnswerInquiryParams holds the fields for AnswerInquiry.
type AnswerInquiryParams struct {
	ID     int64
	Answer string
}

// AnswerInquiry records an admin reply and marks the inquiry answered.
func (q *Queries) AnswerInquiry(ctx context.Context, arg AnswerInquiryParams) (model.Inquiry, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE inquiries
		SET answer = ?, status = 'answered', answered_at = ?
		WHERE id = ?
		RETURNING `+inquiryColumns,
		arg.Answer, time.Now().UTC(), arg.ID,
	)
	return scanInquiry(row)
}

// UpdateInquiryStatus sets the inquiry status without an answer.
func (q *Queries) UpdateInquiryStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE inquiries SET status = ? WHERE id = ?`, status, id)
	return err
}

// DeleteInquiry removes an inquiry.
func (q *Queries) DeleteInquiry(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM inquiries WHERE id = ?`, id)
	return err
}
