// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

const crewAppColumns = `id, user_id, name, email, phone, motivation,
	availability, status, decided_by, decided_at, created_at`

func scanCrewApplication(row interface{ Scan(...any) error }) (model.CrewApplication, error) {
	var a model.CrewApplication
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Email, &a.Phone, &a.Motivation,
		&a.Availability, &a.Status, &a.DecidedBy, &a.DecidedAt, &a.CreatedAt,
	)
	return a, err
}

// CreateCrewApplicationParams holds the fields for CreateCrewApplication.
type CreateCrewApplicationParams struct {
	UserID       sql.NullInt64
	Name         string
	Email        string
	Phone        string
	Motivation   string
	Availability string
}

// CreateCrewApplication inserts a crew application and returns the created row.
func (q *Queries) CreateCrewApplication(ctx context.Context, arg CreateCrewApplicationParams) (model.CrewApplication, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO crew_applications (user_id, name, email, phone, motivation, availability)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+crewAppColumns,
		arg.UserID, arg.Name, arg.Email, arg.Phone, arg.Motivation, arg.Availability,
	)
	return scanCrewApplication(row)
}

// GetCrewApplicationByID returns the application with the given ID.
func (q *Queries) GetCrewApplicationByID(ctx context.Context, id int64) (model.CrewApplication, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+crewAppColumns+` FROM crew_applications WHERE id = ?`, id)
	return scanCrewApplication(row)
}

// GetPendingCrewApplicationByUser returns a user's pending application,
// if any. Callers use this to prevent duplicate submissions.
func (q *Queries) GetPendingCrewApplicationByUser(ctx context.Context, userID int64) (model.CrewApplication, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+crewAppColumns+` FROM crew_applications
		WHERE user_id = ? AND status = 'pending'
		ORDER BY created_at DESC LIMIT 1`, userID)
	return scanCrewApplication(row)
}

// ListCrewApplicationsParams holds filters and pagination.
// Status is optional; empty means all statuses.
type ListCrewApplicationsParams struct {
	Status string
	Limit  int64
	Offset int64
}

// ListCrewApplications returns applications newest first, optionally
// filtered by status.
func (q *Queries) ListCrewApplications(ctx context.Context, arg ListCrewApplicationsParams) ([]model.CrewApplication, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+crewAppColumns+` FROM crew_applications
		WHERE (? = '' OR status = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		arg.Status, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.CrewApplication
	for rows.Next() {
		a, err := scanCrewApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// CountCrewApplications returns the number of applications matching a
// status filter; empty matches all.
func (q *Queries) CountCrewApplications(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM crew_applications WHERE (? = '' OR status = ?)`,
		status, status).Scan(&count)
	return count, err
}

// DecideCrewApplicationParams holds the fields for DecideCrewApplication.
type DecideCrewApplicationParams struct {
	ID        int64
	Status    string
	DecidedBy sql.NullInt64 // null when decided through the API
}

// DecideCrewApplication records an admin decision on an application.
func (q *Queries) DecideCrewApplication(ctx context.Context, arg DecideCrewApplicationParams) (model.CrewApplication, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE crew_applications
		SET status = ?, decided_by = ?, decided_at = ?
		WHERE id = ?
		RETURNING `+crewAppColumns,
		arg.Status, arg.DecidedBy, time.Now().UTC(), arg.ID,
	)
	return scanCrewApplication(row)
}

// DeleteCrewApplication removes an application.
func (q *Queries) DeleteCrewApplication(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM crew_applications WHERE id = ?`, id)
	return err
}
