// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

const programColumns = `id, title, slug, summary, description, capacity,
	is_open, created_at, updated_at`

func scanProgram(row interface{ Scan(...any) error }) (model.Program, error) {
	var p model.Program
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Summary, &p.Description, &p.Capacity,
		&p.IsOpen, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// CreateProgramParams holds the fields for CreateProgram.
type CreateProgramParams struct {
	Title       string
	Slug        string
	Summary     string
	Description string
	Capacity    int64
	IsOpen      bool
}

// CreateProgram inserts a program and returns the created row.
func (q *Queries) CreateProgram(ctx context.Context, arg CreateProgramParams) (model.Program, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO programs (title, slug, summary, description, capacity, is_open)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+programColumns,
		arg.Title, arg.Slug, arg.Summary, arg.Description, arg.Capacity, arg.IsOpen,
	)
	return scanProgram(row)
}

// GetProgramByID returns the program with the given ID.
func (q *Queries) GetProgramByID(ctx context.Context, id int64) (model.Program, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs WHERE id = ?`, id)
	return scanProgram(row)
}

// GetProgramBySlug returns the program with the given slug.
func (q *Queries) GetProgramBySlug(ctx context.Context, slug string) (model.Program, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs WHERE slug = ?`, slug)
	return scanProgram(row)
}

// ListPrograms returns all programs, newest first.
func (q *Queries) ListPrograms(ctx context.Context) ([]model.Program, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+programColumns+` FROM programs
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// CountPrograms returns the total number of programs.
func (q *Queries) CountPrograms(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM programs`).Scan(&count)
	return count, err
}

// UpdateProgramParams holds the fields for UpdateProgram.
type UpdateProgramParams struct {
	ID          int64
	Title       string
	Slug        string
	Summary     string
	Description string
	Capacity    int64
	IsOpen      bool
}

// UpdateProgram updates a program and returns the updated row.
func (q *Queries) UpdateProgram(ctx context.Context, arg UpdateProgramParams) (model.Program, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE programs
		SET title = ?, slug = ?, summary = ?, description = ?, capacity = ?,
			is_open = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING `+programColumns,
		arg.Title, arg.Slug, arg.Summary, arg.Description, arg.Capacity,
		arg.IsOpen, arg.ID,
	)
	return scanProgram(row)
}

// DeleteProgram removes a program and its sessions.
func (q *Queries) DeleteProgram(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	return err
}

// CreateProgramSessionParams holds the fields for CreateProgramSession.
type CreateProgramSessionParams struct {
	ProgramID int64
	StartsAt  time.Time
	Location  string
	Capacity  int64
}

// CreateProgramSession inserts a scheduled session for a program.
func (q *Queries) CreateProgramSession(ctx context.Context, arg CreateProgramSessionParams) (model.ProgramSession, error) {
	var s model.ProgramSession
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO program_sessions (program_id, starts_at, location, capacity)
		VALUES (?, ?, ?, ?)
		RETURNING id, program_id, starts_at, location, capacity, created_at`,
		arg.ProgramID, arg.StartsAt, arg.Location, arg.Capacity,
	)
	err := row.Scan(&s.ID, &s.ProgramID, &s.StartsAt, &s.Location, &s.Capacity, &s.CreatedAt)
	return s, err
}

// ListProgramSessions returns a program's sessions in start order.
func (q *Queries) ListProgramSessions(ctx context.Context, programID int64) ([]model.ProgramSession, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, program_id, starts_at, location, capacity, created_at
		FROM program_sessions
		WHERE program_id = ?
		ORDER BY starts_at ASC`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.ProgramSession
	for rows.Next() {
		var s model.ProgramSession
		if err := rows.Scan(&s.ID, &s.ProgramID, &s.StartsAt, &s.Location, &s.Capacity, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// DeleteProgramSession removes a session.
func (q *Queries) DeleteProgramSession(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM program_sessions WHERE id = ?`, id)
	return err
}

const programAppColumns = `id, program_id, session_id, name, email, phone,
	note, status, created_at`

func scanProgramApplication(row interface{ Scan(...any) error }) (model.ProgramApplication, error) {
	var a model.ProgramApplication
	err := row.Scan(
		&a.ID, &a.ProgramID, &a.SessionID, &a.Name, &a.Email, &a.Phone,
		&a.Note, &a.Status, &a.CreatedAt,
	)
	return a, err
}

// CreateProgramApplicationParams holds the fields for CreateProgramApplication.
type CreateProgramApplicationParams struct {
	ProgramID int64
	SessionID sql.NullInt64
	Name      string
	Email     string
	Phone     string
	Note      string
}

// CreateProgramApplication inserts a participation request.
func (q *Queries) CreateProgramApplication(ctx context.Context, arg CreateProgramApplicationParams) (model.ProgramApplication, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO program_applications (program_id, session_id, name, email, phone, note)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+programAppColumns,
		arg.ProgramID, arg.SessionID, arg.Name, arg.Email, arg.Phone, arg.Note,
	)
	return scanProgramApplication(row)
}

// ListProgramApplications returns a program's applications, newest first.
func (q *Queries) ListProgramApplications(ctx context.Context, programID int64) ([]model.ProgramApplication, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+programAppColumns+` FROM program_applications
		WHERE program_id = ?
		ORDER BY created_at DESC, id DESC`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.ProgramApplication
	for rows.Next() {
		a, err := scanProgramApplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// UpdateProgramApplicationStatus sets an application's status.
func (q *Queries) UpdateProgramApplicationStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE program_applications SET status = ? WHERE id = ?`, status, id)
	return err
}

// ProgramApplicationRow is an application joined with its program title,
// for the member's application history.
type ProgramApplicationRow struct {
	model.ProgramApplication
	ProgramTitle string
}

// ListProgramApplicationsByEmail returns a member's applications across
// all programs, newest first.
func (q *Queries) ListProgramApplicationsByEmail(ctx context.Context, email string) ([]ProgramApplicationRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT a.id, a.program_id, a.session_id, a.name, a.email, a.phone,
			a.note, a.status, a.created_at, p.title
		FROM program_applications a
		JOIN programs p ON p.id = a.program_id
		WHERE a.email = ?
		ORDER BY a.created_at DESC, a.id DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ProgramApplicationRow
	for rows.Next() {
		var row ProgramApplicationRow
		err := rows.Scan(
			&row.ID, &row.ProgramID, &row.SessionID, &row.Name, &row.Email,
			&row.Phone, &row.Note, &row.Status, &row.CreatedAt, &row.ProgramTitle,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, row)
	}
	return items, rows.Err()
}
