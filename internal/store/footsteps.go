// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

const footstepColumns = `id, title, slug, body_markdown, body_html, status,
	author_id, created_at, updated_at`

func scanFootstep(row interface{ Scan(...any) error }) (model.Footstep, error) {
	var f model.Footstep
	err := row.Scan(
		&f.ID, &f.Title, &f.Slug, &f.BodyMarkdown, &f.BodyHTML, &f.Status,
		&f.AuthorID, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}

func collectFootsteps(rows *sql.Rows) ([]model.Footstep, error) {
	defer rows.Close()
	var items []model.Footstep
	for rows.Next() {
		f, err := scanFootstep(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// CreateFootstepParams holds the fields for CreateFootstep.
type CreateFootstepParams struct {
	Title        string
	Slug         string
	BodyMarkdown string
	BodyHTML     string
	Status       string
	AuthorID     int64
}

// CreateFootstep inserts a journal post and returns the created row.
func (q *Queries) CreateFootstep(ctx context.Context, arg CreateFootstepParams) (model.Footstep, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO footsteps (title, slug, body_markdown, body_html, status, author_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+footstepColumns,
		arg.Title, arg.Slug, arg.BodyMarkdown, arg.BodyHTML, arg.Status, arg.AuthorID,
	)
	return scanFootstep(row)
}

// GetFootstepByID returns the post with the given ID.
func (q *Queries) GetFootstepByID(ctx context.Context, id int64) (model.Footstep, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+footstepColumns+` FROM footsteps WHERE id = ?`, id)
	return scanFootstep(row)
}

// GetFootstepBySlug returns the post with the given slug regardless of
// status. Slugs are unique across drafts and published posts.
func (q *Queries) GetFootstepBySlug(ctx context.Context, slug string) (model.Footstep, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+footstepColumns+` FROM footsteps WHERE slug = ?`, slug)
	return scanFootstep(row)
}

// GetPublishedFootstepBySlug returns a published post by slug.
func (q *Queries) GetPublishedFootstepBySlug(ctx context.Context, slug string) (model.Footstep, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+footstepColumns+` FROM footsteps WHERE slug = ? AND status = 'published'`, slug)
	return scanFootstep(row)
}

// ListFootstepsParams holds pagination for ListFootsteps.
type ListFootstepsParams struct {
	Limit  int64
	Offset int64
}

// ListFootsteps returns all posts for the admin console, newest first.
func (q *Queries) ListFootsteps(ctx context.Context, arg ListFootstepsParams) ([]model.Footstep, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+footstepColumns+` FROM footsteps
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectFootsteps(rows)
}

// ListPublishedFootsteps returns published posts, newest first.
func (q *Queries) ListPublishedFootsteps(ctx context.Context, arg ListFootstepsParams) ([]model.Footstep, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+footstepColumns+` FROM footsteps
		WHERE status = 'published'
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectFootsteps(rows)
}

// ListFootstepsByAuthor returns an author's posts, newest first.
func (q *Queries) ListFootstepsByAuthor(ctx context.Context, authorID int64) ([]model.Footstep, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+footstepColumns+` FROM footsteps
		WHERE author_id = ?
		ORDER BY created_at DESC, id DESC`, authorID)
	if err != nil {
		return nil, err
	}
	return collectFootsteps(rows)
}

// CountFootsteps returns the total number of posts.
func (q *Queries) CountFootsteps(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM footsteps`).Scan(&count)
	return count, err
}

// CountPublishedFootsteps returns the number of published posts.
func (q *Queries) CountPublishedFootsteps(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM footsteps WHERE status = 'published'`).Scan(&count)
	return count, err
}

// UpdateFootstepParams holds the fields for UpdateFootstep.
type UpdateFootstepParams struct {
	ID           int64
	Title        string
	Slug         string
	BodyMarkdown string
	BodyHTML     string
	Status       string
}

// UpdateFootstep updates a post and returns the updated row.
func (q *Queries) UpdateFootstep(ctx context.Context, arg UpdateFootstepParams) (model.Footstep, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE footsteps
		SET title = ?, slug = ?, body_markdown = ?, body_html = ?, status = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING `+footstepColumns,
		arg.Title, arg.Slug, arg.BodyMarkdown, arg.BodyHTML, arg.Status, arg.ID,
	)
	return scanFootstep(row)
}

// DeleteFootstep removes a post.
func (q *Queries) DeleteFootstep(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM footsteps WHERE id = ?`, id)
	return err
}
