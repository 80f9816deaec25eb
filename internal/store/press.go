// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

const pressColumns = `id, title, outlet, article_url, excerpt, thumbnail_path,
	published_on, created_at, updated_at`

func scanPress(row interface{ Scan(...any) error }) (model.Press, error) {
	var p model.Press
	err := row.Scan(
		&p.ID, &p.Title, &p.Outlet, &p.ArticleURL, &p.Excerpt, &p.ThumbnailPath,
		&p.PublishedOn, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// CreatePressParams holds the fields for CreatePress.
type CreatePressParams struct {
	Title         string
	Outlet        string
	ArticleURL    string
	Excerpt       string
	ThumbnailPath string
	PublishedOn   sql.NullTime
}

// CreatePress inserts a media coverage entry and returns the created row.
func (q *Queries) CreatePress(ctx context.Context, arg CreatePressParams) (model.Press, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO press (title, outlet, article_url, excerpt, thumbnail_path, published_on)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+pressColumns,
		arg.Title, arg.Outlet, arg.ArticleURL, arg.Excerpt, arg.ThumbnailPath, arg.PublishedOn,
	)
	return scanPress(row)
}

// GetPressByID returns the entry with the given ID.
func (q *Queries) GetPressByID(ctx context.Context, id int64) (model.Press, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+pressColumns+` FROM press WHERE id = ?`, id)
	return scanPress(row)
}

// ListPressParams holds pagination for ListPress.
type ListPressParams struct {
	Limit  int64
	Offset int64
}

// ListPress returns entries newest first by publication date, with
// creation time as a tiebreaker for undated entries.
func (q *Queries) ListPress(ctx context.Context, arg ListPressParams) ([]model.Press, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+pressColumns+` FROM press
		ORDER BY published_on DESC, created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Press
	for rows.Next() {
		p, err := scanPress(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// CountPress returns the total number of entries.
func (q *Queries) CountPress(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM press`).Scan(&count)
	return count, err
}

// UpdatePressParams holds the fields for UpdatePress.
type UpdatePressParams struct {
	ID            int64
	Title         string
	Outlet        string
	ArticleURL    string
	Excerpt       string
	ThumbnailPath string
	PublishedOn   sql.NullTime
}

// UpdatePress updates an entry and returns the updated row.
func (q *Queries) UpdatePress(ctx context.Context, arg UpdatePressParams) (model.Press, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE press
		SET title = ?, outlet = ?, article_url = ?, excerpt = ?,
			thumbnail_path = ?, published_on = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING `+pressColumns,
		arg.Title, arg.Outlet, arg.ArticleURL, arg.Excerpt,
		arg.ThumbnailPath, arg.PublishedOn, arg.ID,
	)
	return scanPress(row)
}

// DeletePress removes an entry.
func (q *Queries) DeletePress(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM press WHERE id = ?`, id)
	return err
}
