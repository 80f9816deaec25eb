// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

const newsColumns = `id, title, slug, body, category, status, author_id,
	thumbnail_path, published_at, scheduled_at, created_at, updated_at`

func scanNews(row interface{ Scan(...any) error }) (model.News, error) {
	var n model.News
	err := row.Scan(
		&n.ID, &n.Title, &n.Slug, &n.Body, &n.Category, &n.Status, &n.AuthorID,
		&n.ThumbnailPath, &n.PublishedAt, &n.ScheduledAt, &n.CreatedAt, &n.UpdatedAt,
	)
	return n, err
}

func collectNews(rows *sql.Rows) ([]model.News, error) {
	defer rows.Close()
	var items []model.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// CreateNewsParams holds the fields for CreateNews.
type CreateNewsParams struct {
	Title         string
	Slug          string
	Body          string
	Category      string
	Status        string
	AuthorID      int64
	ThumbnailPath string
	PublishedAt   sql.NullTime
	ScheduledAt   sql.NullTime
}

// CreateNews inserts a news article and returns the created row.
func (q *Queries) CreateNews(ctx context.Context, arg CreateNewsParams) (model.News, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO news (title, slug, body, category, status, author_id, thumbnail_path, published_at, scheduled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+newsColumns,
		arg.Title, arg.Slug, arg.Body, arg.Category, arg.Status, arg.AuthorID,
		arg.ThumbnailPath, arg.PublishedAt, arg.ScheduledAt,
	)
	return scanNews(row)
}

// GetNewsByID returns the article with the given ID.
func (q *Queries) GetNewsByID(ctx context.Context, id int64) (model.News, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+newsColumns+` FROM news WHERE id = ?`, id)
	return scanNews(row)
}

// GetNewsBySlug returns the article with the given slug.
func (q *Queries) GetNewsBySlug(ctx context.Context, slug string) (model.News, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+newsColumns+` FROM news WHERE slug = ?`, slug)
	return scanNews(row)
}

// GetPublishedNewsBySlug returns a published article by slug.
func (q *Queries) GetPublishedNewsBySlug(ctx context.Context, slug string) (model.News, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+newsColumns+` FROM news WHERE slug = ? AND status = 'published'`, slug)
	return scanNews(row)
}

// ListNewsParams holds filters and pagination for ListNews.
type ListNewsParams struct {
	Limit  int64
	Offset int64
}

// ListNews returns all articles for the admin console, newest first.
func (q *Queries) ListNews(ctx context.Context, arg ListNewsParams) ([]model.News, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+newsColumns+` FROM news
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectNews(rows)
}

// ListPublishedNewsParams holds filters for the public news listing.
// Category is optional; empty means all categories.
type ListPublishedNewsParams struct {
	Category string
	Limit    int64
	Offset   int64
}

// ListPublishedNews returns published articles for the public site,
// newest first, optionally filtered by category.
func (q *Queries) ListPublishedNews(ctx context.Context, arg ListPublishedNewsParams) ([]model.News, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+newsColumns+` FROM news
		WHERE status = 'published' AND (? = '' OR category = ?)
		ORDER BY published_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		arg.Category, arg.Category, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectNews(rows)
}

// CountNews returns the total number of articles.
func (q *Queries) CountNews(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news`).Scan(&count)
	return count, err
}

// CountPublishedNews returns the number of published articles matching a
// category filter; empty matches all.
func (q *Queries) CountPublishedNews(ctx context.Context, category string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM news
		WHERE status = 'published' AND (? = '' OR category = ?)`,
		category, category).Scan(&count)
	return count, err
}

// UpdateNewsParams holds the fields for UpdateNews.
type UpdateNewsParams struct {
	ID            int64
	Title         string
	Slug          string
	Body          string
	Category      string
	Status        string
	ThumbnailPath string
	PublishedAt   sql.NullTime
	ScheduledAt   sql.NullTime
}

// UpdateNews updates an article and returns the updated row.
func (q *Queries) UpdateNews(ctx context.Context, arg UpdateNewsParams) (model.News, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE news
		SET title = ?, slug = ?, body = ?, category = ?, status = ?,
			thumbnail_path = ?, published_at = ?, scheduled_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING `+newsColumns,
		arg.Title, arg.Slug, arg.Body, arg.Category, arg.Status,
		arg.ThumbnailPath, arg.PublishedAt, arg.ScheduledAt, arg.ID,
	)
	return scanNews(row)
}

// PublishDueNews flips scheduled articles whose time has arrived to
// published. Returns the number of articles published.
func (q *Queries) PublishDueNews(ctx context.Context) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE news
		SET status = 'published', published_at = scheduled_at, scheduled_at = NULL,
			updated_at = CURRENT_TIMESTAMP
		WHERE status = 'draft' AND scheduled_at IS NOT NULL AND scheduled_at <= CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteNews removes an article.
func (q *Queries) DeleteNews(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	return err
}
