// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

// APIListParams holds filtering, ordering, and pagination for the JSON
// API list endpoints. OrderBy must be one of the resource's allowed
// columns; the query builders fall back to created_at otherwise.
type APIListParams struct {
	Status   string
	Category string
	OrderBy  string
	Desc     bool
	Limit    int64
	Offset   int64
}

// Per-resource ORDER BY whitelists. Anything else falls back to
// created_at so the column name can be spliced into SQL safely.
var (
	newsOrderColumns      = map[string]bool{"id": true, "title": true, "category": true, "status": true, "published_at": true, "created_at": true, "updated_at": true}
	pressOrderColumns     = map[string]bool{"id": true, "title": true, "outlet": true, "published_on": true, "created_at": true}
	footstepsOrderColumns = map[string]bool{"id": true, "title": true, "status": true, "created_at": true, "updated_at": true}
	crewOrderColumns      = map[string]bool{"id": true, "name": true, "email": true, "status": true, "created_at": true}
)

func orderClause(allowed map[string]bool, arg APIListParams) string {
	column := arg.OrderBy
	if !allowed[column] {
		column = "created_at"
	}
	dir := "ASC"
	if arg.Desc {
		dir = "DESC"
	}
	return " ORDER BY " + column + " " + dir + ", id " + dir
}

// ListNewsForAPI returns articles filtered by status and category.
func (q *Queries) ListNewsForAPI(ctx context.Context, arg APIListParams) ([]model.News, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+newsColumns+` FROM news
		WHERE (? = '' OR status = ?) AND (? = '' OR category = ?)`+
		orderClause(newsOrderColumns, arg)+`
		LIMIT ? OFFSET ?`,
		arg.Status, arg.Status, arg.Category, arg.Category, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
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

// CountNewsForAPI counts articles matching the API filters.
func (q *Queries) CountNewsForAPI(ctx context.Context, status, category string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM news
		WHERE (? = '' OR status = ?) AND (? = '' OR category = ?)`,
		status, status, category, category).Scan(&count)
	return count, err
}

// ListPressForAPI returns coverage entries with API ordering.
func (q *Queries) ListPressForAPI(ctx context.Context, arg APIListParams) ([]model.Press, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+pressColumns+` FROM press`+
		orderClause(pressOrderColumns, arg)+`
		LIMIT ? OFFSET ?`,
		arg.Limit, arg.Offset)
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

// ListFootstepsForAPI returns journal posts filtered by status.
func (q *Queries) ListFootstepsForAPI(ctx context.Context, arg APIListParams) ([]model.Footstep, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+footstepColumns+` FROM footsteps
		WHERE (? = '' OR status = ?)`+
		orderClause(footstepsOrderColumns, arg)+`
		LIMIT ? OFFSET ?`,
		arg.Status, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
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

// CountFootstepsForAPI counts journal posts matching the API filters.
func (q *Queries) CountFootstepsForAPI(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM footsteps WHERE (? = '' OR status = ?)`,
		status, status).Scan(&count)
	return count, err
}

// ListCrewApplicationsForAPI returns crew applications with API
// ordering and an optional status filter.
func (q *Queries) ListCrewApplicationsForAPI(ctx context.Context, arg APIListParams) ([]model.CrewApplication, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+crewAppColumns+` FROM crew_applications
		WHERE (? = '' OR status = ?)`+
		orderClause(crewOrderColumns, arg)+`
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
