// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

const eventColumns = `id, level, category, message, user_id, metadata,
	ip_address, created_at`

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.Metadata,
		&e.IPAddress, &e.CreatedAt,
	)
	return e, err
}

// CreateEventParams holds the fields for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    int64
	Metadata  string
	IPAddress string
}

// CreateEvent inserts an audit event. UserID of zero records no user.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	var userID any
	if arg.UserID > 0 {
		userID = arg.UserID
	}
	metadata := arg.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO events (level, category, message, user_id, metadata, ip_address)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, userID, metadata, arg.IPAddress)
	return err
}

// ListEventsParams holds filters and pagination for ListEvents.
// Level and Category are optional; empty matches all.
type ListEventsParams struct {
	Level    string
	Category string
	Limit    int64
	Offset   int64
}

// ListEvents returns events newest first with optional level and
// category filters.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE (? = '' OR level = ?) AND (? = '' OR category = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		arg.Level, arg.Level, arg.Category, arg.Category, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// CountEventsParams mirrors the ListEvents filters.
type CountEventsParams struct {
	Level    string
	Category string
}

// CountEvents returns the number of events matching the filters.
func (q *Queries) CountEvents(ctx context.Context, arg CountEventsParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM events
		WHERE (? = '' OR level = ?) AND (? = '' OR category = ?)`,
		arg.Level, arg.Level, arg.Category, arg.Category).Scan(&count)
	return count, err
}

// PruneEvents deletes events older than the given number of days.
// Returns the number of rows deleted.
func (q *Queries) PruneEvents(ctx context.Context, olderThanDays int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		DELETE FROM events
		WHERE created_at < datetime('now', '-' || ? || ' days')`, olderThanDays)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
