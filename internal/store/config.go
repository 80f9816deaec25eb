// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

// GetConfig returns the setting for a key.
func (q *Queries) GetConfig(ctx context.Context, key string) (model.Config, error) {
	var c model.Config
	err := q.db.QueryRowContext(ctx, `
		SELECT id, key, value, created_at, updated_at FROM config WHERE key = ?`, key).
		Scan(&c.ID, &c.Key, &c.Value, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListConfig returns all settings ordered by key.
func (q *Queries) ListConfig(ctx context.Context) ([]model.Config, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, key, value, created_at, updated_at FROM config ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.Config
	for rows.Next() {
		var c model.Config
		if err := rows.Scan(&c.ID, &c.Key, &c.Value, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// SetConfig creates or updates a setting.
func (q *Queries) SetConfig(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}
