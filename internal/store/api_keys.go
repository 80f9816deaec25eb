// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

const apiKeyColumns = `id, name, key_hash, key_prefix, permissions,
	last_used_at, expires_at, is_active, created_by, created_at, updated_at`

func scanAPIKey(row interface{ Scan(...any) error }) (model.APIKey, error) {
	var k model.APIKey
	err := row.Scan(
		&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Permissions,
		&k.LastUsedAt, &k.ExpiresAt, &k.IsActive, &k.CreatedBy,
		&k.CreatedAt, &k.UpdatedAt,
	)
	return k, err
}

// CreateAPIKeyParams holds the fields for CreateAPIKey.
type CreateAPIKeyParams struct {
	Name        string
	KeyHash     string
	KeyPrefix   string
	Permissions string
	ExpiresAt   sql.NullTime
	CreatedBy   int64
}

// CreateAPIKey inserts an API key record and returns the created row.
func (q *Queries) CreateAPIKey(ctx context.Context, arg CreateAPIKeyParams) (model.APIKey, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO api_keys (name, key_hash, key_prefix, permissions, expires_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+apiKeyColumns,
		arg.Name, arg.KeyHash, arg.KeyPrefix, arg.Permissions, arg.ExpiresAt, arg.CreatedBy,
	)
	return scanAPIKey(row)
}

// GetAPIKeyByID returns the key with the given ID.
func (q *Queries) GetAPIKeyByID(ctx context.Context, id int64) (model.APIKey, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE id = ?`, id)
	return scanAPIKey(row)
}

// GetAPIKeyByHash returns the key matching the given SHA-256 hash.
func (q *Queries) GetAPIKeyByHash(ctx context.Context, hash string) (model.APIKey, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = ?`, hash)
	return scanAPIKey(row)
}

// ListAPIKeysParams holds pagination for ListAPIKeys.
type ListAPIKeysParams struct {
	Limit  int64
	Offset int64
}

// ListAPIKeys returns keys newest first.
func (q *Queries) ListAPIKeys(ctx context.Context, arg ListAPIKeysParams) ([]model.APIKey, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+apiKeyColumns+` FROM api_keys
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []model.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, k)
	}
	return items, rows.Err()
}

// CountAPIKeys returns the total number of keys.
func (q *Queries) CountAPIKeys(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_keys`).Scan(&count)
	return count, err
}

// UpdateAPIKeyParams holds the fields for UpdateAPIKey.
type UpdateAPIKeyParams struct {
	ID          int64
	Name        string
	Permissions string
	ExpiresAt   sql.NullTime
	IsActive    bool
}

// UpdateAPIKey updates a key's metadata and returns the updated row.
func (q *Queries) UpdateAPIKey(ctx context.Context, arg UpdateAPIKeyParams) (model.APIKey, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE api_keys
		SET name = ?, permissions = ?, expires_at = ?, is_active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING `+apiKeyColumns,
		arg.Name, arg.Permissions, arg.ExpiresAt, arg.IsActive, arg.ID,
	)
	return scanAPIKey(row)
}

// TouchAPIKey records that a key was used.
func (q *Queries) TouchAPIKey(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE api_keys SET last_used_at = ? WHERE id = ?`, time.Now().UTC(), id)
	return err
}

// DeactivateAPIKey disables a key without deleting it.
func (q *Queries) DeactivateAPIKey(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE api_keys SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

// DeleteAPIKey removes a key.
func (q *Queries) DeleteAPIKey(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ?`, id)
	return err
}
