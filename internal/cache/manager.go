// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// Config cache keys.
const (
	configKeyPrefix  = "config:"
	pageFragmentTTL  = 5 * time.Minute
	configEntryTTL   = time.Hour
	fragmentKeyNews  = "fragment:news:"
	fragmentKeyPress = "fragment:press"
)

// Manager provides load-through caching for site configuration and
// rendered page fragments on top of a Cache backend.
type Manager struct {
	backend Cache
	queries *store.Queries
}

// NewManager creates a cache manager over the given backend.
func NewManager(backend Cache, queries *store.Queries) *Manager {
	return &Manager{backend: backend, queries: queries}
}

// NewManagerFromConfig picks a backend: Redis when redisURL is set and
// reachable, memory otherwise. Falling back is logged, not fatal; a
// site with a cold cache still works.
func NewManagerFromConfig(redisURL, prefix string, ttl time.Duration, queries *store.Queries) *Manager {
	if redisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = redisURL
		if prefix != "" {
			opts.Prefix = prefix
		}
		if ttl > 0 {
			opts.DefaultTTL = ttl
		}
		rc, err := NewRedisCache(opts)
		if err == nil {
			slog.Info("using redis cache", "prefix", opts.Prefix)
			return NewManager(rc, queries)
		}
		slog.Warn("redis unavailable, using memory cache", "error", err)
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return NewManager(NewMemoryCache(ttl), queries)
}

// GetConfig returns a site configuration value, loading it from the
// database on a miss.
func (m *Manager) GetConfig(ctx context.Context, key string) (string, error) {
	if val, err := m.backend.Get(ctx, configKeyPrefix+key); err == nil {
		return string(val), nil
	}

	cfg, err := m.queries.GetConfig(ctx, key)
	if err != nil {
		return "", err
	}

	_ = m.backend.Set(ctx, configKeyPrefix+key, []byte(cfg.Value), configEntryTTL)
	return cfg.Value, nil
}

// SetConfig writes a configuration value through to the database and
// refreshes the cache entry.
func (m *Manager) SetConfig(ctx context.Context, key, value string) error {
	if err := m.queries.SetConfig(ctx, key, value); err != nil {
		return err
	}
	return m.backend.Set(ctx, configKeyPrefix+key, []byte(value), configEntryTTL)
}

// InvalidateConfig drops a cached configuration value.
func (m *Manager) InvalidateConfig(ctx context.Context, key string) {
	_ = m.backend.Delete(ctx, configKeyPrefix+key)
}

// GetFragment returns a cached rendered page fragment.
func (m *Manager) GetFragment(ctx context.Context, key string) ([]byte, bool) {
	val, err := m.backend.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	return val, true
}

// SetFragment caches a rendered page fragment.
func (m *Manager) SetFragment(ctx context.Context, key string, value []byte) {
	_ = m.backend.Set(ctx, key, value, pageFragmentTTL)
}

// InvalidateNewsFragments drops cached news listings. Called after any
// news mutation so the public pages never show stale lists.
func (m *Manager) InvalidateNewsFragments(ctx context.Context) {
	for _, category := range []string{"", "news", "notice"} {
		_ = m.backend.Delete(ctx, fragmentKeyNews+category)
	}
}

// NewsFragmentKey builds the cache key for a news listing fragment.
func NewsFragmentKey(category string) string {
	return fragmentKeyNews + category
}

// ClearAll empties the cache and resets statistics.
func (m *Manager) ClearAll(ctx context.Context) {
	_ = m.backend.Clear(ctx)
	if sp, ok := m.backend.(StatsProvider); ok {
		sp.ResetStats()
	}
	slog.Info("cache cleared")
}

// Stats returns backend statistics when available.
func (m *Manager) Stats() (Stats, bool) {
	if sp, ok := m.backend.(StatsProvider); ok {
		return sp.Stats(), true
	}
	return Stats{}, false
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
