// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the background jobs: publishing scheduled
// news posts and pruning old event log entries.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/cache"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/service"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// Scheduler handles scheduled tasks like publishing news posts.
type Scheduler struct {
	db            *sql.DB
	cache         *cache.Manager
	events        *service.EventService
	cron          *cron.Cron
	logger        *slog.Logger
	retentionDays int64
}

// New creates a new scheduler instance. retentionDays controls how long
// event log entries are kept before the nightly prune removes them.
func New(db *sql.DB, cacheMgr *cache.Manager, events *service.EventService, logger *slog.Logger, retentionDays int64) *Scheduler {
	return &Scheduler{
		db:            db,
		cache:         cacheMgr,
		events:        events,
		cron:          cron.New(),
		logger:        logger,
		retentionDays: retentionDays,
	}
}

// Start registers the cron jobs and begins running them.
// Scheduled news is checked every minute; events are pruned nightly.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.PublishDueNews(context.Background()); err != nil {
			s.logger.Error("failed to publish scheduled news", "error", err)
		}
	})
	if err != nil {
		return err
	}

	_, err = s.cron.AddFunc("0 3 * * *", func() {
		if err := s.PruneEvents(context.Background()); err != nil {
			s.logger.Error("failed to prune events", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PublishDueNews publishes news posts whose scheduled time has passed
// and invalidates the cached news list fragments.
func (s *Scheduler) PublishDueNews(ctx context.Context) error {
	queries := store.New(s.db)

	published, err := queries.PublishDueNews(ctx)
	if err != nil {
		return err
	}
	if published == 0 {
		return nil
	}

	s.logger.Info("published scheduled news", "count", published)

	if s.cache != nil {
		s.cache.InvalidateNewsFragments(ctx)
	}

	if s.events != nil {
		err := s.events.LogNewsEvent(ctx, model.EventLevelInfo,
			"scheduled news published", nil, "",
			map[string]any{"count": published})
		if err != nil {
			s.logger.Warn("failed to log scheduled publish event", "error", err)
		}
	}

	return nil
}

// PruneEvents deletes event log entries older than the retention window.
func (s *Scheduler) PruneEvents(ctx context.Context) error {
	queries := store.New(s.db)

	deleted, err := queries.PruneEvents(ctx, s.retentionDays)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("pruned old events", "count", deleted, "retention_days", s.retentionDays)
	}
	return nil
}
