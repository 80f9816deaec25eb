// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/auth"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

// SeedParams carries the bootstrap admin credentials.
type SeedParams struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Seed creates the initial admin account. It is idempotent: when an
// account with the admin email already exists nothing is changed.
func Seed(ctx context.Context, db *sql.DB, params SeedParams) error {
	queries := New(db)

	if params.AdminName == "" {
		params.AdminName = "Administrator"
	}

	_, err := queries.GetUserByEmail(ctx, params.AdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(params.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        params.AdminEmail,
		PasswordHash: passwordHash,
		Name:         params.AdminName,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
	)

	return nil
}

// SeedDemo populates sample content for local development. It only
// runs on an empty site: any existing news article disables it.
func SeedDemo(ctx context.Context, db *sql.DB, enabled bool) error {
	if !enabled {
		return nil
	}

	queries := New(db)

	count, err := queries.CountNews(ctx)
	if err != nil {
		return fmt.Errorf("counting news: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin, err := queries.GetUserByEmail(ctx, "admin@dreamhouse.coop")
	if err != nil {
		// No admin account yet; demo content needs an author.
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("looking up admin for demo content: %w", err)
	}

	now := time.Now().UTC()

	if _, err := queries.CreateNews(ctx, CreateNewsParams{
		Title:       "드림하우스 홈페이지를 열었습니다",
		Slug:        "hello-dreamhouse",
		Body:        "<p>드림하우스 협동조합의 새 홈페이지가 문을 열었습니다.</p>",
		Category:    model.NewsCategoryNews,
		Status:      model.NewsStatusPublished,
		AuthorID:    admin.ID,
		PublishedAt: sql.NullTime{Time: now, Valid: true},
	}); err != nil {
		return fmt.Errorf("seeding demo news: %w", err)
	}

	if _, err := queries.CreateProgram(ctx, CreateProgramParams{
		Title:       "주말 목공 교실",
		Slug:        "weekend-woodworking",
		Summary:     "초보자를 위한 주말 목공 프로그램입니다.",
		Description: "<p>손으로 무언가를 만드는 기쁨을 함께 나눕니다.</p>",
		Capacity:    12,
		IsOpen:      true,
	}); err != nil {
		return fmt.Errorf("seeding demo program: %w", err)
	}

	if _, err := queries.CreateFootstep(ctx, CreateFootstepParams{
		Title:        "첫 발걸음",
		Slug:         "first-footstep",
		BodyMarkdown: "드림하우스의 **첫 발걸음**을 기록합니다.",
		BodyHTML:     "<p>드림하우스의 <strong>첫 발걸음</strong>을 기록합니다.</p>",
		Status:       model.NewsStatusPublished,
		AuthorID:     admin.ID,
	}); err != nil {
		return fmt.Errorf("seeding demo footstep: %w", err)
	}

	slog.Info("seeded demo content")
	return nil
}
