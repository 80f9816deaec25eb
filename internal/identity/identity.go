// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

// Package identity implements account registration, credential checks
// and profile updates for cooperative members. All account state lives
// in the database; handlers keep only the user ID in the server-side
// session and resolve the current user through this service.
package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/auth"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// Service errors.
var (
	ErrDuplicateEmail  = errors.New("identity: email already registered")
	ErrUserNotFound    = errors.New("identity: user not found")
	ErrInvalidPassword = errors.New("identity: invalid password")
)

// ChangeType describes what happened to an account.
type ChangeType string

// Account change types delivered to subscribers.
const (
	ChangeRegistered ChangeType = "registered"
	ChangeLoggedIn   ChangeType = "logged_in"
	ChangeUpdated    ChangeType = "updated"
	ChangePromoted   ChangeType = "promoted"
)

// Change is delivered to subscribers after an account mutation commits.
type Change struct {
	Type ChangeType
	User model.User
}

// Store is the persistence surface the service needs. *store.Queries
// satisfies it; tests may substitute a narrower implementation.
type Store interface {
	CreateUser(ctx context.Context, arg store.CreateUserParams) (model.User, error)
	GetUserByID(ctx context.Context, id int64) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	UpdateUser(ctx context.Context, arg store.UpdateUserParams) (model.User, error)
	UpdateUserRole(ctx context.Context, arg store.UpdateUserRoleParams) (model.User, error)
	UpdateUserPassword(ctx context.Context, arg store.UpdateUserPasswordParams) error
	TouchUserLogin(ctx context.Context, id int64) error
}

// Service coordinates account operations against the store and fans
// out change notifications to subscribers.
type Service struct {
	store  Store
	logger *slog.Logger

	mu   sync.RWMutex
	subs []func(Change)
}

// NewService returns a Service backed by the given store.
func NewService(st Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// Subscribe registers a callback invoked after every account change.
// Callbacks run synchronously on the mutating goroutine and must not
// block.
func (s *Service) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Service) notify(change Change) {
	s.mu.RLock()
	subs := make([]func(Change), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(change)
	}
}

// NormalizeEmail lowercases and trims an email address. All lookups
// and registrations go through this so casing never splits accounts.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterParams holds the signup form fields.
type RegisterParams struct {
	Email           string
	Password        string
	Name            string
	Phone           string
	Gender          string
	JoinPath        string
	FirstImpression string
}

// Register creates a member account. The email must be unused; new
// accounts always start with the member role.
func (s *Service) Register(ctx context.Context, arg RegisterParams) (model.User, error) {
	email := NormalizeEmail(arg.Email)

	_, err := s.store.GetUserByEmail(ctx, email)
	if err == nil {
		return model.User{}, ErrDuplicateEmail
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("checking email: %w", err)
	}

	hash, err := auth.HashPassword(arg.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, store.CreateUserParams{
		Email:           email,
		PasswordHash:    hash,
		Name:            strings.TrimSpace(arg.Name),
		Phone:           strings.TrimSpace(arg.Phone),
		Gender:          arg.Gender,
		JoinPath:        arg.JoinPath,
		FirstImpression: arg.FirstImpression,
		Role:            model.RoleMember,
	})
	if err != nil {
		// Lost the race against a concurrent signup with the same email.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return model.User{}, ErrDuplicateEmail
		}
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered", "id", user.ID, "email", user.Email)
	s.notify(Change{Type: ChangeRegistered, User: user})
	return user, nil
}

// Login verifies credentials and returns the account. It returns
// ErrUserNotFound for an unknown email and ErrInvalidPassword for a
// wrong password; callers present both cases identically to avoid
// leaking which emails are registered.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		// Burn a hash anyway so response timing does not reveal
		// whether the email exists.
		_, _ = auth.HashPassword(password)
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return model.User{}, ErrInvalidPassword
	}

	if err := s.store.TouchUserLogin(ctx, user.ID); err != nil {
		s.logger.Warn("recording login time", "id", user.ID, "error", err)
	}

	s.notify(Change{Type: ChangeLoggedIn, User: user})
	return user, nil
}

// CurrentUser resolves the account behind a session's user ID.
func (s *Service) CurrentUser(ctx context.Context, id int64) (model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}
	return user, nil
}

// UpdateProfileParams holds the editable profile fields.
type UpdateProfileParams struct {
	ID              int64
	Name            string
	Phone           string
	Gender          string
	JoinPath        string
	FirstImpression string
}

// UpdateProfile updates an account's profile fields and notifies
// subscribers with the updated user.
func (s *Service) UpdateProfile(ctx context.Context, arg UpdateProfileParams) (model.User, error) {
	user, err := s.store.UpdateUser(ctx, store.UpdateUserParams{
		ID:              arg.ID,
		Name:            strings.TrimSpace(arg.Name),
		Phone:           strings.TrimSpace(arg.Phone),
		Gender:          arg.Gender,
		JoinPath:        arg.JoinPath,
		FirstImpression: arg.FirstImpression,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("updating user: %w", err)
	}

	s.notify(Change{Type: ChangeUpdated, User: user})
	return user, nil
}

// ChangePassword verifies the current password before storing a new
// hash. Password checks are byte exact; no trimming is applied.
func (s *Service) ChangePassword(ctx context.Context, id int64, current, next string) error {
	user, err := s.store.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return ErrInvalidPassword
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
		ID: id, PasswordHash: hash,
	}); err != nil {
		return fmt.Errorf("storing password: %w", err)
	}
	return nil
}

// Promote changes an account's role and crew status; approving a crew
// application goes through here so subscribers observe the role change.
func (s *Service) Promote(ctx context.Context, id int64, role string, crewStatus sql.NullString) (model.User, error) {
	if !model.IsValidRole(role) {
		return model.User{}, fmt.Errorf("invalid role %q", role)
	}
	user, err := s.store.UpdateUserRole(ctx, store.UpdateUserRoleParams{
		ID: id, Role: role, CrewStatus: crewStatus,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("updating role: %w", err)
	}

	s.notify(Change{Type: ChangePromoted, User: user})
	return user, nil
}
