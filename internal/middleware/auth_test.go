// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/session"
)

func TestGetUser(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		user := GetUser(req)
		if user != nil {
			t.Errorf("GetUser() = %v, want nil", user)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		testUser := model.User{
			ID:    123,
			Email: "test@dreamhouse.coop",
			Role:  model.RoleAdmin,
			Name:  "Test User",
		}
		ctx := context.WithValue(req.Context(), ContextKeyUser, testUser)
		req = req.WithContext(ctx)

		user := GetUser(req)
		if user == nil {
			t.Fatal("GetUser() = nil, want user")
		}
		if user.ID != 123 {
			t.Errorf("GetUser().ID = %d, want 123", user.ID)
		}
		if user.Email != "test@dreamhouse.coop" {
			t.Errorf("GetUser().Email = %q, want %q", user.Email, "test@dreamhouse.coop")
		}
	})
}

func TestGetUserID(t *testing.T) {
	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if id := GetUserID(req); id != 0 {
			t.Errorf("GetUserID() = %d, want 0", id)
		}
	})

	t.Run("user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), ContextKeyUser, model.User{ID: 456})
		req = req.WithContext(ctx)
		if id := GetUserID(req); id != 456 {
			t.Errorf("GetUserID() = %d, want 456", id)
		}
	})
}

// sessionCtx runs fn inside a loaded scs session context.
func sessionCtx(t *testing.T, sm *scs.SessionManager, fn func(ctx context.Context)) {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	fn(ctx)
}

func TestAdminWindowValid(t *testing.T) {
	sm := scs.New()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		loginTime time.Time
		set       bool
		want      bool
	}{
		{
			name:      "fresh login",
			loginTime: now.Add(-time.Minute),
			set:       true,
			want:      true,
		},
		{
			name:      "just inside window",
			loginTime: now.Add(-session.AdminWindow + time.Second),
			set:       true,
			want:      true,
		},
		{
			name:      "exactly at window boundary",
			loginTime: now.Add(-session.AdminWindow),
			set:       true,
			want:      false,
		},
		{
			name:      "well past window",
			loginTime: now.Add(-48 * time.Hour),
			set:       true,
			want:      false,
		},
		{
			name: "never set",
			set:  false,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionCtx(t, sm, func(ctx context.Context) {
				if tt.set {
					sm.Put(ctx, session.KeyAdminLoginTime, tt.loginTime)
				}
				if got := AdminWindowValid(sm, ctx, now); got != tt.want {
					t.Errorf("AdminWindowValid() = %v, want %v", got, tt.want)
				}
			})
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	sm := scs.New()

	handler := func(sm *scs.SessionManager) http.Handler {
		return RequireAdmin(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
	}

	t.Run("no user redirects to login", func(t *testing.T) {
		sessionCtx(t, sm, func(ctx context.Context) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil).WithContext(ctx)
			rec := httptest.NewRecorder()
			handler(sm).ServeHTTP(rec, req)
			if rec.Code != http.StatusSeeOther {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
		})
	})

	t.Run("non-admin gets 403", func(t *testing.T) {
		sessionCtx(t, sm, func(ctx context.Context) {
			ctx = context.WithValue(ctx, ContextKeyUser, model.User{ID: 1, Role: model.RoleMember})
			req := httptest.NewRequest(http.MethodGet, "/admin", nil).WithContext(ctx)
			rec := httptest.NewRecorder()
			handler(sm).ServeHTTP(rec, req)
			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
			}
		})
	})

	t.Run("admin with fresh window passes", func(t *testing.T) {
		sessionCtx(t, sm, func(ctx context.Context) {
			sm.Put(ctx, session.KeyAdminLoginTime, time.Now())
			ctx = context.WithValue(ctx, ContextKeyUser, model.User{ID: 1, Role: model.RoleAdmin})
			req := httptest.NewRequest(http.MethodGet, "/admin", nil).WithContext(ctx)
			rec := httptest.NewRecorder()
			handler(sm).ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
			}
		})
	})

	t.Run("admin with expired window is sent to re-login", func(t *testing.T) {
		sessionCtx(t, sm, func(ctx context.Context) {
			sm.Put(ctx, session.KeyAdminLoginTime, time.Now().Add(-session.AdminWindow))
			ctx = context.WithValue(ctx, ContextKeyUser, model.User{ID: 1, Role: model.RoleAdmin})
			req := httptest.NewRequest(http.MethodGet, "/admin", nil).WithContext(ctx)
			rec := httptest.NewRecorder()
			handler(sm).ServeHTTP(rec, req)
			if rec.Code != http.StatusSeeOther {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
			}
			if loc := rec.Header().Get("Location"); loc != "/login?expired=1" {
				t.Errorf("Location = %q, want /login?expired=1", loc)
			}
		})
	})
}

func TestRequireCrew(t *testing.T) {
	handler := RequireCrew()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	approved := func() model.User {
		u := model.User{ID: 2, Role: model.RoleCrew}
		u.CrewStatus.String = model.CrewStatusApproved
		u.CrewStatus.Valid = true
		return u
	}()

	tests := []struct {
		name string
		user *model.User
		want int
	}{
		{"no user", nil, http.StatusSeeOther},
		{"member", &model.User{ID: 1, Role: model.RoleMember}, http.StatusForbidden},
		{"approved crew", &approved, http.StatusOK},
		{"admin", &model.User{ID: 3, Role: model.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/crew", nil)
			if tt.user != nil {
				ctx := context.WithValue(req.Context(), ContextKeyUser, *tt.user)
				req = req.WithContext(ctx)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
