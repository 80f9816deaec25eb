// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/i18n"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/identity"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/render"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/service"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/session"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// AuthHandler handles login, registration, and logout.
type AuthHandler struct {
	queries         *store.Queries
	identity        *identity.Service
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, ident *identity.Service, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		identity:        ident,
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
	}
}

// LoginForm renders the login page. Authenticated users are redirected.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if user := middleware.GetUser(r); user != nil {
		if user.IsAdmin() {
			http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		} else {
			http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		}
		return
	}

	h.renderPage(w, r, "auth/login", i18n.T("ko", "nav.login"), map[string]any{
		"Expired": r.URL.Query().Get("expired") == "1",
		"Next":    safeNextPath(r.URL.Query().Get("next")),
		"Email":   "",
	})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	// Lockout tracking is keyed on the normalized email so case
	// variants of one address share a single failure budget.
	email := identity.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")
	next := safeNextPath(r.FormValue("next"))
	clientIP := ClientIP(r)

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, i18n.T("ko", "auth.login_failed"))
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"login attempt on locked account", nil, clientIP, map[string]any{"email": email})
			flashError(w, r, h.renderer, redirectLogin,
				i18n.T("ko", "auth.account_locked")+" ("+formatDuration(remaining)+")")
			return
		}
	}

	user, err := h.identity.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) || errors.Is(err, identity.ErrInvalidPassword) {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning,
				"login failed", nil, clientIP, map[string]any{"email": email})
			if h.loginProtection != nil {
				if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
					flashError(w, r, h.renderer, redirectLogin,
						i18n.T("ko", "auth.account_locked")+" ("+formatDuration(lockDuration)+")")
					return
				}
			}
			flashError(w, r, h.renderer, redirectLogin, i18n.T("ko", "auth.login_failed"))
			return
		}
		logAndInternalError(w, "login error", "error", err)
		return
	}

	// Lockout state clears via the ChangeLoggedIn subscriber.

	// Regenerate the session token to prevent session fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)

	// Admins get a separate login timestamp; admin pages stop being
	// reachable once it is older than the admin window even while the
	// member session itself stays alive.
	if user.IsAdmin() {
		h.sessionManager.Put(r.Context(), session.KeyAdminLoginTime, time.Now())
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"user logged in", &user.ID, clientIP, map[string]any{"email": user.Email})

	switch {
	case next != "":
		http.Redirect(w, r, next, http.StatusSeeOther)
	case user.IsAdmin():
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
	default:
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
	}
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r) != nil {
		http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
		return
	}
	h.renderPage(w, r, "auth/register", i18n.T("ko", "nav.register"), map[string]any{
		"Name":  "",
		"Email": "",
	})
}

// Register handles the registration form submission.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteRegister) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if name == "" || !validateEmail(email) {
		flashError(w, r, h.renderer, RouteRegister, "이름과 이메일을 확인해 주세요")
		return
	}
	if msg := validatePassword(password); msg != "" {
		flashError(w, r, h.renderer, RouteRegister, msg)
		return
	}

	user, err := h.identity.Register(r.Context(), identity.RegisterParams{
		Email:    email,
		Password: password,
		Name:     name,
	})
	if err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) {
			flashError(w, r, h.renderer, RouteRegister, i18n.T("ko", "auth.duplicate_email"))
			return
		}
		logAndInternalError(w, "registration error", "error", err)
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyUserID, user.ID)

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo,
		"member registered", &user.ID, ClientIP(r), map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, RouteRoot, i18n.T("ko", "auth.registered"))
}

// Logout destroys the session and redirects to the homepage.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDPtr(r)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "session destroy error", "error", err)
		return
	}

	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"user logged out", userID, ClientIP(r), nil)

	http.Redirect(w, r, RouteRoot, http.StatusSeeOther)
}

// renderPage renders an auth template with the shared page chrome.
func (h *AuthHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	err := h.renderer.Render(w, r, name, render.TemplateData{
		Title:     title,
		SiteName:  middleware.GetSiteName(r),
		User:      middleware.GetUser(r),
		Path:      r.URL.Path,
		Data:      data,
		CSRFToken: middleware.CSRFToken(r),
	})
	if err != nil {
		logAndInternalError(w, "template render error", "error", err, "template", name)
	}
}

// safeNextPath allows only local redirect targets.
func safeNextPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
