// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/cache"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/config"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/handler"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/handler/api"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/i18n"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/identity"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/imaging"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/logging"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/render"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/scheduler"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/service"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/session"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/version"
	"github.com/dreamhouse-coop/dreamhouse-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// eventRetentionDays controls how long event log rows are kept before
// the nightly prune job removes them.
const eventRetentionDays = 90

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Dream House - cooperative web site and API server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DH_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DH_DB_PATH           SQLite database path (default: ./data/dreamhouse.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DH_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DH_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DH_UPLOADS_DIR       Uploaded file directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DH_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DH_ADMIN_EMAIL       Bootstrap admin email (default: admin@dreamhouse.coop)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DH_ADMIN_PASSWORD    Bootstrap admin password (default: changeme)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("dreamhouse %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n initialized", "languages", i18n.SupportedLanguages)

	// Ensure data and uploads directories exist
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := store.Seed(ctx, db, store.SeedParams{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	if err := store.SeedDemo(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding demo content: %w", err)
	}

	queries := store.New(db)

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	cacheManager := cache.NewManagerFromConfig(cfg.RedisURL, cfg.CachePrefix,
		time.Duration(cfg.CacheTTL)*time.Second, queries)
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Error("error closing cache manager", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache manager initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache manager initialized", "backend", "memory")
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	eventService := service.NewEventService(db)
	ident := identity.NewService(queries, logger)
	images := imaging.NewProcessor(cfg.UploadsDir)

	sched := scheduler.New(db, cacheManager, eventService, logger, eventRetentionDays)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	// Account changes fan out through the identity service; a
	// successful login clears that account's lockout tracking.
	ident.Subscribe(func(change identity.Change) {
		if change.Type == identity.ChangeLoggedIn {
			loginProtection.RecordSuccessfulLogin(change.User.Email)
		}
	})
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	// Handlers
	authHandler := handler.NewAuthHandler(db, ident, renderer, sessionManager, loginProtection)
	frontendHandler := handler.NewFrontendHandler(db, cacheManager, renderer, ident)
	frontendHandler.SetSiteURL(cfg.SiteURL)
	adminHandler := handler.NewAdminHandler(db, cacheManager, renderer, ident, images)
	apiHandler := api.NewHandler(db)
	healthHandler := handler.NewHealthHandler(db, versionInfo)

	r.Get("/healthz", healthHandler.Health)
	r.Get("/robots.txt", frontendHandler.Robots)
	r.Get("/sitemap.xml", frontendHandler.Sitemap)

	// Public frontend routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sessionManager, db))
		r.Use(middleware.LoadSiteConfig(db, cacheManager))
		r.Use(csrfMiddleware)

		r.Get(handler.RouteRoot, frontendHandler.Home)
		r.Get("/about", frontendHandler.About)

		r.Get(handler.RoutePrograms, frontendHandler.Programs)
		r.Get(handler.RoutePrograms+handler.RouteParamSlug, frontendHandler.ProgramDetail)
		r.Post(handler.RoutePrograms+handler.RouteParamSlug+"/apply", frontendHandler.ProgramApply)

		r.Get(handler.RouteNews, frontendHandler.NewsList)
		r.Get(handler.RouteNews+handler.RouteParamSlug, frontendHandler.NewsDetail)
		r.Get(handler.RoutePress, frontendHandler.PressList)
		r.Get(handler.RouteFootsteps, frontendHandler.FootstepsList)
		r.Get(handler.RouteFootsteps+handler.RouteParamSlug, frontendHandler.FootstepDetail)

		r.Get(handler.RouteContact, frontendHandler.ContactForm)
		r.Post(handler.RouteContact, frontendHandler.ContactSubmit)

		r.Get(handler.RouteCrew+"/apply", frontendHandler.CrewApplyForm)
		r.Post(handler.RouteCrew+"/apply", frontendHandler.CrewApplySubmit)

		r.Get(handler.RouteMyPage, frontendHandler.MyPage)
		r.Post(handler.RouteMyPage, frontendHandler.MyPageUpdate)
		r.Post(handler.RouteMyPage+"/password", frontendHandler.MyPagePassword)
	})

	// Crew members write journal posts on the public site
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))
		r.Use(middleware.LoadSiteConfig(db, cacheManager))
		r.Use(csrfMiddleware)
		r.Use(middleware.RequireCrew())

		r.Get(handler.RouteFootsteps+handler.RouteSuffixNew, frontendHandler.FootstepNewForm)
		r.Post(handler.RouteFootsteps, frontendHandler.FootstepCreate)
	})

	// Auth routes: public rate limiter plus per-account lockout on login
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.HTMLMiddleware())
		r.Use(middleware.OptionalLoadUser(sessionManager, db))
		r.Use(middleware.LoadSiteConfig(db, cacheManager))
		r.Use(csrfMiddleware)

		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		r.Post(handler.RouteRegister, authHandler.Register)
		r.Get(handler.RouteLogout, authHandler.Logout)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	// Admin console
	r.Route("/admin", func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))
		r.Use(middleware.LoadSiteConfig(db, nil)) // Admin: always query DB, no cache
		r.Use(middleware.RequireAdminWithEventLog(sessionManager, eventService))

		r.Get(handler.RouteRoot, adminHandler.Dashboard)

		registerEntityRoutes(r, handler.RouteNews, entityHandlers{
			List: adminHandler.NewsList, NewForm: adminHandler.NewsNewForm, Create: adminHandler.NewsCreate,
			EditForm: adminHandler.NewsEditForm, Update: adminHandler.NewsUpdate, Delete: adminHandler.NewsDelete,
		})
		registerEntityRoutes(r, handler.RoutePress, entityHandlers{
			List: adminHandler.PressList, NewForm: adminHandler.PressNewForm, Create: adminHandler.PressCreate,
			EditForm: adminHandler.PressEditForm, Update: adminHandler.PressUpdate, Delete: adminHandler.PressDelete,
		})
		registerEntityRoutes(r, handler.RouteFootsteps, entityHandlers{
			List: adminHandler.FootstepsList, NewForm: adminHandler.FootstepNewForm, Create: adminHandler.FootstepCreate,
			EditForm: adminHandler.FootstepEditForm, Update: adminHandler.FootstepUpdate, Delete: adminHandler.FootstepDelete,
		})
		registerEntityRoutes(r, handler.RoutePrograms, entityHandlers{
			List: adminHandler.ProgramsList, NewForm: adminHandler.ProgramNewForm, Create: adminHandler.ProgramCreate,
			EditForm: adminHandler.ProgramEditForm, Update: adminHandler.ProgramUpdate, Delete: adminHandler.ProgramDelete,
		})
		r.Post(handler.RoutePrograms+handler.RouteParamID+"/sessions", adminHandler.SessionCreate)
		r.Post(handler.RoutePrograms+handler.RouteParamID+"/sessions/{sid}/delete", adminHandler.SessionDelete)

		r.Get(handler.RouteInquiries, adminHandler.InquiriesList)
		r.Get(handler.RouteInquiries+handler.RouteParamID, adminHandler.InquiryDetail)
		r.Post(handler.RouteInquiries+handler.RouteParamID+"/answer", adminHandler.InquiryAnswer)

		r.Get(handler.RouteCrew, adminHandler.CrewList)
		r.Post(handler.RouteCrew+handler.RouteParamID+"/approve", adminHandler.CrewApprove)
		r.Post(handler.RouteCrew+handler.RouteParamID+"/reject", adminHandler.CrewReject)

		r.Get(handler.RouteUsers, adminHandler.UsersList)
		r.Post(handler.RouteUsers+handler.RouteParamID+"/role", adminHandler.UserRoleUpdate)

		r.Get(handler.RouteEvents, adminHandler.EventsList)

		r.Get(handler.RouteConfig, adminHandler.ConfigForm)
		r.Post(handler.RouteConfig, adminHandler.ConfigUpdate)

		r.Get(handler.RouteAPIKeys, adminHandler.APIKeysList)
		r.Post(handler.RouteAPIKeys, adminHandler.APIKeyCreate)
		r.Post(handler.RouteAPIKeys+handler.RouteParamID+"/revoke", adminHandler.APIKeyRevoke)
	})

	// REST API v1
	r.Route("/api/v1", func(r chi.Router) {
		apiRateLimiter := middleware.NewGlobalRateLimiter(100, 200)
		r.Use(apiRateLimiter.Middleware())

		r.Get("/status", apiHandler.Status)

		// Read endpoints: public for published content, an API key widens
		// access to drafts and protected resources.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAPIKeyAuth(db))

			r.Get(handler.RouteNews, apiHandler.ListNews)
			r.Get(handler.RouteNews+handler.RouteParamID, apiHandler.GetNews)
			r.Get(handler.RoutePress, apiHandler.ListPress)
			r.Get(handler.RoutePress+handler.RouteParamID, apiHandler.GetPress)
			r.Get(handler.RouteFootsteps, apiHandler.ListFootsteps)
			r.Get(handler.RouteFootsteps+handler.RouteParamID, apiHandler.GetFootstep)
		})

		// Protected endpoints (API key required)
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(db))
			r.Use(middleware.APIRateLimit(10, 20))

			r.Get("/auth", apiHandler.AuthInfo)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission("crew:read"))
				r.Get("/crew-applications", apiHandler.ListCrewApplications)
				r.Get("/crew-applications"+handler.RouteParamID, apiHandler.GetCrewApplication)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission("news:write"))
				r.Post(handler.RouteNews, apiHandler.CreateNews)
				r.Put(handler.RouteNews+handler.RouteParamID, apiHandler.UpdateNews)
				r.Delete(handler.RouteNews+handler.RouteParamID, apiHandler.DeleteNews)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission("press:write"))
				r.Post(handler.RoutePress, apiHandler.CreatePress)
				r.Put(handler.RoutePress+handler.RouteParamID, apiHandler.UpdatePress)
				r.Delete(handler.RoutePress+handler.RouteParamID, apiHandler.DeletePress)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission("footsteps:write"))
				r.Post(handler.RouteFootsteps, apiHandler.CreateFootstep)
				r.Put(handler.RouteFootsteps+handler.RouteParamID, apiHandler.UpdateFootstep)
				r.Delete(handler.RouteFootsteps+handler.RouteParamID, apiHandler.DeleteFootstep)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission("crew:write"))
				r.Post("/crew-applications", apiHandler.CreateCrewApplication)
				r.Post("/crew-applications"+handler.RouteParamID+"/decide", apiHandler.DecideCrewApplication)
			})
		})
	})
	slog.Info("REST API v1 mounted at /api/v1")

	// Static assets: cache for 1 year
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(31536000)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/*", staticHandler)

	// Uploaded files: cache for 1 week
	uploadsHandler := middleware.StaticCache(604800)(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	r.Handle("/uploads/*", uploadsHandler)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		frontendHandler.NotFound(w, req)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// entityHandlers defines the standard admin CRUD handler methods.
type entityHandlers struct {
	List     http.HandlerFunc
	NewForm  http.HandlerFunc
	Create   http.HandlerFunc
	EditForm http.HandlerFunc
	Update   http.HandlerFunc
	Delete   http.HandlerFunc
}

// registerEntityRoutes registers the admin CRUD routes for a resource.
// HTML forms cannot send PUT or DELETE, so updates POST to the edit URL
// and deletes POST to a /delete suffix.
func registerEntityRoutes(r chi.Router, base string, h entityHandlers) {
	r.Get(base, h.List)
	r.Get(base+handler.RouteSuffixNew, h.NewForm)
	r.Post(base, h.Create)
	r.Get(base+handler.RouteParamID, h.EditForm)
	r.Post(base+handler.RouteParamID, h.Update)
	r.Post(base+handler.RouteParamID+"/delete", h.Delete)
}
