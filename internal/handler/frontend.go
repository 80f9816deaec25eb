// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mileusna/useragent"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/cache"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/i18n"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/identity"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/render"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/seo"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/service"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/util"
)

// homeListSize is the number of items per news column on the homepage.
const homeListSize = 4

// FrontendHandler serves the public site pages.
type FrontendHandler struct {
	queries      *store.Queries
	cache        *cache.Manager
	renderer     *render.Renderer
	identity     *identity.Service
	eventService *service.EventService
	sanitizer    *bluemonday.Policy
	markdown     goldmark.Markdown
	siteURL      string
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, cacheManager *cache.Manager, renderer *render.Renderer, ident *identity.Service) *FrontendHandler {
	return &FrontendHandler{
		queries:      store.New(db),
		cache:        cacheManager,
		renderer:     renderer,
		identity:     ident,
		eventService: service.NewEventService(db),
		sanitizer:    bluemonday.UGCPolicy(),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// SetSiteURL configures the public base URL advertised in robots.txt
// and used for sitemap entries.
func (h *FrontendHandler) SetSiteURL(siteURL string) {
	h.siteURL = siteURL
}

// render renders a frontend template with the shared page chrome.
func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
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

// renderNotFound renders the shared error page with a 404 status.
func (h *FrontendHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	h.render(w, r, "frontend/error", i18n.T("ko", "error.not_found"), map[string]any{
		"Code":    http.StatusNotFound,
		"Message": i18n.T("ko", "error.not_found"),
	})
}

// NotFound is the router-level fallback for unmatched paths.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r)
}

// Home renders the homepage with the hero video and latest articles.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	heroVideoURL, _ := h.cache.GetConfig(ctx, model.ConfigKeyHeroVideoURL)

	latestNews, err := h.queries.ListPublishedNews(ctx, store.ListPublishedNewsParams{
		Category: model.NewsCategoryNews,
		Limit:    homeListSize,
	})
	if err != nil {
		logAndInternalError(w, "home news query error", "error", err)
		return
	}
	latestNotices, err := h.queries.ListPublishedNews(ctx, store.ListPublishedNewsParams{
		Category: model.NewsCategoryNotice,
		Limit:    homeListSize,
	})
	if err != nil {
		logAndInternalError(w, "home notices query error", "error", err)
		return
	}

	h.render(w, r, "frontend/home", middleware.GetSiteName(r), map[string]any{
		"HeroVideoURL":  heroVideoURL,
		"LatestNews":    latestNews,
		"LatestNotices": latestNotices,
	})
}

// About renders the static introduction page.
func (h *FrontendHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "frontend/about", i18n.T("ko", "nav.about"), nil)
}

// Programs renders the program catalog.
func (h *FrontendHandler) Programs(w http.ResponseWriter, r *http.Request) {
	programs, err := h.queries.ListPrograms(r.Context())
	if err != nil {
		logAndInternalError(w, "programs query error", "error", err)
		return
	}
	h.render(w, r, "frontend/programs", i18n.T("ko", "nav.programs"), map[string]any{
		"Programs": programs,
	})
}

// ProgramDetail renders one program with its scheduled sessions.
func (h *FrontendHandler) ProgramDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	program, err := h.queries.GetProgramBySlug(r.Context(), slug)
	if errors.Is(err, sql.ErrNoRows) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		logAndInternalError(w, "program query error", "error", err, "slug", slug)
		return
	}

	sessions, err := h.queries.ListProgramSessions(r.Context(), program.ID)
	if err != nil {
		logAndInternalError(w, "program sessions query error", "error", err)
		return
	}

	h.render(w, r, "frontend/program_detail", program.Title, map[string]any{
		"Program":  program,
		"Sessions": sessions,
	})
}

// ProgramApply handles a member's participation request.
func (h *FrontendHandler) ProgramApply(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	detailPath := RoutePrograms + "/" + slug

	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin+"?next="+detailPath, http.StatusSeeOther)
		return
	}

	program, err := h.queries.GetProgramBySlug(r.Context(), slug)
	if errors.Is(err, sql.ErrNoRows) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		logAndInternalError(w, "program query error", "error", err, "slug", slug)
		return
	}
	if !program.IsOpen {
		flashError(w, r, h.renderer, detailPath, "현재 모집 중인 프로그램이 아닙니다")
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, detailPath) {
		return
	}

	phone := strings.TrimSpace(r.FormValue("phone"))
	if phone == "" {
		phone = user.Phone
	}

	app, err := h.queries.CreateProgramApplication(r.Context(), store.CreateProgramApplicationParams{
		ProgramID: program.ID,
		SessionID: util.ParseNullInt64Positive(r.FormValue("session_id")),
		Name:      user.Name,
		Email:     user.Email,
		Phone:     phone,
		Note:      strings.TrimSpace(r.FormValue("note")),
	})
	if err != nil {
		logAndInternalError(w, "program application error", "error", err)
		return
	}

	_ = h.eventService.LogUserEvent(r.Context(), model.EventLevelInfo,
		"program application submitted", &user.ID, ClientIP(r),
		map[string]any{"program_id": program.ID, "application_id": app.ID})

	flashSuccess(w, r, h.renderer, detailPath, "참가 신청이 접수되었습니다")
}

// NewsList renders the paginated news index with a category filter.
// The first page of each category is served from the fragment cache.
func (h *FrontendHandler) NewsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category := r.URL.Query().Get("category")
	if category != model.NewsCategoryNews && category != model.NewsCategoryNotice {
		category = ""
	}
	page := pageParam(r)

	var items []model.News
	cacheable := page == 1
	if cacheable {
		if raw, ok := h.cache.GetFragment(ctx, cache.NewsFragmentKey(category)); ok {
			if err := json.Unmarshal(raw, &items); err != nil {
				items = nil
			}
		}
	}
	if items == nil {
		var err error
		items, err = h.queries.ListPublishedNews(ctx, store.ListPublishedNewsParams{
			Category: category,
			Limit:    publicPerPage,
			Offset:   pageOffset(page, publicPerPage),
		})
		if err != nil {
			logAndInternalError(w, "news query error", "error", err)
			return
		}
		if cacheable && len(items) > 0 {
			if raw, err := json.Marshal(items); err == nil {
				h.cache.SetFragment(ctx, cache.NewsFragmentKey(category), raw)
			}
		}
	}

	total, err := h.queries.CountPublishedNews(ctx, category)
	if err != nil {
		logAndInternalError(w, "news count error", "error", err)
		return
	}

	params := r.URL.Query()
	pagination := buildPagination(page, total, publicPerPage, RouteNews, params)

	h.render(w, r, "frontend/news_list", i18n.T("ko", "nav.news"), map[string]any{
		"Category":   category,
		"Items":      items,
		"Pagination": pagination,
	})
}

// NewsDetail renders a published article by slug.
func (h *FrontendHandler) NewsDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	news, err := h.queries.GetPublishedNewsBySlug(r.Context(), slug)
	if errors.Is(err, sql.ErrNoRows) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		logAndInternalError(w, "news query error", "error", err, "slug", slug)
		return
	}
	h.render(w, r, "frontend/news_detail", news.Title, map[string]any{
		"News": news,
	})
}

// PressList renders the paginated media coverage index.
func (h *FrontendHandler) PressList(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	items, err := h.queries.ListPress(r.Context(), store.ListPressParams{
		Limit:  publicPerPage,
		Offset: pageOffset(page, publicPerPage),
	})
	if err != nil {
		logAndInternalError(w, "press query error", "error", err)
		return
	}
	total, err := h.queries.CountPress(r.Context())
	if err != nil {
		logAndInternalError(w, "press count error", "error", err)
		return
	}

	h.render(w, r, "frontend/press_list", i18n.T("ko", "nav.press"), map[string]any{
		"Items":      items,
		"Pagination": buildPagination(page, total, publicPerPage, RoutePress, r.URL.Query()),
	})
}

// FootstepsList renders the paginated activity journal index.
func (h *FrontendHandler) FootstepsList(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	items, err := h.queries.ListPublishedFootsteps(r.Context(), store.ListFootstepsParams{
		Limit:  publicPerPage,
		Offset: pageOffset(page, publicPerPage),
	})
	if err != nil {
		logAndInternalError(w, "footsteps query error", "error", err)
		return
	}
	total, err := h.queries.CountPublishedFootsteps(r.Context())
	if err != nil {
		logAndInternalError(w, "footsteps count error", "error", err)
		return
	}

	h.render(w, r, "frontend/footsteps_list", i18n.T("ko", "nav.footsteps"), map[string]any{
		"Items":      items,
		"Pagination": buildPagination(page, total, publicPerPage, RouteFootsteps, r.URL.Query()),
	})
}

// FootstepDetail renders a published journal post by slug.
func (h *FrontendHandler) FootstepDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	footstep, err := h.queries.GetPublishedFootstepBySlug(r.Context(), slug)
	if errors.Is(err, sql.ErrNoRows) {
		h.renderNotFound(w, r)
		return
	}
	if err != nil {
		logAndInternalError(w, "footstep query error", "error", err, "slug", slug)
		return
	}
	h.render(w, r, "frontend/footstep_detail", footstep.Title, map[string]any{
		"Footstep": footstep,
	})
}

// FootstepNewForm renders the journal write form. Crew only, gated by
// the route middleware.
func (h *FrontendHandler) FootstepNewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "frontend/footstep_form", "발자취 쓰기", map[string]any{
		"Title": "", "BodyMarkdown": "",
	})
}

// FootstepCreate stores a crew member's journal post. Posts go live
// immediately.
func (h *FrontendHandler) FootstepCreate(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteFootsteps+RouteSuffixNew) {
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		flashError(w, r, h.renderer, RouteFootsteps+RouteSuffixNew, "제목을 입력해 주세요")
		return
	}
	slug := util.UniqueSlug(title, func(s string) bool {
		_, err := h.queries.GetFootstepBySlug(r.Context(), s)
		return err == nil
	})

	bodyMarkdown := r.FormValue("body_markdown")
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(bodyMarkdown), &buf); err != nil {
		flashError(w, r, h.renderer, RouteFootsteps+RouteSuffixNew, "본문을 변환할 수 없습니다")
		return
	}

	footstep, err := h.queries.CreateFootstep(r.Context(), store.CreateFootstepParams{
		Title:        title,
		Slug:         slug,
		BodyMarkdown: bodyMarkdown,
		BodyHTML:     h.sanitizer.Sanitize(buf.String()),
		Status:       model.NewsStatusPublished,
		AuthorID:     middleware.GetUserID(r),
	})
	if err != nil {
		logAndInternalError(w, "footstep create error", "error", err)
		return
	}

	_ = h.eventService.LogFootstepEvent(r.Context(), model.EventLevelInfo,
		"footstep published", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"footstep_id": footstep.ID, "slug": footstep.Slug})

	http.Redirect(w, r, RouteFootsteps+"/"+footstep.Slug, http.StatusSeeOther)
}

// ContactForm renders the inquiry form, prefilled for members.
func (h *FrontendHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Name": "", "Email": "", "Phone": "", "Subject": "", "Message": "",
	}
	if user := middleware.GetUser(r); user != nil {
		data["Name"] = user.Name
		data["Email"] = user.Email
		data["Phone"] = user.Phone
	}
	h.render(w, r, "frontend/contact", i18n.T("ko", "nav.contact"), data)
}

// ContactSubmit stores an inquiry from the contact form.
func (h *FrontendHandler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteContact) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	subject := strings.TrimSpace(r.FormValue("subject"))
	message := strings.TrimSpace(r.FormValue("message"))

	if name == "" || subject == "" || message == "" || !validateEmail(email) {
		flashError(w, r, h.renderer, RouteContact, "입력 내용을 확인해 주세요")
		return
	}

	ua := useragent.Parse(r.UserAgent())
	browser := strings.TrimSpace(ua.Name + " " + ua.Version)

	inquiry, err := h.queries.CreateInquiry(r.Context(), store.CreateInquiryParams{
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(r.FormValue("phone")),
		Subject:   subject,
		Message:   message,
		ClientIP:  ClientIP(r),
		UserAgent: r.UserAgent(),
		Browser:   browser,
	})
	if err != nil {
		logAndInternalError(w, "inquiry create error", "error", err)
		return
	}

	_ = h.eventService.LogInquiryEvent(r.Context(), model.EventLevelInfo,
		"inquiry received", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"inquiry_id": inquiry.ID, "subject": subject})

	flashSuccess(w, r, h.renderer, RouteContact, i18n.T("ko", "contact.received"))
}

// CrewApplyForm renders the crew application form. Members only.
func (h *FrontendHandler) CrewApplyForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin+"?next="+RouteCrew+"/apply", http.StatusSeeOther)
		return
	}
	if h.hasPendingCrewApplication(r, user.ID) {
		flashError(w, r, h.renderer, RouteMyPage, i18n.T("ko", "crew.already_applied"))
		return
	}
	h.render(w, r, "frontend/crew_apply", i18n.T("ko", "nav.crew"), map[string]any{
		"Motivation": "", "Availability": "",
	})
}

// CrewApplySubmit stores a member's crew application.
func (h *FrontendHandler) CrewApplySubmit(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin+"?next="+RouteCrew+"/apply", http.StatusSeeOther)
		return
	}
	if h.hasPendingCrewApplication(r, user.ID) {
		flashError(w, r, h.renderer, RouteMyPage, i18n.T("ko", "crew.already_applied"))
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, RouteCrew+"/apply") {
		return
	}

	motivation := strings.TrimSpace(r.FormValue("motivation"))
	availability := strings.TrimSpace(r.FormValue("availability"))
	if motivation == "" || availability == "" {
		flashError(w, r, h.renderer, RouteCrew+"/apply", "입력 내용을 확인해 주세요")
		return
	}

	app, err := h.queries.CreateCrewApplication(r.Context(), store.CreateCrewApplicationParams{
		UserID:       util.NullInt64FromValue(user.ID),
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		Motivation:   motivation,
		Availability: availability,
	})
	if err != nil {
		logAndInternalError(w, "crew application error", "error", err)
		return
	}

	_ = h.eventService.LogCrewEvent(r.Context(), model.EventLevelInfo,
		"crew application submitted", &user.ID, ClientIP(r),
		map[string]any{"application_id": app.ID})

	flashSuccess(w, r, h.renderer, RouteMyPage, i18n.T("ko", "crew.applied"))
}

func (h *FrontendHandler) hasPendingCrewApplication(r *http.Request, userID int64) bool {
	_, err := h.queries.GetPendingCrewApplicationByUser(r.Context(), userID)
	return err == nil
}

// MyPage renders the member profile page with application history.
func (h *FrontendHandler) MyPage(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin+"?next="+RouteMyPage, http.StatusSeeOther)
		return
	}

	applications, err := h.queries.ListProgramApplicationsByEmail(r.Context(), user.Email)
	if err != nil {
		logAndInternalError(w, "application history query error", "error", err)
		return
	}

	h.render(w, r, "frontend/mypage", i18n.T("ko", "nav.mypage"), map[string]any{
		"Applications": applications,
	})
}

// MyPageUpdate saves profile edits. The email field is display-only.
func (h *FrontendHandler) MyPageUpdate(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, RouteMyPage) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		flashError(w, r, h.renderer, RouteMyPage, "이름을 입력해 주세요")
		return
	}

	_, err := h.identity.UpdateProfile(r.Context(), identity.UpdateProfileParams{
		ID:              user.ID,
		Name:            name,
		Phone:           user.Phone,
		Gender:          user.Gender,
		JoinPath:        user.JoinPath,
		FirstImpression: user.FirstImpression,
	})
	if err != nil {
		logAndInternalError(w, "profile update error", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, RouteMyPage, "프로필이 저장되었습니다")
}

// MyPagePassword changes the member's password.
func (h *FrontendHandler) MyPagePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLogin, http.StatusSeeOther)
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, RouteMyPage) {
		return
	}

	next := r.FormValue("new_password")
	if msg := validatePassword(next); msg != "" {
		flashError(w, r, h.renderer, RouteMyPage, msg)
		return
	}

	err := h.identity.ChangePassword(r.Context(), user.ID, r.FormValue("current_password"), next)
	if errors.Is(err, identity.ErrInvalidPassword) {
		flashError(w, r, h.renderer, RouteMyPage, "현재 비밀번호가 올바르지 않습니다")
		return
	}
	if err != nil {
		logAndInternalError(w, "password change error", "error", err)
		return
	}

	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo,
		"password changed", &user.ID, ClientIP(r), nil)

	flashSuccess(w, r, h.renderer, RouteMyPage, "비밀번호가 변경되었습니다")
}

// sitemapListSize caps how many entries each content section contributes
// to the sitemap.
const sitemapListSize = 500

// Robots serves robots.txt.
func (h *FrontendHandler) Robots(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.GenerateRobots(seo.RobotsConfig{SiteURL: h.siteURL})))
}

// Sitemap serves sitemap.xml built from the published content.
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	b := seo.NewSitemapBuilder(h.siteURL)
	b.AddHomepage()
	for _, section := range []string{"/about", RoutePrograms, RouteNews, RoutePress, RouteFootsteps, RouteContact} {
		b.AddSection(section)
	}

	news, err := h.queries.ListPublishedNews(ctx, store.ListPublishedNewsParams{Limit: sitemapListSize})
	if err != nil {
		logAndInternalError(w, "sitemap news query error", "error", err)
		return
	}
	for _, n := range news {
		b.AddEntry(RouteNews, seo.SitemapEntry{Slug: n.Slug, UpdatedAt: n.UpdatedAt})
	}

	footsteps, err := h.queries.ListPublishedFootsteps(ctx, store.ListFootstepsParams{Limit: sitemapListSize})
	if err != nil {
		logAndInternalError(w, "sitemap footsteps query error", "error", err)
		return
	}
	for _, f := range footsteps {
		b.AddEntry(RouteFootsteps, seo.SitemapEntry{Slug: f.Slug, UpdatedAt: f.UpdatedAt})
	}

	programs, err := h.queries.ListPrograms(ctx)
	if err != nil {
		logAndInternalError(w, "sitemap programs query error", "error", err)
		return
	}
	for _, p := range programs {
		b.AddEntry(RoutePrograms, seo.SitemapEntry{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}

	out, err := b.Build()
	if err != nil {
		logAndInternalError(w, "sitemap build error", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}
