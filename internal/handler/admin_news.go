// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

// NewsList renders the admin news index.
func (h *AdminHandler) NewsList(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	items, err := h.queries.ListNews(r.Context(), store.ListNewsParams{
		Limit:  adminPerPage,
		Offset: pageOffset(page, adminPerPage),
	})
	if err != nil {
		logAndInternalError(w, "news query error", "error", err)
		return
	}
	total, err := h.queries.CountNews(r.Context())
	if err != nil {
		logAndInternalError(w, "news count error", "error", err)
		return
	}

	h.render(w, r, "admin/news_list", "소식 관리", map[string]any{
		"Items":      items,
		"Pagination": buildPagination(page, total, adminPerPage, redirectAdminNews, r.URL.Query()),
	})
}

// NewsNewForm renders the empty article form.
func (h *AdminHandler) NewsNewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "admin/news_form", "새 글", map[string]any{
		"Action":           redirectAdminNews,
		"News":             model.News{Category: model.NewsCategoryNews, Status: model.NewsStatusDraft},
		"ScheduledAtValue": "",
	})
}

// NewsEditForm renders the article form prefilled for editing.
func (h *AdminHandler) NewsEditForm(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminNews, "잘못된 요청입니다")
		return
	}
	news, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminNews, "글", id,
		func(id int64) (model.News, error) {
			return h.queries.GetNewsByID(r.Context(), id)
		})
	if !ok {
		return
	}

	scheduledValue := ""
	if news.ScheduledAt.Valid {
		scheduledValue = news.ScheduledAt.Time.Local().Format("2006-01-02T15:04")
	}

	h.render(w, r, "admin/news_form", "글 수정", map[string]any{
		"Action":           redirectAdminNews + "/" + formatID(news.ID),
		"News":             news,
		"ScheduledAtValue": scheduledValue,
	})
}

// newsFormInput holds validated fields from the article form.
type newsFormInput struct {
	Title       string
	Slug        string
	Body        string
	Category    string
	Status      string
	ScheduledAt sql.NullTime
	Thumbnail   multipart.File
	Filename    string
}

// parseNewsForm validates the article form. An empty error message
// means the input is usable.
func (h *AdminHandler) parseNewsForm(r *http.Request, currentSlug string) (newsFormInput, string) {
	var in newsFormInput

	in.Title = strings.TrimSpace(r.FormValue("title"))
	if in.Title == "" {
		return in, "제목을 입력해 주세요"
	}

	in.Category = r.FormValue("category")
	if !model.IsValidNewsCategory(in.Category) {
		return in, "잘못된 분류입니다"
	}
	in.Status = r.FormValue("status")
	if !model.IsValidNewsStatus(in.Status) {
		return in, "잘못된 상태입니다"
	}

	slug, errMsg := resolveSlug(r.FormValue("slug"), in.Title, func(s string) bool {
		if s == currentSlug {
			return false
		}
		_, err := h.queries.GetNewsBySlug(r.Context(), s)
		return err == nil
	})
	if errMsg != "" {
		return in, errMsg
	}
	in.Slug = slug

	in.Body = h.sanitizer.Sanitize(r.FormValue("body"))

	if raw := r.FormValue("scheduled_at"); raw != "" {
		t, err := parseDateTimeLocal(raw)
		if err != nil {
			return in, "예약 게시 일시 형식이 올바르지 않습니다"
		}
		in.ScheduledAt = sql.NullTime{Time: t.UTC(), Valid: true}
		// A scheduled article stays a draft until the scheduler
		// flips it.
		in.Status = model.NewsStatusDraft
	}

	file, header, err := r.FormFile("thumbnail")
	if err == nil {
		in.Thumbnail = file
		in.Filename = header.Filename
	}

	return in, ""
}

// processThumbnail stores an uploaded thumbnail and returns its public
// path, or the previous path when no new file was uploaded.
func (h *AdminHandler) processThumbnail(in newsFormInput, previous string) (string, error) {
	if in.Thumbnail == nil {
		return previous, nil
	}
	defer in.Thumbnail.Close()

	id := uuid.NewString()
	result, err := h.images.ProcessImage(in.Thumbnail, id, in.Filename)
	if err != nil {
		return "", err
	}

	variants, err := h.images.CreateAllVariants(result.FilePath, id, in.Filename)
	if err != nil {
		return "", err
	}
	for _, v := range variants {
		if v.Type == "thumbnail" {
			return "/uploads/" + h.images.RelPath(v.FilePath), nil
		}
	}
	// Source smaller than every variant target: serve the original.
	return "/uploads/" + h.images.RelPath(result.FilePath), nil
}

// NewsCreate stores a new article.
func (h *AdminHandler) NewsCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		flashError(w, r, h.renderer, redirectAdminNews+RouteSuffixNew, "입력 내용을 확인해 주세요")
		return
	}

	in, errMsg := h.parseNewsForm(r, "")
	if errMsg != "" {
		flashError(w, r, h.renderer, redirectAdminNews+RouteSuffixNew, errMsg)
		return
	}

	thumbnailPath, err := h.processThumbnail(in, "")
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminNews+RouteSuffixNew, "이미지 처리에 실패했습니다")
		return
	}

	var publishedAt sql.NullTime
	if in.Status == model.NewsStatusPublished {
		publishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}

	news, err := h.queries.CreateNews(r.Context(), store.CreateNewsParams{
		Title:         in.Title,
		Slug:          in.Slug,
		Body:          in.Body,
		Category:      in.Category,
		Status:        in.Status,
		AuthorID:      middleware.GetUserID(r),
		ThumbnailPath: thumbnailPath,
		PublishedAt:   publishedAt,
		ScheduledAt:   in.ScheduledAt,
	})
	if err != nil {
		logAndInternalError(w, "news create error", "error", err)
		return
	}

	h.cache.InvalidateNewsFragments(r.Context())
	_ = h.eventService.LogNewsEvent(r.Context(), model.EventLevelInfo,
		"news created", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"news_id": news.ID, "title": news.Title})

	flashSuccess(w, r, h.renderer, redirectAdminNews, "저장되었습니다")
}

// NewsUpdate saves edits to an article.
func (h *AdminHandler) NewsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminNews, "잘못된 요청입니다")
		return
	}
	current, ok := requireEntityWithRedirect(w, r, h.renderer, redirectAdminNews, "글", id,
		func(id int64) (model.News, error) {
			return h.queries.GetNewsByID(r.Context(), id)
		})
	if !ok {
		return
	}
	editPath := redirectAdminNews + "/" + formatID(current.ID)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		flashError(w, r, h.renderer, editPath, "입력 내용을 확인해 주세요")
		return
	}

	in, errMsg := h.parseNewsForm(r, current.Slug)
	if errMsg != "" {
		flashError(w, r, h.renderer, editPath, errMsg)
		return
	}

	thumbnailPath, err := h.processThumbnail(in, current.ThumbnailPath)
	if err != nil {
		flashError(w, r, h.renderer, editPath, "이미지 처리에 실패했습니다")
		return
	}

	publishedAt := current.PublishedAt
	if in.Status == model.NewsStatusPublished && !publishedAt.Valid {
		publishedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	}

	news, err := h.queries.UpdateNews(r.Context(), store.UpdateNewsParams{
		ID:            current.ID,
		Title:         in.Title,
		Slug:          in.Slug,
		Body:          in.Body,
		Category:      in.Category,
		Status:        in.Status,
		ThumbnailPath: thumbnailPath,
		PublishedAt:   publishedAt,
		ScheduledAt:   in.ScheduledAt,
	})
	if err != nil {
		logAndInternalError(w, "news update error", "error", err)
		return
	}

	h.cache.InvalidateNewsFragments(r.Context())
	_ = h.eventService.LogNewsEvent(r.Context(), model.EventLevelInfo,
		"news updated", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"news_id": news.ID, "title": news.Title})

	flashSuccess(w, r, h.renderer, redirectAdminNews, "저장되었습니다")
}

// NewsDelete removes an article.
func (h *AdminHandler) NewsDelete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminNews, "잘못된 요청입니다")
		return
	}

	if err := h.queries.DeleteNews(r.Context(), id); err != nil {
		logAndInternalError(w, "news delete error", "error", err)
		return
	}

	h.cache.InvalidateNewsFragments(r.Context())
	_ = h.eventService.LogNewsEvent(r.Context(), model.EventLevelInfo,
		"news deleted", middleware.GetUserIDPtr(r), ClientIP(r),
		map[string]any{"news_id": id})

	flashSuccess(w, r, h.renderer, redirectAdminNews, "삭제되었습니다")
}
