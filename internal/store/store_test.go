package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "dreamhouse-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, q *Queries, email string) model.User {
	t.Helper()
	user, err := q.CreateUser(context.Background(), CreateUserParams{
		Email:        email,
		PasswordHash: "hashed-password",
		Name:         "Test User",
		Role:         model.RoleMember,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

func TestCreateUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	user, err := q.CreateUser(ctx, CreateUserParams{
		Email:        "test@dreamhouse.coop",
		PasswordHash: "hashed-password",
		Name:         "Test User",
		Role:         model.RoleMember,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if user.ID == 0 {
		t.Error("user.ID should not be 0")
	}
	if user.Email != "test@dreamhouse.coop" {
		t.Errorf("Email = %q, want %q", user.Email, "test@dreamhouse.coop")
	}
	if user.Role != model.RoleMember {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleMember)
	}
	if user.CrewStatus.Valid {
		t.Error("CrewStatus should be NULL for a new member")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	createTestUser(t, q, "dup@dreamhouse.coop")

	_, err := q.CreateUser(ctx, CreateUserParams{
		Email:        "dup@dreamhouse.coop",
		PasswordHash: "other-hash",
		Name:         "Other User",
		Role:         model.RoleMember,
	})
	if err == nil {
		t.Fatal("expected UNIQUE constraint error for duplicate email")
	}
}

func TestGetUserByEmail(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	created := createTestUser(t, q, "lookup@dreamhouse.coop")

	user, err := q.GetUserByEmail(ctx, "lookup@dreamhouse.coop")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("ID = %d, want %d", user.ID, created.ID)
	}

	_, err = q.GetUserByEmail(ctx, "missing@dreamhouse.coop")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestUpdateUserRole(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	user := createTestUser(t, q, "crew@dreamhouse.coop")

	updated, err := q.UpdateUserRole(ctx, UpdateUserRoleParams{
		ID:         user.ID,
		Role:       model.RoleCrew,
		CrewStatus: sql.NullString{String: model.CrewStatusApproved, Valid: true},
	})
	if err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	if updated.Role != model.RoleCrew {
		t.Errorf("Role = %q, want %q", updated.Role, model.RoleCrew)
	}
	if !updated.IsCrew() {
		t.Error("updated user should satisfy IsCrew")
	}
}

func TestListPublishedNewsFiltersByCategory(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	author := createTestUser(t, q, "author@dreamhouse.coop")

	mkNews := func(title, slug, category, status string, publishedAt time.Time) {
		t.Helper()
		_, err := q.CreateNews(ctx, CreateNewsParams{
			Title:       title,
			Slug:        slug,
			Body:        "body",
			Category:    category,
			Status:      status,
			AuthorID:    author.ID,
			PublishedAt: sql.NullTime{Time: publishedAt, Valid: status == model.NewsStatusPublished},
		})
		if err != nil {
			t.Fatalf("CreateNews(%s): %v", slug, err)
		}
	}

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	mkNews("Older news", "older-news", model.NewsCategoryNews, model.NewsStatusPublished, base)
	mkNews("Newer news", "newer-news", model.NewsCategoryNews, model.NewsStatusPublished, base.Add(time.Hour))
	mkNews("A notice", "a-notice", model.NewsCategoryNotice, model.NewsStatusPublished, base.Add(2*time.Hour))
	mkNews("Hidden draft", "hidden-draft", model.NewsCategoryNews, model.NewsStatusDraft, time.Time{})

	// Category filter returns only that category, drafts excluded.
	items, err := q.ListPublishedNews(ctx, ListPublishedNewsParams{
		Category: model.NewsCategoryNews,
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("ListPublishedNews: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Slug != "newer-news" || items[1].Slug != "older-news" {
		t.Errorf("wrong order: got %q then %q", items[0].Slug, items[1].Slug)
	}
	for _, n := range items {
		if n.Category != model.NewsCategoryNews {
			t.Errorf("category = %q, want %q", n.Category, model.NewsCategoryNews)
		}
	}

	// Empty category returns everything published.
	all, err := q.ListPublishedNews(ctx, ListPublishedNewsParams{Limit: 10})
	if err != nil {
		t.Fatalf("ListPublishedNews(all): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}

	count, err := q.CountPublishedNews(ctx, model.NewsCategoryNotice)
	if err != nil {
		t.Fatalf("CountPublishedNews: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestPublishDueNews(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	author := createTestUser(t, q, "scheduler@dreamhouse.coop")

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(24 * time.Hour)

	due, err := q.CreateNews(ctx, CreateNewsParams{
		Title: "Due", Slug: "due", Category: model.NewsCategoryNews,
		Status: model.NewsStatusDraft, AuthorID: author.ID,
		ScheduledAt: sql.NullTime{Time: past, Valid: true},
	})
	if err != nil {
		t.Fatalf("CreateNews(due): %v", err)
	}
	notDue, err := q.CreateNews(ctx, CreateNewsParams{
		Title: "Not due", Slug: "not-due", Category: model.NewsCategoryNews,
		Status: model.NewsStatusDraft, AuthorID: author.ID,
		ScheduledAt: sql.NullTime{Time: future, Valid: true},
	})
	if err != nil {
		t.Fatalf("CreateNews(not-due): %v", err)
	}

	n, err := q.PublishDueNews(ctx)
	if err != nil {
		t.Fatalf("PublishDueNews: %v", err)
	}
	if n != 1 {
		t.Errorf("published = %d, want 1", n)
	}

	got, err := q.GetNewsByID(ctx, due.ID)
	if err != nil {
		t.Fatalf("GetNewsByID: %v", err)
	}
	if got.Status != model.NewsStatusPublished {
		t.Errorf("due status = %q, want published", got.Status)
	}
	if !got.PublishedAt.Valid {
		t.Error("due article should have published_at set")
	}

	still, err := q.GetNewsByID(ctx, notDue.ID)
	if err != nil {
		t.Fatalf("GetNewsByID: %v", err)
	}
	if still.Status != model.NewsStatusDraft {
		t.Errorf("not-due status = %q, want draft", still.Status)
	}
}

func TestInquiryLifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	inq, err := q.CreateInquiry(ctx, CreateInquiryParams{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Subject: "Program question",
		Message: "When does the spring program start?",
	})
	if err != nil {
		t.Fatalf("CreateInquiry: %v", err)
	}
	if inq.Status != model.InquiryStatusNew {
		t.Errorf("Status = %q, want %q", inq.Status, model.InquiryStatusNew)
	}

	answered, err := q.AnswerInquiry(ctx, AnswerInquiryParams{
		ID:     inq.ID,
		Answer: "It starts in April.",
	})
	if err != nil {
		t.Fatalf("AnswerInquiry: %v", err)
	}
	if answered.Status != model.InquiryStatusAnswered {
		t.Errorf("Status = %q, want %q", answered.Status, model.InquiryStatusAnswered)
	}
	if !answered.AnsweredAt.Valid {
		t.Error("AnsweredAt should be set")
	}

	count, err := q.CountNewInquiries(ctx)
	if err != nil {
		t.Fatalf("CountNewInquiries: %v", err)
	}
	if count != 0 {
		t.Errorf("new inquiries = %d, want 0", count)
	}
}

func TestDecideCrewApplication(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	applicant := createTestUser(t, q, "applicant@dreamhouse.coop")
	admin := createTestUser(t, q, "admin@dreamhouse.coop")

	app, err := q.CreateCrewApplication(ctx, CreateCrewApplicationParams{
		UserID:     sql.NullInt64{Int64: applicant.ID, Valid: true},
		Name:       applicant.Name,
		Email:      applicant.Email,
		Motivation: "I want to help with programs.",
	})
	if err != nil {
		t.Fatalf("CreateCrewApplication: %v", err)
	}
	if !app.IsPending() {
		t.Error("new application should be pending")
	}

	pending, err := q.GetPendingCrewApplicationByUser(ctx, applicant.ID)
	if err != nil {
		t.Fatalf("GetPendingCrewApplicationByUser: %v", err)
	}
	if pending.ID != app.ID {
		t.Errorf("pending.ID = %d, want %d", pending.ID, app.ID)
	}

	decided, err := q.DecideCrewApplication(ctx, DecideCrewApplicationParams{
		ID:        app.ID,
		Status:    model.ApplicationStatusApproved,
		DecidedBy: sql.NullInt64{Int64: admin.ID, Valid: true},
	})
	if err != nil {
		t.Fatalf("DecideCrewApplication: %v", err)
	}
	if decided.Status != model.ApplicationStatusApproved {
		t.Errorf("Status = %q, want approved", decided.Status)
	}
	if !decided.DecidedAt.Valid {
		t.Error("DecidedAt should be set")
	}

	_, err = q.GetPendingCrewApplicationByUser(ctx, applicant.ID)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected no pending application, got %v", err)
	}
}

func TestConfigUpsert(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	q := New(db)

	// Seeded by the initial migration.
	c, err := q.GetConfig(ctx, model.ConfigKeySiteName)
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if c.Value != "Dream House" {
		t.Errorf("Value = %q, want %q", c.Value, "Dream House")
	}

	if err := q.SetConfig(ctx, model.ConfigKeySiteName, "Dream House Coop"); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	c, err = q.GetConfig(ctx, model.ConfigKeySiteName)
	if err != nil {
		t.Fatalf("GetConfig after update: %v", err)
	}
	if c.Value != "Dream House Coop" {
		t.Errorf("Value = %q, want %q", c.Value, "Dream House Coop")
	}
}

func TestSeedIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	params := SeedParams{
		AdminEmail:    "admin@dreamhouse.coop",
		AdminPassword: "initial-password-1234",
	}
	if err := Seed(ctx, db, params); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := Seed(ctx, db, params); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	q := New(db)
	count, err := q.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("users = %d, want 1", count)
	}

	admin, err := q.GetUserByEmail(ctx, params.AdminEmail)
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if admin.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin", admin.Role)
	}
}
