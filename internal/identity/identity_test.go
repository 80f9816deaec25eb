package identity

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/middleware"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
	"github.com/dreamhouse-coop/dreamhouse-go/internal/store"
)

func testService(t *testing.T) (*Service, *store.Queries) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "identity-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	queries := store.New(db)
	return NewService(queries, nil), queries
}

func register(t *testing.T, svc *Service, email, password string) model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterParams{
		Email:    email,
		Password: password,
		Name:     "Test Member",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user
}

func TestRegisterCreatesMember(t *testing.T) {
	svc, _ := testService(t)

	user := register(t, svc, "member@dreamhouse.coop", "sturdy-password-1")

	if user.ID == 0 {
		t.Error("ID should be set")
	}
	if user.Role != model.RoleMember {
		t.Errorf("Role = %q, want member", user.Role)
	}
	if user.PasswordHash == "sturdy-password-1" {
		t.Error("password must not be stored in plain text")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := testService(t)

	register(t, svc, "dup@dreamhouse.coop", "sturdy-password-1")

	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "dup@dreamhouse.coop",
		Password: "another-password",
		Name:     "Other",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _ := testService(t)

	user := register(t, svc, "  Mixed.Case@Dreamhouse.COOP ", "sturdy-password-1")
	if user.Email != "mixed.case@dreamhouse.coop" {
		t.Errorf("Email = %q, want normalized lowercase", user.Email)
	}

	// A differently-cased signup for the same address is a duplicate.
	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "MIXED.CASE@dreamhouse.coop",
		Password: "another-password",
		Name:     "Other",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	created := register(t, svc, "login@dreamhouse.coop", "sturdy-password-1")

	user, err := svc.Login(ctx, "login@dreamhouse.coop", "sturdy-password-1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("ID = %d, want %d", user.ID, created.ID)
	}
}

func TestLoginClearsLockoutViaSubscriber(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()
	email := "locked@dreamhouse.coop"

	register(t, svc, email, "sturdy-password-1")

	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	svc.Subscribe(func(c Change) {
		if c.Type == ChangeLoggedIn {
			lp.RecordSuccessfulLogin(c.User.Email)
		}
	})

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	before := lp.GetRemainingAttempts(email)

	if _, err := svc.Login(ctx, email, "sturdy-password-1"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	after := lp.GetRemainingAttempts(email)
	if after <= before {
		t.Errorf("remaining attempts = %d, want more than %d after login", after, before)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := testService(t)

	register(t, svc, "wrongpw@dreamhouse.coop", "sturdy-password-1")

	_, err := svc.Login(context.Background(), "wrongpw@dreamhouse.coop", "not-the-password")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("err = %v, want ErrInvalidPassword", err)
	}
}

func TestLoginPasswordIsByteExact(t *testing.T) {
	svc, _ := testService(t)

	register(t, svc, "exact@dreamhouse.coop", "sturdy-password-1")

	// Trailing whitespace is part of the password, not noise.
	_, err := svc.Login(context.Background(), "exact@dreamhouse.coop", "sturdy-password-1 ")
	if !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("err = %v, want ErrInvalidPassword", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := testService(t)

	_, err := svc.Login(context.Background(), "ghost@dreamhouse.coop", "whatever")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestCurrentUser(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	created := register(t, svc, "current@dreamhouse.coop", "sturdy-password-1")

	user, err := svc.CurrentUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if user.Email != created.Email {
		t.Errorf("Email = %q, want %q", user.Email, created.Email)
	}

	_, err = svc.CurrentUser(ctx, created.ID+1000)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateProfileNotifiesSubscribers(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	created := register(t, svc, "notify@dreamhouse.coop", "sturdy-password-1")

	var changes []Change
	svc.Subscribe(func(c Change) { changes = append(changes, c) })

	updated, err := svc.UpdateProfile(ctx, UpdateProfileParams{
		ID:    created.ID,
		Name:  "Renamed Member",
		Phone: "010-1234-5678",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "Renamed Member" {
		t.Errorf("Name = %q, want %q", updated.Name, "Renamed Member")
	}

	if len(changes) != 1 {
		t.Fatalf("len(changes) = %d, want 1", len(changes))
	}
	if changes[0].Type != ChangeUpdated {
		t.Errorf("Type = %q, want %q", changes[0].Type, ChangeUpdated)
	}
	if changes[0].User.Name != "Renamed Member" {
		t.Errorf("subscriber saw Name = %q, want updated name", changes[0].User.Name)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	created := register(t, svc, "rotate@dreamhouse.coop", "old-password-123")

	if err := svc.ChangePassword(ctx, created.ID, "wrong", "new-password-456"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("err = %v, want ErrInvalidPassword", err)
	}

	if err := svc.ChangePassword(ctx, created.ID, "old-password-123", "new-password-456"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(ctx, "rotate@dreamhouse.coop", "old-password-123"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("old password still accepted: %v", err)
	}
	if _, err := svc.Login(ctx, "rotate@dreamhouse.coop", "new-password-456"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestPromoteToCrew(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	created := register(t, svc, "promote@dreamhouse.coop", "sturdy-password-1")

	var change Change
	svc.Subscribe(func(c Change) { change = c })

	promoted, err := svc.Promote(ctx, created.ID, model.RoleCrew,
		sql.NullString{String: model.CrewStatusApproved, Valid: true})
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if !promoted.IsCrew() {
		t.Error("promoted user should satisfy IsCrew")
	}
	if change.Type != ChangePromoted {
		t.Errorf("Type = %q, want %q", change.Type, ChangePromoted)
	}

	if _, err := svc.Promote(ctx, created.ID, "superuser", sql.NullString{}); err == nil {
		t.Error("expected error for invalid role")
	}
}
