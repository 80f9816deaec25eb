package middleware

import (
	"testing"
	"time"
)

func newTestProtection() *LoginProtection {
	return NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100, // effectively unlimited for tests
		IPBurst:           100,
		MaxFailedAttempts: 3,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	})
}

func TestRecordFailedAttemptLocksAccount(t *testing.T) {
	lp := newTestProtection()
	email := "victim@dreamhouse.coop"

	for i := 0; i < 2; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("locked after %d attempts, want 3", i+1)
		}
	}

	locked, duration := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("expected lock after 3 failed attempts")
	}
	if duration != 15*time.Minute {
		t.Errorf("duration = %v, want 15m", duration)
	}

	isLocked, remaining := lp.IsAccountLocked(email)
	if !isLocked {
		t.Error("IsAccountLocked = false, want true")
	}
	if remaining <= 0 {
		t.Errorf("remaining = %v, want > 0", remaining)
	}
}

func TestLockoutDurationDoubles(t *testing.T) {
	lp := newTestProtection()
	email := "repeat@dreamhouse.coop"

	// First lockout.
	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	locked, first := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("expected first lockout")
	}

	// Simulate the lockout expiring, then a second round of failures.
	lp.attemptsMu.Lock()
	lp.failedAttempts[email].lockedUntil = time.Now().Add(-time.Minute)
	lp.attemptsMu.Unlock()

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	locked, second := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("expected second lockout")
	}
	if second != first*2 {
		t.Errorf("second lockout = %v, want %v", second, first*2)
	}
}

func TestRecordSuccessfulLoginResets(t *testing.T) {
	lp := newTestProtection()
	email := "recovers@dreamhouse.coop"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	if got := lp.GetRemainingAttempts(email); got != 1 {
		t.Errorf("remaining = %d, want 1", got)
	}

	lp.RecordSuccessfulLogin(email)
	if got := lp.GetRemainingAttempts(email); got != 3 {
		t.Errorf("remaining after success = %d, want 3", got)
	}
}

func TestIPRateLimit(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit: 1,
		IPBurst:     2,
	})

	ip := "203.0.113.9"
	if !lp.CheckIPRateLimit(ip) {
		t.Error("first request should pass")
	}
	if !lp.CheckIPRateLimit(ip) {
		t.Error("second request should pass within burst")
	}
	if lp.CheckIPRateLimit(ip) {
		t.Error("third request should be limited")
	}

	// Another IP has its own budget.
	if !lp.CheckIPRateLimit("198.51.100.4") {
		t.Error("different IP should not be limited")
	}
}
