package token

import (
	"errors"
	"testing"
	"time"

	"github.com/kybaloo/expense-management/internal/errs"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func TestIssueAndVerifyPair(t *testing.T) {
	m := newTestManager()

	access, refresh, err := m.IssuePair("user-1")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("expected non-empty tokens")
	}
	if access == refresh {
		t.Fatal("access and refresh tokens must differ")
	}

	uid, err := m.VerifyAccess(access)
	if err != nil {
		t.Fatalf("VerifyAccess error: %v", err)
	}
	if uid != "user-1" {
		t.Fatalf("subject mismatch: got %q", uid)
	}

	uid, err = m.VerifyRefresh(refresh)
	if err != nil {
		t.Fatalf("VerifyRefresh error: %v", err)
	}
	if uid != "user-1" {
		t.Fatalf("subject mismatch: got %q", uid)
	}
}

func TestIssuePairNeverRepeatsWithinSameSecond(t *testing.T) {
	m := newTestManager()
	fixed := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	access1, refresh1, err := m.IssuePair("user-1")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}
	access2, refresh2, err := m.IssuePair("user-1")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	if refresh1 == refresh2 {
		t.Fatal("two refresh tokens issued at the same instant must differ")
	}
	if access1 == access2 {
		t.Fatal("two access tokens issued at the same instant must differ")
	}
}

func TestVerifyRejectsCrossKindTokens(t *testing.T) {
	m := newTestManager()

	access, refresh, err := m.IssuePair("user-1")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	if _, err := m.VerifyAccess(refresh); err == nil {
		t.Fatal("expected refresh token to fail access verification")
	}
	if _, err := m.VerifyRefresh(access); err == nil {
		t.Fatal("expected access token to fail refresh verification")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager("other-access", "other-refresh", time.Minute, time.Hour)

	access, _, err := m.IssuePair("user-1")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	_, err = other.VerifyAccess(access)
	if err == nil {
		t.Fatal("expected error")
	}
	var authErr *errs.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %T", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newTestManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	access, _, err := m.IssuePair("user-1")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	m.now = time.Now
	if _, err := m.VerifyAccess(access); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager()
	if _, err := m.VerifyAccess("not-a-token"); err == nil {
		t.Fatal("expected error")
	}
}
