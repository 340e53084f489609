package auth

import (
	"errors"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testIdentity() Identity {
	return Identity{
		ID:    "user-42",
		Email: "a@b.com",
		Name:  "Alice",
		Role:  RoleUser,
	}
}

func TestNewTokensRejectsShortSecret(t *testing.T) {
	if _, err := NewTokens("short"); err == nil {
		t.Fatal("expected error for short secret")
	}
	if _, err := NewTokens(testSecret); err != nil {
		t.Fatalf("32-byte secret must be accepted: %v", err)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tk, err := NewTokens(testSecret)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	want := testIdentity()

	token, exp, err := tk.IssueAccess(want)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected future expiry, got %v", exp)
	}

	got, err := tk.VerifyAccess(token)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if got != want {
		t.Fatalf("identity mismatch: got %+v want %+v", got, want)
	}
}

func TestAccessTokenExpires(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tk, err := NewTokens(testSecret, WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	token, _, err := tk.IssueAccess(testIdentity())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	// Just inside the window: still valid.
	tk.now = func() time.Time { return now.Add(15*time.Minute - time.Second) }
	if _, err := tk.VerifyAccess(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	// One second past expiry: rejected.
	tk.now = func() time.Time { return now.Add(15*time.Minute + time.Second) }
	if _, err := tk.VerifyAccess(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tk, err := NewTokens(testSecret)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	token, _, err := tk.IssueRefresh("user-42")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	id, err := tk.VerifyRefresh(token)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if id != "user-42" {
		t.Fatalf("unexpected subject: %s", id)
	}
}

func TestTokenTypeDiscriminant(t *testing.T) {
	tk, err := NewTokens(testSecret)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	access, _, err := tk.IssueAccess(testIdentity())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := tk.VerifyRefresh(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token must not pass refresh verification, got %v", err)
	}

	refresh, _, err := tk.IssueRefresh("user-42")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if _, err := tk.VerifyAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token must not pass access verification, got %v", err)
	}
}

func TestVerifyAccessFailsClosed(t *testing.T) {
	tk, err := NewTokens(testSecret)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	cases := map[string]string{
		"empty":     "",
		"garbage":   "not.a.token",
		"truncated": "eyJhbGciOiJIUzI1NiJ9",
	}
	for name, token := range cases {
		if _, err := tk.VerifyAccess(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}

	// Signed with a different secret.
	other, err := NewTokens("ffffffffffffffffffffffffffffffff")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	forged, _, err := other.IssueAccess(testIdentity())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := tk.VerifyAccess(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong signature, got %v", err)
	}
}

func TestVerifyAccessChecksIssuerAndAudience(t *testing.T) {
	issuerA, err := NewTokens(testSecret, WithIssuer("service-a"))
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	issuerB, err := NewTokens(testSecret, WithIssuer("service-b"))
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	token, _, err := issuerA.IssueAccess(testIdentity())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := issuerB.VerifyAccess(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected issuer mismatch to be rejected, got %v", err)
	}

	audA, err := NewTokens(testSecret, WithAudience("aud-a"))
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	audB, err := NewTokens(testSecret, WithAudience("aud-b"))
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	token, _, err = audA.IssueAccess(testIdentity())
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := audB.VerifyAccess(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected audience mismatch to be rejected, got %v", err)
	}
}

func TestIssuePair(t *testing.T) {
	tk, err := NewTokens(testSecret, WithAccessTTL(time.Minute), WithRefreshTTL(time.Hour))
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	pair, err := tk.IssuePair(testIdentity())
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected both tokens to be minted")
	}
	if !pair.RefreshExpiresAt.After(pair.AccessExpiresAt) {
		t.Fatal("refresh expiry must be after access expiry")
	}
}
