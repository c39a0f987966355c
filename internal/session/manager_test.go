package session

import (
	"testing"
	"time"
)

func TestIssueAndGet(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.Issue()
	if s.Token == "" || s.ID == "" {
		t.Fatalf("incomplete session: %+v", s)
	}
	got, ok := m.Get(s.Token)
	if !ok || got.ID != s.ID {
		t.Fatalf("expected session back, got %+v ok=%v", got, ok)
	}
	if _, ok := m.Get("unknown"); ok {
		t.Fatal("unknown token must not resolve")
	}
}

func TestGetExpiresLazily(t *testing.T) {
	m := NewManager(time.Hour)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	s := m.Issue()

	m.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, ok := m.Get(s.Token); ok {
		t.Fatal("expired session must not resolve")
	}
}

func TestAuthenticateKeepsCartKey(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.Issue()
	keyBefore := s.CartKey()

	if !m.Authenticate(s.Token, "access-1", "c1") {
		t.Fatal("authenticate failed")
	}
	got, _ := m.Get(s.Token)
	if !got.Authenticated() || got.AccessToken != "access-1" || got.Customer != "c1" {
		t.Fatalf("unexpected session: %+v", got)
	}
	if got.CartKey() != keyBefore {
		t.Fatal("cart key must survive login")
	}

	m.Logout(s.Token)
	got, _ = m.Get(s.Token)
	if got.Authenticated() {
		t.Fatal("logout must drop the platform token")
	}
	if got.CartKey() != keyBefore {
		t.Fatal("cart key must survive logout")
	}
}
