// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jeranaias/pony-tui/internal/model"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestNew_Empty(t *testing.T) {
	s := New("  ")
	if _, ok := s.Credential(); ok {
		t.Error("empty store should have no credential")
	}
	if s.State().LoggedIn {
		t.Error("empty store should not be logged in")
	}
}

func TestNew_InitialToken(t *testing.T) {
	s := New("opaque-token")
	cred, ok := s.Credential()
	if !ok || cred != "opaque-token" {
		t.Errorf("Credential() = %q, %v; want opaque-token, true", cred, ok)
	}
	if s.State().UserID != "" {
		t.Error("opaque token should carry no user id")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvToken, "from-env")
	cred, ok := FromEnv().Credential()
	if !ok || cred != "from-env" {
		t.Errorf("Credential() = %q, %v", cred, ok)
	}
}

func TestLogin_ReadsClaims(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	raw := signed(t, jwt.MapClaims{"sub": 7, "exp": now.Add(time.Hour).Unix()})

	s := New("").WithClock(func() time.Time { return now })
	if err := s.Login(model.Token{AccessToken: raw, TokenType: "bearer"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	st := s.State()
	if !st.LoggedIn {
		t.Fatal("expected logged in")
	}
	if st.UserID != "7" {
		t.Errorf("UserID = %q, want 7", st.UserID)
	}
	if !st.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("ExpiresAt = %v", st.ExpiresAt)
	}
	if got := s.Remaining(); got != time.Hour {
		t.Errorf("Remaining = %v, want 1h", got)
	}
}

func TestLogin_Empty(t *testing.T) {
	s := New("")
	if err := s.Login(model.Token{}); err != ErrEmptyToken {
		t.Errorf("Login(empty) = %v, want ErrEmptyToken", err)
	}
}

func TestLogin_ExpiresInFallback(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := New("").WithClock(func() time.Time { return now })
	if err := s.Login(model.Token{AccessToken: "opaque", ExpiresIn: 60}); err != nil {
		t.Fatal(err)
	}
	if got := s.State().ExpiresAt; !got.Equal(now.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v", got)
	}
}

func TestCredential_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	raw := signed(t, jwt.MapClaims{"sub": "alice", "exp": now.Add(time.Minute).Unix()})

	clock := now
	s := New("").WithClock(func() time.Time { return clock })
	if err := s.Login(model.Token{AccessToken: raw}); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Credential(); !ok {
		t.Fatal("fresh token should be usable")
	}

	clock = now.Add(2 * time.Minute)
	if _, ok := s.Credential(); ok {
		t.Error("expired token should not be returned")
	}
	if s.State().LoggedIn {
		t.Error("expired session should not report logged in")
	}
	if s.Remaining() != 0 {
		t.Error("expired session should have no time remaining")
	}
}

func TestLogout_ClearsAndNotifies(t *testing.T) {
	s := New("tok")

	var mu sync.Mutex
	var states []State
	s.OnChange(func(st State) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})

	if err := s.Login(model.Token{Token: "other"}); err != nil {
		t.Fatal(err)
	}
	s.Logout()

	if _, ok := s.Credential(); ok {
		t.Error("credential should be cleared")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(states) != 2 {
		t.Fatalf("got %d notifications, want 2", len(states))
	}
	if !states[0].LoggedIn || states[1].LoggedIn {
		t.Errorf("notifications = %+v", states)
	}
}

func TestOnChange_RegisteredDuringNotifyRunsNextTime(t *testing.T) {
	s := New("")

	var late int
	s.OnChange(func(st State) {
		// Re-entering the store must not deadlock.
		_ = s.State()
		s.OnChange(func(State) { late++ })
	})

	if err := s.Login(model.Token{Token: "tok"}); err != nil {
		t.Fatal(err)
	}
	if late != 0 {
		t.Errorf("callback added mid-notify ran %d times in the same round", late)
	}

	s.Logout()
	if late != 1 {
		t.Errorf("late callback ran %d times after logout, want 1", late)
	}
}

func TestStore_SatisfiesCredentials(t *testing.T) {
	var _ Credentials = New("")
}
