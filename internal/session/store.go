// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jeranaias/pony-tui/internal/logging"
	"github.com/jeranaias/pony-tui/internal/model"
)

// EnvToken is the environment variable that seeds the initial token.
const EnvToken = "PONY_TOKEN"

// ErrEmptyToken is returned when Login receives no access token.
var ErrEmptyToken = errors.New("empty access token")

// Credentials supplies the bearer token for requests.
type Credentials interface {
	// Credential returns the token, or false when logged out or expired.
	Credential() (string, bool)
}

// State is a snapshot of the session.
type State struct {
	LoggedIn   bool
	UserID     string
	ExpiresAt  time.Time // zero when unknown
	LoggedInAt time.Time
}

// Store is the in-memory session. It is safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	token      string
	userID     string
	expiresAt  time.Time
	loggedInAt time.Time
	onChange   []func(State)
	now        func() time.Time
}

// New creates a store, logged in with initialToken when it is non-empty.
func New(initialToken string) *Store {
	s := &Store{now: time.Now}
	if initialToken = strings.TrimSpace(initialToken); initialToken != "" {
		s.setLocked(initialToken, 0)
	}
	return s
}

// FromEnv creates a store seeded from PONY_TOKEN.
func FromEnv() *Store {
	return New(os.Getenv(EnvToken))
}

// WithClock replaces the clock used for expiry checks.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// OnChange registers fn to run after every login and logout.
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Login replaces the session with tok.
func (s *Store) Login(tok model.Token) error {
	raw := strings.TrimSpace(tok.Value())
	if raw == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	s.setLocked(raw, tok.ExpiresIn)
	st := s.stateLocked()
	callbacks := slices.Clone(s.onChange)
	s.mu.Unlock()

	logging.Info().Str("user_id", st.UserID).Msg("logged in")
	for _, fn := range callbacks {
		fn(st)
	}
	return nil
}

// Logout clears the session.
func (s *Store) Logout() {
	s.mu.Lock()
	was := s.token != ""
	s.token, s.userID = "", ""
	s.expiresAt, s.loggedInAt = time.Time{}, time.Time{}
	st := s.stateLocked()
	callbacks := slices.Clone(s.onChange)
	s.mu.Unlock()

	if was {
		logging.Info().Msg("logged out")
	}
	for _, fn := range callbacks {
		fn(st)
	}
}

// Credential implements Credentials.
func (s *Store) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" || s.expiredLocked() {
		return "", false
	}
	return s.token, true
}

// State returns a snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Remaining returns the time until expiry, or 0 when unknown or expired.
func (s *Store) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || s.expiresAt.IsZero() {
		return 0
	}
	if d := s.expiresAt.Sub(s.now()); d > 0 {
		return d
	}
	return 0
}

func (s *Store) stateLocked() State {
	return State{
		LoggedIn:   s.token != "" && !s.expiredLocked(),
		UserID:     s.userID,
		ExpiresAt:  s.expiresAt,
		LoggedInAt: s.loggedInAt,
	}
}

func (s *Store) expiredLocked() bool {
	return !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt)
}

// setLocked stores raw and its claims. expiresIn (seconds) is used when the
// token carries no exp claim.
func (s *Store) setLocked(raw string, expiresIn int) {
	now := s.now()
	s.token = raw
	s.loggedInAt = now
	s.userID, s.expiresAt = "", time.Time{}

	if c, err := parseClaims(raw); err == nil {
		s.userID = c.subject
		s.expiresAt = c.expiresAt
	} else {
		logging.Debug().Err(err).Msg("access token is not a readable JWT")
	}
	if s.expiresAt.IsZero() && expiresIn > 0 {
		s.expiresAt = now.Add(time.Duration(expiresIn) * time.Second)
	}
}

type claims struct {
	subject   string
	expiresAt time.Time
}

// parseClaims reads sub and exp without verifying the signature.
func parseClaims(raw string) (claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, mc); err != nil {
		return claims{}, fmt.Errorf("parse token: %w", err)
	}

	var c claims
	switch sub := mc["sub"].(type) {
	case string:
		c.subject = sub
	case float64:
		c.subject = strconv.FormatFloat(sub, 'f', -1, 64)
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.expiresAt = exp.Time
	}
	return c, nil
}
