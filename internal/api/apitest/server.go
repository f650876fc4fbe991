// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest runs an in-process chat service for tests. It answers
// with the same status codes and error bodies as the real service.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// Routes, as registered on the server mux.
const (
	RouteToken        = "POST /auth/token"
	RouteRegistration = "POST /auth/registration"
	RouteMe           = "GET /users/me"
	RouteChats        = "GET /chats"
	RouteChat         = "GET /chats/{id}"
	RouteMessages     = "GET /chats/{id}/messages"
	RouteSend         = "POST /chats/{id}/messages"
)

// LoginFailure is the error_description of a rejected login.
const LoginFailure = "invalid username or password"

// timeLayout is the service's naive timestamp format.
const timeLayout = "2006-01-02T15:04:05"

// User is an account held by the server.
type User struct {
	ID        int
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
}

// Chat is a chat held by the server.
type Chat struct {
	ID        int
	Name      string
	OwnerID   int
	UserIDs   []int
	CreatedAt time.Time
}

// Message is a message held by the server.
type Message struct {
	ID        int
	ChatID    int
	UserID    int
	Text      string
	CreatedAt time.Time
}

type failure struct {
	status int
	body   any
}

// Server is a fake chat service.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    []User
	chats    []Chat
	messages []Message
	hits     map[string]int
	gates    map[string]chan struct{}
	failures map[string]failure
	now      time.Time
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		hits:     make(map[string]int),
		gates:    make(map[string]chan struct{}),
		failures: make(map[string]failure),
		now:      time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	mux := http.NewServeMux()
	s.handle(mux, RouteToken, s.token)
	s.handle(mux, RouteRegistration, s.register)
	s.handle(mux, RouteMe, s.authed(s.me))
	s.handle(mux, RouteChats, s.authed(s.listChats))
	s.handle(mux, RouteChat, s.authed(s.getChat))
	s.handle(mux, RouteMessages, s.authed(s.listMessages))
	s.handle(mux, RouteSend, s.authed(s.send))
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// =============================================================================
// FIXTURES
// =============================================================================

// AddUser creates an account.
func (s *Server) AddUser(username, email, password string) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := User{
		ID:        len(s.users) + 1,
		Username:  username,
		Email:     email,
		Password:  password,
		CreatedAt: s.now,
	}
	s.users = append(s.users, u)
	return u
}

// AddChat creates a chat with the given members.
func (s *Server) AddChat(name string, members ...User) Chat {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Chat{ID: len(s.chats) + 1, Name: name, CreatedAt: s.now}
	for i, m := range members {
		if i == 0 {
			c.OwnerID = m.ID
		}
		c.UserIDs = append(c.UserIDs, m.ID)
	}
	s.chats = append(s.chats, c)
	return c
}

// AddMessage posts a message as author.
func (s *Server) AddMessage(chat Chat, author User, text string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addMessageLocked(chat.ID, author.ID, text)
}

func (s *Server) addMessageLocked(chatID, userID int, text string) Message {
	m := Message{
		ID:        len(s.messages) + 1,
		ChatID:    chatID,
		UserID:    userID,
		Text:      text,
		CreatedAt: s.now.Add(time.Duration(len(s.messages)) * time.Second),
	}
	s.messages = append(s.messages, m)
	return m
}

// TokenFor returns the access token the server issues for u.
func TokenFor(u User) string {
	return "token-" + u.Username
}

// =============================================================================
// CONTROL
// =============================================================================

// Hits returns how many requests reached route.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// Hold makes requests to route wait until the returned release is called.
func (s *Server) Hold(route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates[route] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.gates[route] == ch {
				delete(s.gates, route)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Fail makes route answer status with body, JSON encoded.
func (s *Server) Fail(route string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, body: body}
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handle(mux *http.ServeMux, route string, fn http.HandlerFunc) {
	mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[route]++
		gate := s.gates[route]
		fail, failing := s.failures[route]
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			writeJSON(w, fail.status, fail.body)
			return
		}
		fn(w, r)
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, u User)

func (s *Server) authed(fn authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		var user User
		found := false
		for _, u := range s.users {
			if raw != "" && TokenFor(u) == raw {
				user, found = u, true
				break
			}
		}
		s.mu.Unlock()
		if !found {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"detail": map[string]string{
					"error":             "invalid_token",
					"error_description": "Could not validate credentials",
				},
			})
			return
		}
		fn(w, r, user)
	}
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad form"})
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			writeJSON(w, http.StatusOK, map[string]any{
				"access_token": TokenFor(u),
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"detail": map[string]string{
			"error":             "invalid_client",
			"error_description": LoginFailure,
		},
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad body"})
		return
	}

	s.mu.Lock()
	for _, u := range s.users {
		field, value := "", ""
		switch {
		case u.Username == body.Username:
			field, value = "username", body.Username
		case u.Email == body.Email:
			field, value = "email", body.Email
		}
		if field != "" {
			s.mu.Unlock()
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"detail": map[string]string{
					"type":         "duplicate_value",
					"entity_name":  "User",
					"entity_field": field,
					"entity_value": value,
				},
			})
			return
		}
	}
	s.mu.Unlock()

	u := s.AddUser(body.Username, body.Email, body.Password)
	writeJSON(w, http.StatusCreated, map[string]any{"user": userJSON(u)})
}

func (s *Server) me(w http.ResponseWriter, _ *http.Request, u User) {
	writeJSON(w, http.StatusOK, map[string]any{"user": userJSON(u)})
}

func (s *Server) listChats(w http.ResponseWriter, _ *http.Request, _ User) {
	s.mu.Lock()
	out := make([]map[string]any, 0, len(s.chats))
	for _, c := range s.chats {
		out = append(out, chatJSON(c))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"chats": out})
}

func (s *Server) findChat(w http.ResponseWriter, r *http.Request) (Chat, bool) {
	id, _ := strconv.Atoi(r.PathValue("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.chats {
		if c.ID == id {
			return c, true
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{
		"detail": map[string]string{
			"type":        "entity_not_found",
			"entity_name": "Chat",
			"entity_id":   r.PathValue("id"),
		},
	})
	return Chat{}, false
}

func (s *Server) getChat(w http.ResponseWriter, r *http.Request, _ User) {
	c, ok := s.findChat(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chat": chatJSON(c)})
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request, _ User) {
	c, ok := s.findChat(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	out := make([]map[string]any, 0)
	for _, m := range s.messages {
		if m.ChatID == c.ID {
			out = append(out, s.messageJSONLocked(m))
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

func (s *Server) send(w http.ResponseWriter, r *http.Request, u User) {
	c, ok := s.findChat(w, r)
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "bad body"})
		return
	}
	s.mu.Lock()
	m := s.addMessageLocked(c.ID, u.ID, body.Text)
	out := s.messageJSONLocked(m)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"message": out})
}

// =============================================================================
// ENCODING
// =============================================================================

func userJSON(u User) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"created_at": u.CreatedAt.Format(timeLayout),
	}
}

func chatJSON(c Chat) map[string]any {
	ids := c.UserIDs
	if ids == nil {
		ids = []int{}
	}
	return map[string]any{
		"id":         c.ID,
		"name":       c.Name,
		"owner_id":   c.OwnerID,
		"user_ids":   ids,
		"created_at": c.CreatedAt.Format(timeLayout),
	}
}

func (s *Server) messageJSONLocked(m Message) map[string]any {
	username := ""
	for _, u := range s.users {
		if u.ID == m.UserID {
			username = u.Username
		}
	}
	return map[string]any{
		"id":         m.ID,
		"user_id":    m.UserID,
		"text":       m.Text,
		"created_at": m.CreatedAt.Format(timeLayout),
		"user":       map[string]string{"username": username},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
