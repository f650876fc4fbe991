// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// =============================================================================
// IDENTIFIERS AND TIMESTAMPS
// =============================================================================

// ID identifies a chat, message or user. The service has used both integer
// and string identifiers, so both decode into the same textual form.
type ID string

// String returns the identifier as used in request paths.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("id: expected string or number, got %s", data)
	}
	*id = ID(data)
	return nil
}

// naiveLayouts are accepted for timestamps without a zone; they are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a time.Time that also decodes zone-less timestamps.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON decodes RFC 3339 or naive ISO 8601 strings.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	for _, layout := range naiveLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

// MarshalJSON encodes as RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// =============================================================================
// ENTITIES
// =============================================================================

// User is an account on the chat service.
type User struct {
	ID        ID        `json:"id" validate:"required"`
	Username  string    `json:"username" validate:"required"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
}

// Chat is a conversation channel.
type Chat struct {
	ID        ID        `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	CreatedAt Timestamp `json:"created_at"`
	OwnerID   ID        `json:"owner_id"`
	UserIDs   []ID      `json:"user_ids"`
}

// Author is the embedded user summary on a message.
type Author struct {
	Username string `json:"username"`
}

// Message is a single chat message.
type Message struct {
	ID        ID        `json:"id" validate:"required"`
	UserID    ID        `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt Timestamp `json:"created_at"`
	User      Author    `json:"user"`
}

// AuthorName returns the display name for the message sender.
func (m Message) AuthorName() string {
	if m.User.Username != "" {
		return m.User.Username
	}
	return m.UserID.String()
}

// =============================================================================
// RESPONSE ENVELOPES
// =============================================================================

// ChatsEnvelope is the body of GET /chats.
type ChatsEnvelope struct {
	Chats []Chat `json:"chats" validate:"required,dive"`
}

// ChatEnvelope is the body of GET /chats/{id}.
type ChatEnvelope struct {
	Chat Chat `json:"chat" validate:"required"`
}

// MessagesEnvelope is the body of GET /chats/{id}/messages.
type MessagesEnvelope struct {
	Messages []Message `json:"messages" validate:"required,dive"`
}

// MessageEnvelope is the optional body of POST /chats/{id}/messages.
type MessageEnvelope struct {
	Message Message `json:"message"`
}

// UserEnvelope is the body of user endpoints.
type UserEnvelope struct {
	User User `json:"user" validate:"required"`
}

// Token is the body of POST /auth/token. The service names the credential
// access_token; some deployments answer with token instead.
type Token struct {
	AccessToken string `json:"access_token" validate:"required_without=Token"`
	Token       string `json:"token" validate:"required_without=AccessToken"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Value returns the bearer credential carried by the token response.
func (t Token) Value() string {
	if t.AccessToken != "" {
		return t.AccessToken
	}
	return t.Token
}

// =============================================================================
// REQUESTS
// =============================================================================

// Registration is the body of POST /auth/registration.
type Registration struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// NewMessage is the body of POST /chats/{id}/messages.
type NewMessage struct {
	Text string `json:"text" validate:"required"`
}
