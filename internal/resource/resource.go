// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package resource names the chat service's cacheable resources and builds
// the fetch functions and mutations for them. The TUI and the CLI share it
// so both address the cache with the same keys.
package resource

import (
	"context"

	"github.com/jeranaias/pony-tui/internal/api"
	"github.com/jeranaias/pony-tui/internal/model"
	"github.com/jeranaias/pony-tui/internal/query"
	"github.com/jeranaias/pony-tui/internal/session"
)

// =============================================================================
// KEYS
// =============================================================================

// ChatsKey is the chat list.
func ChatsKey() query.Key { return query.NewKey("chats") }

// ChatKey is one chat. It is incomplete when id is empty.
func ChatKey(id model.ID) query.Key { return query.NewKey("chats", id) }

// MessagesKey is one chat's messages. It is incomplete when id is empty.
func MessagesKey(id model.ID) query.Key { return query.NewKey("messages", id) }

// MeKey is the signed-in account.
func MeKey() query.Key { return query.NewKey("users", "me") }

// ClearOnSessionChange empties cache on every login and logout, so one
// account's data is never served to the next.
func ClearOnSessionChange(sess *session.Store, cache *query.Cache) {
	sess.OnChange(func(session.State) {
		cache.Clear()
	})
}

// =============================================================================
// SOURCE
// =============================================================================

// Source builds fetches against the client using the session's credential
// at the time each fetch runs.
type Source struct {
	Client *api.Client
	Creds  session.Credentials
}

// credential returns "" when logged out; the client reports that as
// api.ErrNoCredential.
func (s Source) credential() string {
	if s.Creds == nil {
		return ""
	}
	cred, _ := s.Creds.Credential()
	return cred
}

// fetch adapts a typed endpoint call to a query.FetchFunc.
func fetch[T any](s Source, call func(ctx context.Context, cred string) (T, error)) query.FetchFunc {
	return func(ctx context.Context) (any, error) {
		v, err := call(ctx, s.credential())
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Chats fetches the chat list.
func (s Source) Chats() query.FetchFunc {
	return fetch(s, s.Client.Chats)
}

// Chat fetches one chat.
func (s Source) Chat(id model.ID) query.FetchFunc {
	return fetch(s, func(ctx context.Context, cred string) (model.Chat, error) {
		return s.Client.Chat(ctx, cred, id)
	})
}

// Messages fetches one chat's messages.
func (s Source) Messages(id model.ID) query.FetchFunc {
	return fetch(s, func(ctx context.Context, cred string) ([]model.Message, error) {
		return s.Client.Messages(ctx, cred, id)
	})
}

// Me fetches the signed-in account.
func (s Source) Me() query.FetchFunc {
	return fetch(s, s.Client.CurrentUser)
}

// SendMessage posts text to chat id. On success the chat's messages are
// invalidated. The outcome's Data is the created model.Message, or the zero
// message when the service answered without a body.
func (s Source) SendMessage(id model.ID, text string) query.MutationRequest {
	return query.MutationRequest{
		Name: "send message",
		Run: func(ctx context.Context) (any, error) {
			m, _, err := s.Client.CreateMessage(ctx, s.credential(), id, text)
			if err != nil {
				return nil, err
			}
			return m, nil
		},
		Invalidates: []query.Key{MessagesKey(id)},
	}
}
