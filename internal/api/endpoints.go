// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jeranaias/pony-tui/internal/model"
)

// =============================================================================
// AUTHENTICATION
// =============================================================================

// Token exchanges username and password for an access token.
func (c *Client) Token(ctx context.Context, username, password string) (model.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	var tok model.Token
	if err := c.call(ctx, http.MethodPost, "/auth/token", FormBody(form), "", &tok); err != nil {
		return model.Token{}, err
	}
	return tok, nil
}

// Register creates an account. The registration is validated locally
// before anything is sent.
func (c *Client) Register(ctx context.Context, reg model.Registration) (model.User, error) {
	if err := model.Validate(reg); err != nil {
		return model.User{}, err
	}

	var env model.UserEnvelope
	if err := c.call(ctx, http.MethodPost, "/auth/registration", JSONBody(reg), "", &env); err != nil {
		return model.User{}, err
	}
	return env.User, nil
}

// CurrentUser returns the account the credential belongs to. Both the
// {"user": {...}} envelope and a bare user object are accepted.
func (c *Client) CurrentUser(ctx context.Context, credential string) (model.User, error) {
	resp, err := c.authed(ctx, http.MethodGet, "/users/me", nil, credential)
	if err != nil {
		return model.User{}, err
	}

	var env model.UserEnvelope
	if err := resp.Decode(&env); err == nil && model.Validate(env) == nil {
		return env.User, nil
	}
	var user model.User
	if err := decodeValid(resp, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// =============================================================================
// CHATS AND MESSAGES
// =============================================================================

// Chats lists every chat visible to the credential.
func (c *Client) Chats(ctx context.Context, credential string) ([]model.Chat, error) {
	var env model.ChatsEnvelope
	if err := c.callAuthed(ctx, http.MethodGet, "/chats", nil, credential, &env); err != nil {
		return nil, err
	}
	return env.Chats, nil
}

// Chat returns one chat.
func (c *Client) Chat(ctx context.Context, credential string, id model.ID) (model.Chat, error) {
	var env model.ChatEnvelope
	if err := c.callAuthed(ctx, http.MethodGet, chatPath(id), nil, credential, &env); err != nil {
		return model.Chat{}, err
	}
	return env.Chat, nil
}

// Messages lists the messages of a chat in server order.
func (c *Client) Messages(ctx context.Context, credential string, id model.ID) ([]model.Message, error) {
	var env model.MessagesEnvelope
	if err := c.callAuthed(ctx, http.MethodGet, chatPath(id)+"/messages", nil, credential, &env); err != nil {
		return nil, err
	}
	return env.Messages, nil
}

// CreateMessage posts text to a chat. The server may answer with the
// created message or with an empty body; the bool reports which.
func (c *Client) CreateMessage(ctx context.Context, credential string, id model.ID, text string) (model.Message, bool, error) {
	body := model.NewMessage{Text: model.NormalizeText(text)}
	if err := model.Validate(body); err != nil {
		return model.Message{}, false, err
	}

	resp, err := c.authed(ctx, http.MethodPost, chatPath(id)+"/messages", JSONBody(body), credential)
	if err != nil {
		return model.Message{}, false, err
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 || bytes.Equal(bytes.TrimSpace(resp.Body), []byte("null")) {
		return model.Message{}, false, nil
	}

	var env model.MessageEnvelope
	if err := resp.Decode(&env); err != nil {
		return model.Message{}, false, err
	}
	if env.Message.ID != "" {
		return env.Message, true, nil
	}
	var msg model.Message
	if err := resp.Decode(&msg); err == nil && msg.ID != "" {
		return msg, true, nil
	}
	return model.Message{}, false, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func chatPath(id model.ID) string {
	return "/chats/" + url.PathEscape(id.String())
}

// authed sends a request that requires a credential and converts non-2xx
// statuses into typed errors.
func (c *Client) authed(ctx context.Context, method, path string, body Body, credential string) (*Response, error) {
	if credential == "" {
		return nil, ErrNoCredential
	}
	return c.send(ctx, method, path, body, credential)
}

// send is Request plus non-2xx conversion.
func (c *Client) send(ctx context.Context, method, path string, body Body, credential string) (*Response, error) {
	resp, err := c.Request(ctx, method, path, body, credential)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, responseError(resp)
	}
	return resp, nil
}

func (c *Client) call(ctx context.Context, method, path string, body Body, credential string, out any) error {
	resp, err := c.send(ctx, method, path, body, credential)
	if err != nil {
		return err
	}
	return decodeValid(resp, out)
}

func (c *Client) callAuthed(ctx context.Context, method, path string, body Body, credential string, out any) error {
	if credential == "" {
		return ErrNoCredential
	}
	return c.call(ctx, method, path, body, credential, out)
}

// decodeValid decodes the body into out and validates it.
func decodeValid(resp *Response, out any) error {
	if err := resp.Decode(out); err != nil {
		return err
	}
	if err := model.Validate(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
