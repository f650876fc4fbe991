// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pony-tui/internal/api"
	"github.com/jeranaias/pony-tui/internal/api/apitest"
	"github.com/jeranaias/pony-tui/internal/model"
	"github.com/jeranaias/pony-tui/internal/query"
	"github.com/jeranaias/pony-tui/internal/session"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, `["chats"]`, ChatsKey().String())
	assert.Equal(t, `["chats","7"]`, ChatKey("7").String())
	assert.Equal(t, `["messages","7"]`, MessagesKey("7").String())
	assert.Equal(t, `["users","me"]`, MeKey().String())
	assert.False(t, MessagesKey("").Complete())
}

func TestSource_FetchThroughCache(t *testing.T) {
	srv := apitest.New(t)
	alice := srv.AddUser("alice", "alice@example.com", "pw")
	chat := srv.AddChat("general", alice)
	srv.AddMessage(chat, alice, "hi")

	src := Source{Client: api.NewClient(srv.URL), Creds: session.New(apitest.TokenFor(alice))}
	cache := query.New()
	defer cache.Close()
	ctx := context.Background()

	e, err := cache.Fetch(ctx, ChatsKey(), src.Chats())
	require.NoError(t, err)
	chats, ok := query.Data[[]model.Chat](e)
	require.True(t, ok)
	require.Len(t, chats, 1)
	assert.Equal(t, "general", chats[0].Name)

	e, err = cache.Fetch(ctx, MessagesKey(chats[0].ID), src.Messages(chats[0].ID))
	require.NoError(t, err)
	msgs, _ := query.Data[[]model.Message](e)
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice", msgs[0].AuthorName())

	e, err = cache.Fetch(ctx, MeKey(), src.Me())
	require.NoError(t, err)
	me, _ := query.Data[model.User](e)
	assert.Equal(t, "alice@example.com", me.Email)
}

func TestSource_LoggedOut(t *testing.T) {
	srv := apitest.New(t)
	src := Source{Client: api.NewClient(srv.URL), Creds: session.New("")}

	_, err := src.Chats()(context.Background())
	assert.ErrorIs(t, err, api.ErrNoCredential)
	assert.Equal(t, 0, srv.Hits(apitest.RouteChats))
}

func TestSource_SendMessageInvalidatesThread(t *testing.T) {
	srv := apitest.New(t)
	alice := srv.AddUser("alice", "alice@example.com", "pw")
	chat := srv.AddChat("general", alice)
	id := model.ID("1")
	require.Equal(t, 1, chat.ID)

	src := Source{Client: api.NewClient(srv.URL), Creds: session.New(apitest.TokenFor(alice))}
	req := src.SendMessage(id, "hello")
	require.Len(t, req.Invalidates, 1)
	assert.True(t, req.Invalidates[0].Equal(MessagesKey(id)))

	out := query.NewRunner(query.New()).Run(context.Background(), req)
	require.True(t, out.OK())
	m, ok := out.Data.(model.Message)
	require.True(t, ok)
	assert.Equal(t, "hello", m.Text)
	assert.Equal(t, 1, srv.Hits(apitest.RouteSend))
}

func TestClearOnSessionChange(t *testing.T) {
	srv := apitest.New(t)
	alice := srv.AddUser("alice", "alice@example.com", "pw")
	srv.AddChat("general", alice)

	sess := session.New(apitest.TokenFor(alice))
	src := Source{Client: api.NewClient(srv.URL), Creds: sess}
	cache := query.New()
	defer cache.Close()
	ClearOnSessionChange(sess, cache)

	_, err := cache.Fetch(context.Background(), ChatsKey(), src.Chats())
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	sess.Logout()
	assert.Equal(t, 0, cache.Len())

	_, err = cache.Fetch(context.Background(), ChatsKey(), Source{Client: src.Client, Creds: session.New(apitest.TokenFor(alice))}.Chats())
	require.NoError(t, err)
	require.NoError(t, sess.Login(model.Token{Token: apitest.TokenFor(alice)}))
	assert.Equal(t, 0, cache.Len())
}
