// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - Handlers for the one-shot commands.

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/pony-tui/internal/api"
	"github.com/jeranaias/pony-tui/internal/logging"
	"github.com/jeranaias/pony-tui/internal/model"
	"github.com/jeranaias/pony-tui/internal/query"
	"github.com/jeranaias/pony-tui/internal/resource"
	"github.com/jeranaias/pony-tui/internal/session"
)

// =============================================================================
// LOGIN
// =============================================================================

// HandleLogin exchanges a username and password for a token and prints
// the export line for it. Prompts go to stderr so the output can be
// evaluated by a shell.
func HandleLogin(ctx context.Context, env *Env, args Args) error {
	username := strings.TrimSpace(args.Username)
	if username == "" {
		line, err := env.prompt("Username: ")
		if err != nil {
			return wrap("login", "read username", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return usage("login", "username is required", "pony login alice")
	}

	password, err := env.password("Password: ")
	if err != nil {
		return wrap("login", "read password", err)
	}
	if password == "" {
		return usage("login", "password is required", "")
	}

	tok, err := env.Client.Token(ctx, username, password)
	if err != nil {
		return &CommandError{
			Command: "login",
			Action:  "authenticate",
			Message: api.LoginMessage(err),
			Err:     err,
		}
	}
	if err := env.Session.Login(tok); err != nil {
		return &CommandError{Command: "login", Action: "store token", Message: api.LoginFailedMessage, Err: err}
	}

	fmt.Fprintf(env.Out, "export %s=%s\n", session.EnvToken, tok.Value())
	msg := SuccessStyle.Render("Logged in as " + username)
	if d := env.Session.Remaining(); d > 0 {
		msg += DimStyle.Render(fmt.Sprintf(" (expires in %s)", d.Round(time.Second)))
	}
	fmt.Fprintln(env.Err, msg)
	return nil
}

// =============================================================================
// READS
// =============================================================================

// fetch resolves key through the cache and returns its data as T.
func fetch[T any](ctx context.Context, env *Env, key query.Key, fn query.FetchFunc) (T, error) {
	var zero T
	e, err := env.Cache.Fetch(ctx, key, fn)
	if err != nil {
		return zero, err
	}
	v, ok := query.Data[T](e)
	if !ok {
		return zero, fmt.Errorf("%s: %w", key, api.ErrMalformed)
	}
	return v, nil
}

// HandleChats lists the signed-in user's chats.
func HandleChats(ctx context.Context, env *Env, _ Args) error {
	chats, err := fetch[[]model.Chat](ctx, env, resource.ChatsKey(), env.Source.Chats())
	if err != nil {
		return wrap("chats", "fetch", err)
	}
	if len(chats) == 0 {
		fmt.Fprintln(env.Out, DimStyle.Render("No chats yet."))
		return nil
	}
	fmt.Fprintln(env.Out, TitleStyle.Render("Chats"))
	width := GetTerminalWidth()
	for _, c := range chats {
		fmt.Fprintln(env.Out, RenderChat(c, width))
	}
	return nil
}

// HandleMessages prints a chat and its messages.
func HandleMessages(ctx context.Context, env *Env, args Args) error {
	id := model.ID(args.ChatID)
	chat, err := fetch[model.Chat](ctx, env, resource.ChatKey(id), env.Source.Chat(id))
	if err != nil {
		return wrap("messages", "fetch chat", err)
	}
	msgs, err := fetch[[]model.Message](ctx, env, resource.MessagesKey(id), env.Source.Messages(id))
	if err != nil {
		return wrap("messages", "fetch messages", err)
	}
	printThread(env, chat, msgs)
	return nil
}

// HandleSend runs the send mutation and prints the refreshed thread.
func HandleSend(ctx context.Context, env *Env, args Args) error {
	id := model.ID(args.ChatID)
	out := env.Runner.Run(ctx, env.Source.SendMessage(id, args.Text))
	if !out.OK() {
		return wrap("send", "post message", out.Err)
	}
	logging.Debug().Str("mutation_id", out.ID).Dur("duration", out.Duration).Msg("message sent")
	return HandleMessages(ctx, env, args)
}

// HandleProfile prints the signed-in account.
func HandleProfile(ctx context.Context, env *Env, _ Args) error {
	me, err := fetch[model.User](ctx, env, resource.MeKey(), env.Source.Me())
	if err != nil {
		return wrap("profile", "fetch", err)
	}
	fmt.Fprintln(env.Out, TitleStyle.Render("Profile"))
	fmt.Fprintln(env.Out, RenderLabel("Username")+ValueStyle.Render(me.Username))
	fmt.Fprintln(env.Out, RenderLabel("Email")+ValueStyle.Render(me.Email))
	fmt.Fprintln(env.Out, RenderLabel("Joined")+ValueStyle.Render(model.FormatDate(me.CreatedAt.Time)))
	return nil
}

func printThread(env *Env, chat model.Chat, msgs []model.Message) {
	fmt.Fprintln(env.Out, TitleStyle.Render(chat.Name)+" "+
		DimStyle.Render(fmt.Sprintf("(%d members, created %s)", len(chat.UserIDs), model.FormatDate(chat.CreatedAt.Time))))
	fmt.Fprintln(env.Out, RenderSeparator(min(GetTerminalWidth(), 70)))
	if len(msgs) == 0 {
		fmt.Fprintln(env.Out, DimStyle.Render("No messages yet."))
		return
	}
	for _, m := range msgs {
		fmt.Fprintln(env.Out, RenderMessage(m))
	}
}
