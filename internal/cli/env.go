// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// env.go - Shared services for command handlers.

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeranaias/pony-tui/internal/api"
	"github.com/jeranaias/pony-tui/internal/config"
	"github.com/jeranaias/pony-tui/internal/query"
	"github.com/jeranaias/pony-tui/internal/resource"
	"github.com/jeranaias/pony-tui/internal/session"
)

// Env is what every handler works with.
type Env struct {
	Out io.Writer
	Err io.Writer
	In  io.Reader

	Config  *config.Config
	Client  *api.Client
	Cache   *query.Cache
	Runner  *query.Runner
	Session *session.Store
	Source  resource.Source

	// ReadPassword reads a secret without echo. nil reads from the
	// terminal, or a plain line when stdin is not a terminal.
	ReadPassword func(prompt string) (string, error)

	// NewLineReader opens the input for the chat REPL. nil uses liner.
	NewLineReader func() (LineReader, error)

	in *bufio.Reader
}

// NewEnv wires the services for cfg on the process's standard streams.
func NewEnv(cfg *config.Config, client *api.Client, sess *session.Store) *Env {
	cache := query.New(query.WithIdleEntries(cfg.Cache.IdleEntries))
	resource.ClearOnSessionChange(sess, cache)
	return &Env{
		Out:     os.Stdout,
		Err:     os.Stderr,
		In:      os.Stdin,
		Config:  cfg,
		Client:  client,
		Cache:   cache,
		Runner:  query.NewRunner(cache),
		Session: sess,
		Source:  resource.Source{Client: client, Creds: sess},
	}
}

// Close cancels in-flight fetches.
func (e *Env) Close() {
	e.Cache.Close()
}

// Run executes cmd. CmdTUI is handled by the caller.
func Run(ctx context.Context, cmd Command, args Args, env *Env) error {
	switch cmd {
	case CmdLogin:
		return HandleLogin(ctx, env, args)
	case CmdChats:
		return HandleChats(ctx, env, args)
	case CmdMessages:
		return HandleMessages(ctx, env, args)
	case CmdSend:
		return HandleSend(ctx, env, args)
	case CmdChat:
		return HandleChat(ctx, env, args)
	case CmdProfile:
		return HandleProfile(ctx, env, args)
	case CmdConfig:
		return HandleConfig(env, args)
	case CmdVersion:
		PrintVersion(env.Out)
		return nil
	case CmdHelp:
		PrintUsage(env.Out)
		return nil
	default:
		return usage(cmd.String(), "not a CLI command", "pony help")
	}
}

// =============================================================================
// INPUT
// =============================================================================

func (e *Env) reader() *bufio.Reader {
	if e.in == nil {
		e.in = bufio.NewReader(e.In)
	}
	return e.in
}

// prompt writes label to Err and reads one line.
func (e *Env) prompt(label string) (string, error) {
	fmt.Fprint(e.Err, label)
	line, err := e.reader().ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// password reads a secret.
func (e *Env) password(label string) (string, error) {
	if e.ReadPassword != nil {
		return e.ReadPassword(label)
	}
	if e.In == os.Stdin && IsTTY() {
		fmt.Fprint(e.Err, label)
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(e.Err)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return e.prompt(label)
}
