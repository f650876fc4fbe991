// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler.
//
// Command: chat
// Short:   Read and post to one chat from a prompt
//
// Interactive Commands:
//   /refresh, /r        Fetch new messages
//   /help, /h           Show available commands
//   /quit, /exit, /q    Leave the chat
//   Ctrl+C, Ctrl+D      Leave the chat

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/pony-tui/internal/config"
	"github.com/jeranaias/pony-tui/internal/logging"
	"github.com/jeranaias/pony-tui/internal/model"
	"github.com/jeranaias/pony-tui/internal/resource"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// LineReader reads prompted lines for the chat REPL.
type LineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line, recording non-empty input in history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists history owner-readable only.
func (c *ChatCLI) SaveHistory() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

var promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Bold(true)

// chatSession tracks which messages have been printed.
type chatSession struct {
	env  *Env
	id   model.ID
	seen map[model.ID]bool
}

// HandleChat prints a thread and then reads lines to post to it.
func HandleChat(ctx context.Context, env *Env, args Args) error {
	s := &chatSession{env: env, id: model.ID(args.ChatID), seen: map[model.ID]bool{}}

	chat, err := fetch[model.Chat](ctx, env, resource.ChatKey(s.id), env.Source.Chat(s.id))
	if err != nil {
		return wrap("chat", "fetch chat", err)
	}
	msgs, err := fetch[[]model.Message](ctx, env, resource.MessagesKey(s.id), env.Source.Messages(s.id))
	if err != nil {
		return wrap("chat", "fetch messages", err)
	}
	printThread(env, chat, msgs)
	s.markSeen(msgs)
	fmt.Fprintln(env.Err, DimStyle.Render("Type a message, /help for commands."))

	var in LineReader
	if env.NewLineReader != nil {
		in, err = env.NewLineReader()
		if err != nil {
			return wrap("chat", "open input", err)
		}
	} else {
		in = NewChatCLI()
	}
	defer in.Close()

	for {
		line, err := in.ReadInput(promptStyle.Render(chat.Name + "> "))
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(env.Err)
				return nil
			}
			return wrap("chat", "read input", err)
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "/quit", "/exit", "/q":
			return nil
		case "/help", "/h":
			fmt.Fprintln(env.Err, "/refresh  fetch new messages\n/quit     leave the chat")
			continue
		case "/refresh", "/r":
			env.Cache.Invalidate(resource.MessagesKey(s.id))
			s.printNew(ctx)
			continue
		}

		text := model.NormalizeText(line)
		if text == "" {
			continue
		}
		out := env.Runner.Run(ctx, env.Source.SendMessage(s.id, text))
		if !out.OK() {
			logging.Debug().Err(out.Err).Str("chat_id", s.id.String()).Msg("send failed")
			fmt.Fprintln(env.Err, ErrorStyle.Render(wrap("chat", "send", out.Err).Error()))
			continue
		}
		s.printNew(ctx)
	}
}

func (s *chatSession) markSeen(msgs []model.Message) {
	for _, m := range msgs {
		s.seen[m.ID] = true
	}
}

// printNew fetches the thread and prints messages not shown yet.
func (s *chatSession) printNew(ctx context.Context) {
	msgs, err := fetch[[]model.Message](ctx, s.env, resource.MessagesKey(s.id), s.env.Source.Messages(s.id))
	if err != nil {
		fmt.Fprintln(s.env.Err, ErrorStyle.Render(wrap("chat", "refresh", err).Error()))
		return
	}
	for _, m := range msgs {
		if !s.seen[m.ID] {
			fmt.Fprintln(s.env.Out, RenderMessage(m))
		}
	}
	s.markSeen(msgs)
}
