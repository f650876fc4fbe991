// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/pony-tui/internal/api"
	"github.com/jeranaias/pony-tui/internal/logging"
	"github.com/jeranaias/pony-tui/internal/ui/components"
)

const (
	loginUsername = iota
	loginPassword
)

// loginScreen exchanges a username and password for a token.
type loginScreen struct {
	deps    *Deps
	keys    KeyMap
	form    *form
	spinner components.Spinner
	pending bool
	err     string
	notice  string
	width   int
}

func newLoginScreen(deps *Deps, keys KeyMap, notice string) *loginScreen {
	return &loginScreen{
		deps: deps,
		keys: keys,
		form: newForm(
			components.NewField("username", "", false),
			components.NewField("password", "", true),
		),
		spinner: components.NewSpinner("logging in"),
		notice:  notice,
	}
}

func (s *loginScreen) ID() ScreenID  { return ScreenLogin }
func (s *loginScreen) Init() tea.Cmd { return s.form.focusField(loginUsername) }
func (s *loginScreen) Close()        {}

func (s *loginScreen) SetSize(width, _ int) tea.Cmd {
	s.width = width
	return nil
}

// canSubmit is false while a field is empty or a request is in flight.
func (s *loginScreen) canSubmit() bool {
	return !s.pending && s.form.filled()
}

func (s *loginScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		s.pending = false
		s.spinner.Stop()
		if msg.err != nil {
			s.err = api.LoginMessage(msg.err)
			logging.Debug().Err(msg.err).Msg("login failed")
			return s, nil
		}
		if err := s.deps.Session.Login(msg.token); err != nil {
			s.err = api.LoginFailedMessage
			return s, nil
		}
		return s, func() tea.Msg { return NavigateMsg{To: ScreenChats} }

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Back):
			return s, navigateTo(ScreenHome)
		case key.Matches(msg, s.keys.Next):
			return s, s.form.next()
		case key.Matches(msg, s.keys.Prev):
			return s, s.form.prev()
		case key.Matches(msg, s.keys.Submit):
			return s, s.submit()
		}
		if s.pending {
			return s, nil
		}
		return s, s.form.update(msg)
	}

	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	if cmd != nil {
		return s, cmd
	}
	return s, s.form.update(msg)
}

func (s *loginScreen) submit() tea.Cmd {
	if !s.canSubmit() {
		return nil
	}
	s.pending = true
	s.err = ""
	username := strings.TrimSpace(s.form.value(loginUsername))
	password := s.form.value(loginPassword)
	client := s.deps.Client
	return tea.Batch(s.spinner.Start(), runAsync(func(ctx context.Context) tea.Msg {
		tok, err := client.Token(ctx, username, password)
		return loginResultMsg{token: tok, err: err}
	}))
}

func (s *loginScreen) View() string {
	t := s.deps.Theme
	lines := []string{t.Title.Render("log in"), ""}
	if s.notice != "" {
		lines = append(lines, t.Help.Render(s.notice), "")
	}
	for _, f := range s.form.fields {
		lines = append(lines, f.View(t, s.width))
	}
	lines = append(lines, "", components.Button(t, "log in", s.canSubmit()))
	if s.pending {
		lines = append(lines, s.spinner.View())
	}
	if s.err != "" {
		lines = append(lines, components.ErrorLine(t, s.err, s.width))
	}
	return strings.Join(lines, "\n")
}

func (s *loginScreen) Hints() []components.KeyHint {
	return hints(s.keys.Next, s.keys.Submit, s.keys.Back)
}
