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
	"github.com/jeranaias/pony-tui/internal/model"
	"github.com/jeranaias/pony-tui/internal/ui/components"
)

const (
	registerUsername = iota
	registerEmail
	registerPassword
)

// registerScreen creates an account.
type registerScreen struct {
	deps    *Deps
	keys    KeyMap
	form    *form
	spinner components.Spinner
	pending bool
	err     string
	width   int
}

func newRegisterScreen(deps *Deps, keys KeyMap) *registerScreen {
	return &registerScreen{
		deps: deps,
		keys: keys,
		form: newForm(
			components.NewField("username", "", false),
			components.NewField("email", "you@example.com", false),
			components.NewField("password", "", true),
		),
		spinner: components.NewSpinner("creating account"),
	}
}

func (s *registerScreen) ID() ScreenID  { return ScreenRegister }
func (s *registerScreen) Init() tea.Cmd { return s.form.focusField(registerUsername) }
func (s *registerScreen) Close()        {}

func (s *registerScreen) SetSize(width, _ int) tea.Cmd {
	s.width = width
	return nil
}

func (s *registerScreen) canSubmit() bool {
	return !s.pending && s.form.filled()
}

func (s *registerScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case registerResultMsg:
		s.pending = false
		s.spinner.Stop()
		if msg.err != nil {
			s.err = api.UserMessage(msg.err)
			logging.Debug().Err(msg.err).Msg("registration failed")
			return s, nil
		}
		logging.Info().Str("username", msg.user.Username).Msg("account created")
		return s, func() tea.Msg {
			return NavigateMsg{To: ScreenLogin, Notice: "account created, please log in"}
		}

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

func (s *registerScreen) submit() tea.Cmd {
	if !s.canSubmit() {
		return nil
	}
	reg := model.Registration{
		Username: strings.TrimSpace(s.form.value(registerUsername)),
		Email:    strings.TrimSpace(s.form.value(registerEmail)),
		Password: s.form.value(registerPassword),
	}
	if err := model.Validate(reg); err != nil {
		s.err = api.UserMessage(err)
		return nil
	}

	s.pending = true
	s.err = ""
	client := s.deps.Client
	return tea.Batch(s.spinner.Start(), runAsync(func(ctx context.Context) tea.Msg {
		user, err := client.Register(ctx, reg)
		return registerResultMsg{user: user, err: err}
	}))
}

func (s *registerScreen) View() string {
	t := s.deps.Theme
	lines := []string{t.Title.Render("create an account"), ""}
	for _, f := range s.form.fields {
		lines = append(lines, f.View(t, s.width))
	}
	lines = append(lines, "", components.Button(t, "register", s.canSubmit()))
	if s.pending {
		lines = append(lines, s.spinner.View())
	}
	if s.err != "" {
		lines = append(lines, components.ErrorLine(t, s.err, s.width))
	}
	return strings.Join(lines, "\n")
}

func (s *registerScreen) Hints() []components.KeyHint {
	return hints(s.keys.Next, s.keys.Submit, s.keys.Back)
}
