// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/pony-tui/internal/ui/components"
)

// homeScreen is the landing page.
type homeScreen struct {
	deps   *Deps
	keys   KeyMap
	notice string
	width  int
}

func newHomeScreen(deps *Deps, keys KeyMap, notice string) *homeScreen {
	return &homeScreen{deps: deps, keys: keys, notice: notice}
}

func (s *homeScreen) ID() ScreenID  { return ScreenHome }
func (s *homeScreen) Init() tea.Cmd { return nil }
func (s *homeScreen) Close()        {}

func (s *homeScreen) SetSize(width, _ int) tea.Cmd {
	s.width = width
	return nil
}

func (s *homeScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(km, s.keys.Login):
		return s, navigateTo(ScreenLogin)
	case key.Matches(km, s.keys.Register):
		return s, navigateTo(ScreenRegister)
	}
	return s, nil
}

func (s *homeScreen) View() string {
	t := s.deps.Theme
	var b strings.Builder
	b.WriteString(t.Title.Render("welcome to pony express"))
	b.WriteString("\n\n")
	b.WriteString(t.Subtitle.Render("a small chat service for your terminal"))
	b.WriteString("\n\n")
	if _, ok := s.deps.Session.Credential(); ok {
		b.WriteString(t.Link.Render("ctrl+o") + " open your chats\n")
	} else {
		b.WriteString(t.Link.Render("l") + " log in\n")
		b.WriteString(t.Link.Render("r") + " create an account\n")
	}
	if s.notice != "" {
		b.WriteString("\n" + t.Help.Render(s.notice))
	}
	return b.String()
}

func (s *homeScreen) Hints() []components.KeyHint {
	if _, ok := s.deps.Session.Credential(); ok {
		return hints(s.keys.Chats, s.keys.Profile)
	}
	return hints(s.keys.Login, s.keys.Register)
}

func navigateTo(to ScreenID) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{To: to} }
}
