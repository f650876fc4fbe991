// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/pony-tui/internal/model"
	"github.com/jeranaias/pony-tui/internal/resource"
	"github.com/jeranaias/pony-tui/internal/ui/components"
)

// profileScreen shows the signed-in account.
type profileScreen struct {
	deps  *Deps
	keys  KeyMap
	me    *binding
	width int
}

func newProfileScreen(deps *Deps, keys KeyMap) *profileScreen {
	return &profileScreen{deps: deps, keys: keys}
}

func (s *profileScreen) ID() ScreenID { return ScreenProfile }

func (s *profileScreen) Init() tea.Cmd {
	s.me = bind(s.deps, resource.MeKey(), s.deps.Source.Me())
	return nil
}

func (s *profileScreen) Close() { s.me.close() }

func (s *profileScreen) SetSize(width, _ int) tea.Cmd {
	s.width = width
	return nil
}

func (s *profileScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case EntryMsg:
		s.me.apply(msg.Entry)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Logout):
			return s, func() tea.Msg { return LogoutMsg{} }
		case key.Matches(msg, s.keys.Back):
			return s, navigateTo(ScreenChats)
		}
	}
	return s, nil
}

func (s *profileScreen) View() string {
	t := s.deps.Theme
	lines := []string{t.Title.Render("profile"), ""}
	switch {
	case s.me.loading():
		lines = append(lines, components.Placeholder(t, 3))
	case s.me.errText() != "":
		lines = append(lines, components.ErrorLine(t, s.me.errText(), s.width))
	default:
		u, _ := bindingData[model.User](s.me)
		lines = append(lines,
			t.Label.Render("username")+" "+u.Username,
			t.Label.Render("email")+" "+u.Email,
			t.Label.Render("joined")+" "+model.FormatDate(u.CreatedAt.Time),
		)
	}
	lines = append(lines, "", t.Help.Render("press ctrl+x to log out"))
	return strings.Join(lines, "\n")
}

func (s *profileScreen) Hints() []components.KeyHint {
	return hints(s.keys.Logout, s.keys.Back)
}
