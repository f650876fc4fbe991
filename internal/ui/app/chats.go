// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pony-tui/internal/model"
	"github.com/jeranaias/pony-tui/internal/resource"
	"github.com/jeranaias/pony-tui/internal/ui/components"
	"github.com/jeranaias/pony-tui/internal/util"
)

// navPlaceholderRows is how many loading rows the chat list shows.
const navPlaceholderRows = 3

// chatsScreen is the chat list with the selected thread beside it.
type chatsScreen struct {
	deps   *Deps
	keys   KeyMap
	nav    *binding
	cursor int
	// navFocused is false while the send form has focus.
	navFocused bool
	thread     *threadView
	notice     string

	width  int
	height int
}

func newChatsScreen(deps *Deps, keys KeyMap, chatID model.ID, notice string) *chatsScreen {
	return &chatsScreen{
		deps:       deps,
		keys:       keys,
		navFocused: true,
		thread:     newThreadView(deps, keys, chatID),
		notice:     notice,
	}
}

func (s *chatsScreen) ID() ScreenID { return ScreenChats }

func (s *chatsScreen) Init() tea.Cmd {
	s.nav = bind(s.deps, resource.ChatsKey(), s.deps.Source.Chats())
	cmd := s.thread.init()
	if s.thread.selected() {
		s.navFocused = false
		return tea.Batch(cmd, s.thread.focus())
	}
	return cmd
}

func (s *chatsScreen) Close() {
	s.nav.close()
	s.thread.close()
}

func (s *chatsScreen) SetSize(width, height int) tea.Cmd {
	s.width, s.height = width, height
	return s.thread.setSize(s.threadWidth(), height)
}

func (s *chatsScreen) threadWidth() int {
	w := s.width - s.deps.Theme.NavWidth() - 1
	if w < 20 {
		w = 20
	}
	return w
}

func (s *chatsScreen) chats() []model.Chat {
	chats, _ := bindingData[[]model.Chat](s.nav)
	return chats
}

func (s *chatsScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case EntryMsg:
		if s.nav.apply(msg.Entry) {
			if n := len(s.chats()); s.cursor >= n {
				s.cursor = max(n-1, 0)
			}
		}
		return s, s.thread.apply(msg.Entry)

	case tea.KeyMsg:
		if key.Matches(msg, s.keys.Refresh) {
			s.refresh()
			return s, nil
		}
		if key.Matches(msg, s.keys.Next) || (key.Matches(msg, s.keys.Back) && !s.navFocused) {
			return s, s.toggleFocus()
		}
		if !s.navFocused {
			return s, s.thread.update(msg)
		}
		switch {
		case key.Matches(msg, s.keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, s.keys.Down):
			if s.cursor < len(s.chats())-1 {
				s.cursor++
			}
		case key.Matches(msg, s.keys.Open):
			return s, s.open()
		case key.Matches(msg, s.keys.Back):
			return s, navigateTo(ScreenHome)
		case key.Matches(msg, s.keys.PageUp, s.keys.PageDown):
			return s, s.thread.update(msg)
		}
		return s, nil
	}

	return s, s.thread.update(msg)
}

// refresh refetches the chat list, the open chat and its messages. The
// current data stays on screen until the new data lands.
func (s *chatsScreen) refresh() {
	s.deps.Cache.InvalidatePrefix(resource.ChatsKey())
	if s.thread.selected() {
		s.deps.Cache.Invalidate(resource.MessagesKey(s.thread.chatID))
	}
}

// toggleFocus moves focus between the list and the send form.
func (s *chatsScreen) toggleFocus() tea.Cmd {
	if s.navFocused && s.thread.selected() {
		s.navFocused = false
		return s.thread.focus()
	}
	s.navFocused = true
	s.thread.blur()
	return nil
}

// open replaces the thread with the chat under the cursor.
func (s *chatsScreen) open() tea.Cmd {
	chats := s.chats()
	if s.cursor >= len(chats) {
		return nil
	}
	id := chats[s.cursor].ID
	if s.thread.selected() && s.thread.chatID == id {
		s.navFocused = false
		return s.thread.focus()
	}

	s.thread.close()
	s.thread = newThreadView(s.deps, s.keys, id)
	s.navFocused = false
	return tea.Batch(
		s.thread.init(),
		s.thread.setSize(s.threadWidth(), s.height),
		s.thread.focus(),
	)
}

func (s *chatsScreen) View() string {
	navWidth := s.deps.Theme.NavWidth()
	nav := s.deps.Theme.Nav.Width(navWidth).Height(s.height).MaxHeight(s.height).Render(s.navView(navWidth))
	return lipgloss.JoinHorizontal(lipgloss.Top, nav, " ", s.thread.view())
}

func (s *chatsScreen) navView(width int) string {
	t := s.deps.Theme
	lines := []string{t.Subtitle.Render("chats")}
	switch {
	case s.nav.loading():
		lines = append(lines, components.Placeholder(t, navPlaceholderRows))
	case s.nav.errText() != "":
		lines = append(lines, components.ErrorLine(t, s.nav.errText(), width-2))
	default:
		chats := s.chats()
		if len(chats) == 0 {
			lines = append(lines, t.Placeholder.Render("no chats"))
		}
		for i, c := range chats {
			name := util.Truncate(c.Name, width-4)
			style := t.NavItem
			if i == s.cursor {
				style = t.NavItemSelected
			}
			if s.thread.selected() && s.thread.chatID == c.ID {
				name = "• " + name
			}
			lines = append(lines, style.Render(name))
		}
	}
	if s.notice != "" {
		lines = append(lines, "", t.Help.Render(s.notice))
	}
	return strings.Join(lines, "\n")
}

func (s *chatsScreen) Hints() []components.KeyHint {
	if s.navFocused {
		return hints(s.keys.Up, s.keys.Down, s.keys.Open, s.keys.Next, s.keys.Refresh, s.keys.Profile)
	}
	return hints(s.keys.Submit, s.keys.Next, s.keys.PageUp, s.keys.Refresh, s.keys.Profile)
}
