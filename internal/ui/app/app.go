// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pony-tui/internal/logging"
	"github.com/jeranaias/pony-tui/internal/model"
	"github.com/jeranaias/pony-tui/internal/resource"
	"github.com/jeranaias/pony-tui/internal/ui/components"
)

// =============================================================================
// ROOT MODEL
// =============================================================================

// Model is the root Bubble Tea model. It owns the current screen and the
// header, and routes cache notifications to both.
type Model struct {
	deps   *Deps
	keys   KeyMap
	header *components.Header
	screen Screen

	// me tracks ["users","me"] for the header while logged in.
	me *binding

	width  int
	height int
}

// New creates the root model. It starts on the chats screen when the
// session already holds a credential.
func New(deps *Deps) *Model {
	m := &Model{
		deps:   deps,
		keys:   DefaultKeyMap(),
		header: components.NewHeader(deps.Theme),
		width:  80,
		height: 24,
	}
	if _, ok := deps.Session.Credential(); ok {
		m.screen = newChatsScreen(deps, m.keys, "", "")
	} else {
		m.screen = newHomeScreen(deps, m.keys, "")
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.bindMe()
	return m.screen.Init()
}

// Screen returns the current screen.
func (m *Model) Screen() Screen {
	return m.screen
}

// Close releases every subscription. Call it after the program exits.
func (m *Model) Close() {
	m.screen.Close()
	m.me.close()
	m.me = nil
}

func (m *Model) bindMe() {
	m.me.close()
	m.me = nil
	if _, ok := m.deps.Session.Credential(); !ok {
		return
	}
	m.me = bind(m.deps, resource.MeKey(), m.deps.Source.Me())
	m.syncHeader()
}

func (m *Model) syncHeader() {
	m.header.User = ""
	if user, ok := bindingData[model.User](m.me); ok {
		m.header.User = user.Username
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.deps.Theme.SetSize(msg.Width, msg.Height)
		m.header.SetWidth(msg.Width)
		return m, m.screen.SetSize(m.bodySize())

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if _, ok := m.deps.Session.Credential(); ok {
			switch {
			case key.Matches(msg, m.keys.Chats) && m.screen.ID() != ScreenChats:
				return m, m.navigate(NavigateMsg{To: ScreenChats})
			case key.Matches(msg, m.keys.Profile) && m.screen.ID() != ScreenProfile:
				return m, m.navigate(NavigateMsg{To: ScreenProfile})
			}
		}

	case EntryMsg:
		if m.me.apply(msg.Entry) {
			m.syncHeader()
		}

	case NavigateMsg:
		return m, m.navigate(msg)

	case LogoutMsg:
		return m, m.logout()
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

// navigate replaces the screen. Screens that need a session fall back to
// login when there is none.
func (m *Model) navigate(msg NavigateMsg) tea.Cmd {
	_, loggedIn := m.deps.Session.Credential()
	if !loggedIn && (msg.To == ScreenChats || msg.To == ScreenProfile) {
		msg = NavigateMsg{To: ScreenLogin, Notice: "please log in"}
	}
	if loggedIn && m.me == nil {
		m.bindMe()
	}

	logging.Debug().Str("from", m.screen.ID().String()).Str("to", msg.To.String()).Msg("navigate")
	m.screen.Close()
	switch msg.To {
	case ScreenLogin:
		m.screen = newLoginScreen(m.deps, m.keys, msg.Notice)
	case ScreenRegister:
		m.screen = newRegisterScreen(m.deps, m.keys)
	case ScreenChats:
		m.screen = newChatsScreen(m.deps, m.keys, msg.ChatID, msg.Notice)
	case ScreenProfile:
		m.screen = newProfileScreen(m.deps, m.keys)
	default:
		m.screen = newHomeScreen(m.deps, m.keys, msg.Notice)
	}
	return tea.Batch(m.screen.Init(), m.screen.SetSize(m.bodySize()))
}

// logout closes every subscription before the session change clears the
// cache, so no view is left holding a detached entry.
func (m *Model) logout() tea.Cmd {
	m.screen.Close()
	m.me.close()
	m.me = nil
	m.header.User = ""

	m.deps.Session.Logout()

	m.screen = newHomeScreen(m.deps, m.keys, "logged out")
	return tea.Batch(m.screen.Init(), m.screen.SetSize(m.bodySize()))
}

// bodySize is the space left for the screen under the header and above
// the footer.
func (m *Model) bodySize() (int, int) {
	frameW, frameH := m.deps.Theme.App.GetFrameSize()
	w := m.width - frameW
	h := m.height - frameH - 2
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	return w, h
}

// View implements tea.Model.
func (m *Model) View() string {
	w, h := m.bodySize()
	body := lipgloss.NewStyle().Width(w).Height(h).MaxHeight(h).Render(m.screen.View())
	footer := components.HelpLine(m.deps.Theme, append(m.screen.Hints(), hints(m.keys.Quit)...)...)
	return m.deps.Theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, footer))
}

// runAsync runs call on a command goroutine.
func runAsync(call func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return call(context.Background())
	}
}
