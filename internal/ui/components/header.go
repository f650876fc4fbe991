// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pony-tui/internal/ui/styles"
	"github.com/jeranaias/pony-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar.
type Header struct {
	Title string
	User  string // signed-in username, empty when logged out
	Width int
	theme *styles.Theme
}

// NewHeader creates a header with the default title.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Title: "pony express", Width: 80, theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header on one line.
func (h *Header) View() string {
	left := h.Title
	right := "not signed in"
	if h.User != "" {
		right = "@" + h.User
	}

	inner := h.Width - 2
	if inner < 1 {
		inner = 1
	}
	gap := inner - util.Width(left) - util.Width(right)
	if gap < 1 {
		right = util.Truncate(right, inner-util.Width(left)-1)
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return h.theme.Header.Width(h.Width).MaxWidth(h.Width).Render(util.Truncate(line, inner))
}

// =============================================================================
// FOOTER HELP
// =============================================================================

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key  string
	Desc string
}

// HelpLine renders key hints separated by dots.
func HelpLine(theme *styles.Theme, hints ...KeyHint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = lipgloss.NewStyle().Bold(true).Render(h.Key) + " " + h.Desc
	}
	return theme.Help.Render(strings.Join(parts, " • "))
}
