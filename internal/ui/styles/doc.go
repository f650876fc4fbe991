// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the pony TUI.

All colors use Lip Gloss AdaptiveColor so the same palette works on light
and dark terminals.

# Color System (colors.go)

  - Purple - Primary accent: titles, selected chat
  - Cyan - Brand color: header, usernames, focused inputs
  - Emerald - Success states
  - Amber - Warnings and pending sends
  - Rose - Errors

Text uses TextPrimary, TextSecondary and TextMuted (timestamps, hints).

# Theme (theme.go)

Theme bundles the lipgloss styles used by screens and components. The
background is detected with termenv unless the ui.theme setting forces
"dark" or "light".

	theme := styles.NewTheme("auto")
	header := theme.Header.Render("pony express")
*/
package styles
