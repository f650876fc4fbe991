// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme_ForcedModes(t *testing.T) {
	if !NewTheme("dark").IsDark {
		t.Error("dark theme should report IsDark")
	}
	if NewTheme("LIGHT").IsDark {
		t.Error("light theme should not report IsDark")
	}
}

func TestThemeStylesRender(t *testing.T) {
	theme := NewTheme("dark")
	tests := []struct {
		name     string
		rendered string
		want     string
	}{
		{"Header", theme.Header.Render("pony"), "pony"},
		{"NavItem", theme.NavItem.Render("general"), "general"},
		{"ErrorLine", theme.ErrorLine.Render("bad credentials"), "bad credentials"},
		{"Card", theme.Card.Render("general"), "general"},
		{"MessageText", theme.MessageText.Render("hi"), "hi"},
	}
	for _, tt := range tests {
		if !strings.Contains(tt.rendered, tt.want) {
			t.Errorf("%s: %q does not contain %q", tt.name, tt.rendered, tt.want)
		}
	}
}

func TestLayoutModes(t *testing.T) {
	theme := NewTheme("dark")
	tests := []struct {
		width int
		mode  LayoutMode
		nav   int
	}{
		{40, LayoutNarrow, 16},
		{80, LayoutMedium, 22},
		{140, LayoutWide, 30},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.mode {
			t.Errorf("width %d: mode = %v, want %v", tt.width, got, tt.mode)
		}
		if got := theme.NavWidth(); got != tt.nav {
			t.Errorf("width %d: nav = %d, want %d", tt.width, got, tt.nav)
		}
	}
}
