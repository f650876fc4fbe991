// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/pony-tui/internal/ui/styles"
)

// Field is a labelled single-line input.
type Field struct {
	Label string
	Input textinput.Model
}

// NewField creates a field. secret masks the input.
func NewField(label, placeholder string, secret bool) Field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 256
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return Field{Label: label, Input: ti}
}

// Value returns the raw input.
func (f Field) Value() string {
	return f.Input.Value()
}

// Filled reports whether the input has non-blank content.
func (f Field) Filled() bool {
	return strings.TrimSpace(f.Input.Value()) != ""
}

// Update forwards msg to the input.
func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	var cmd tea.Cmd
	f.Input, cmd = f.Input.Update(msg)
	return f, cmd
}

// View renders label and input.
func (f Field) View(theme *styles.Theme, width int) string {
	box := theme.Input
	if f.Input.Focused() {
		box = theme.InputFocused
	}
	inputWidth := width - theme.Label.GetWidth() - 3
	if inputWidth < 10 {
		inputWidth = 10
	}
	f.Input.Width = inputWidth
	return theme.Label.Render(f.Label) + " " + box.BorderTop(false).BorderBottom(false).BorderLeft(true).BorderRight(true).Render(f.Input.View())
}

// Button renders a submit button, greyed out when disabled.
func Button(theme *styles.Theme, label string, enabled bool) string {
	if enabled {
		return theme.Button.Render(label)
	}
	return theme.ButtonDisabled.Render(label)
}
