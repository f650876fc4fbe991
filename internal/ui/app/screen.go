// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/pony-tui/internal/ui/components"
)

// Screen is one page of the application.
type Screen interface {
	ID() ScreenID
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int) tea.Cmd
	Hints() []components.KeyHint

	// Close releases the screen's cache subscriptions.
	Close()
}

// =============================================================================
// FORM
// =============================================================================

// form is a list of fields with one focused.
type form struct {
	fields []components.Field
	focus  int
}

func newForm(fields ...components.Field) *form {
	return &form{fields: fields}
}

// focusField moves focus to field i.
func (f *form) focusField(i int) tea.Cmd {
	n := len(f.fields)
	f.focus = ((i % n) + n) % n
	for j := range f.fields {
		f.fields[j].Input.Blur()
	}
	return f.fields[f.focus].Input.Focus()
}

func (f *form) next() tea.Cmd { return f.focusField(f.focus + 1) }
func (f *form) prev() tea.Cmd { return f.focusField(f.focus - 1) }

// filled reports whether every field has content.
func (f *form) filled() bool {
	for _, field := range f.fields {
		if !field.Filled() {
			return false
		}
	}
	return true
}

func (f *form) value(i int) string {
	return f.fields[i].Value()
}

// update forwards msg to the focused field.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	return cmd
}

func (f *form) blur() {
	for j := range f.fields {
		f.fields[j].Input.Blur()
	}
}
