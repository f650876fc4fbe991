// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pony-tui/internal/api"
	"github.com/jeranaias/pony-tui/internal/model"
	"github.com/jeranaias/pony-tui/internal/query"
	"github.com/jeranaias/pony-tui/internal/resource"
	"github.com/jeranaias/pony-tui/internal/ui/components"
)

// Lines used by the thread around the message list.
const (
	cardHeight = 3
	formHeight = 2
)

// threadView shows one chat: its card, its messages and a send form.
// With no chat selected it shows a welcome text and fetches nothing.
type threadView struct {
	deps   *Deps
	keys   KeyMap
	chatID model.ID

	chat     *binding
	messages *binding

	list    *components.ScrollViewport
	input   components.Field
	spinner components.Spinner
	pending bool
	err     string

	width  int
	height int
}

func newThreadView(deps *Deps, keys KeyMap, chatID model.ID) *threadView {
	return &threadView{
		deps:    deps,
		keys:    keys,
		chatID:  chatID,
		list:    components.NewScrollViewport(deps.ScrollDelay, deps.SmoothScroll),
		input:   components.NewField("message", "say something", false),
		spinner: components.NewSpinner("sending"),
	}
}

// init binds the thread's keys.
func (v *threadView) init() tea.Cmd {
	src, id := v.deps.Source, v.chatID
	v.chat = bind(v.deps, resource.ChatKey(id), src.Chat(id))
	v.messages = bind(v.deps, resource.MessagesKey(id), src.Messages(id))
	return v.syncList()
}

func (v *threadView) close() {
	v.chat.close()
	v.messages.close()
	v.list.Detach()
}

func (v *threadView) selected() bool {
	return v.chat.enabled()
}

func (v *threadView) focus() tea.Cmd {
	return v.input.Input.Focus()
}

func (v *threadView) blur() {
	v.input.Input.Blur()
}

func (v *threadView) setSize(width, height int) tea.Cmd {
	v.width, v.height = width, height
	listHeight := height - cardHeight - formHeight - 1
	if listHeight < 1 {
		listHeight = 1
	}
	cmd := v.list.SetSize(width, listHeight)
	return tea.Batch(cmd, v.syncList())
}

// apply takes a cache snapshot and returns the scroll it schedules.
func (v *threadView) apply(e query.Entry) tea.Cmd {
	v.chat.apply(e)
	if v.messages.apply(e) {
		return v.syncList()
	}
	return nil
}

// syncList renders the messages into the viewport. Without data the
// viewport keeps what it has.
func (v *threadView) syncList() tea.Cmd {
	msgs, ok := bindingData[[]model.Message](v.messages)
	if !ok {
		return nil
	}
	return v.list.SetContent(v.renderMessages(msgs))
}

func (v *threadView) renderMessages(msgs []model.Message) string {
	t := v.deps.Theme
	if len(msgs) == 0 {
		return t.Placeholder.Render("no messages yet")
	}
	width := v.width
	if width < 20 {
		width = 20
	}
	rows := make([]string, 0, len(msgs))
	for _, m := range msgs {
		line := t.Author.Render(m.AuthorName()+":") + " " + t.MessageText.Render(m.Text)
		stamp := t.Timestamp.Render(model.FormatMessageTime(m.CreatedAt.Time))
		rows = append(rows, lipgloss.NewStyle().Width(width).Render(line)+"\n"+stamp)
	}
	return strings.Join(rows, "\n")
}

func (v *threadView) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sendResultMsg:
		if msg.chatID != v.chatID {
			return nil
		}
		v.pending = false
		v.spinner.Stop()
		if !msg.outcome.OK() {
			v.err = api.UserMessage(msg.outcome.Err)
			return nil
		}
		v.err = ""
		v.input.Input.Reset()
		return nil

	case components.ScrollTickMsg, components.ScrollFrameMsg:
		return v.list.Update(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Submit):
			return v.send()
		case key.Matches(msg, v.keys.PageUp, v.keys.PageDown):
			return v.list.Update(msg)
		}
		if v.pending {
			return nil
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return cmd

	case tea.MouseMsg:
		return v.list.Update(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.spinner, cmd = v.spinner.Update(msg)
	cmds = append(cmds, cmd)
	v.input, cmd = v.input.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// send runs the send mutation. The form is disabled until it returns.
func (v *threadView) send() tea.Cmd {
	if !v.selected() || v.pending {
		return nil
	}
	text := model.NormalizeText(v.input.Value())
	if text == "" {
		return nil
	}

	v.pending = true
	v.err = ""
	runner, id := v.deps.Runner, v.chatID
	req := v.deps.Source.SendMessage(id, text)
	return tea.Batch(v.spinner.Start(), runAsync(func(ctx context.Context) tea.Msg {
		return sendResultMsg{chatID: id, outcome: runner.Run(ctx, req)}
	}))
}

func (v *threadView) view() string {
	t := v.deps.Theme
	if !v.selected() {
		return t.Title.Render("welcome to pony express") + "\n\n" +
			t.Subtitle.Render("select a chat on the left to start talking")
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.cardView(), v.listView(), v.formView())
}

func (v *threadView) cardView() string {
	t := v.deps.Theme
	var body string
	switch {
	case v.chat.loading():
		body = components.Placeholder(t, 1)
	case v.chat.errText() != "":
		body = components.ErrorLine(t, v.chat.errText(), v.width)
	default:
		c, _ := bindingData[model.Chat](v.chat)
		body = t.Title.Render(c.Name) + "\n" +
			t.Subtitle.Render(fmt.Sprintf("created %s • %d members", model.FormatDate(c.CreatedAt.Time), len(c.UserIDs)))
	}
	return lipgloss.NewStyle().Height(cardHeight).MaxHeight(cardHeight).Render(body)
}

func (v *threadView) listView() string {
	t := v.deps.Theme
	switch {
	case v.messages.loading():
		return components.Placeholder(t, 3)
	case v.messages.errText() != "":
		return components.ErrorLine(t, v.messages.errText(), v.width)
	}
	return v.list.View()
}

func (v *threadView) formView() string {
	t := v.deps.Theme
	enabled := !v.pending && v.input.Filled()
	line := v.input.View(t, v.width-10) + " " + components.Button(t, "send", enabled)
	status := ""
	switch {
	case v.pending:
		status = v.spinner.View()
	case v.err != "":
		status = components.ErrorLine(t, v.err, v.width)
	}
	return line + "\n" + status
}
