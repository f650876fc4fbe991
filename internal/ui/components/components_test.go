// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pony-tui/internal/ui/styles"
)

func lines(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line %d", i)
	}
	return strings.Join(out, "\n")
}

// =============================================================================
// SCROLL VIEWPORT TESTS
// =============================================================================

func TestScrollViewport_FirstContentJumps(t *testing.T) {
	sv := NewScrollViewport(0, true)
	sv.SetSize(40, 5)

	cmd := sv.SetContent(lines(30))
	require.NotNil(t, cmd)
	msg := cmd()
	tick, ok := msg.(ScrollTickMsg)
	require.True(t, ok)
	assert.Equal(t, sv.ID(), tick.ID)

	assert.Nil(t, sv.Update(tick))
	assert.True(t, sv.AtBottom())
	assert.False(t, sv.Animating())
}

func TestScrollViewport_NewContentAnimates(t *testing.T) {
	sv := NewScrollViewport(0, true)
	sv.SetSize(40, 5)
	sv.Update(sv.SetContent(lines(10))())
	require.True(t, sv.AtBottom())

	cmd := sv.SetContent(lines(40))
	require.NotNil(t, cmd)
	frame := sv.Update(cmd())
	require.NotNil(t, frame, "smooth scroll should start animating")
	assert.True(t, sv.Animating())

	// Drive frames until the spring settles.
	for i := 0; i < 600 && sv.Animating(); i++ {
		sv.Update(ScrollFrameMsg{ID: sv.ID()})
	}
	assert.False(t, sv.Animating())
	assert.True(t, sv.AtBottom())
}

func TestScrollViewport_SmoothRetargetKeepsOneFrameChain(t *testing.T) {
	sv := NewScrollViewport(0, true)
	sv.SetSize(40, 5)
	sv.Update(sv.SetContent(lines(10))())

	require.NotNil(t, sv.Update(sv.SetContent(lines(40))()))
	require.True(t, sv.Animating())
	require.NotNil(t, sv.Update(ScrollFrameMsg{ID: sv.ID()}))

	// More content while animating moves the target only.
	assert.Nil(t, sv.Update(sv.SetContent(lines(80))()))
	assert.True(t, sv.Animating())

	for i := 0; i < 1200 && sv.Animating(); i++ {
		sv.Update(ScrollFrameMsg{ID: sv.ID()})
	}
	assert.False(t, sv.Animating())
	assert.True(t, sv.AtBottom())
	assert.Equal(t, 75, sv.YOffset())
}

func TestScrollViewport_UnchangedContentSchedulesNothing(t *testing.T) {
	sv := NewScrollViewport(0, true)
	sv.SetSize(40, 5)
	sv.Update(sv.SetContent(lines(10))())
	assert.Nil(t, sv.SetContent(lines(10)))
}

func TestScrollViewport_SupersededTickIgnored(t *testing.T) {
	sv := NewScrollViewport(0, false)
	sv.SetSize(40, 5)
	first := sv.SetContent(lines(10))().(ScrollTickMsg)
	second := sv.SetContent(lines(20))().(ScrollTickMsg)

	sv.Update(first)
	assert.Equal(t, 0, sv.YOffset(), "superseded tick must not scroll")
	sv.Update(second)
	assert.True(t, sv.AtBottom())
}

func TestScrollViewport_UserScrollCancelsPending(t *testing.T) {
	sv := NewScrollViewport(0, true)
	sv.SetSize(40, 5)
	sv.Update(sv.SetContent(lines(30))())
	require.True(t, sv.AtBottom())

	tick := sv.SetContent(lines(60))().(ScrollTickMsg)
	sv.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	offset := sv.YOffset()

	assert.Nil(t, sv.Update(tick))
	assert.Equal(t, offset, sv.YOffset())
	assert.False(t, sv.Animating())
}

func TestScrollViewport_DetachIgnoresPending(t *testing.T) {
	sv := NewScrollViewport(0, true)
	sv.SetSize(40, 5)
	tick := sv.SetContent(lines(30))().(ScrollTickMsg)
	sv.Detach()
	assert.Nil(t, sv.Update(tick))
	assert.Equal(t, 0, sv.YOffset())
}

func TestScrollViewport_OtherIDIgnored(t *testing.T) {
	a := NewScrollViewport(0, true)
	b := NewScrollViewport(0, true)
	a.SetSize(40, 5)
	tick := a.SetContent(lines(30))().(ScrollTickMsg)
	assert.Nil(t, b.Update(tick))
	assert.NotEqual(t, a.ID(), b.ID())
}

// =============================================================================
// DISPLAY COMPONENT TESTS
// =============================================================================

func TestPlaceholder(t *testing.T) {
	theme := styles.NewTheme("dark")
	out := Placeholder(theme, 3)
	assert.Equal(t, 3, strings.Count(out, LoadingText))
}

func TestErrorLine(t *testing.T) {
	theme := styles.NewTheme("dark")
	assert.Contains(t, ErrorLine(theme, "bad credentials", 0), "bad credentials")
	assert.Equal(t, "", ErrorLine(theme, "", 0))
	assert.NotContains(t, ErrorLine(theme, "a very long error message", 8), "message")
}

func TestHeader(t *testing.T) {
	theme := styles.NewTheme("dark")
	h := NewHeader(theme)
	h.SetWidth(60)
	assert.Contains(t, h.View(), "not signed in")
	h.User = "alice"
	assert.Contains(t, h.View(), "@alice")
}

func TestField(t *testing.T) {
	f := NewField("password", "", true)
	assert.False(t, f.Filled())
	f.Input.SetValue("secret")
	assert.True(t, f.Filled())
	assert.Equal(t, "secret", f.Value())
	assert.NotContains(t, f.View(styles.NewTheme("dark"), 60), "secret")
}

func TestSpinner(t *testing.T) {
	s := NewSpinner("sending")
	assert.Equal(t, "", s.View())
	require.NotNil(t, s.Start())
	assert.Contains(t, s.View(), "sending")
	s.Stop()
	assert.False(t, s.Active())
}
