// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pony-tui/internal/scroll"
)

// =============================================================================
// SCROLL VIEWPORT - Viewport that follows its newest content
// =============================================================================

const (
	frameRate       = 60
	springFrequency = 6.0
	springDamping   = 1.0
)

var viewportIDs atomic.Int64

// ScrollTickMsg fires when a scheduled scroll's settle delay has passed.
type ScrollTickMsg struct {
	ID  int64
	Seq uint64
}

// ScrollFrameMsg advances a smooth scroll animation by one frame.
type ScrollFrameMsg struct {
	ID int64
}

// ScrollViewport wraps a bubbles viewport with a scroll.Synchronizer.
type ScrollViewport struct {
	id       int64
	viewport viewport.Model
	sync     *scroll.Synchronizer
	spring   harmonica.Spring
	content  string

	animating bool
	pos       float64
	vel       float64
	target    float64
}

// NewScrollViewport creates a viewport whose scrolls wait delay before
// running. smooth=false makes every scroll a jump.
func NewScrollViewport(delay time.Duration, smooth bool) *ScrollViewport {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()
	return &ScrollViewport{
		id:       viewportIDs.Add(1),
		viewport: vp,
		sync:     scroll.New(delay, scroll.WithSmooth(smooth)),
		spring:   harmonica.NewSpring(harmonica.FPS(frameRate), springFrequency, springDamping),
	}
}

// ID identifies the viewport in tick messages.
func (s *ScrollViewport) ID() int64 {
	return s.id
}

// SetSize resizes the viewport. A height change schedules a scroll once
// content is attached.
func (s *ScrollViewport) SetSize(width, height int) tea.Cmd {
	s.viewport.Width = width
	s.viewport.Height = height
	if s.content == "" {
		return nil
	}
	return s.observe()
}

// SetContent replaces the content and schedules a scroll when it changed.
func (s *ScrollViewport) SetContent(content string) tea.Cmd {
	s.content = content
	s.viewport.SetContent(content)
	return s.observe()
}

// observe attaches the region on its first content and reports later
// changes to the synchronizer.
func (s *ScrollViewport) observe() tea.Cmd {
	if !s.sync.State().Attached {
		return s.tick(s.sync.Attach(s.viewport.Height, s.content))
	}
	req, ok := s.sync.Observe(s.viewport.Height, s.content)
	if !ok {
		return nil
	}
	return s.tick(req)
}

func (s *ScrollViewport) tick(req scroll.Request) tea.Cmd {
	id, seq := s.id, req.Seq
	return tea.Tick(req.Delay, func(time.Time) tea.Msg {
		return ScrollTickMsg{ID: id, Seq: seq}
	})
}

func (s *ScrollViewport) frame() tea.Cmd {
	id := s.id
	return tea.Tick(time.Second/frameRate, func(time.Time) tea.Msg {
		return ScrollFrameMsg{ID: id}
	})
}

// Update handles scroll ticks, animation frames and user scrolling.
func (s *ScrollViewport) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ScrollTickMsg:
		if msg.ID != s.id {
			return nil
		}
		behavior, ok := s.sync.Fire(msg.Seq)
		if !ok {
			return nil
		}
		return s.apply(behavior)

	case ScrollFrameMsg:
		if msg.ID != s.id || !s.animating {
			return nil
		}
		return s.step()

	case tea.KeyMsg, tea.MouseMsg:
		// User scrolling interrupts an animation and a pending scroll.
		s.animating = false
		s.sync.Cancel()
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (s *ScrollViewport) apply(b scroll.Behavior) tea.Cmd {
	if b == scroll.Instant {
		s.animating = false
		s.viewport.GotoBottom()
		return nil
	}

	s.target = float64(s.maxOffset())
	if s.animating {
		// The running frame chain picks up the new target.
		return nil
	}
	s.pos = float64(s.viewport.YOffset)
	s.vel = 0
	if s.pos >= s.target {
		s.viewport.GotoBottom()
		return nil
	}
	s.animating = true
	return s.frame()
}

func (s *ScrollViewport) step() tea.Cmd {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if math.Abs(s.target-s.pos) < 0.5 && math.Abs(s.vel) < 0.5 {
		s.animating = false
		s.viewport.SetYOffset(int(s.target))
		return nil
	}
	s.viewport.SetYOffset(int(math.Round(s.pos)))
	return s.frame()
}

func (s *ScrollViewport) maxOffset() int {
	if n := s.viewport.TotalLineCount() - s.viewport.Height; n > 0 {
		return n
	}
	return 0
}

// Detach forgets the region; pending ticks are ignored.
func (s *ScrollViewport) Detach() {
	s.sync.Detach()
	s.animating = false
	s.content = ""
	s.viewport.SetContent("")
	s.viewport.GotoTop()
}

// Animating reports whether a smooth scroll is in progress.
func (s *ScrollViewport) Animating() bool {
	return s.animating
}

// AtBottom reports whether the last line is visible.
func (s *ScrollViewport) AtBottom() bool {
	return s.viewport.AtBottom()
}

// YOffset returns the first visible line.
func (s *ScrollViewport) YOffset() int {
	return s.viewport.YOffset
}

// View renders the visible lines.
func (s *ScrollViewport) View() string {
	return s.viewport.View()
}
