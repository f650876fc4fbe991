// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/pony-tui/internal/api"
	"github.com/jeranaias/pony-tui/internal/query"
	"github.com/jeranaias/pony-tui/internal/resource"
	"github.com/jeranaias/pony-tui/internal/scroll"
	"github.com/jeranaias/pony-tui/internal/session"
	"github.com/jeranaias/pony-tui/internal/ui/styles"
)

// Deps are the services shared by every screen.
type Deps struct {
	Client  *api.Client
	Cache   *query.Cache
	Runner  *query.Runner
	Session *session.Store
	Theme   *styles.Theme
	Source  resource.Source

	// ScrollDelay and SmoothScroll configure message list scrolling.
	ScrollDelay  time.Duration
	SmoothScroll bool

	mu   sync.RWMutex
	send func(tea.Msg)
}

// NewDeps wires the services with default scroll settings. Session
// changes clear the cache.
func NewDeps(client *api.Client, cache *query.Cache, sess *session.Store, theme *styles.Theme) *Deps {
	resource.ClearOnSessionChange(sess, cache)
	return &Deps{
		Client:       client,
		Cache:        cache,
		Runner:       query.NewRunner(cache),
		Session:      sess,
		Theme:        theme,
		Source:       resource.Source{Client: client, Creds: sess},
		ScrollDelay:  scroll.DefaultDelay,
		SmoothScroll: true,
	}
}

// SetSend sets how cache notifications reach the program, normally
// (*tea.Program).Send. Until it is set notifications are dropped.
func (d *Deps) SetSend(send func(tea.Msg)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.send = send
}

// notify delivers msg without blocking. Listeners can run on the Update
// goroutine, where a blocking Send would deadlock the program.
func (d *Deps) notify(msg tea.Msg) {
	d.mu.RLock()
	send := d.send
	d.mu.RUnlock()
	if send != nil {
		go send(msg)
	}
}

