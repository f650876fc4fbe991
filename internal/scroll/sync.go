// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scroll

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultDelay lets layout settle before scrolling.
const DefaultDelay = 100 * time.Millisecond

// Behavior is how a scroll moves to the bottom.
type Behavior int

const (
	// Instant jumps without animation.
	Instant Behavior = iota
	// Smooth animates the move.
	Smooth
)

// String returns the behavior name.
func (b Behavior) String() string {
	if b == Smooth {
		return "smooth"
	}
	return "instant"
}

// Request is one scheduled scroll.
type Request struct {
	Seq      uint64
	Behavior Behavior
	Delay    time.Duration
}

// State is a snapshot of a synchronizer.
type State struct {
	Attached   bool
	LastHeight int
	Pending    *Request
}

// Synchronizer tracks one scroll region. It only reads content and height;
// it never changes the content, so a scroll cannot trigger another one.
//
// Thread-safe.
type Synchronizer struct {
	mu         sync.Mutex
	delay      time.Duration
	smooth     bool
	attached   bool
	lastHeight int
	lastDigest string
	pending    *Request
	seq        uint64
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithSmooth(false) turns every scheduled scroll into an instant one.
func WithSmooth(enabled bool) Option {
	return func(s *Synchronizer) {
		s.smooth = enabled
	}
}

// New creates a detached synchronizer. delay < 0 selects DefaultDelay.
func New(delay time.Duration, opts ...Option) *Synchronizer {
	if delay < 0 {
		delay = DefaultDelay
	}
	s := &Synchronizer{delay: delay, smooth: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach records the region's first layout and schedules an instant
// scroll. Attaching again resets the region.
func (s *Synchronizer) Attach(height int, content string) Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attached = true
	s.lastHeight = height
	s.lastDigest = Digest(content)
	return s.scheduleLocked(Instant)
}

// Observe compares the region with the last observation and schedules a
// smooth scroll when the content or height changed. Called on an
// unattached region it attaches it like Attach and schedules an instant
// scroll.
func (s *Synchronizer) Observe(height int, content string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	digest := Digest(content)
	if !s.attached {
		s.attached = true
		s.lastHeight = height
		s.lastDigest = digest
		return s.scheduleLocked(Instant), true
	}
	if digest == s.lastDigest && height == s.lastHeight {
		return Request{}, false
	}

	s.lastHeight = height
	s.lastDigest = digest
	behavior := Smooth
	if !s.smooth {
		behavior = Instant
	}
	return s.scheduleLocked(behavior), true
}

// scheduleLocked replaces any pending request.
func (s *Synchronizer) scheduleLocked(b Behavior) Request {
	s.seq++
	req := Request{Seq: s.seq, Behavior: b, Delay: s.delay}
	s.pending = &req
	return req
}

// Fire consumes the pending request if seq still identifies it.
func (s *Synchronizer) Fire(seq uint64) (Behavior, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached || s.pending == nil || s.pending.Seq != seq {
		return Instant, false
	}
	b := s.pending.Behavior
	s.pending = nil
	return b, true
}

// Cancel drops the pending request, if any.
func (s *Synchronizer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// Detach forgets the region. Pending requests will not fire.
func (s *Synchronizer) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attached = false
	s.lastHeight = 0
	s.lastDigest = ""
	s.pending = nil
}

// State returns a snapshot.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{Attached: s.attached, LastHeight: s.lastHeight}
	if s.pending != nil {
		p := *s.pending
		st.Pending = &p
	}
	return st
}

// Digest identifies content for change detection.
func Digest(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
