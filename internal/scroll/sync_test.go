// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package scroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttach_SchedulesInstant(t *testing.T) {
	s := New(DefaultDelay)
	req := s.Attach(10, "a\nb")
	assert.Equal(t, Instant, req.Behavior)
	assert.Equal(t, 100*time.Millisecond, req.Delay)

	b, ok := s.Fire(req.Seq)
	require.True(t, ok)
	assert.Equal(t, Instant, b)

	// Fired requests are consumed.
	_, ok = s.Fire(req.Seq)
	assert.False(t, ok)
}

func TestObserve_ChangesScheduleSmooth(t *testing.T) {
	s := New(DefaultDelay)
	s.Attach(10, "a")

	_, ok := s.Observe(10, "a")
	assert.False(t, ok, "unchanged content schedules nothing")

	req, ok := s.Observe(10, "a\nb")
	require.True(t, ok)
	assert.Equal(t, Smooth, req.Behavior)

	req, ok = s.Observe(12, "a\nb")
	require.True(t, ok, "height change schedules")
	assert.Equal(t, Smooth, req.Behavior)
}

func TestObserve_NewScheduleCancelsPending(t *testing.T) {
	s := New(DefaultDelay)
	first := s.Attach(10, "a")
	second, ok := s.Observe(10, "b")
	require.True(t, ok)

	_, ok = s.Fire(first.Seq)
	assert.False(t, ok, "superseded request must not fire")

	b, ok := s.Fire(second.Seq)
	assert.True(t, ok)
	assert.Equal(t, Smooth, b)
}

func TestObserve_BeforeAttachAttaches(t *testing.T) {
	s := New(DefaultDelay)
	req, ok := s.Observe(5, "x")
	require.True(t, ok)
	assert.Equal(t, Instant, req.Behavior)
	assert.True(t, s.State().Attached)
}

func TestDetach_DropsPending(t *testing.T) {
	s := New(DefaultDelay)
	req := s.Attach(10, "a")
	s.Detach()

	_, ok := s.Fire(req.Seq)
	assert.False(t, ok)
	st := s.State()
	assert.False(t, st.Attached)
	assert.Nil(t, st.Pending)
}

func TestCancel(t *testing.T) {
	s := New(DefaultDelay)
	req := s.Attach(10, "a")
	s.Cancel()
	_, ok := s.Fire(req.Seq)
	assert.False(t, ok)
	assert.True(t, s.State().Attached)
}

func TestWithSmoothDisabled(t *testing.T) {
	s := New(0, WithSmooth(false))
	s.Attach(10, "a")
	req, ok := s.Observe(10, "b")
	require.True(t, ok)
	assert.Equal(t, Instant, req.Behavior)
	assert.Equal(t, time.Duration(0), req.Delay)
}

func TestNew_NegativeDelayUsesDefault(t *testing.T) {
	req := New(-1).Attach(1, "")
	assert.Equal(t, DefaultDelay, req.Delay)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, Digest("abc"), Digest("abc"))
	assert.NotEqual(t, Digest("abc"), Digest("abd"))
	assert.Len(t, Digest(""), 64)
}
