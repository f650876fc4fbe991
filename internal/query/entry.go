// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package query

import (
	"context"
	"time"
)

// Status is the lifecycle state of an entry.
type Status int

const (
	// StatusPending means no fetch for the entry has completed yet.
	StatusPending Status = iota
	// StatusSuccess means the latest landed fetch succeeded.
	StatusSuccess
	// StatusError means the latest landed fetch failed.
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// FetchFunc loads the data for a key.
type FetchFunc func(ctx context.Context) (any, error)

// Listener receives a snapshot each time an entry changes. It is called
// from the goroutine that changed the entry, never with the cache locked.
type Listener func(Entry)

// Entry is a point-in-time snapshot of a cached resource.
type Entry struct {
	Key         Key
	Data        any
	HasData     bool // Data was set by at least one successful fetch
	Err         error
	Status      Status
	FetchedAt   time.Time
	Subscribers int
	Stale       bool
	Fetching    bool

	// Version increases with every change to the entry. Listeners may
	// receive snapshots out of order and can use it to drop older ones.
	Version uint64
}

// Data returns the entry's data as T.
func Data[T any](e Entry) (T, bool) {
	var zero T
	if !e.HasData {
		return zero, false
	}
	v, ok := e.Data.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// flight is one issued fetch. done closes when it completes, whether it
// landed or was superseded.
type flight struct {
	gen  uint64
	done chan struct{}
}

// entry is the cache's mutable record for one key. All fields are guarded
// by Cache.mu.
type entry struct {
	key       Key
	data      any
	hasData   bool
	err       error
	status    Status
	fetchedAt time.Time
	stale     bool
	version   uint64

	// resolved is set once a fetch has been issued. Subscribing alone
	// creates an unresolved record.
	resolved bool
	// detached entries were dropped from the cache but may still be
	// referenced by subscriptions or flights.
	detached bool

	fetch    FetchFunc
	gen      uint64
	inflight *flight

	listeners map[uint64]Listener
}

func newEntry(key Key) *entry {
	return &entry{
		key:       append(Key(nil), key...),
		listeners: make(map[uint64]Listener),
	}
}

func (e *entry) snapshot() Entry {
	return Entry{
		Key:         e.key,
		Data:        e.data,
		HasData:     e.hasData,
		Err:         e.err,
		Status:      e.status,
		FetchedAt:   e.fetchedAt,
		Subscribers: len(e.listeners),
		Stale:       e.stale,
		Fetching:    e.inflight != nil,
		Version:     e.version,
	}
}

// notification is a snapshot plus the listeners to deliver it to.
type notification struct {
	entry     Entry
	listeners []Listener
}

func (e *entry) notificationLocked() notification {
	n := notification{entry: e.snapshot()}
	if e.detached {
		return n
	}
	for _, l := range e.listeners {
		if l != nil {
			n.listeners = append(n.listeners, l)
		}
	}
	return n
}

func (n notification) deliver() {
	for _, l := range n.listeners {
		l(n.entry)
	}
}
