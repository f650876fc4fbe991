// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/jeranaias/pony-tui/internal/api"
	"github.com/jeranaias/pony-tui/internal/query"
)

// EntryMsg carries a cache snapshot to the program.
type EntryMsg struct {
	Entry query.Entry
}

// binding is one view's live view of a cache key.
type binding struct {
	key     query.Key
	sub     *query.Subscription
	entry   query.Entry
	present bool
}

// bind subscribes to key and resolves it. An incomplete key is neither
// subscribed nor fetched.
func bind(d *Deps, key query.Key, fetch query.FetchFunc) *binding {
	b := &binding{key: key}
	if !key.Complete() {
		return b
	}
	b.sub = d.Cache.Subscribe(key, func(e query.Entry) {
		d.notify(EntryMsg{Entry: e})
	})
	b.entry, b.present = d.Cache.Resolve(key, fetch, query.Enabled(key.Complete()))
	return b
}

// apply takes e when it is a newer snapshot of the bound key.
func (b *binding) apply(e query.Entry) bool {
	if b == nil || b.sub == nil || !e.Key.Equal(b.key) {
		return false
	}
	if b.present && e.Version <= b.entry.Version {
		return false
	}
	b.entry, b.present = e, true
	return true
}

// enabled reports whether the key was complete.
func (b *binding) enabled() bool {
	return b != nil && b.sub != nil
}

// loading reports whether there is no data and no error to show yet.
func (b *binding) loading() bool {
	return !b.present || (!b.entry.HasData && b.entry.Status != query.StatusError)
}

// errText is the error line to render, or "" when there is none. A failed
// refetch keeps showing the previous data, so errors only render when
// there is no data.
func (b *binding) errText() string {
	if !b.present || b.entry.HasData || b.entry.Err == nil {
		return ""
	}
	return api.UserMessage(b.entry.Err)
}

func (b *binding) close() {
	if b != nil && b.sub != nil {
		b.sub.Close()
	}
}

// bindingData returns the bound data as T.
func bindingData[T any](b *binding) (T, bool) {
	if b == nil || !b.present {
		var zero T
		return zero, false
	}
	return query.Data[T](b.entry)
}
