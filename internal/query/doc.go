// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package query implements the view-driven data synchronization core: a
// keyed cache of remote data with deduplicated fetches, explicit
// invalidation and a one-shot mutation runner.
//
// Views subscribe to a Key and call Resolve on every render. The first
// Resolve for a key starts exactly one fetch; later calls return the cached
// Entry without revalidating. Data changes only when Invalidate is called,
// typically by a Runner after a successful mutation.
//
// # Ordering
//
// Every fetch carries the entry's generation at issue time. When fetches
// overlap, only the most recently issued one may land; older completions
// are discarded. Data is only ever replaced wholesale by a successful
// fetch, so a failed or superseded fetch never clears it.
//
// # Retention
//
// Entries nobody subscribes to are kept in a bounded LRU so revisiting a
// screen is instant. Invalidating an unsubscribed key drops it.
package query
