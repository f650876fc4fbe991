// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scroll keeps a scrollable region pinned to its newest content.
//
// A Synchronizer watches one region. The first Attach schedules an instant
// jump to the bottom; afterwards Observe schedules a smooth scroll whenever
// the content digest or height changes. Each schedule is a Request with a
// sequence number and a settle delay. The caller arms a timer for the delay
// and calls Fire with the sequence number when it expires; superseded or
// detached requests report nothing.
//
// The package has no UI dependency. The terminal UI delivers requests as
// Bubble Tea ticks and applies the behavior to a viewport.
package scroll
