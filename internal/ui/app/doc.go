// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model and its screens.
//
// Screens read server data only through the query cache. Each binding
// subscribes to one key and receives EntryMsg values whenever the entry
// changes; a view renders a placeholder, an error line, or the data,
// depending on the latest snapshot it has seen.
//
// Screens:
//   - home: welcome text and links to login and registration
//   - login, register: credential forms
//   - chats: chat list with the selected thread beside it
//   - profile: the signed-in account, with logout
package app
